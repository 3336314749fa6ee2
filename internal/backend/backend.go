// Package backend is an in-memory implementation of the Clevo service used by
// the stub server. It enforces the rules the real service owns: slot
// capacity, forward-only booking status, points on collection, and balance
// checks on redemption.
package backend

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrAlreadyExists      = errors.New("record already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactive           = errors.New("account is deactivated")
	ErrForbidden          = errors.New("not allowed")
	ErrSlotFull           = errors.New("slot is fully booked")
	ErrSlotInactive       = errors.New("slot is not accepting bookings")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInsufficientPoints = errors.New("insufficient eco-points")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSlotHasBookings    = errors.New("slot has open bookings")
)

type account struct {
	user         models.User
	passwordHash string
	wardID       string
}

// Backend holds all state behind one mutex.
type Backend struct {
	mu         sync.Mutex
	now        func() time.Time
	hashCost   int
	accounts   map[string]*account
	wards      map[string]*models.Ward
	categories map[string]*models.WasteCategory
	slots      map[string]*models.PickupSlot
	bookings   map[string]*models.Booking
	rewards    map[int64]models.Reward
	points     map[string]float64
}

// Option customizes a Backend.
type Option func(*Backend)

// WithHashCost sets the bcrypt cost; tests lower it.
func WithHashCost(cost int) Option {
	return func(b *Backend) { b.hashCost = cost }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// New returns an empty Backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		now:        time.Now,
		hashCost:   bcrypt.DefaultCost,
		accounts:   map[string]*account{},
		wards:      map[string]*models.Ward{},
		categories: map[string]*models.WasteCategory{},
		slots:      map[string]*models.PickupSlot{},
		bookings:   map[string]*models.Booking{},
		rewards:    map[int64]models.Reward{},
		points:     map[string]float64{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register creates an active account. Citizens must name an existing ward.
func (b *Backend) Register(req dto.RegisterRequest) (models.User, error) {
	if !req.Role.Valid() || strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		return models.User{}, ErrInvalidInput
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), b.hashCost)
	if err != nil {
		return models.User{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.accounts {
		if strings.EqualFold(a.user.Username, req.Username) || strings.EqualFold(a.user.Email, req.Email) {
			return models.User{}, ErrAlreadyExists
		}
	}
	if req.Role == models.Citizen {
		if _, ok := b.wards[req.WardID]; !ok {
			return models.User{}, ErrInvalidInput
		}
	}
	a := &account{
		user: models.User{
			ID:          uuid.NewString(),
			Username:    strings.TrimSpace(req.Username),
			Email:       strings.TrimSpace(req.Email),
			Role:        req.Role,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Address:     req.Address,
			PhoneNumber: req.PhoneNumber,
			Active:      true,
		},
		passwordHash: string(hash),
		wardID:       req.WardID,
	}
	b.accounts[a.user.ID] = a
	return a.user, nil
}

// Authenticate checks a username (or email) and password.
func (b *Backend) Authenticate(identifier, password string) (models.User, error) {
	b.mu.Lock()
	var found *account
	for _, a := range b.accounts {
		if a.user.Username == identifier || a.user.Email == identifier {
			found = a
			break
		}
	}
	b.mu.Unlock()
	if found == nil {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.passwordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if !found.user.Active {
		return models.User{}, ErrInactive
	}
	return found.user, nil
}

// User returns the account with id.
func (b *Backend) User(id string) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return a.user, nil
}

// Users lists every account ordered by username.
func (b *Backend) Users() []models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.User, 0, len(b.accounts))
	for _, a := range b.accounts {
		out = append(out, a.user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// SetActive toggles an account's active flag.
func (b *Backend) SetActive(id string, active bool) (models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.accounts[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	a.user.Active = active
	return a.user, nil
}

// WardOf returns the ward a citizen registered in.
func (b *Backend) WardOf(userID string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a, ok := b.accounts[userID]; ok {
		return a.wardID
	}
	return ""
}

// Wards lists wards ordered by name.
func (b *Backend) Wards() []models.Ward {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Ward, 0, len(b.wards))
	for _, w := range b.wards {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddWard creates a ward owned by authorityID.
func (b *Backend) AddWard(authorityID string, req dto.WardRequest) (models.Ward, error) {
	if strings.TrimSpace(req.Name) == "" {
		return models.Ward{}, ErrInvalidInput
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, w := range b.wards {
		if strings.EqualFold(w.Name, req.Name) {
			return models.Ward{}, ErrAlreadyExists
		}
	}
	w := &models.Ward{ID: uuid.NewString(), Name: req.Name, Description: req.Description}
	if a, ok := b.accounts[authorityID]; ok {
		owner := a.user
		w.Authority = &owner
	}
	b.wards[w.ID] = w
	return *w, nil
}

// Categories lists waste categories ordered by name.
func (b *Backend) Categories() []models.WasteCategory {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.WasteCategory, 0, len(b.categories))
	for _, c := range b.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddCategory creates a waste category.
func (b *Backend) AddCategory(req dto.WasteCategoryRequest) (models.WasteCategory, error) {
	if strings.TrimSpace(req.Name) == "" || req.EcoPointsPerUnit <= 0 {
		return models.WasteCategory{}, ErrInvalidInput
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	c := &models.WasteCategory{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Description:      req.Description,
		EcoPointsPerUnit: req.EcoPointsPerUnit,
	}
	b.categories[c.ID] = c
	return *c, nil
}
