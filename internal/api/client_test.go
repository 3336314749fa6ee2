package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/clevo-client/internal/clienterr"
	"github.com/hongminglow/clevo-client/internal/middleware"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/models/dto"
)

type staticCreds string

func (s staticCreds) AuthHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	if s != "" {
		h.Set("Authorization", "Bearer "+string(s))
	}
	return h
}

type recorded struct {
	method, path, auth, requestID string
	body                          map[string]any
}

type backend struct {
	mu       sync.Mutex
	requests []recorded
	status   int
	reply    string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recorded{
		method:    r.Method,
		path:      r.URL.Path,
		auth:      r.Header.Get("Authorization"),
		requestID: r.Header.Get(middleware.RequestIDHeader),
	}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &rec.body)
	}
	b.mu.Lock()
	b.requests = append(b.requests, rec)
	status, reply := b.status, b.reply
	b.mu.Unlock()
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = io.WriteString(w, reply)
}

func (b *backend) last(t *testing.T) recorded {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.requests)
	return b.requests[len(b.requests)-1]
}

func newTestClient(t *testing.T, token string) (*Client, *backend, *httptest.Server) {
	t.Helper()
	b := &backend{}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	c := New(srv.URL+"/api", staticCreds(token), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	return c, b, srv
}

func TestEndpointsMapToRoutes(t *testing.T) {
	ctx := context.Background()
	qty := 3.5
	tests := []struct {
		name   string
		reply  string
		invoke func(c *Client) error
		method string
		path   string
		body   map[string]any
	}{
		{"citizen slots", `[]`, func(c *Client) error { _, err := c.Citizen().ListSlots(ctx); return err }, "GET", "/api/citizen/slots", nil},
		{"citizen bookings", `[]`, func(c *Client) error { _, err := c.Citizen().ListBookings(ctx); return err }, "GET", "/api/citizen/bookings", nil},
		{"book slot", `{"id":"b1"}`, func(c *Client) error {
			_, err := c.Citizen().BookSlot(ctx, dto.BookingRequest{SlotID: "s1", WasteCategoryID: "c1", EstimatedQuantity: 4})
			return err
		}, "POST", "/api/citizen/book", map[string]any{"slotId": "s1", "wasteCategoryId": "c1", "estimatedQuantity": 4.0}},
		{"total rewards", `12.5`, func(c *Client) error { _, err := c.Citizen().TotalRewards(ctx); return err }, "GET", "/api/citizen/rewards/total", nil},
		{"available rewards", `[]`, func(c *Client) error { _, err := c.Citizen().AvailableRewards(ctx); return err }, "GET", "/api/citizen/rewards/available", nil},
		{"citizen categories", `[]`, func(c *Client) error { _, err := c.Citizen().ListWasteCategories(ctx); return err }, "GET", "/api/citizen/waste-categories", nil},
		{"recycler slots", `[]`, func(c *Client) error { _, err := c.Recycler().ListSlots(ctx, "r 1"); return err }, "GET", "/api/recycler/slots/r 1", nil},
		{"create slot", `{}`, func(c *Client) error {
			_, err := c.Recycler().CreateSlot(ctx, dto.SlotRequest{WardID: "w1", Capacity: 5})
			return err
		}, "POST", "/api/recycler/slots", nil},
		{"update slot", `{}`, func(c *Client) error {
			_, err := c.Recycler().UpdateSlot(ctx, "s1", dto.SlotRequest{WardID: "w1", Capacity: 5})
			return err
		}, "PUT", "/api/recycler/slots/s1", nil},
		{"delete slot", ``, func(c *Client) error { return c.Recycler().DeleteSlot(ctx, "s1") }, "DELETE", "/api/recycler/slots/s1", nil},
		{"bookings by ward", `[]`, func(c *Client) error { _, err := c.Recycler().BookingsByWard(ctx, "w1"); return err }, "GET", "/api/recycler/bookings/ward/w1", nil},
		{"bookings by slot", `[]`, func(c *Client) error { _, err := c.Recycler().BookingsBySlot(ctx, "s1"); return err }, "GET", "/api/recycler/bookings/slot/s1", nil},
		{"update status", `ok`, func(c *Client) error {
			_, err := c.Recycler().UpdateBookingStatus(ctx, "b1", dto.UpdateBookingStatusRequest{Status: models.StatusCollected, ActualQuantity: &qty})
			return err
		}, "PUT", "/api/recycler/bookings/b1/status", map[string]any{"status": "COLLECTED", "actualQuantity": 3.5}},
		{"recycler wards", `[]`, func(c *Client) error { _, err := c.Recycler().ListWards(ctx); return err }, "GET", "/api/wards", nil},
		{"users", `[]`, func(c *Client) error { _, err := c.Authority().ListUsers(ctx); return err }, "GET", "/api/authority/users", nil},
		{"activate", `{}`, func(c *Client) error { _, err := c.Authority().ActivateUser(ctx, "u1"); return err }, "PUT", "/api/authority/users/u1/activate", nil},
		{"deactivate", `{}`, func(c *Client) error { _, err := c.Authority().DeactivateUser(ctx, "u1"); return err }, "PUT", "/api/authority/users/u1/deactivate", nil},
		{"authority wards", `[]`, func(c *Client) error { _, err := c.Authority().ListWards(ctx); return err }, "GET", "/api/authority/wards", nil},
		{"add ward", `{}`, func(c *Client) error {
			_, err := c.Authority().AddWard(ctx, dto.WardRequest{Name: "North", Description: "d"})
			return err
		}, "POST", "/api/authority/wards", map[string]any{"name": "North", "description": "d"}},
		{"authority categories", `[]`, func(c *Client) error { _, err := c.Authority().ListWasteCategories(ctx); return err }, "GET", "/api/authority/waste-categories", nil},
		{"add category", `{}`, func(c *Client) error {
			_, err := c.Authority().AddWasteCategory(ctx, dto.WasteCategoryRequest{Name: "Glass", Description: "d", EcoPointsPerUnit: 2})
			return err
		}, "POST", "/api/authority/waste-categories", map[string]any{"name": "Glass", "description": "d", "ecoPointsPerUnit": 2.0}},
		{"waste trend", `[]`, func(c *Client) error { _, err := c.Authority().WasteTrend(ctx); return err }, "GET", "/api/authority/dashboard/waste-trend", nil},
		{"waste by type", `[]`, func(c *Client) error { _, err := c.Authority().WasteByType(ctx); return err }, "GET", "/api/authority/dashboard/waste-by-type", nil},
		{"waste by region", `[]`, func(c *Client) error { _, err := c.Authority().WasteByRegion(ctx); return err }, "GET", "/api/authority/dashboard/waste-by-region", nil},
		{"eco points", `[]`, func(c *Client) error { _, err := c.Authority().EcoPointsDistribution(ctx); return err }, "GET", "/api/authority/dashboard/eco-points-distribution", nil},
		{"shared wards", `[]`, func(c *Client) error { _, err := c.Wards().List(ctx); return err }, "GET", "/api/wards", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, b, _ := newTestClient(t, "T")
			b.reply = tt.reply

			require.NoError(t, tt.invoke(c))

			got := b.last(t)
			assert.Equal(t, tt.method, got.method)
			assert.Equal(t, tt.path, got.path)
			assert.Equal(t, "Bearer T", got.auth)
			assert.NotEmpty(t, got.requestID)
			if tt.body != nil {
				assert.Equal(t, tt.body, got.body)
			}
			assert.Len(t, b.requests, 1, "exactly one request per call")
		})
	}
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	c, b, _ := newTestClient(t, "")
	b.reply = `[]`
	_, err := c.Wards().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, b.last(t).auth)
}

func TestDecodesTypedResponses(t *testing.T) {
	c, b, _ := newTestClient(t, "T")
	b.reply = `[{"id":"s1","capacity":10,"currentBookingsCount":4,"isActive":true,"startTime":"2026-10-20T09:00:00Z","endTime":"2026-10-20T11:00:00Z","ward":{"id":"w1","name":"North"}}]`

	slots, err := c.Citizen().ListSlots(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, 6, slots[0].SpotsLeft())
	assert.Equal(t, "w1", slots[0].WardID())
	assert.Equal(t, time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC), slots[0].StartTime)

	b.reply = `42.5`
	total, err := c.Citizen().TotalRewards(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 42.5, total, 1e-9)

	b.reply = `Reward redeemed`
	text, err := c.Citizen().RedeemReward(context.Background(), dto.RewardRedeemRequest{RewardID: 2})
	require.NoError(t, err)
	assert.Equal(t, "Reward redeemed", text)
	assert.Equal(t, map[string]any{"rewardId": 2.0}, b.last(t).body)
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
		want   string
	}{
		{"fixed fallback", http.StatusInternalServerError, "oops", "Failed to book slot"},
		{"server message", http.StatusConflict, `{"message":"Slot is fully booked"}`, "Slot is fully booked"},
		{"envelope", http.StatusBadRequest, `{"code":400,"message":"invalid quantity"}`, "invalid quantity"},
		{"error key", http.StatusBadRequest, `{"error":"bad slot"}`, "bad slot"},
		{"blank message", http.StatusBadRequest, `{"message":"  "}`, "Failed to book slot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, b, _ := newTestClient(t, "T")
			b.status, b.reply = tt.status, tt.reply

			_, err := c.Citizen().BookSlot(context.Background(), dto.BookingRequest{SlotID: "s1"})

			var apiErr *clienterr.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, "book slot", apiErr.Op)
			assert.Equal(t, tt.want, apiErr.Message)
		})
	}
}

func TestNetworkError(t *testing.T) {
	c, _, srv := newTestClient(t, "T")
	srv.Close()

	_, err := c.Citizen().ListSlots(context.Background())
	var netErr *clienterr.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "list slots", netErr.Op)
	assert.Equal(t, clienterr.NetworkMessage, clienterr.UserMessage(err))
}

func TestCanceledContextIsNotNetworkError(t *testing.T) {
	c, _, _ := newTestClient(t, "T")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Citizen().ListSlots(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	var netErr *clienterr.NetworkError
	assert.False(t, errors.As(err, &netErr))
}

func TestDecodeError(t *testing.T) {
	c, b, _ := newTestClient(t, "T")
	b.reply = `not json`

	_, err := c.Authority().ListUsers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list users: decode response")
}
