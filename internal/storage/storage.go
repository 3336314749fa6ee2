package storage

import (
	"context"

	"github.com/pkg/errors"
)

// Keys under which the session is persisted.
const (
	TokenKey = "clevo_token"
	UserKey  = "clevo_user"
)

// ErrNotFound indicates a key has no stored value.
var ErrNotFound = errors.New("record not found")

// Store captures the durable key/value operations the session needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
