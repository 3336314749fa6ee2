package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealPrefix = "sealed:v1:"
	saltSize   = 16
	nonceSize  = 24
	keySize    = 32
)

// ErrCorrupt indicates a stored value could not be unsealed.
var ErrCorrupt = errors.New("stored value is corrupt")

// Sealed wraps a Store and encrypts the values of selected keys at rest with
// NaCl secretbox. Each value carries its own salt; the key is derived from
// the secret with argon2id.
type Sealed struct {
	inner  Store
	secret []byte
	keys   map[string]bool
}

// NewSealed seals the listed keys of inner with secret.
func NewSealed(inner Store, secret string, keys ...string) *Sealed {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return &Sealed{inner: inner, secret: []byte(secret), keys: set}
}

// Get returns the value for key, unsealing it when key is sealed.
// A value that does not open with the secret yields ErrCorrupt.
func (s *Sealed) Get(ctx context.Context, key string) (string, error) {
	v, err := s.inner.Get(ctx, key)
	if err != nil || !s.keys[key] {
		return v, err
	}
	return s.open(v)
}

// Set stores value, sealing it first when key is sealed.
func (s *Sealed) Set(ctx context.Context, key, value string) error {
	if !s.keys[key] {
		return s.inner.Set(ctx, key, value)
	}
	sealed, err := s.seal(value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, sealed)
}

// Delete removes key.
func (s *Sealed) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func (s *Sealed) derive(salt []byte) *[keySize]byte {
	var key [keySize]byte
	copy(key[:], argon2.IDKey(s.secret, salt, 1, 64*1024, 2, keySize))
	return &key
}

func (s *Sealed) seal(plain string) (string, error) {
	buf := make([]byte, saltSize+nonceSize)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", errors.Wrap(err, "read random")
	}
	var nonce [nonceSize]byte
	copy(nonce[:], buf[saltSize:])
	out := secretbox.Seal(buf, []byte(plain), &nonce, s.derive(buf[:saltSize]))
	return sealPrefix + base64.RawStdEncoding.EncodeToString(out), nil
}

func (s *Sealed) open(value string) (string, error) {
	if len(value) < len(sealPrefix) || value[:len(sealPrefix)] != sealPrefix {
		return "", ErrCorrupt
	}
	raw, err := base64.RawStdEncoding.DecodeString(value[len(sealPrefix):])
	if err != nil || len(raw) < saltSize+nonceSize+secretbox.Overhead {
		return "", ErrCorrupt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[saltSize:saltSize+nonceSize])
	plain, ok := secretbox.Open(nil, raw[saltSize+nonceSize:], &nonce, s.derive(raw[:saltSize]))
	if !ok {
		return "", ErrCorrupt
	}
	return string(plain), nil
}
