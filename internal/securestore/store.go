// Package securestore persists small values (session tokens) encrypted at
// rest with AES-256-GCM. Unlike a plain key/value cache it never hides
// failures: Get tells an absent key (ErrNotFound) apart from a value that
// cannot be opened (DecryptError).
package securestore

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Backend persists opaque blobs. Get must return ErrNotFound for absent keys.
type Backend interface {
	Put(ctx context.Context, key string, blob []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Store is safe for concurrent use when its Backend is.
type Store struct {
	backend Backend
	sealer  *sealer
	prefix  string
	logger  *zap.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithPrefix namespaces every key as "prefix:key", letting several profiles
// share a backend. A trailing separator in prefix is dropped.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = strings.TrimSuffix(prefix, keySeparator) }
}

// WithLogger sets the logger used to report failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds a Store sealing values with a key derived from secret.
func New(backend Backend, secret []byte, opts ...Option) (*Store, error) {
	if backend == nil {
		return nil, errors.New("securestore: backend is required")
	}
	sl, err := newSealer(secret)
	if err != nil {
		return nil, err
	}
	s := &Store{backend: backend, sealer: sl, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

const keySeparator = ":"

func (s *Store) fullKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + keySeparator + key
}

// owns reports whether a backend key belongs to this store's namespace.
// A store without a prefix owns every key.
func (s *Store) owns(k string) bool {
	if s.prefix == "" {
		return true
	}
	return strings.HasPrefix(k, s.prefix+keySeparator)
}

// Put JSON-encodes value, encrypts it and persists it under key.
func (s *Store) Put(ctx context.Context, key string, value any) error {
	plain, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("securestore encode failed", zap.String("key", key), zap.Error(err))
		return err
	}
	full := s.fullKey(key)
	blob, err := s.sealer.seal(full, plain)
	if err != nil {
		s.logger.Warn("securestore encrypt failed", zap.String("key", key), zap.Error(err))
		return err
	}
	if err := s.backend.Put(ctx, full, blob); err != nil {
		s.logger.Warn("securestore write failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Get decrypts the value under key into dst.
func (s *Store) Get(ctx context.Context, key string, dst any) error {
	full := s.fullKey(key)
	blob, err := s.backend.Get(ctx, full)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("securestore read failed", zap.String("key", key), zap.Error(err))
		}
		return err
	}
	plain, err := s.sealer.open(full, blob)
	if err != nil {
		s.logger.Warn("securestore decrypt failed", zap.String("key", key), zap.Error(err))
		return &DecryptError{Key: key, Err: err}
	}
	if err := json.Unmarshal(plain, dst); err != nil {
		s.logger.Warn("securestore decode failed", zap.String("key", key), zap.Error(err))
		return &DecryptError{Key: key, Err: err}
	}
	return nil
}

// GetString is Get for string values.
func (s *Store) GetString(ctx context.Context, key string) (string, error) {
	var v string
	if err := s.Get(ctx, key, &v); err != nil {
		return "", err
	}
	return v, nil
}

// Clear removes key. Clearing an absent key is not an error.
func (s *Store) Clear(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, s.fullKey(key)); err != nil {
		s.logger.Warn("securestore clear failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// ClearAll removes every key of this store's namespace.
func (s *Store) ClearAll(ctx context.Context) error {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		s.logger.Warn("securestore list failed", zap.Error(err))
		return err
	}
	for _, k := range keys {
		if !s.owns(k) {
			continue
		}
		if err := s.backend.Delete(ctx, k); err != nil {
			s.logger.Warn("securestore clear failed", zap.String("key", k), zap.Error(err))
			return err
		}
	}
	return nil
}
