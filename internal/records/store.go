package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Store reads and writes typed documents. Reads never fail because of what
// is stored: a missing or malformed document decodes to its empty value.
// Errors are returned only when the backend itself fails.
type Store struct {
	kv       KV
	observer Observer
	logger   *slog.Logger
}

func NewStore(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// WithObserver returns a copy of the store that reports writes to o.
func (s *Store) WithObserver(o Observer) *Store {
	cp := *s
	cp.observer = o
	return &cp
}

func (s *Store) KV() KV { return s.kv }

func (s *Store) raw(ctx context.Context, key string) ([]byte, bool, error) {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return raw, found, nil
}

func (s *Store) noteOutcome(ctx context.Context, key string, out Outcome) {
	if out == Malformed {
		s.logger.WarnContext(ctx, "Malformed stored document, using empty value", "key", key)
	}
}

// LoadList loads an array document; never nil.
func LoadList[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	raw, found, err := s.raw(ctx, key)
	if err != nil {
		return []T{}, err
	}
	v, out := DecodeList[T](raw, found)
	s.noteOutcome(ctx, key, out)
	return v, nil
}

// LoadMap loads an object document keyed by id; never nil.
func LoadMap[T any](ctx context.Context, s *Store, key string) (map[string]T, error) {
	raw, found, err := s.raw(ctx, key)
	if err != nil {
		return map[string]T{}, err
	}
	v, out := DecodeMap[T](raw, found)
	s.noteOutcome(ctx, key, out)
	return v, nil
}

// LoadDoc loads a single document, returning def when it is missing or
// malformed.
func LoadDoc[T any](ctx context.Context, s *Store, key string, def T) (T, Outcome, error) {
	raw, found, err := s.raw(ctx, key)
	if err != nil {
		return def, Missing, err
	}
	v, out := Decode[T](raw, found)
	s.noteOutcome(ctx, key, out)
	if out != Found {
		return def, out, nil
	}
	return v, out, nil
}

// Save serializes v and overwrites key. Last write wins.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	if err := s.kv.Put(ctx, key, b); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	s.notify(ctx, key, OpSave)
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	s.notify(ctx, key, OpRemove)
	return nil
}

func (s *Store) KeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.kv.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("keys %q: %w", prefix, err)
	}
	return keys, nil
}

func (s *Store) notify(ctx context.Context, key string, op Op) {
	if s.observer != nil {
		s.observer.RecordChanged(ctx, key, op)
	}
}
