package memory

import (
	"context"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"sync"

	"schooldesk/internal/records"
)

var _ records.KV = (*Store)(nil)

// Store keeps documents in process memory. Everything is lost on restart.
type Store struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func New() *Store {
	return &Store{docs: map[string][]byte{}}
}

// NewFromFile seeds the store from a JSON object mapping keys to documents.
// A missing or unreadable seed file yields an empty store.
func NewFromFile(path string) *Store {
	s := New()
	b, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var seed map[string]json.RawMessage
	if err := json.Unmarshal(b, &seed); err != nil {
		return s
	}
	for k, v := range seed {
		s.docs[k] = append([]byte(nil), v...)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.docs[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}

func (s *Store) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0)
	for k := range s.docs {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
