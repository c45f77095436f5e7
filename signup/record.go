package signup

import (
	"sync"

	"github.com/kbukum/transflow/logger"
)

// Record is a preprocessed signup.
type Record struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Store is an in-memory, append-only record store.
type Store struct {
	mu      sync.RWMutex
	records []Record
	log     *logger.Logger
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{log: logger.Get("signup")}
}

// Append stores r and returns it.
func (s *Store) Append(r Record) Record {
	s.mu.Lock()
	s.records = append(s.records, r)
	n := len(s.records)
	s.mu.Unlock()

	s.log.Debug("record stored", logger.Fields("email", r.Email, "count", n))
	return r
}

// Records returns a copy of the stored records in insertion order.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Contains reports whether r was stored.
func (s *Store) Contains(r Record) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, x := range s.records {
		if x == r {
			return true
		}
	}
	return false
}
