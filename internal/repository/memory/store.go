// Package memory keeps users in process memory. It backs the service tests
// and the DB_DRIVER=memory mode.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"userregistry/internal/model"
	"userregistry/internal/repository"
)

// Store is the committed state shared by every unit of work created over it.
// It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	users map[string]model.User
}

// NewStore returns a store holding seed as already committed rows.
func NewStore(seed ...model.User) *Store {
	s := &Store{users: make(map[string]model.User, len(seed))}
	for _, u := range seed {
		s.users[u.SSN] = u
	}
	return s
}

// PingContext lets the store stand in for a database in health checks.
func (s *Store) PingContext(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of committed users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func (s *Store) get(ssn string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[ssn]
	return u, ok
}

func (s *Store) snapshot() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out
}

// apply inserts staged atomically: either every user is stored or none is.
func (s *Store) apply(staged []model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(staged))
	for _, u := range staged {
		if _, ok := s.users[u.SSN]; ok {
			return fmt.Errorf("%w: ssn %q already exists", repository.ErrDuplicateKey, u.SSN)
		}
		if _, ok := seen[u.SSN]; ok {
			return fmt.Errorf("%w: ssn %q added twice", repository.ErrDuplicateKey, u.SSN)
		}
		seen[u.SSN] = struct{}{}
	}
	for _, u := range staged {
		s.users[u.SSN] = u
	}
	return nil
}

func sortBySSN(users []model.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].SSN < users[j].SSN })
}
