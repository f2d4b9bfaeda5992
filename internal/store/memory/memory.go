package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pennywise/internal/core"
	"pennywise/internal/store"
)

// Store keeps users and expenses in process memory. Data is lost on restart.
type Store struct {
	mu      sync.Mutex
	items   []core.Expense
	users   map[string]core.User
	byEmail map[string]string
}

func New() *Store {
	return &Store{
		users:   make(map[string]core.User),
		byEmail: make(map[string]string),
	}
}

// InsertExpense stores the expense and returns its id.
func (s *Store) InsertExpense(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	return e.ID, nil
}

// ListExpenses returns a copy of the user's expenses, newest date first.
func (s *Store) ListExpenses(_ context.Context, userID string) ([]core.Expense, error) {
	s.mu.Lock()
	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	s.mu.Unlock()
	store.SortByDateDesc(out)
	return out, nil
}

func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	email := normalizeEmail(u.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return core.User{}, store.ErrUserExists
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Email = email
	s.users[u.ID] = u
	s.byEmail[email] = u.ID
	return u, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return core.User{}, store.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *Store) UserByID(_ context.Context, id string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, store.ErrUserNotFound
	}
	return u, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
