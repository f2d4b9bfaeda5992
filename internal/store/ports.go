package store

import (
	"context"
	"errors"
	"sort"

	"pennywise/internal/core"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
)

// Ports for outbound adapters.
type (
	ExpenseWriter interface {
		// InsertExpense persists e and returns the id the store assigned to it.
		InsertExpense(ctx context.Context, e core.Expense) (id string, err error)
	}

	// ExpenseLister returns a user's expenses, newest date first.
	ExpenseLister interface {
		ListExpenses(ctx context.Context, userID string) ([]core.Expense, error)
	}

	UserStore interface {
		// CreateUser returns ErrUserExists when the email is taken.
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		UserByEmail(ctx context.Context, email string) (core.User, error)
		UserByID(ctx context.Context, id string) (core.User, error)
	}

	// Pinger reports whether the backing store is reachable.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

// SortByDateDesc orders expenses by date descending, then by creation time
// descending, then by id, so equal dates keep a stable order.
func SortByDateDesc(es []core.Expense) {
	sort.SliceStable(es, func(i, j int) bool {
		a, b := es[i], es[j]
		if !a.Date.Equal(b.Date.Time) {
			return a.Date.After(b.Date.Time)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
