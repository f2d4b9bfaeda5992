package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"pennywise/internal/cache"
	"pennywise/internal/core"
	"pennywise/internal/metrics"
	"pennywise/internal/store"
)

const defaultListCacheSize = 256

// ExpenseStore is the persistence the service needs.
type ExpenseStore interface {
	store.ExpenseWriter
	store.ExpenseLister
}

// EventPublisher announces stored expenses. Implemented by the AMQP client.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, e core.Expense) error
}

// ValidationError marks input the user can fix. Err is one of the core sentinels.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidation reports whether err came from rejected input.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func invalid(err error) error { return &ValidationError{Err: err} }

type Options struct {
	PageSize  int
	CacheTTL  time.Duration
	CacheSize int
}

// ExpenseService orchestrates expense operations: store first, then the
// best-effort event, with a per-user list cache in front of reads.
type ExpenseService struct {
	store     ExpenseStore
	publisher EventPublisher
	pageSize  int

	lists *cache.LRUCache[[]core.Expense]
	group singleflight.Group

	// gens counts inserts per user. A list read only fills the cache when no
	// insert happened while it was in flight.
	genMu sync.Mutex
	gens  map[string]uint64
}

// NewExpenseService builds the service. A nil publisher disables events.
func NewExpenseService(st ExpenseStore, publisher EventPublisher, opts Options) *ExpenseService {
	if opts.PageSize < 1 {
		opts.PageSize = core.DefaultPageSize
	}
	if opts.CacheSize < 1 {
		opts.CacheSize = defaultListCacheSize
	}
	return &ExpenseService{
		store:     st,
		publisher: publisher,
		pageSize:  opts.PageSize,
		lists:     cache.NewLRUCache[[]core.Expense](opts.CacheSize, opts.CacheTTL),
		gens:      make(map[string]uint64),
	}
}

// Cache exposes the list cache so the cleanup manager can expire it.
func (s *ExpenseService) Cache() cache.Cleaner { return s.lists }

func (s *ExpenseService) PageSize() int { return s.pageSize }

// AddExpenseInput is the raw form of a new expense.
type AddExpenseInput struct {
	UserID      string
	Description string
	Amount      string
	Date        string
	PaymentType string
}

// AddExpense validates and categorizes the input, stores it, and publishes
// an expense.created event. Publish failures are logged only.
func (s *ExpenseService) AddExpense(ctx context.Context, in AddExpenseInput) (core.Expense, error) {
	if in.UserID == "" {
		return core.Expense{}, invalid(core.ErrMissingUser)
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" || strings.TrimSpace(in.Amount) == "" || strings.TrimSpace(in.Date) == "" {
		return core.Expense{}, invalid(core.ErrMissingRequiredData)
	}

	cents, err := core.ParseDecimalToCents(in.Amount)
	if err != nil {
		return core.Expense{}, invalid(core.ErrInvalidAmount)
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Expense{}, invalid(err)
	}
	pt, err := core.ParsePaymentType(in.PaymentType)
	if err != nil {
		return core.Expense{}, invalid(err)
	}

	e := core.Expense{
		UserID:      in.UserID,
		Description: desc,
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Category:    core.Categorize(desc),
		PaymentType: pt,
		CreatedAt:   time.Now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, invalid(err)
	}

	id, err := s.store.InsertExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	e.ID = id

	s.invalidate(e.UserID)
	metrics.ExpenseCreated(string(e.Category))

	if err := s.publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"expense_id", e.ID, "error", err)
	}
	return e, nil
}

func (s *ExpenseService) publish(ctx context.Context, e core.Expense) error {
	if s.publisher == nil {
		return nil
	}
	return s.publisher.PublishExpenseCreated(ctx, e)
}

// ListExpenses returns the user's expenses, newest date first. Results are
// cached per user and concurrent misses share one store read. Callers must
// not modify the returned slice.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	if userID == "" {
		return nil, invalid(core.ErrMissingUser)
	}
	if items, ok := s.lists.Get(userID); ok {
		metrics.CacheHit()
		return items, nil
	}
	metrics.CacheMiss()

	v, err, _ := s.group.Do(userID, func() (any, error) {
		gen := s.generation(userID)
		items, err := s.store.ListExpenses(ctx, userID)
		if err != nil {
			return nil, err
		}
		items = slices.Clip(items)
		s.cacheIfCurrent(userID, gen, items)
		return items, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return v.([]core.Expense), nil
}

func (s *ExpenseService) generation(userID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.gens[userID]
}

// invalidate drops the cached list and detaches later readers from any
// list read already in flight.
func (s *ExpenseService) invalidate(userID string) {
	s.genMu.Lock()
	s.gens[userID]++
	s.lists.Delete(userID)
	s.genMu.Unlock()
	s.group.Forget(userID)
}

func (s *ExpenseService) cacheIfCurrent(userID string, gen uint64, items []core.Expense) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.gens[userID] == gen {
		s.lists.Set(userID, items)
	}
}

// Page is one page of a user's expense list.
type Page struct {
	Items      []core.Expense
	Page       int
	TotalPages int
	TotalItems int
}

// ListPage returns the requested page, clamped into the valid range.
func (s *ExpenseService) ListPage(ctx context.Context, userID string, page int) (Page, error) {
	items, err := s.ListExpenses(ctx, userID)
	if err != nil {
		return Page{}, err
	}
	return paginate(items, s.pageSize, page), nil
}

func paginate(items []core.Expense, size, page int) Page {
	total := core.TotalPages(len(items), size)
	page = core.ClampPage(page, total)
	return Page{
		Items:      core.Paginate(items, size, page),
		Page:       page,
		TotalPages: total,
		TotalItems: len(items),
	}
}
