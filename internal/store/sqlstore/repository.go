// Package sqlstore implements the store ports on top of database/sql with
// squirrel-built queries. The sqlite and postgres backends share it and only
// differ in driver, placeholder format and unique-violation detection.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"pennywise/internal/core"
	"pennywise/internal/store"
)

// TimeLayout is fixed-width so text timestamps sort chronologically.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var expenseColumns = []string{
	"id", "user_id", "description", "amount_cents", "expense_date",
	"category", "payment_type", "created_at",
}

var userColumns = []string{"id", "email", "password_hash", "created_at"}

type Dialect struct {
	Placeholder sq.PlaceholderFormat
	// IsUniqueViolation reports whether err came from a unique constraint.
	IsUniqueViolation func(error) bool
}

type Repository struct {
	db      *sql.DB
	sb      sq.StatementBuilderType
	dialect Dialect
}

func New(db *sql.DB, d Dialect) *Repository {
	return &Repository{
		db:      db,
		sb:      sq.StatementBuilder.PlaceholderFormat(d.Placeholder),
		dialect: d,
	}
}

func (r *Repository) DB() *sql.DB { return r.db }

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// InsertExpense implements store.ExpenseWriter
func (r *Repository) InsertExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	query := r.sb.Insert("expenses").
		Columns(expenseColumns...).
		Values(
			e.ID, e.UserID, e.Description, e.Amount.Cents, e.Date.String(),
			string(e.Category), string(e.PaymentType), e.CreatedAt.UTC().Format(TimeLayout),
		)
	if _, err := query.RunWith(r.db).ExecContext(ctx); err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}

	slog.DebugContext(ctx, "Expense saved",
		"id", e.ID,
		"user_id", e.UserID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents)

	return e.ID, nil
}

// ListExpenses implements store.ExpenseLister
func (r *Repository) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	query := r.sb.Select(expenseColumns...).
		From("expenses").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("expense_date DESC", "created_at DESC", "id DESC")

	rows, err := query.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := make([]core.Expense, 0)
	for rows.Next() {
		var (
			e                       core.Expense
			category, paymentType   string
			dateValue, createdValue any
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Amount.Cents,
			&dateValue, &category, &paymentType, &createdValue); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = parseDate(dateValue); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		if e.CreatedAt, err = parseTime(createdValue); err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		e.Category = core.Category(category)
		e.PaymentType = core.PaymentType(paymentType)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return out, nil
}

// CreateUser implements store.UserStore
func (r *Repository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	query := r.sb.Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Email, u.PasswordHash, u.CreatedAt.UTC().Format(TimeLayout))
	if _, err := query.RunWith(r.db).ExecContext(ctx); err != nil {
		if r.dialect.IsUniqueViolation != nil && r.dialect.IsUniqueViolation(err) {
			return core.User{}, store.ErrUserExists
		}
		return core.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (core.User, error) {
	return r.userWhere(ctx, sq.Eq{"email": email})
}

func (r *Repository) UserByID(ctx context.Context, id string) (core.User, error) {
	return r.userWhere(ctx, sq.Eq{"id": id})
}

func (r *Repository) userWhere(ctx context.Context, pred sq.Eq) (core.User, error) {
	query := r.sb.Select(userColumns...).From("users").Where(pred).Limit(1)

	var (
		u            core.User
		createdValue any
	)
	err := query.RunWith(r.db).QueryRowContext(ctx).Scan(&u.ID, &u.Email, &u.PasswordHash, &createdValue)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrUserNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	if u.CreatedAt, err = parseTime(createdValue); err != nil {
		return core.User{}, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return u, nil
}

// Drivers hand back dates as text or time.Time depending on column type.
func parseDate(v any) (core.Date, error) {
	switch t := v.(type) {
	case time.Time:
		return core.NewDate(t.Year(), int(t.Month()), t.Day()), nil
	case string:
		return core.ParseDate(firstN(t, len(core.DateLayout)))
	case []byte:
		return core.ParseDate(firstN(string(t), len(core.DateLayout)))
	}
	return core.Date{}, fmt.Errorf("unsupported date value %T", v)
}

func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return parseTimeString(t)
	case []byte:
		return parseTimeString(string(t))
	case nil:
		return time.Time{}, nil
	}
	return time.Time{}, fmt.Errorf("unsupported time value %T", v)
}

func parseTimeString(s string) (time.Time, error) {
	for _, layout := range []string{TimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func firstN(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
