// Package sheets stores users and expenses in a Google Sheets spreadsheet,
// one row per record.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"pennywise/internal/core"
	"pennywise/internal/store"
)

// Column layout of the two sheets. Row 1 holds these headers.
var (
	expenseHeader = []any{"ID", "UserID", "Date", "Description", "Amount", "Category", "PaymentType", "CreatedAt"}
	userHeader    = []any{"ID", "Email", "PasswordHash", "CreatedAt"}
)

type Options struct {
	SpreadsheetID      string
	ServiceAccountJSON string
	ServiceAccountFile string
	ExpensesSheet      string
	UsersSheet         string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	expensesSheet string
	usersSheet    string

	// Serializes user creation so the duplicate-email check and the append
	// are not interleaved within this process.
	userMu sync.Mutex
}

// Ensure interface conformance
var (
	_ store.ExpenseWriter = (*Client)(nil)
	_ store.ExpenseLister = (*Client)(nil)
	_ store.UserStore     = (*Client)(nil)
	_ store.Pinger        = (*Client)(nil)
)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := credentialsJSON(ctx, opts)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", opts.SpreadsheetID)
	return NewWithService(svc, opts), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, opts Options) *Client {
	expenses := strings.TrimSpace(opts.ExpensesSheet)
	if expenses == "" {
		expenses = "Expenses"
	}
	users := strings.TrimSpace(opts.UsersSheet)
	if users == "" {
		users = "Users"
	}
	return &Client{
		svc:           svc,
		spreadsheetID: opts.SpreadsheetID,
		expensesSheet: expenses,
		usersSheet:    users,
	}
}

func credentialsJSON(ctx context.Context, opts Options) ([]byte, error) {
	inline := strings.TrimSpace(opts.ServiceAccountJSON)
	file := strings.TrimSpace(opts.ServiceAccountFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		return []byte(inline), nil
	case file != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
}

// InsertExpense appends one row to the expenses sheet.
func (c *Client) InsertExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := c.appendRow(ctx, c.expensesSheet, "A:H", expenseRow(e)); err != nil {
		return "", err
	}
	return e.ID, nil
}

// ListExpenses scans the expenses sheet for the user's rows.
func (c *Client) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	values, err := c.readRange(ctx, c.expensesSheet, "A:H")
	if err != nil {
		return nil, err
	}
	out := parseExpenses(ctx, values, userID)
	store.SortByDateDesc(out)
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	c.userMu.Lock()
	defer c.userMu.Unlock()

	values, err := c.readRange(ctx, c.usersSheet, "A:D")
	if err != nil {
		return core.User{}, err
	}
	if _, ok := findUser(values, func(x core.User) bool { return strings.EqualFold(x.Email, u.Email) }); ok {
		return core.User{}, store.ErrUserExists
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if err := c.appendRow(ctx, c.usersSheet, "A:D", userRow(u)); err != nil {
		return core.User{}, err
	}
	return u, nil
}

func (c *Client) UserByEmail(ctx context.Context, email string) (core.User, error) {
	return c.userWhere(ctx, func(u core.User) bool { return strings.EqualFold(u.Email, email) })
}

func (c *Client) UserByID(ctx context.Context, id string) (core.User, error) {
	return c.userWhere(ctx, func(u core.User) bool { return u.ID == id })
}

func (c *Client) userWhere(ctx context.Context, match func(core.User) bool) (core.User, error) {
	values, err := c.readRange(ctx, c.usersSheet, "A:D")
	if err != nil {
		return core.User{}, err
	}
	u, ok := findUser(values, match)
	if !ok {
		return core.User{}, store.ErrUserNotFound
	}
	return u, nil
}

// Ping reads the spreadsheet metadata.
func (c *Client) Ping(ctx context.Context) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	_, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	return nil
}

// EnsureHeaders writes the header row of each sheet when it is empty.
func (c *Client) EnsureHeaders(ctx context.Context) error {
	for sheet, header := range map[string][]any{c.expensesSheet: expenseHeader, c.usersSheet: userHeader} {
		values, err := c.readRange(ctx, sheet, "1:1")
		if err != nil {
			return err
		}
		if len(values) > 0 && len(values[0]) > 0 {
			continue
		}
		rng := fmt.Sprintf("%s!A1", sheet)
		vr := &gsheet.ValueRange{Values: [][]any{header}}
		if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
			ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return fmt.Errorf("write header %s: %w", rng, err)
		}
	}
	return nil
}

func (c *Client) readRange(ctx context.Context, sheet, cols string) ([][]any, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!%s", sheet, cols)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

// RAW input keeps descriptions like "=1+1" from being evaluated as formulas.
func (c *Client) appendRow(ctx context.Context, sheet, cols string, row []any) error {
	rng := fmt.Sprintf("%s!%s", sheet, cols)
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", rng, err)
	}
	return nil
}
