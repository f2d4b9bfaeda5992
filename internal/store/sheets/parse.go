package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pennywise/internal/core"
)

const timeLayout = time.RFC3339Nano

func expenseRow(e core.Expense) []any {
	return []any{
		e.ID,
		e.UserID,
		e.Date.String(),
		e.Description,
		e.Amount.String(),
		string(e.Category),
		string(e.PaymentType),
		e.CreatedAt.UTC().Format(timeLayout),
	}
}

func userRow(u core.User) []any {
	return []any{u.ID, u.Email, u.PasswordHash, u.CreatedAt.UTC().Format(timeLayout)}
}

// parseExpenses converts a values matrix into the user's expenses.
// The header row and rows that do not parse are skipped.
func parseExpenses(ctx context.Context, values [][]any, userID string) []core.Expense {
	out := make([]core.Expense, 0)
	for i, raw := range values {
		row := toStrings(raw)
		if len(row) < 7 || safeGet(row, 1) != userID {
			continue
		}
		e, err := parseExpenseRow(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unparseable expense row", "row", i+1, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out
}

func parseExpenseRow(row []string) (core.Expense, error) {
	date, err := core.ParseDate(safeGet(row, 2))
	if err != nil {
		return core.Expense{}, fmt.Errorf("date %q: %w", safeGet(row, 2), err)
	}
	cents, err := parseAmountToCents(safeGet(row, 4))
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", safeGet(row, 4), err)
	}
	category := core.Category(safeGet(row, 5))
	if !category.IsValid() {
		category = core.Categorize(safeGet(row, 3))
	}
	payment, err := core.ParsePaymentType(safeGet(row, 6))
	if err != nil {
		return core.Expense{}, err
	}
	created, _ := time.Parse(timeLayout, safeGet(row, 7))
	return core.Expense{
		ID:          safeGet(row, 0),
		UserID:      safeGet(row, 1),
		Date:        date,
		Description: safeGet(row, 3),
		Amount:      core.Money{Cents: cents},
		Category:    category,
		PaymentType: payment,
		CreatedAt:   created,
	}, nil
}

func findUser(values [][]any, match func(core.User) bool) (core.User, bool) {
	for _, raw := range values {
		row := toStrings(raw)
		if len(row) < 3 || strings.EqualFold(row[0], "ID") {
			continue
		}
		created, _ := time.Parse(timeLayout, safeGet(row, 3))
		u := core.User{ID: row[0], Email: row[1], PasswordHash: row[2], CreatedAt: created}
		if match(u) {
			return u, true
		}
	}
	return core.User{}, false
}

// parseAmountToCents accepts both "1234.5" and "1234,5" as written by
// hand-edited sheets.
func parseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Round(2).Shift(2).IntPart(), nil
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
