package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-05-02 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 5 || d.Day() != 2 || d.String() != "2024-05-02" {
		t.Fatalf("unexpected date %v", d)
	}
	for _, in := range []string{"", "02/05/2024", "2024-13-01", "2024-02-30"} {
		if _, err := ParseDate(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestParsePaymentType(t *testing.T) {
	cases := map[string]PaymentType{
		"":           Debit,
		"Debit Card": Debit,
		"debit":      Debit,
		"Credit":     Credit,
		" cash ":     Cash,
	}
	for in, want := range cases {
		got, err := ParsePaymentType(in)
		if err != nil || got != want {
			t.Fatalf("%q expected %q, got %q (err=%v)", in, want, got, err)
		}
	}
	if _, err := ParsePaymentType("bitcoin"); !errors.Is(err, ErrInvalidPaymentType) {
		t.Fatalf("expected ErrInvalidPaymentType, got %v", err)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}

func TestExpenseValidate(t *testing.T) {
	today := NewDate(2025, 6, 15)
	good := Expense{
		Date:        NewDate(2025, 1, 1),
		Description: "ok",
		Amount:      Money{Cents: 100},
		Category:    CategoryFood,
		PaymentType: Cash,
		UserID:      "u1",
	}
	if err := good.ValidateAt(today); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	onToday := good
	onToday.Date = today
	if err := onToday.ValidateAt(today); err != nil {
		t.Fatalf("today should be accepted, got %v", err)
	}

	mutate := func(f func(*Expense)) Expense {
		e := good
		f(&e)
		return e
	}
	bads := []struct {
		e    Expense
		want error
	}{
		{mutate(func(e *Expense) { e.Date = Date{} }), ErrInvalidDate},
		{mutate(func(e *Expense) { e.Date = NewDate(2025, 6, 16) }), ErrFutureDate},
		{mutate(func(e *Expense) { e.Description = "   " }), ErrEmptyDescription},
		{mutate(func(e *Expense) { e.Description = strings.Repeat("x", 201) }), ErrDescriptionTooLong},
		{mutate(func(e *Expense) { e.Amount = Money{} }), ErrInvalidAmount},
		{mutate(func(e *Expense) { e.PaymentType = "Card" }), ErrInvalidPaymentType},
		{mutate(func(e *Expense) { e.Category = "Travel" }), ErrInvalidCategory},
		{mutate(func(e *Expense) { e.UserID = "" }), ErrMissingUser},
	}
	for i, tc := range bads {
		if err := tc.e.ValidateAt(today); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestUserDisplayName(t *testing.T) {
	if got := (User{Email: "asha@example.com"}).DisplayName(); got != "asha" {
		t.Fatalf("expected asha, got %q", got)
	}
	if got := (User{Email: "noat"}).DisplayName(); got != "noat" {
		t.Fatalf("expected noat, got %q", got)
	}
}
