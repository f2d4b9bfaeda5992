package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Credit PaymentType = "Credit"
	Debit  PaymentType = "Debit"
	Cash   PaymentType = "Cash"
)

// DateLayout is the calendar date format used on forms, in storage and on the wire.
const DateLayout = "2006-01-02"

const maxDescriptionLen = 200

type (
	PaymentType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID          string
		UserID      string
		Description string
		Amount      Money
		Date        Date
		Category    Category
		PaymentType PaymentType
		CreatedAt   time.Time
	}

	User struct {
		ID           string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}
)

var (
	ErrInvalidDay          = errors.New("invalid day")
	ErrInvalidMonth        = errors.New("invalid month")
	ErrInvalidDate         = errors.New("invalid date")
	ErrFutureDate          = errors.New("date cannot be in the future")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyDescription    = errors.New("empty description")
	ErrDescriptionTooLong  = errors.New("description too long (max 200 characters)")
	ErrInvalidPaymentType  = errors.New("invalid payment type")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrMissingUser         = errors.New("missing user")
	ErrMissingRequiredData = errors.New("All fields are required!")
)

// Today is the reference for the "no future dates" rule. Tests replace it.
var Today = func() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// ParsePaymentType maps form input to a PaymentType. Empty input means Debit,
// matching the entry form's preselected option.
func ParsePaymentType(s string) (PaymentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "debit", "debit card":
		return Debit, nil
	case "credit", "credit card":
		return Credit, nil
	case "cash":
		return Cash, nil
	}
	return "", ErrInvalidPaymentType
}

func (p PaymentType) IsValid() bool {
	switch p {
	case Credit, Debit, Cash:
		return true
	}
	return false
}

// PaymentTypes lists the accepted payment types in form order.
func PaymentTypes() []PaymentType {
	return []PaymentType{Credit, Debit, Cash}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the expense against today's date.
func (e Expense) Validate() error {
	return e.ValidateAt(Today())
}

// ValidateAt checks every field invariant, treating today as the latest allowed date.
func (e Expense) ValidateAt(today Date) error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Date.After(today.Time) {
		return ErrFutureDate
	}
	if !e.PaymentType.IsValid() {
		return ErrInvalidPaymentType
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(e.UserID) == "" {
		return ErrMissingUser
	}
	return nil
}

// DisplayName is the local part of the user's email address.
func (u User) DisplayName() string {
	name, _, _ := strings.Cut(u.Email, "@")
	return name
}
