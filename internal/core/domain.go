package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxDescriptionLength bounds transaction descriptions, in characters.
const MaxDescriptionLength = 200

const dateLayout = "2006-01-02"

type (
	// Date is a calendar date stored as midnight UTC.
	Date struct {
		time.Time
	}

	// Transaction is a single recorded expense. It is immutable once persisted.
	Transaction struct {
		ID          string
		Amount      decimal.Decimal
		Description string
		Date        Date
		Category    Category
	}

	// Budget is the amount allowed for one category in one month.
	// At most one Budget exists per (Month, Category).
	Budget struct {
		ID       string
		Month    MonthKey
		Category Category
		Amount   decimal.Decimal
	}

	// TransactionInput carries raw user input for NewTransaction.
	// A nil Amount means the field was not supplied.
	TransactionInput struct {
		Amount      *decimal.Decimal
		Description string
		Date        string
		Category    string
	}

	// BudgetInput carries raw user input for NewBudget.
	BudgetInput struct {
		Month    string
		Category string
		Amount   *decimal.Decimal
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp. Timestamps keep the
// calendar date of their own offset.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, invalid("date", ErrMissingField)
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, invalid("date", fmt.Errorf("%w: %q", ErrInvalidDate, s))
}

// MonthKey returns the calendar month containing the date.
func (d Date) MonthKey() MonthKey {
	return MonthOf(d.Time)
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON overrides the method promoted from time.Time.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// NewTransaction validates input against the registry and builds a Transaction
// without an ID. Every failure is a *ValidationError.
func NewTransaction(reg *Registry, in TransactionInput) (Transaction, error) {
	if in.Amount == nil {
		return Transaction{}, invalid("amount", ErrMissingField)
	}
	amount, err := CheckAmount(*in.Amount)
	if err != nil {
		return Transaction{}, err
	}

	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return Transaction{}, invalid("description", ErrEmptyDescription)
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return Transaction{}, invalid("description", ErrDescriptionLong)
	}

	date, err := ParseDate(in.Date)
	if err != nil {
		return Transaction{}, err
	}

	cat, err := reg.Parse(in.Category)
	if err != nil {
		return Transaction{}, err
	}

	return Transaction{
		Amount:      amount,
		Description: desc,
		Date:        date,
		Category:    cat,
	}, nil
}

// NewBudget validates input against the registry and builds a Budget without an ID.
func NewBudget(reg *Registry, in BudgetInput) (Budget, error) {
	month, err := ParseMonthKey(in.Month)
	if err != nil {
		return Budget{}, err
	}
	cat, err := reg.Parse(in.Category)
	if err != nil {
		return Budget{}, err
	}
	if in.Amount == nil {
		return Budget{}, invalid("amount", ErrMissingField)
	}
	amount, err := CheckAmount(*in.Amount)
	if err != nil {
		return Budget{}, err
	}
	return Budget{Month: month, Category: cat, Amount: amount}, nil
}
