package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func amountPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2025-07-01", NewDate(2025, 7, 1), true},
		{" 2024-02-29 ", NewDate(2024, 2, 29), true},
		{"2025-07-31T23:30:00+05:30", NewDate(2025, 7, 31), true},
		{"2025-07-31T20:00:00Z", NewDate(2025, 7, 31), true},
		{"2025-02-30", Date{}, false},
		{"07/01/2025", Date{}, false},
		{"", Date{}, false},
	}
	for i, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(tc.want.Time) {
				t.Fatalf("case %d %q expected %s, got %s (err=%v)", i, tc.in, tc.want, got, err)
			}
		} else if err == nil {
			t.Fatalf("case %d %q expected error", i, tc.in)
		}
	}
}

func TestDateMonthKey(t *testing.T) {
	d := NewDate(2025, time.December, 31)
	if got := d.MonthKey(); got != NewMonthKey(2025, time.December) {
		t.Fatalf("unexpected month key %v", got)
	}
	if d.String() != "2025-12-31" {
		t.Fatalf("unexpected string %q", d.String())
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date `json:"d"`
	}{NewDate(2025, time.July, 3)})
	if err != nil || string(b) != `{"d":"2025-07-03"}` {
		t.Fatalf("unexpected encoding %s (err=%v)", b, err)
	}

	var out struct {
		D Date `json:"d"`
	}
	if err := json.Unmarshal([]byte(`{"d":"2024-02-29"}`), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.D.String() != "2024-02-29" {
		t.Fatalf("unexpected date %s", out.D)
	}
	if err := json.Unmarshal([]byte(`{"d":"2024-02-30"}`), &out); err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestNewTransaction(t *testing.T) {
	reg := DefaultRegistry()
	good := TransactionInput{
		Amount:      amountPtr("12.345"),
		Description: "  groceries ",
		Date:        "2025-07-01",
		Category:    "Food",
	}
	tx, err := NewTransaction(reg, good)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("12.35")) || tx.Description != "groceries" || tx.Category != "Food" {
		t.Fatalf("unexpected transaction %+v", tx)
	}

	cases := []struct {
		name  string
		in    TransactionInput
		field string
		want  error
	}{
		{"missing amount", TransactionInput{Description: "a", Date: "2025-07-01", Category: "Food"}, "amount", ErrMissingField},
		{"negative amount", TransactionInput{Amount: amountPtr("-1"), Description: "a", Date: "2025-07-01", Category: "Food"}, "amount", ErrNegativeAmount},
		{"empty description", TransactionInput{Amount: amountPtr("1"), Description: "  ", Date: "2025-07-01", Category: "Food"}, "description", ErrEmptyDescription},
		{"long description", TransactionInput{Amount: amountPtr("1"), Description: strings.Repeat("x", 201), Date: "2025-07-01", Category: "Food"}, "description", ErrDescriptionLong},
		{"long multi-byte description", TransactionInput{Amount: amountPtr("1"), Description: strings.Repeat("₹", 201), Date: "2025-07-01", Category: "Food"}, "description", ErrDescriptionLong},
		{"bad date", TransactionInput{Amount: amountPtr("1"), Description: "a", Date: "yesterday", Category: "Food"}, "date", ErrInvalidDate},
		{"missing category", TransactionInput{Amount: amountPtr("1"), Description: "a", Date: "2025-07-01"}, "category", ErrMissingField},
		{"unknown category", TransactionInput{Amount: amountPtr("1"), Description: "a", Date: "2025-07-01", Category: "Crypto"}, "category", ErrUnknownCategory},
		{"case mismatch", TransactionInput{Amount: amountPtr("1"), Description: "a", Date: "2025-07-01", Category: "food"}, "category", ErrUnknownCategory},
	}
	for _, tc := range cases {
		_, err := NewTransaction(reg, tc.in)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if ve.Field != tc.field || !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %s/%v, got %v", tc.name, tc.field, tc.want, err)
		}
	}
}

func TestNewTransactionCountsCharacters(t *testing.T) {
	desc := strings.Repeat("₹", MaxDescriptionLength)
	tx, err := NewTransaction(DefaultRegistry(), TransactionInput{
		Amount:      amountPtr("1"),
		Description: desc,
		Date:        "2025-07-01",
		Category:    "Food",
	})
	if err != nil {
		t.Fatalf("%d-character description (%d bytes) rejected: %v", MaxDescriptionLength, len(desc), err)
	}
	if tx.Description != desc {
		t.Fatalf("description changed: %q", tx.Description)
	}
}

func TestNewTransactionZeroAmount(t *testing.T) {
	tx, err := NewTransaction(DefaultRegistry(), TransactionInput{
		Amount: amountPtr("0"), Description: "free sample", Date: "2025-07-01", Category: "Other",
	})
	if err != nil {
		t.Fatalf("zero amount should be accepted, got %v", err)
	}
	if !tx.Amount.IsZero() {
		t.Fatalf("expected zero amount, got %s", tx.Amount)
	}
}

func TestNewBudget(t *testing.T) {
	reg := DefaultRegistry()
	b, err := NewBudget(reg, BudgetInput{Month: "2025-07", Category: "Food", Amount: amountPtr("100")})
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if b.Month != NewMonthKey(2025, time.July) || b.Category != "Food" {
		t.Fatalf("unexpected budget %+v", b)
	}

	bads := []BudgetInput{
		{Month: "2025-13", Category: "Food", Amount: amountPtr("1")},
		{Month: "July", Category: "Food", Amount: amountPtr("1")},
		{Month: "2025-07", Category: "Pets", Amount: amountPtr("1")},
		{Month: "2025-07", Category: "Food"},
		{Month: "2025-07", Category: "Food", Amount: amountPtr("-5")},
	}
	for i, in := range bads {
		if _, err := NewBudget(reg, in); !IsValidation(err) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}
