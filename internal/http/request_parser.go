// This file implements utilities for decoding request bodies and query
// parameters into service inputs.

package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// RequestBodyParser reads a JSON object or a form-encoded body once and
// exposes its fields as strings. JSON numbers keep their literal text so
// amounts are never routed through float64.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser creates a parser for the given request.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = fmt.Errorf("malformed JSON body: %w", err)
			return p.err
		}
		return nil
	}
	if trimmed[0] == '[' {
		p.err = errors.New("request body must be a JSON object")
		return p.err
	}

	p.formData, p.err = url.ParseQuery(string(trimmed))
	return p.err
}

// Get returns a trimmed, sanitized string value; absent keys give "".
func (p *RequestBodyParser) Get(key string) string {
	v, _ := p.Lookup(key)
	return v
}

// Lookup is Get that also reports whether the key was present and non-null.
func (p *RequestBodyParser) Lookup(key string) (string, bool) {
	if p.jsonData != nil {
		val, ok := p.jsonData[key]
		if !ok || val == nil {
			return "", false
		}
		return sanitizeInput(stringValue(val)), true
	}
	if p.formData != nil {
		if _, ok := p.formData[key]; !ok {
			return "", false
		}
		return sanitizeInput(p.formData.Get(key)), true
	}
	return "", false
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(val)
	}
}

// Amount parses the named field. An absent field yields a nil amount so the
// domain constructor reports it as missing.
func (p *RequestBodyParser) Amount(key string) (*decimal.Decimal, error) {
	raw, ok := p.Lookup(key)
	if !ok || raw == "" {
		return nil, nil
	}
	d, err := core.ParseAmount(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// transactionInput decodes a create-transaction request.
func transactionInput(p *RequestBodyParser) (core.TransactionInput, error) {
	amount, err := p.Amount("amount")
	if err != nil {
		return core.TransactionInput{}, err
	}
	return core.TransactionInput{
		Amount:      amount,
		Description: p.Get("description"),
		Date:        p.Get("date"),
		Category:    p.Get("category"),
	}, nil
}

// budgetInput decodes a set-budget request. "budget" is accepted for the
// amount when "amount" is absent.
func budgetInput(p *RequestBodyParser) (core.BudgetInput, error) {
	key := "amount"
	if _, ok := p.Lookup(key); !ok {
		key = "budget"
	}
	amount, err := p.Amount(key)
	if err != nil {
		return core.BudgetInput{}, err
	}
	return core.BudgetInput{
		Month:    p.Get("month"),
		Category: p.Get("category"),
		Amount:   amount,
	}, nil
}

// MonthRange is an inclusive span of months from the from/to query parameters.
type MonthRange struct {
	From core.MonthKey
	To   core.MonthKey
}

// ParseMonthRange reads ?from=YYYY-MM&to=YYYY-MM. Either bound may be left out
// to leave that side open; with neither the result is nil.
func ParseMonthRange(query url.Values) (*MonthRange, error) {
	rawFrom := strings.TrimSpace(query.Get("from"))
	rawTo := strings.TrimSpace(query.Get("to"))
	if rawFrom == "" && rawTo == "" {
		return nil, nil
	}
	rng := &MonthRange{To: core.NewMonthKey(9999, time.December)}
	if rawFrom != "" {
		m, err := core.ParseMonthKey(rawFrom)
		if err != nil {
			return nil, &core.ValidationError{Field: "from", Err: core.ErrInvalidMonth}
		}
		rng.From = m
	}
	if rawTo != "" {
		m, err := core.ParseMonthKey(rawTo)
		if err != nil {
			return nil, &core.ValidationError{Field: "to", Err: core.ErrInvalidMonth}
		}
		rng.To = m
	}
	if rng.To.Before(rng.From) {
		return nil, &core.ValidationError{Field: "to", Err: fmt.Errorf("%w: %s is before %s", core.ErrInvalidMonth, rng.To, rng.From)}
	}
	return rng, nil
}

// ParseMonthQuery reads ?month=YYYY-MM. An absent parameter yields nil.
func ParseMonthQuery(query url.Values) (*core.MonthKey, error) {
	raw := strings.TrimSpace(query.Get("month"))
	if raw == "" {
		return nil, nil
	}
	m, err := core.ParseMonthKey(raw)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
