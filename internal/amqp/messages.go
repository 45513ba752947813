package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"spendwise/internal/core"
)

// EventKind names a ledger change.
type EventKind string

const (
	EventTransactionCreated EventKind = "transaction.created"
	EventBudgetUpserted     EventKind = "budget.upserted"
)

func (k EventKind) valid() bool {
	return k == EventTransactionCreated || k == EventBudgetUpserted
}

// LedgerEvent is a lightweight notification that the ledger changed. It carries
// the record ID and the affected month; consumers re-read state from storage.
type LedgerEvent struct {
	Kind      EventKind     `json:"kind"`
	ID        string        `json:"id"`
	Month     core.MonthKey `json:"month"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewLedgerEvent stamps an event with the current time.
func NewLedgerEvent(kind EventKind, id string, month core.MonthKey) *LedgerEvent {
	return &LedgerEvent{
		Kind:      kind,
		ID:        id,
		Month:     month,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes and checks a message body. Anything malformed is
// an InconsistentInputError.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, core.Inconsistent("amqp", fmt.Errorf("decode ledger event: %w", err))
	}
	if !e.Kind.valid() {
		return nil, core.Inconsistent("amqp", fmt.Errorf("unknown event kind %q", e.Kind))
	}
	if e.ID == "" || e.Month.IsZero() {
		return nil, core.Inconsistent("amqp", fmt.Errorf("ledger event missing id or month"))
	}
	return &e, nil
}
