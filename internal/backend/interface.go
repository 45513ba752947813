// Package backend builds the configured ledger store and the optional event
// publisher.
package backend

import (
	"context"

	"spendwise/internal/core"
	"spendwise/internal/ports"
	"spendwise/internal/services"
)

// Backend is a ledger store with a readiness probe.
type Backend interface {
	ports.Store
	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function.
// Publisher is nil when AMQP is not configured or unreachable.
type BackendResult struct {
	Backend   Backend
	Publisher services.EventPublisher
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Memory backend: directory holding optional seed CSV files.
	DataDirectory string
	// Registry validates seeded rows.
	Registry *core.Registry

	// AMQP publisher (optional, any backend)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
