package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/core"
)

func TestSetup_ValidEnvironment(t *testing.T) {
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("CATEGORIES", "Food,Fuel")

	cfg, logger, err := Setup("test", io.Discard)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, "test", logger.Component())
	assert.Equal(t, []string{"Food", "Fuel"}, cfg.Categories)
}

func TestSetup_InvalidEnvironment(t *testing.T) {
	t.Setenv("DATA_BACKEND", "carrier-pigeon")
	t.Setenv("LOG_LEVEL", "error")

	_, logger, err := Setup("test", io.Discard)
	assert.Error(t, err)
	assert.NotNil(t, logger)
}

func TestNewApp_SQLite(t *testing.T) {
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("TIMEZONE", "Asia/Kolkata")

	cfg, logger, err := Setup("test", io.Discard)
	require.NoError(t, err)

	clock := &core.FixedClock{At: time.Date(2025, 7, 31, 20, 0, 0, 0, time.UTC)}
	app, err := NewApp(context.Background(), cfg, logger, clock)
	require.NoError(t, err)
	defer func() { assert.NoError(t, app.Close()) }()

	// 20:00 UTC on 31 July is already 1 August in India.
	assert.Equal(t, "2025-08", app.Reports.CurrentMonth().String())

	amount, _ := core.ParseAmount("10")
	_, err = app.Ledger.RecordTransaction(context.Background(), core.TransactionInput{
		Amount: &amount, Description: "Tea", Date: "2025-08-01", Category: "Food",
	})
	require.NoError(t, err)

	view, err := app.Reports.CategoryBreakdown(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, view.Rows, 1)
	assert.True(t, view.Rows[0].Spent.Equal(amount))
}
