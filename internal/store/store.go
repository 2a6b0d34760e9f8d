package store

import (
	"time"

	"RegimePilot/internal/model"
)

// Store is the persistence capability set the ledger needs. Implementations
// are not assumed safe for concurrent processes; each call is its own short
// transaction.
type Store interface {
	// InsertPosition persists a new OPEN position and returns its id.
	InsertPosition(p *model.Position) (int64, error)

	// OpenPositions returns every OPEN position.
	OpenPositions() ([]model.Position, error)

	// DuePositions returns every OPEN position whose target exit date is on
	// or before the given date.
	DuePositions(date time.Time) ([]model.Position, error)

	// ClosePosition transitions a position OPEN -> CLOSED and persists the
	// exit fields. The transition happens exactly once per position.
	ClosePosition(id int64, exitDate time.Time, exitPrice, pnl, pnlPct float64) error

	// ClosedPositions returns every CLOSED position.
	ClosedPositions() ([]model.Position, error)

	// AppendSignalLog appends one audit row; rows are never deduplicated.
	AppendSignalLog(e *model.SignalLogEntry) error

	// UpsertDailyMetrics replaces the daily snapshot for its date.
	UpsertDailyMetrics(m *model.DailyMetrics) error

	// Close releases the underlying resources.
	Close() error
}
