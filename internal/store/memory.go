package store

import (
	"fmt"
	"sync"
	"time"

	"RegimePilot/internal/model"
)

// MemoryStore is an in-memory Store used when SQLite is not configured and as
// the test fake for the ledger.
type MemoryStore struct {
	mu        sync.Mutex
	nextID    int64
	positions []model.Position
	Log       []model.SignalLogEntry
	Metrics   map[string]model.DailyMetrics // keyed by date string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:  1,
		Metrics: make(map[string]model.DailyMetrics),
	}
}

func (m *MemoryStore) InsertPosition(p *model.Position) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *p
	stored.ID = m.nextID
	stored.Status = model.StatusOpen
	m.nextID++
	m.positions = append(m.positions, stored)
	return stored.ID, nil
}

func (m *MemoryStore) OpenPositions() ([]model.Position, error) {
	return m.filter(func(p model.Position) bool { return p.Status == model.StatusOpen }), nil
}

func (m *MemoryStore) DuePositions(date time.Time) ([]model.Position, error) {
	return m.filter(func(p model.Position) bool {
		return p.Status == model.StatusOpen && !p.TargetExitDate.After(date)
	}), nil
}

func (m *MemoryStore) ClosedPositions() ([]model.Position, error) {
	return m.filter(func(p model.Position) bool { return p.Status == model.StatusClosed }), nil
}

func (m *MemoryStore) ClosePosition(id int64, exitDate time.Time, exitPrice, pnl, pnlPct float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.positions {
		p := &m.positions[i]
		if p.ID == id && p.Status == model.StatusOpen {
			p.Status = model.StatusClosed
			p.ExitDate = exitDate
			p.ExitPrice = exitPrice
			p.PnL = pnl
			p.PnLPct = pnlPct
			return nil
		}
	}
	return fmt.Errorf("close position %d: not open", id)
}

func (m *MemoryStore) AppendSignalLog(e *model.SignalLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := *e
	entry.ID = int64(len(m.Log) + 1)
	m.Log = append(m.Log, entry)
	return nil
}

func (m *MemoryStore) UpsertDailyMetrics(dm *model.DailyMetrics) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Metrics[dm.Date.Format(model.DateLayout)] = *dm
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) filter(keep func(model.Position) bool) []model.Position {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Position
	for _, p := range m.positions {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
