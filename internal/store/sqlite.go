package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"RegimePilot/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists the ledger to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer

	// WAL mode for better read performance while the daily run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS positions (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			signal_name       TEXT NOT NULL,
			ticker            TEXT NOT NULL,
			entry_date        TEXT NOT NULL,
			entry_price       REAL NOT NULL,
			shares            INTEGER NOT NULL,
			position_size_pct REAL NOT NULL,
			is_boosted        INTEGER NOT NULL,
			regime_at_entry   TEXT NOT NULL,
			target_exit_date  TEXT NOT NULL,
			status            TEXT NOT NULL DEFAULT 'OPEN',
			exit_date         TEXT,
			exit_price        REAL,
			pnl               REAL,
			pnl_pct           REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_positions_status ON positions(status)`,

		`CREATE TABLE IF NOT EXISTS daily_metrics (
			date              TEXT PRIMARY KEY,
			total_trades      INTEGER,
			wins              INTEGER,
			losses            INTEGER,
			win_rate          REAL,
			avg_return        REAL,
			total_pnl         REAL,
			regime            TEXT,
			regime_confidence REAL
		)`,

		`CREATE TABLE IF NOT EXISTS signals_log (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			date             TEXT NOT NULL,
			signal_name      TEXT NOT NULL,
			trigger_ticker   TEXT NOT NULL,
			target_ticker    TEXT NOT NULL,
			trigger_momentum REAL NOT NULL,
			is_killed        INTEGER NOT NULL,
			kill_reason      TEXT,
			is_boosted       INTEGER NOT NULL,
			regime           TEXT NOT NULL,
			action_taken     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_date ON signals_log(date)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) InsertPosition(p *model.Position) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`INSERT INTO positions
		(signal_name, ticker, entry_date, entry_price, shares,
		 position_size_pct, is_boosted, regime_at_entry, target_exit_date, status)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		p.SignalName, p.Ticker, p.EntryDate.Format(model.DateLayout), p.EntryPrice, p.Shares,
		p.PositionSizePct, boolToInt(p.IsBoosted), p.RegimeAtEntry,
		p.TargetExitDate.Format(model.DateLayout), string(model.StatusOpen),
	)
	if err != nil {
		return 0, fmt.Errorf("insert position: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert position id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) OpenPositions() ([]model.Position, error) {
	return s.queryPositions(`SELECT ` + positionColumns + ` FROM positions WHERE status = 'OPEN' ORDER BY id`)
}

func (s *SQLiteStore) DuePositions(date time.Time) ([]model.Position, error) {
	return s.queryPositions(
		`SELECT `+positionColumns+` FROM positions WHERE status = 'OPEN' AND target_exit_date <= ? ORDER BY id`,
		date.Format(model.DateLayout),
	)
}

func (s *SQLiteStore) ClosedPositions() ([]model.Position, error) {
	return s.queryPositions(`SELECT ` + positionColumns + ` FROM positions WHERE status = 'CLOSED' ORDER BY id`)
}

func (s *SQLiteStore) ClosePosition(id int64, exitDate time.Time, exitPrice, pnl, pnlPct float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE positions
		SET status = 'CLOSED', exit_date = ?, exit_price = ?, pnl = ?, pnl_pct = ?
		WHERE id = ? AND status = 'OPEN'`,
		exitDate.Format(model.DateLayout), exitPrice, pnl, pnlPct, id,
	)
	if err != nil {
		return fmt.Errorf("close position %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("close position %d: not open", id)
	}
	return nil
}

func (s *SQLiteStore) AppendSignalLog(e *model.SignalLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO signals_log
		(date, signal_name, trigger_ticker, target_ticker, trigger_momentum,
		 is_killed, kill_reason, is_boosted, regime, action_taken)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.Date.Format(model.DateLayout), e.SignalName, e.TriggerTicker, e.TargetTicker,
		e.TriggerMomentum, boolToInt(e.IsKilled), e.KillReason, boolToInt(e.IsBoosted),
		e.Regime, e.ActionTaken,
	)
	if err != nil {
		return fmt.Errorf("append signal log: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpsertDailyMetrics(m *model.DailyMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO daily_metrics
		(date, total_trades, wins, losses, win_rate, avg_return, total_pnl, regime, regime_confidence)
		VALUES (?,?,?,?,?,?,?,?,?)
		ON CONFLICT(date) DO UPDATE SET
			total_trades      = excluded.total_trades,
			wins              = excluded.wins,
			losses            = excluded.losses,
			win_rate          = excluded.win_rate,
			avg_return        = excluded.avg_return,
			total_pnl         = excluded.total_pnl,
			regime            = excluded.regime,
			regime_confidence = excluded.regime_confidence`,
		m.Date.Format(model.DateLayout), m.TotalTrades, m.Wins, m.Losses,
		m.WinRate, m.AvgReturn, m.TotalPnL, m.Regime, m.RegimeConfidence,
	)
	if err != nil {
		return fmt.Errorf("upsert daily metrics: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}

const positionColumns = `id, signal_name, ticker, entry_date, entry_price, shares,
	position_size_pct, is_boosted, regime_at_entry, target_exit_date, status,
	exit_date, exit_price, pnl, pnl_pct`

func (s *SQLiteStore) queryPositions(query string, args ...any) ([]model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	var positions []model.Position
	for rows.Next() {
		var p model.Position
		var entryDate, targetExitDate, status string
		var boosted int
		var exitDate sql.NullString
		var exitPrice, pnl, pnlPct sql.NullFloat64

		if err := rows.Scan(
			&p.ID, &p.SignalName, &p.Ticker, &entryDate, &p.EntryPrice, &p.Shares,
			&p.PositionSizePct, &boosted, &p.RegimeAtEntry, &targetExitDate, &status,
			&exitDate, &exitPrice, &pnl, &pnlPct,
		); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}

		p.IsBoosted = boosted == 1
		p.Status = model.PositionStatus(status)
		if p.EntryDate, err = time.Parse(model.DateLayout, entryDate); err != nil {
			return nil, fmt.Errorf("parse entry date %q: %w", entryDate, err)
		}
		if p.TargetExitDate, err = time.Parse(model.DateLayout, targetExitDate); err != nil {
			return nil, fmt.Errorf("parse target exit date %q: %w", targetExitDate, err)
		}
		if exitDate.Valid {
			if p.ExitDate, err = time.Parse(model.DateLayout, exitDate.String); err != nil {
				return nil, fmt.Errorf("parse exit date %q: %w", exitDate.String, err)
			}
		}
		p.ExitPrice = exitPrice.Float64
		p.PnL = pnl.Float64
		p.PnLPct = pnlPct.Float64

		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
