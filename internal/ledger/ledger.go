package ledger

import (
	"fmt"
	"math"
	"time"

	"RegimePilot/internal/model"
	"RegimePilot/internal/store"
)

// Ledger manages the lifecycle of simulated positions against a persistent
// store: entry, scheduled exit, and performance aggregation.
type Ledger struct {
	store        store.Store
	slippageRate float64
	holdDays     int // calendar days from entry to target exit
}

// New creates a Ledger over the given store.
func New(st store.Store, slippageRate float64, holdDays int) *Ledger {
	return &Ledger{store: st, slippageRate: slippageRate, holdDays: holdDays}
}

// EnterPosition opens a position for a signal decision. The audit row is
// always appended first, regardless of outcome. Killed decisions and
// decisions whose notional rounds to zero shares produce no position.
func (l *Ledger) EnterPosition(sig *model.Signal, date time.Time, capital float64) (*model.Position, error) {
	action := model.ActionEntered
	if sig.IsKilled {
		action = model.ActionKilled
	}
	if err := l.store.AppendSignalLog(&model.SignalLogEntry{
		Date:            date,
		SignalName:      sig.Name,
		TriggerTicker:   sig.TriggerTicker,
		TargetTicker:    sig.TargetTicker,
		TriggerMomentum: sig.TriggerMomentum,
		IsKilled:        sig.IsKilled,
		KillReason:      sig.KillReason,
		IsBoosted:       sig.IsBoosted,
		Regime:          sig.Regime,
		ActionTaken:     action,
	}); err != nil {
		return nil, fmt.Errorf("log signal %s: %w", sig.Name, err)
	}

	if sig.IsKilled {
		return nil, nil
	}

	notional := capital * sig.PositionSize / 100
	entryPrice := sig.EntryPrice * (1 + l.slippageRate) // buy at ask

	if entryPrice <= 0 {
		return nil, nil
	}
	shares := int(math.Floor(notional / entryPrice))
	if shares == 0 {
		// The audit row above already said ENTERED even though no position
		// results; kept to match the reference ledger. A distinct NO_FILL
		// action would change what log consumers see.
		return nil, nil
	}

	pos := &model.Position{
		SignalName:      sig.Name,
		Ticker:          sig.TargetTicker,
		EntryDate:       date,
		EntryPrice:      entryPrice,
		Shares:          shares,
		PositionSizePct: sig.PositionSize,
		IsBoosted:       sig.IsBoosted,
		RegimeAtEntry:   sig.Regime,
		TargetExitDate:  date.AddDate(0, 0, l.holdDays),
		Status:          model.StatusOpen,
	}

	id, err := l.store.InsertPosition(pos)
	if err != nil {
		return nil, fmt.Errorf("insert position %s: %w", sig.Name, err)
	}
	pos.ID = id
	return pos, nil
}

// CheckExits closes every open position whose target exit date is on or
// before date and for which a current price exists. Positions whose ticker
// has no price today stay open and are reconsidered on a future run.
func (l *Ledger) CheckExits(date time.Time, currentPrices map[string]float64) ([]model.Position, error) {
	due, err := l.store.DuePositions(date)
	if err != nil {
		return nil, fmt.Errorf("load due positions: %w", err)
	}

	var closed []model.Position
	for _, pos := range due {
		price, ok := currentPrices[pos.Ticker]
		if !ok {
			continue
		}

		exitPrice := price * (1 - l.slippageRate) // sell at bid
		pnl := (exitPrice - pos.EntryPrice) * float64(pos.Shares)
		pnlPct := (exitPrice/pos.EntryPrice - 1) * 100

		if err := l.store.ClosePosition(pos.ID, date, exitPrice, pnl, pnlPct); err != nil {
			return closed, fmt.Errorf("close position %d: %w", pos.ID, err)
		}

		pos.Status = model.StatusClosed
		pos.ExitDate = date
		pos.ExitPrice = exitPrice
		pos.PnL = pnl
		pos.PnLPct = pnlPct
		closed = append(closed, pos)
	}
	return closed, nil
}

// OpenPositions returns all open positions, no side effects.
func (l *Ledger) OpenPositions() ([]model.Position, error) {
	return l.store.OpenPositions()
}

// PerformanceMetrics aggregates over closed positions only. Zero closed
// trades yields a zero win rate, not a division fault.
func (l *Ledger) PerformanceMetrics() (*model.PerformanceMetrics, error) {
	closed, err := l.store.ClosedPositions()
	if err != nil {
		return nil, fmt.Errorf("load closed positions: %w", err)
	}

	m := &model.PerformanceMetrics{TotalTrades: len(closed)}
	var sumPct, sumWinPct, sumLossPct float64
	for _, p := range closed {
		sumPct += p.PnLPct
		m.TotalPnL += p.PnL
		if p.PnL > 0 {
			m.Wins++
			sumWinPct += p.PnLPct
		} else {
			m.Losses++
			sumLossPct += p.PnLPct
		}
	}

	if m.TotalTrades > 0 {
		m.WinRate = float64(m.Wins) / float64(m.TotalTrades) * 100
		m.AvgReturn = sumPct / float64(m.TotalTrades)
	}
	if m.Wins > 0 {
		m.AvgWin = sumWinPct / float64(m.Wins)
	}
	if m.Losses > 0 {
		m.AvgLoss = sumLossPct / float64(m.Losses)
	}
	return m, nil
}

// SaveDailyMetrics computes current metrics and upserts the snapshot for the
// date, so a repeated same-day run leaves exactly one row with the latest
// values.
func (l *Ledger) SaveDailyMetrics(date time.Time, regime string, confidence float64) error {
	m, err := l.PerformanceMetrics()
	if err != nil {
		return err
	}
	return l.store.UpsertDailyMetrics(&model.DailyMetrics{
		Date:             date,
		TotalTrades:      m.TotalTrades,
		Wins:             m.Wins,
		Losses:           m.Losses,
		WinRate:          m.WinRate,
		AvgReturn:        m.AvgReturn,
		TotalPnL:         m.TotalPnL,
		Regime:           regime,
		RegimeConfidence: confidence,
	})
}
