package model

import "time"

// PositionStatus is the lifecycle state of a position. The only transition is
// OPEN -> CLOSED; positions are never reopened and never deleted.
type PositionStatus string

const (
	StatusOpen   PositionStatus = "OPEN"
	StatusClosed PositionStatus = "CLOSED"
)

// Action taken on a signal, recorded in the audit log.
const (
	ActionEntered = "ENTERED"
	ActionKilled  = "KILLED"
)

// Position is one simulated trade. Entry and exit prices always include the
// slippage adjustment. Exit fields are meaningful only when Status is CLOSED.
type Position struct {
	ID              int64
	SignalName      string
	Ticker          string
	EntryDate       time.Time
	EntryPrice      float64
	Shares          int
	PositionSizePct float64
	IsBoosted       bool
	RegimeAtEntry   string
	TargetExitDate  time.Time
	Status          PositionStatus
	ExitDate        time.Time
	ExitPrice       float64
	PnL             float64
	PnLPct          float64
}

// SignalLogEntry is one append-only audit row per signal decision per run,
// written regardless of outcome. Repeated same-day runs append duplicate rows.
type SignalLogEntry struct {
	ID              int64
	Date            time.Time
	SignalName      string
	TriggerTicker   string
	TargetTicker    string
	TriggerMomentum float64
	IsKilled        bool
	KillReason      string
	IsBoosted       bool
	Regime          string
	ActionTaken     string
}

// PerformanceMetrics aggregates over closed positions only. Values are raw;
// rounding happens at the display boundary.
type PerformanceMetrics struct {
	TotalTrades int
	Wins        int
	Losses      int
	WinRate     float64 // percent, 0 when no trades
	AvgReturn   float64 // mean pnl_pct
	AvgWin      float64 // mean pnl_pct among winners
	AvgLoss     float64 // mean pnl_pct among losers
	TotalPnL    float64
}

// DailyMetrics is the daily snapshot keyed by date, replaced on conflict so a
// repeated same-day run leaves exactly one row.
type DailyMetrics struct {
	Date             time.Time
	TotalTrades      int
	Wins             int
	Losses           int
	WinRate          float64
	AvgReturn        float64
	TotalPnL         float64
	Regime           string
	RegimeConfidence float64
}
