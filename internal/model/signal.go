package model

// SignalDefinition is a static catalog entry describing one rule-based signal.
// Trigger momentum above the threshold fires the signal on Target; KillSwitch
// momentum above the threshold suppresses it; Booster momentum above the
// threshold bumps the position size to BoostedSize.
type SignalDefinition struct {
	Name        string
	Trigger     string
	Target      string
	KillSwitch  string // empty = no kill switch
	Booster     string // empty = no booster
	BaseSize    float64
	BoostedSize float64
}

// Signal is one decision produced per fired definition per run. Created fresh
// every run, never persisted verbatim, always logged as an audit row.
type Signal struct {
	Name             string
	TriggerTicker    string
	TargetTicker     string
	TriggerMomentum  float64
	PositionSize     float64 // percent of capital
	IsBoosted        bool
	IsKilled         bool
	KillReason       string // set only when IsKilled
	Regime           string
	RegimeConfidence float64
	EntryPrice       float64 // latest target close, pre-slippage
}
