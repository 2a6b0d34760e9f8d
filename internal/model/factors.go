package model

// FactorSnapshot maps factor name to its value for the current day.
// Immutable once computed.
type FactorSnapshot map[string]float64

// FactorNames is the fixed ordered list of the ten recognized regime factors.
var FactorNames = []string{
	"spy_roc_50",
	"tlt_roc_50",
	"iau_roc_50",
	"dbc_roc_50",
	"vix_level",
	"vix_change_5",
	"vix_change_20",
	"spy_tlt_corr",
	"iau_spy_corr",
	"spy_vs_200ema",
}
