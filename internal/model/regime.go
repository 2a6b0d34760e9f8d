package model

// RegimeGroup is the coarse classification of a regime label.
type RegimeGroup string

const (
	GroupRiskOff      RegimeGroup = "RISK_OFF"
	GroupRiskOn       RegimeGroup = "RISK_ON"
	GroupTransitional RegimeGroup = "TRANSITIONAL"
	GroupUnknown      RegimeGroup = "UNKNOWN"
)

// RegimeScore is one regime's match score against the current factors.
type RegimeScore struct {
	Label string
	Score float64
}

// RegimeResult is the outcome of classifying a factor snapshot: the winning
// label, its confidence (0-100, one decimal), and all scores ranked descending.
type RegimeResult struct {
	Regime     string
	Confidence float64
	Scores     []RegimeScore
}
