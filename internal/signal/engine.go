package signal

import (
	"fmt"

	"RegimePilot/internal/calculator"
	"RegimePilot/internal/model"
)

// Engine evaluates the signal catalog against momentum figures and the
// current regime.
type Engine struct {
	Catalog   []model.SignalDefinition
	Threshold float64 // momentum firing threshold, fractional (0.015 = 1.5%)
	Lookback  int     // momentum lookback, trading days
}

// NewEngine creates an Engine over the given catalog.
func NewEngine(catalog []model.SignalDefinition, threshold float64, lookback int) *Engine {
	return &Engine{Catalog: catalog, Threshold: threshold, Lookback: lookback}
}

// Generate evaluates every definition in catalog order and returns one
// decision per definition that fired. Definitions whose trigger momentum is
// undefined or at/below the threshold simply do not fire.
func (e *Engine) Generate(prices *model.PriceTable, regime *model.RegimeResult) []model.Signal {
	var signals []model.Signal
	for _, def := range e.Catalog {
		if sig, ok := e.evaluate(def, prices, regime); ok {
			signals = append(signals, sig)
		}
	}
	return signals
}

// evaluate checks one definition. Kill and boost are independent: a killed
// decision still records the boosted size, though no position will result.
func (e *Engine) evaluate(def model.SignalDefinition, prices *model.PriceTable, regime *model.RegimeResult) (model.Signal, bool) {
	triggerMom, ok := calculator.Momentum(prices, def.Trigger, e.Lookback)
	if !ok || triggerMom <= e.Threshold {
		return model.Signal{}, false
	}

	sig := model.Signal{
		Name:             def.Name,
		TriggerTicker:    def.Trigger,
		TargetTicker:     def.Target,
		TriggerMomentum:  triggerMom,
		PositionSize:     def.BaseSize,
		Regime:           regime.Regime,
		RegimeConfidence: regime.Confidence,
	}

	if def.KillSwitch != "" {
		if killMom, ok := calculator.Momentum(prices, def.KillSwitch, e.Lookback); ok && killMom > e.Threshold {
			sig.IsKilled = true
			sig.KillReason = fmt.Sprintf("%s momentum %.2f%% > threshold", def.KillSwitch, killMom*100)
		}
	}

	if def.Booster != "" {
		if boostMom, ok := calculator.Momentum(prices, def.Booster, e.Lookback); ok && boostMom > e.Threshold {
			sig.IsBoosted = true
			sig.PositionSize = def.BoostedSize
		}
	}

	if price, ok := prices.LastPrice(def.Target); ok {
		sig.EntryPrice = price
	}

	return sig, true
}

// FilterByRegime is the extension point for regime-conditioned signal
// filtering. The current behavior trades all signals and only tracks the
// regime for analysis.
func (e *Engine) FilterByRegime(signals []model.Signal, group model.RegimeGroup) []model.Signal {
	return signals
}
