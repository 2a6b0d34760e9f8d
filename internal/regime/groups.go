package regime

import "RegimePilot/internal/model"

// regimeGroups is the static classification of regime labels into groups.
// Immutable after startup.
var regimeGroups = map[string]model.RegimeGroup{
	"RISK_OFF_LIQUIDATION":  model.GroupRiskOff,
	"RISK_OFF_DEFLATIONARY": model.GroupRiskOff,
	"RISK_OFF_STAGFLATION":  model.GroupRiskOff,
	"RISK_ON_GROWTH":        model.GroupRiskOn,
	"RISK_ON_INFLATION":     model.GroupRiskOn,
	"GOLDILOCKS":            model.GroupRiskOn,
	"CHOPPY_TRANSITIONAL":   model.GroupTransitional,
	"DEBASEMENT_RALLY":      model.GroupTransitional,
}

// GroupOf maps a regime label to its group; unrecognized labels map to UNKNOWN.
func GroupOf(label string) model.RegimeGroup {
	if g, ok := regimeGroups[label]; ok {
		return g
	}
	return model.GroupUnknown
}
