package signal

import (
	"fmt"
	"sort"

	"RegimePilot/internal/model"
)

// Catalog is the fixed set of signal definitions, evaluated in this order
// every run. Fixed at startup, never mutated.
var Catalog = []model.SignalDefinition{
	{
		Name:        "JNK_IWM",
		Trigger:     "JNK",
		Target:      "IWM",
		KillSwitch:  "UUP",
		Booster:     "PLTM",
		BaseSize:    1.0,
		BoostedSize: 1.5,
	},
	{
		Name:        "ANGL_COPX",
		Trigger:     "ANGL",
		Target:      "COPX",
		BaseSize:    1.0,
		BoostedSize: 1.0,
	},
	{
		Name:        "HYG_MDY",
		Trigger:     "HYG",
		Target:      "MDY",
		KillSwitch:  "UUP",
		BaseSize:    1.0,
		BoostedSize: 1.0,
	},
}

// ValidateCatalog checks the static catalog at startup.
func ValidateCatalog(catalog []model.SignalDefinition) error {
	if len(catalog) == 0 {
		return fmt.Errorf("signal catalog is empty")
	}
	seen := make(map[string]bool, len(catalog))
	for _, def := range catalog {
		if def.Name == "" {
			return fmt.Errorf("signal definition with empty name")
		}
		if seen[def.Name] {
			return fmt.Errorf("duplicate signal name %q", def.Name)
		}
		seen[def.Name] = true
		if def.Trigger == "" || def.Target == "" {
			return fmt.Errorf("signal %s: trigger and target tickers are required", def.Name)
		}
		if def.BaseSize <= 0 {
			return fmt.Errorf("signal %s: base size must be positive", def.Name)
		}
		if def.BoostedSize < def.BaseSize {
			return fmt.Errorf("signal %s: boosted size below base size", def.Name)
		}
		if def.Booster == "" && def.BoostedSize != def.BaseSize {
			return fmt.Errorf("signal %s: boosted size without a booster ticker", def.Name)
		}
	}
	return nil
}

// CatalogTickers returns the deduplicated, sorted set of tickers the catalog
// references (triggers, targets, kill switches, boosters).
func CatalogTickers(catalog []model.SignalDefinition) []string {
	set := make(map[string]bool)
	for _, def := range catalog {
		set[def.Trigger] = true
		set[def.Target] = true
		if def.KillSwitch != "" {
			set[def.KillSwitch] = true
		}
		if def.Booster != "" {
			set[def.Booster] = true
		}
	}
	tickers := make([]string, 0, len(set))
	for t := range set {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
