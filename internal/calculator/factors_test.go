package calculator

import (
	"errors"
	"math"
	"testing"

	"RegimePilot/internal/model"
)

// regimeTable builds an aligned table with all five regime columns.
func regimeTable(n int, overrides map[string][]float64) *model.PriceTable {
	columns := make(map[string][]float64)
	for _, ticker := range RegimeTickers {
		if col, ok := overrides[ticker]; ok {
			columns[ticker] = col
			continue
		}
		col := make([]float64, n)
		for i := range col {
			// Gentle drift so correlations and EMAs are well defined.
			col[i] = 100 + float64(i)*0.1
		}
		columns[ticker] = col
	}
	return tableOf(columns)
}

func TestFactors_InsufficientHistory(t *testing.T) {
	_, err := Factors(regimeTable(59, nil))
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory for 59 rows, got %v", err)
	}
}

func TestFactors_MissingColumn(t *testing.T) {
	table := regimeTable(80, nil)
	delete(table.Columns, "VIX")
	if _, err := Factors(table); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected error for missing VIX column, got %v", err)
	}
}

func TestFactors_AllTenPresent(t *testing.T) {
	factors, err := Factors(regimeTable(80, nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(factors) != len(model.FactorNames) {
		t.Fatalf("expected %d factors, got %d", len(model.FactorNames), len(factors))
	}
	for _, name := range model.FactorNames {
		if _, ok := factors[name]; !ok {
			t.Errorf("missing factor %s", name)
		}
	}
}

func TestFactors_KnownValues(t *testing.T) {
	n := 80
	spy := make([]float64, n)
	for i := range spy {
		spy[i] = 100
	}
	spy[n-50] = 100 // explicit: ROC base
	spy[n-1] = 110  // +10% over the 50-day window

	vix := make([]float64, n)
	for i := range vix {
		vix[i] = 20
	}
	vix[n-1] = 22 // +10% against both the 5- and 20-day references

	factors, err := Factors(regimeTable(n, map[string][]float64{"SPY": spy, "VIX": vix}))
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(factors["spy_roc_50"]-10) > 1e-9 {
		t.Errorf("expected spy_roc_50 = 10, got %v", factors["spy_roc_50"])
	}
	if factors["vix_level"] != 22 {
		t.Errorf("expected vix_level = 22, got %v", factors["vix_level"])
	}
	if math.Abs(factors["vix_change_5"]-10) > 1e-9 {
		t.Errorf("expected vix_change_5 = 10, got %v", factors["vix_change_5"])
	}
	if math.Abs(factors["vix_change_20"]-10) > 1e-9 {
		t.Errorf("expected vix_change_20 = 10, got %v", factors["vix_change_20"])
	}
}

func TestReturnCorrelation(t *testing.T) {
	n := 40
	a := make([]float64, n)
	b := make([]float64, n)
	c := make([]float64, n)
	for i := 0; i < n; i++ {
		// a and b move in lockstep; c mirrors them.
		step := 1.0
		if i%2 == 0 {
			step = -1.0
		}
		a[i] = 100 + float64(i) + step
		b[i] = 2 * a[i]
		c[i] = 300 - a[i]
	}

	if corr := returnCorrelation(a, b, 20); math.Abs(corr-1) > 1e-9 {
		t.Errorf("expected correlation 1 for proportional series, got %v", corr)
	}
	if corr := returnCorrelation(a, c, 20); corr >= 0 {
		t.Errorf("expected negative correlation for mirrored series, got %v", corr)
	}
	if corr := returnCorrelation(flatSeries(100, n), a, 20); corr != 0 {
		t.Errorf("expected 0 correlation for zero-variance series, got %v", corr)
	}
}

func TestEMADeviation(t *testing.T) {
	// Flat series: price sits exactly on its EMA.
	if dev := emaDeviation(flatSeries(50, 250), 200); math.Abs(dev) > 1e-9 {
		t.Errorf("expected 0 deviation on flat series, got %v", dev)
	}
	// Rising series: price above its EMA.
	rising := make([]float64, 250)
	for i := range rising {
		rising[i] = 100 + float64(i)
	}
	if dev := emaDeviation(rising, 200); dev <= 0 {
		t.Errorf("expected positive deviation on rising series, got %v", dev)
	}
}
