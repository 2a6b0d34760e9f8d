package calculator

import (
	"math"
	"testing"
	"time"

	"RegimePilot/internal/model"
)

func tableOf(columns map[string][]float64) *model.PriceTable {
	n := 0
	for _, col := range columns {
		n = len(col)
		break
	}
	dates := make([]time.Time, n)
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = base.AddDate(0, 0, i)
	}
	return &model.PriceTable{Dates: dates, Columns: columns}
}

func flatSeries(value float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = value
	}
	return s
}

func TestMomentum_FlatSeries(t *testing.T) {
	prices := tableOf(map[string][]float64{"JNK": flatSeries(100, 20)})
	mom, ok := Momentum(prices, "JNK", 10)
	if !ok {
		t.Fatal("expected momentum to be defined")
	}
	if mom != 0 {
		t.Errorf("expected 0 momentum for flat series, got %v", mom)
	}
}

func TestMomentum_KnownValue(t *testing.T) {
	// 11 observations, first 100, last 102.2: exactly lookback+1 rows.
	series := flatSeries(100, 11)
	series[10] = 102.2
	prices := tableOf(map[string][]float64{"JNK": series})

	mom, ok := Momentum(prices, "JNK", 10)
	if !ok {
		t.Fatal("expected momentum to be defined")
	}
	if math.Abs(mom-0.022) > 1e-12 {
		t.Errorf("expected momentum 0.022, got %v", mom)
	}
}

func TestMomentum_Undefined(t *testing.T) {
	prices := tableOf(map[string][]float64{"JNK": flatSeries(100, 10)})

	if _, ok := Momentum(prices, "JNK", 10); ok {
		t.Error("expected undefined momentum with only lookback observations")
	}
	if _, ok := Momentum(prices, "MISSING", 10); ok {
		t.Error("expected undefined momentum for absent ticker")
	}
}
