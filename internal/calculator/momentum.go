package calculator

import "RegimePilot/internal/model"

// Momentum returns the fractional rate of change of the ticker over the
// lookback window (0.015 = 1.5%). The second return is false when the ticker
// is absent from the table or fewer than lookback+1 observations exist;
// undefined momentum is an expected non-firing condition, not an error.
func Momentum(t *model.PriceTable, ticker string, lookback int) (float64, bool) {
	col, ok := t.Columns[ticker]
	if !ok {
		return 0, false
	}
	if len(col) < lookback+1 {
		return 0, false
	}
	current := col[len(col)-1]
	past := col[len(col)-(lookback+1)]
	if past == 0 {
		return 0, false
	}
	return current/past - 1, true
}
