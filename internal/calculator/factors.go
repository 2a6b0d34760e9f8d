package calculator

import (
	"errors"
	"fmt"
	"math"

	"RegimePilot/internal/model"
)

// ErrInsufficientHistory is returned when the aligned table is too short for
// factor computation; fatal to the run.
var ErrInsufficientHistory = errors.New("insufficient history for factor computation")

// minFactorRows is the minimum number of aligned rows required.
const minFactorRows = 60

// RegimeTickers are the columns factor computation reads from the table.
var RegimeTickers = []string{"SPY", "TLT", "IAU", "DBC", "VIX"}

// Factors computes the ten regime factors for the most recent day.
func Factors(t *model.PriceTable) (model.FactorSnapshot, error) {
	if t.Len() < minFactorRows {
		return nil, fmt.Errorf("%w: need %d rows, got %d", ErrInsufficientHistory, minFactorRows, t.Len())
	}
	for _, ticker := range RegimeTickers {
		if !t.HasTicker(ticker) {
			return nil, fmt.Errorf("%w: missing column %s", ErrInsufficientHistory, ticker)
		}
	}

	spy := t.Columns["SPY"]
	tlt := t.Columns["TLT"]
	iau := t.Columns["IAU"]
	dbc := t.Columns["DBC"]
	vix := t.Columns["VIX"]

	vixLevel := vix[len(vix)-1]

	factors := model.FactorSnapshot{
		"spy_roc_50":    rateOfChange(spy, 50),
		"tlt_roc_50":    rateOfChange(tlt, 50),
		"iau_roc_50":    rateOfChange(iau, 50),
		"dbc_roc_50":    rateOfChange(dbc, 50),
		"vix_level":     vixLevel,
		"vix_change_5":  rateOfChange(vix, 5),
		"vix_change_20": rateOfChange(vix, 20),
		"spy_tlt_corr":  returnCorrelation(spy, tlt, 20),
		"iau_spy_corr":  returnCorrelation(iau, spy, 20),
		"spy_vs_200ema": emaDeviation(spy, 200),
	}
	return factors, nil
}

// rateOfChange compares the last close to the close n-1 trading days earlier,
// as a percentage. Falls back to the first close when the series is shorter
// than n.
func rateOfChange(closes []float64, n int) float64 {
	past := closes[0]
	if len(closes) >= n {
		past = closes[len(closes)-n]
	}
	if past == 0 {
		return 0
	}
	return (closes[len(closes)-1]/past - 1) * 100
}

// emaDeviation returns how far the last close sits above or below its
// exponential moving average with the given span, as a percentage.
func emaDeviation(closes []float64, span int) float64 {
	alpha := 2.0 / (float64(span) + 1.0)
	ema := closes[0]
	for _, c := range closes[1:] {
		ema = alpha*c + (1-alpha)*ema
	}
	if ema == 0 {
		return 0
	}
	return (closes[len(closes)-1]/ema - 1) * 100
}

// returnCorrelation computes the Pearson correlation of the daily returns of
// two series over the most recent window days. Zero when either series has no
// variance in the window.
func returnCorrelation(a, b []float64, window int) float64 {
	ra := dailyReturns(a)
	rb := dailyReturns(b)
	n := len(ra)
	if len(rb) < n {
		n = len(rb)
	}
	if n > window {
		ra = ra[len(ra)-window:]
		rb = rb[len(rb)-window:]
		n = window
	}
	if n < 2 {
		return 0
	}

	var meanA, meanB float64
	for i := 0; i < n; i++ {
		meanA += ra[i]
		meanB += rb[i]
	}
	meanA /= float64(n)
	meanB /= float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := ra[i] - meanA
		db := rb[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

func dailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, closes[i]/closes[i-1]-1)
	}
	return returns
}
