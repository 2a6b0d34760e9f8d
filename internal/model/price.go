package model

import "time"

// DateLayout is the canonical day format used across the system and the database.
const DateLayout = "2006-01-02"

// ClosePrice is one daily adjusted close for a single ticker.
type ClosePrice struct {
	Date  time.Time
	Close float64
}

// PriceTable is a dense table of daily adjusted closes aligned on a common
// date index: every column has exactly one value per date, dates ascending.
// Rows with any missing ticker are dropped during assembly.
type PriceTable struct {
	Dates   []time.Time
	Columns map[string][]float64
}

// Len returns the number of aligned trading days.
func (t *PriceTable) Len() int { return len(t.Dates) }

// HasTicker reports whether the table contains a column for the ticker.
func (t *PriceTable) HasTicker(ticker string) bool {
	_, ok := t.Columns[ticker]
	return ok
}

// LastPrice returns the most recent close for the ticker.
func (t *PriceTable) LastPrice(ticker string) (float64, bool) {
	col, ok := t.Columns[ticker]
	if !ok || len(col) == 0 {
		return 0, false
	}
	return col[len(col)-1], true
}

// CurrentPrices returns the most recent close of every ticker, used for
// exit valuation.
func (t *PriceTable) CurrentPrices() map[string]float64 {
	prices := make(map[string]float64, len(t.Columns))
	for ticker, col := range t.Columns {
		if len(col) > 0 {
			prices[ticker] = col[len(col)-1]
		}
	}
	return prices
}
