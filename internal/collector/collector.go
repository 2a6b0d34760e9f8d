package collector

import (
	"errors"
	"log"
	"sort"
	"time"

	"RegimePilot/internal/model"
)

// ErrNoData signals that no ticker could be fetched at all; the run must
// abort before regime classification.
var ErrNoData = errors.New("no price data fetched")

// The VIX index trades under ^VIX at the provider but is referenced as VIX
// everywhere else in the system.
const (
	vixColumn = "VIX"
	vixSymbol = "^VIX"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string][]model.ClosePrice
	Err    map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(ticker string, daysBack int) ([]model.ClosePrice, error) {
	if err, ok := m.Err[ticker]; ok {
		return nil, err
	}
	if s, ok := m.Series[ticker]; ok {
		return s, nil
	}
	return generateMockCloses(100.0, daysBack), nil
}

func generateMockCloses(basePrice float64, count int) []model.ClosePrice {
	closes := make([]model.ClosePrice, count)
	for i := 0; i < count; i++ {
		closes[i] = model.ClosePrice{
			Date:  time.Now().AddDate(0, 0, -(count - i)),
			Close: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return closes
}

// Collector orchestrates price fetching and table assembly.
type Collector struct {
	Fetcher  Fetcher
	DaysBack int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, daysBack int) *Collector {
	return &Collector{Fetcher: fetcher, DaysBack: daysBack}
}

// Collect fetches history for every ticker and aligns the series into a dense
// table on a common date index. A ticker that fails to fetch is skipped with a
// warning; dates missing any remaining ticker are dropped. Returns ErrNoData
// when nothing could be fetched.
func (c *Collector) Collect(tickers []string) (*model.PriceTable, error) {
	series := make(map[string]map[string]float64, len(tickers))

	for _, ticker := range tickers {
		symbol := ticker
		if ticker == vixColumn {
			symbol = vixSymbol
		}
		closes, err := c.Fetcher.FetchDailyCloses(symbol, c.DaysBack)
		if err != nil {
			log.Printf("[WARN] skipping %s: %v", ticker, err)
			continue
		}
		byDate := make(map[string]float64, len(closes))
		for _, cp := range closes {
			byDate[cp.Date.Format(model.DateLayout)] = cp.Close
		}
		series[ticker] = byDate
	}

	if len(series) == 0 {
		return nil, ErrNoData
	}

	return alignSeries(series), nil
}

// alignSeries keeps only dates present in every fetched series, ascending.
func alignSeries(series map[string]map[string]float64) *model.PriceTable {
	var dateKeys []string
	for _, byDate := range series {
		if dateKeys == nil {
			for d := range byDate {
				dateKeys = append(dateKeys, d)
			}
			continue
		}
		kept := dateKeys[:0]
		for _, d := range dateKeys {
			if _, ok := byDate[d]; ok {
				kept = append(kept, d)
			}
		}
		dateKeys = kept
	}
	sort.Strings(dateKeys)

	table := &model.PriceTable{
		Dates:   make([]time.Time, len(dateKeys)),
		Columns: make(map[string][]float64, len(series)),
	}
	for i, d := range dateKeys {
		t, _ := time.Parse(model.DateLayout, d)
		table.Dates[i] = t
	}
	for ticker, byDate := range series {
		col := make([]float64, len(dateKeys))
		for i, d := range dateKeys {
			col[i] = byDate[d]
		}
		table.Columns[ticker] = col
	}
	return table
}
