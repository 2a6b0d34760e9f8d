package collector

import "RegimePilot/internal/model"

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	// FetchDailyCloses returns adjusted daily closes for the ticker covering
	// the last daysBack calendar days, in chronological order.
	FetchDailyCloses(ticker string, daysBack int) ([]model.ClosePrice, error)
	Name() string
}
