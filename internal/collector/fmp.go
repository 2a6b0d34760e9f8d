package collector

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"RegimePilot/internal/model"
)

// FMPFetcher implements Fetcher using the Financial Modeling Prep REST API.
type FMPFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewFMPFetcher creates a new fetcher with optional proxy support.
func NewFMPFetcher(baseURL, apiKey, proxyURL string) *FMPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FMPFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}
}

func (f *FMPFetcher) Name() string { return "fmp" }

// fmpBar is the expected JSON shape of one historical row from FMP.
type fmpBar struct {
	Date     string  `json:"date"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adjClose"`
}

func (f *FMPFetcher) FetchDailyCloses(ticker string, daysBack int) ([]model.ClosePrice, error) {
	now := time.Now()
	endpoint := fmt.Sprintf("%s/historical-price-full/%s?apikey=%s&from=%s&to=%s",
		f.BaseURL,
		url.PathEscape(ticker),
		url.QueryEscape(f.APIKey),
		now.AddDate(0, 0, -daysBack).Format(model.DateLayout),
		now.Format(model.DateLayout),
	)

	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ticker, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", ticker, resp.StatusCode)
	}

	var payload struct {
		Historical []fmpBar `json:"historical"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ticker, err)
	}
	if len(payload.Historical) == 0 {
		return nil, fmt.Errorf("no data for %s", ticker)
	}

	closes := make([]model.ClosePrice, 0, len(payload.Historical))
	for _, bar := range payload.Historical {
		d, err := time.Parse(model.DateLayout, bar.Date)
		if err != nil {
			return nil, fmt.Errorf("parse date %q for %s: %w", bar.Date, ticker, err)
		}
		// Prefer adjusted close when the API provides it.
		price := bar.AdjClose
		if price == 0 {
			price = bar.Close
		}
		closes = append(closes, model.ClosePrice{Date: d, Close: price})
	}

	// FMP returns newest first; ensure chronological order.
	sort.Slice(closes, func(i, j int) bool { return closes[i].Date.Before(closes[j].Date) })
	return closes, nil
}
