package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"RegimePilot/internal/calculator"
	"RegimePilot/internal/collector"
	"RegimePilot/internal/ledger"
	"RegimePilot/internal/model"
	"RegimePilot/internal/regime"
	"RegimePilot/internal/report"
	"RegimePilot/internal/signal"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the daily decision pipeline on a cron schedule. The pipeline
// is strictly sequential: a failing step prevents all later steps, so no
// ledger mutation happens before classification succeeds.
type Scheduler struct {
	Cron       *cron.Cron
	Collector  *collector.Collector
	Classifier *regime.Classifier
	Engine     *signal.Engine
	Ledger     *ledger.Ledger
	Capital    float64
	Out        io.Writer
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler writing reports to stdout.
func NewScheduler(ctx context.Context, col *collector.Collector, cls *regime.Classifier, eng *signal.Engine, led *ledger.Ledger, capital float64) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Collector:  col,
		Classifier: cls,
		Engine:     eng,
		Ledger:     led,
		Capital:    capital,
		Out:        os.Stdout,
		Ctx:        ctx,
	}
}

// RegisterAll registers the daily trading task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunDailyNow executes the daily task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

// tickers assembles the full deduplicated fetch list: regime inputs plus
// everything the signal catalog references.
func (s *Scheduler) tickers() []string {
	set := make(map[string]bool)
	for _, t := range calculator.RegimeTickers {
		set[t] = true
	}
	for _, t := range signal.CatalogTickers(s.Engine.Catalog) {
		set[t] = true
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (s *Scheduler) dailyTask() {
	if s.Ctx != nil && s.Ctx.Err() != nil {
		log.Println("[WARN] shutdown in progress, skipping daily run")
		return
	}
	now := time.Now()
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		log.Println("[INFO] weekend, skipping daily run")
		return
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	log.Println("[INFO] running daily trading task")

	// Step 1: fetch market data
	report.WriteHeader(s.Out, "STEP 1: FETCHING MARKET DATA")
	prices, err := s.Collector.Collect(s.tickers())
	if err != nil {
		log.Printf("[ERROR] fetch prices: %v", err)
		return
	}
	fmt.Fprintf(s.Out, "Fetched %d aligned days for %d tickers\n", prices.Len(), len(prices.Columns))

	// Step 2: detect regime
	report.WriteHeader(s.Out, "STEP 2: DETECTING MARKET REGIME")
	factors, err := calculator.Factors(prices)
	if err != nil {
		log.Printf("[ERROR] compute factors: %v", err)
		return
	}
	report.WriteFactors(s.Out, factors)
	result := s.Classifier.Classify(factors)
	report.WriteRegime(s.Out, result)

	// Step 3: generate signals
	report.WriteHeader(s.Out, "STEP 3: GENERATING TRADING SIGNALS")
	signals := s.Engine.Generate(prices, result)
	signals = s.Engine.FilterByRegime(signals, regime.GroupOf(result.Regime))
	report.WriteSignals(s.Out, signals)

	// Step 4: check exits
	report.WriteHeader(s.Out, "STEP 4: CHECKING FOR EXITS")
	closed, err := s.Ledger.CheckExits(today, prices.CurrentPrices())
	if err != nil {
		log.Printf("[ERROR] check exits: %v", err)
		return
	}
	report.WritePositions(s.Out, "Positions closed today", closed)

	// Step 5: enter new positions
	report.WriteHeader(s.Out, "STEP 5: ENTERING NEW POSITIONS")
	var entered, killed int
	for i := range signals {
		pos, err := s.Ledger.EnterPosition(&signals[i], today, s.Capital)
		if err != nil {
			log.Printf("[ERROR] enter position: %v", err)
			return
		}
		switch {
		case pos != nil:
			entered++
			fmt.Fprintf(s.Out, "Entered %s: %d shares of %s @ $%.2f, target exit %s\n",
				pos.SignalName, pos.Shares, pos.Ticker, pos.EntryPrice,
				pos.TargetExitDate.Format(model.DateLayout))
		case signals[i].IsKilled:
			killed++
			fmt.Fprintf(s.Out, "Skipped %s (killed): %s\n", signals[i].Name, signals[i].KillReason)
		default:
			fmt.Fprintf(s.Out, "Skipped %s: notional too small for one share\n", signals[i].Name)
		}
	}
	if len(signals) == 0 {
		fmt.Fprintln(s.Out, "No signals fired today.")
	}

	// Step 6: current portfolio state
	report.WriteHeader(s.Out, "STEP 6: CURRENT PORTFOLIO STATE")
	open, err := s.Ledger.OpenPositions()
	if err != nil {
		log.Printf("[ERROR] load open positions: %v", err)
		return
	}
	report.WritePositions(s.Out, "Open positions", open)

	// Step 7: performance metrics + daily snapshot
	report.WriteHeader(s.Out, "STEP 7: PERFORMANCE METRICS")
	metrics, err := s.Ledger.PerformanceMetrics()
	if err != nil {
		log.Printf("[ERROR] compute metrics: %v", err)
		return
	}
	report.WriteMetrics(s.Out, metrics)

	if err := s.Ledger.SaveDailyMetrics(today, result.Regime, result.Confidence); err != nil {
		log.Printf("[ERROR] save daily metrics: %v", err)
		return
	}

	report.WriteSummary(s.Out, result, len(signals), entered, killed, len(closed), len(open), metrics)
}
