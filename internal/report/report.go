package report

import (
	"fmt"
	"io"
	"strings"

	"RegimePilot/internal/model"
	"RegimePilot/internal/regime"

	"github.com/olekukonko/tablewriter"
)

// Console report writers for the daily run. All output is write-only
// formatting; nothing here mutates state.

// WriteHeader prints a step banner.
func WriteHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", strings.Repeat("=", 70), title)
	fmt.Fprintln(w, strings.Repeat("=", 70))
}

// WriteFactors prints the current factor snapshot in canonical factor order.
func WriteFactors(w io.Writer, factors model.FactorSnapshot) {
	fmt.Fprintln(w, "Current factors:")
	for _, name := range model.FactorNames {
		if v, ok := factors[name]; ok {
			fmt.Fprintf(w, "  %-14s %8.2f\n", name, v)
		}
	}
}

// WriteRegime prints the classification result and the ranked scores.
func WriteRegime(w io.Writer, result *model.RegimeResult) {
	fmt.Fprintf(w, "Detected regime: %s (%.1f%% confidence, group %s)\n\n",
		result.Regime, result.Confidence, regime.GroupOf(result.Regime))

	table := tablewriter.NewWriter(w)
	table.Header("Regime", "Score")
	for _, s := range result.Scores {
		table.Append(s.Label, fmt.Sprintf("%.1f", s.Score))
	}
	table.Render()
}

// WriteSignals prints every decision of the run, including killed ones.
func WriteSignals(w io.Writer, signals []model.Signal) {
	if len(signals) == 0 {
		fmt.Fprintln(w, "No signals fired today.")
		return
	}
	for _, s := range signals {
		status := "ACTIVE"
		if s.IsKilled {
			status = "KILLED"
		} else if s.IsBoosted {
			status = "BOOSTED"
		}
		fmt.Fprintf(w, "%s - %s\n", s.Name, status)
		fmt.Fprintf(w, "  trigger: %s momentum %+.2f%%\n", s.TriggerTicker, s.TriggerMomentum*100)
		fmt.Fprintf(w, "  target:  %s @ $%.2f, size %.1f%%\n", s.TargetTicker, s.EntryPrice, s.PositionSize)
		fmt.Fprintf(w, "  regime:  %s (%.1f%%)\n", s.Regime, s.RegimeConfidence)
		if s.IsKilled {
			fmt.Fprintf(w, "  kill reason: %s\n", s.KillReason)
		}
	}
}

// WritePositions prints a position table, open or closed.
func WritePositions(w io.Writer, title string, positions []model.Position) {
	if len(positions) == 0 {
		fmt.Fprintf(w, "%s: none\n", title)
		return
	}
	fmt.Fprintf(w, "%s:\n", title)

	table := tablewriter.NewWriter(w)
	table.Header("Signal", "Ticker", "Entry", "Shares", "Exit", "P&L", "P&L %")
	for _, p := range positions {
		exit := p.TargetExitDate.Format(model.DateLayout) + " (target)"
		pnl, pnlPct := "-", "-"
		if p.Status == model.StatusClosed {
			exit = fmt.Sprintf("$%.2f on %s", p.ExitPrice, p.ExitDate.Format(model.DateLayout))
			pnl = fmt.Sprintf("$%.2f", p.PnL)
			pnlPct = fmt.Sprintf("%+.2f%%", p.PnLPct)
		}
		table.Append(
			p.SignalName,
			p.Ticker,
			fmt.Sprintf("$%.2f on %s", p.EntryPrice, p.EntryDate.Format(model.DateLayout)),
			fmt.Sprintf("%d", p.Shares),
			exit,
			pnl,
			pnlPct,
		)
	}
	table.Render()
}

// WriteMetrics prints the aggregated performance metrics. Rounding happens
// here, at the display boundary.
func WriteMetrics(w io.Writer, m *model.PerformanceMetrics) {
	fmt.Fprintln(w, "Overall performance:")
	fmt.Fprintf(w, "  total trades: %d\n", m.TotalTrades)
	fmt.Fprintf(w, "  wins:         %d\n", m.Wins)
	fmt.Fprintf(w, "  losses:       %d\n", m.Losses)
	fmt.Fprintf(w, "  win rate:     %.1f%%\n", m.WinRate)
	fmt.Fprintf(w, "  avg return:   %+.3f%%\n", m.AvgReturn)
	fmt.Fprintf(w, "  avg win:      %+.3f%%\n", m.AvgWin)
	fmt.Fprintf(w, "  avg loss:     %+.3f%%\n", m.AvgLoss)
	fmt.Fprintf(w, "  total P&L:    $%.2f\n", m.TotalPnL)

	// Expected-vs-actual comparison once the sample is meaningful.
	if m.TotalTrades >= 10 {
		const expectedWinRate = 60.0
		delta := m.WinRate - expectedWinRate
		status := "ON TRACK"
		if delta < -5 {
			status = "BELOW EXPECTED"
		}
		fmt.Fprintf(w, "  expected win rate: %.1f%%, delta %+.1fpp (%s)\n", expectedWinRate, delta, status)
	}
}

// WriteSummary prints the end-of-run one-screen summary.
func WriteSummary(w io.Writer, result *model.RegimeResult, fired, entered, killed, exited, open int, m *model.PerformanceMetrics) {
	WriteHeader(w, "DAILY RUN COMPLETE")
	fmt.Fprintf(w, "Regime: %s (%.1f%%)\n", result.Regime, result.Confidence)
	fmt.Fprintf(w, "Signals: %d fired, %d entered, %d killed\n", fired, entered, killed)
	fmt.Fprintf(w, "Exits: %d closed\n", exited)
	fmt.Fprintf(w, "Open positions: %d\n", open)
	fmt.Fprintf(w, "Win rate: %.1f%% (%d trades)\n", m.WinRate, m.TotalTrades)
}
