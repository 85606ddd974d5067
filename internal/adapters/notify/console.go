package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alejandrodnm/bestie/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implements ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole creates a notifier that writes to stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// CycleSummary prints the cycle report in the configured mode.
func (c *Console) CycleSummary(_ context.Context, summary domain.CycleSummary) error {
	if c.table {
		c.printFull(summary)
	} else {
		c.printCompact(summary)
	}
	return nil
}

// printCompact prints the essentials in one line.
func (c *Console) printCompact(summary domain.CycleSummary) {
	now := summary.RunAt.Format("15:04:05")
	mode := "live"
	if summary.Bootstrap {
		mode = "bootstrap"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s][%s] %d users | %d mkts | orders:%d errs:%d skip:%d",
		now, mode, summary.Users, summary.Markets,
		summary.Orders(), summary.Errors(), summary.Skipped())
	if !summary.Bootstrap {
		fmt.Fprintf(&sb, " | bal $%.2f", float64(summary.BalanceCents)/100)
	}
	fmt.Fprintf(&sb, " | %v", summary.Duration.Truncate(time.Millisecond))

	shown := 0
	for _, d := range summary.Decisions {
		if shown >= 4 {
			break
		}
		if d.Action != domain.ActionOrder && d.Action != domain.ActionError {
			continue
		}
		fmt.Fprintf(&sb, " | %s %s %s x%d sc%.3f",
			actionTag(d.Action), marketLabel(d), d.Side, d.Contracts, d.Score)
		shown++
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull prints the decision table for every market touched this cycle.
func (c *Console) printFull(summary domain.CycleSummary) {
	now := summary.RunAt.Format("15:04:05")
	mode := "LIVE"
	if summary.Bootstrap {
		mode = "BOOTSTRAP"
	}

	fmt.Fprintf(c.out, "\n[%s][%s] %d users, %d markets — orders:%d errors:%d skipped:%d seeded:%d\n",
		now, mode, summary.Users, summary.Markets,
		summary.Orders(), summary.Errors(), summary.Skipped(), summary.Seeded())
	if !summary.Bootstrap {
		fmt.Fprintf(c.out, "  Balance: $%.2f\n", float64(summary.BalanceCents)/100)
	}

	if len(summary.Decisions) == 0 {
		fmt.Fprintln(c.out, "  (no new positions observed)")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Market", "Side", "Score", "Holders", "Contracts", "Action", "Reason")

	for i, d := range summary.Decisions {
		table.Append(
			fmt.Sprintf("%d", i+1),
			marketLabel(d),
			string(d.Side),
			fmt.Sprintf("%.4f", d.Score),
			fmt.Sprintf("%d", d.Holders),
			fmt.Sprintf("%d", d.Contracts),
			d.Action,
			d.Reason,
		)
	}

	table.Render()
	fmt.Fprintf(c.out, "  cycle took %v\n", summary.Duration.Truncate(time.Millisecond))
}

// --- helpers ---

func actionTag(action string) string {
	if action == domain.ActionError {
		return "[!]"
	}
	return "[+]"
}

func marketLabel(d domain.Decision) string {
	if d.MarketTicker != "" {
		return truncate(d.MarketTicker, 32)
	}
	return truncate(d.EventTicker, 32)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
