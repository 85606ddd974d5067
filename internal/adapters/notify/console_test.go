package notify

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/bestie/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() domain.CycleSummary {
	return domain.CycleSummary{
		RunAt:        time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		Users:        12,
		Markets:      3,
		BalanceCents: 53000,
		Duration:     1350 * time.Millisecond,
		Decisions: []domain.Decision{
			{MarketTicker: "KXUSDTMIN-25DEC31-0.95", Side: domain.SideNo, Score: 0.0371,
				Holders: 2, Contracts: 5, Action: domain.ActionOrder, Reason: "consensus above threshold"},
			{MarketTicker: "KXNBA-25DEC31-LAL", Side: domain.SideYes, Score: 0.0021,
				Holders: 1, Action: domain.ActionSkip, Reason: "score below minimum"},
			{MarketTicker: "KXWX-25DEC31-SNOW", Side: domain.SideYes, Score: 0.0452,
				Holders: 3, Action: domain.ActionError, Reason: "order rejected: insufficient balance"},
		},
	}
}

func TestConsole_CompactLine(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false)

	require.NoError(t, c.CycleSummary(context.Background(), sampleSummary()))

	out := buf.String()
	assert.Contains(t, out, "[15:09:26][live]")
	assert.Contains(t, out, "12 users")
	assert.Contains(t, out, "orders:1 errs:1 skip:1")
	assert.Contains(t, out, "bal $530.00")
	assert.Contains(t, out, "[+] KXUSDTMIN-25DEC31-0.95 no x5")
	assert.Contains(t, out, "[!] KXWX-25DEC31-SNOW")
	// Skips stay out of the compact line.
	assert.NotContains(t, out, "KXNBA")
}

func TestConsole_Table(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, true)

	require.NoError(t, c.CycleSummary(context.Background(), sampleSummary()))

	out := buf.String()
	assert.Contains(t, out, "[LIVE]")
	assert.Contains(t, out, "KXUSDTMIN-25DEC31-0.95")
	assert.Contains(t, out, "KXNBA-25DEC31-LAL")
	assert.Contains(t, out, "consensus above threshold")
	assert.Contains(t, out, "0.0371")
}

func TestConsole_BootstrapHidesBalance(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false)

	summary := domain.CycleSummary{
		RunAt:     time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
		Bootstrap: true,
		Users:     2,
		Markets:   2,
		Decisions: []domain.Decision{
			{MarketTicker: "KXA", Side: domain.SideYes, Action: domain.ActionSeed, Reason: "bootstrap seed"},
			{MarketTicker: "KXB", Side: domain.SideNo, Action: domain.ActionSeed, Reason: "bootstrap seed"},
		},
	}
	require.NoError(t, c.CycleSummary(context.Background(), summary))

	out := buf.String()
	assert.Contains(t, out, "[bootstrap]")
	assert.NotContains(t, out, "bal $")
}
