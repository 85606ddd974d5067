package kalshi

// social.go — public social API: holdings, metrics, leaderboard, trades.
// These endpoints need no signature; they go through the same throttled
// client so the venue sees one well-behaved caller.

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/alejandrodnm/bestie/internal/domain"
	"github.com/alejandrodnm/bestie/internal/ports"
)

const holdingsPageLimit = 99

// FetchHoldings returns the user's open positions, one per market-side.
func (c *Client) FetchHoldings(ctx context.Context, nickname string) ([]domain.Position, error) {
	path := fmt.Sprintf("/v1/social/profile/holdings?nickname=%s&limit=%d&closed_positions=false",
		url.QueryEscape(nickname), holdingsPageLimit)

	var resp holdingsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("kalshi.FetchHoldings %q: %w", nickname, err)
	}
	return flattenHoldings(resp, time.Now().UTC()), nil
}

// FetchMetrics returns the user's aggregate trading metrics.
func (c *Client) FetchMetrics(ctx context.Context, nickname string) (domain.UserMetrics, error) {
	path := "/v1/social/profile/metrics?nickname=" + url.QueryEscape(nickname) + "&since_day_before=0"

	var resp metricsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return domain.UserMetrics{}, fmt.Errorf("kalshi.FetchMetrics %q: %w", nickname, err)
	}
	if resp.Metrics == nil {
		return domain.UserMetrics{}, &domain.ValidationError{
			Record: "metrics response",
			Reason: "missing metrics object for " + nickname,
		}
	}
	return domain.UserMetrics{
		Nickname:  nickname,
		PnL:       resp.Metrics.PnL,
		Volume:    resp.Metrics.Volume,
		NumTrades: resp.Metrics.NumMarketsTraded,
	}, nil
}

// FetchLeaderboard returns the ranked nicknames for one leaderboard slice.
func (c *Client) FetchLeaderboard(ctx context.Context, q ports.LeaderboardQuery) ([]string, error) {
	v := url.Values{}
	v.Set("metric_name", q.Metric)
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("since_day_before", strconv.Itoa(q.SinceDayBefore))
	if q.Category != "" {
		v.Set("category", q.Category)
	}

	var resp leaderboardResponse
	if err := c.get(ctx, "/v1/social/leaderboard?"+v.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("kalshi.FetchLeaderboard: %w", err)
	}

	nicknames := make([]string, 0, len(resp.RankList))
	for _, entry := range resp.RankList {
		if entry.Nickname == "" {
			return nil, &domain.ValidationError{
				Record: "leaderboard entry",
				Reason: "missing or invalid nickname",
			}
		}
		nicknames = append(nicknames, entry.Nickname)
	}
	return nicknames, nil
}

// FetchTrades returns the user's recent public trades, newest first.
func (c *Client) FetchTrades(ctx context.Context, nickname string, pageSize int) ([]Trade, error) {
	path := fmt.Sprintf("/v1/social/trades?nickname=%s&page_size=%d",
		url.QueryEscape(nickname), pageSize)

	var resp tradesResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("kalshi.FetchTrades %q: %w", nickname, err)
	}
	return resp.Trades, nil
}
