package kalshi

// trading.go — authenticated trade API: balance, orders, event detail.
// Every call here requires the RSA-PSS signature headers.

import (
	"context"
	"fmt"
	"net/url"

	"github.com/alejandrodnm/bestie/internal/domain"
)

// Balance returns the available account balance in cents.
func (c *Client) Balance(ctx context.Context) (int64, error) {
	var resp balanceResponse
	if err := c.get(ctx, "/trade-api/v2/portfolio/balance", &resp); err != nil {
		return 0, fmt.Errorf("kalshi.Balance: %w", err)
	}
	return resp.Balance, nil
}

// PlaceOrder submits a fill-or-kill market buy capped at req.MaxPriceCents.
func (c *Client) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	body := orderRequest{
		Ticker:        req.Ticker,
		Type:          "market",
		Action:        "buy",
		Side:          string(req.Side),
		Count:         req.Count,
		ClientOrderID: req.ClientOrderID,
		TimeInForce:   "fill_or_kill",
	}
	price := req.MaxPriceCents
	switch req.Side {
	case domain.SideYes:
		body.YesPrice = &price
	case domain.SideNo:
		body.NoPrice = &price
	default:
		return domain.OrderResult{}, fmt.Errorf("kalshi.PlaceOrder: invalid side %q", req.Side)
	}

	var resp orderResponse
	if err := c.post(ctx, "/trade-api/v2/portfolio/orders", body, &resp); err != nil {
		return domain.OrderResult{}, fmt.Errorf("kalshi.PlaceOrder %s:%s: %w", req.Ticker, req.Side, err)
	}
	return domain.OrderResult{
		OrderID:       resp.Order.OrderID,
		Status:        resp.Order.Status,
		FillCount:     resp.Order.FillCount,
		TakerFillCost: resp.Order.TakerFillCost,
	}, nil
}

// GetEvent returns the event detail with its markets.
func (c *Client) GetEvent(ctx context.Context, eventTicker string) (Event, error) {
	var resp eventResponse
	if err := c.get(ctx, "/trade-api/v2/events/"+url.PathEscape(eventTicker), &resp); err != nil {
		return Event{}, fmt.Errorf("kalshi.GetEvent %q: %w", eventTicker, err)
	}

	event := Event{
		EventTicker: resp.Event.EventTicker,
		Title:       resp.Event.Title,
		Markets:     make([]EventMarket, 0, len(resp.Markets)),
	}
	for _, m := range resp.Markets {
		event.Markets = append(event.Markets, EventMarket{
			Ticker:      m.Ticker,
			YesSubTitle: m.YesSubTitle,
			NoSubTitle:  m.NoSubTitle,
			Volume:      m.Volume,
		})
	}
	return event, nil
}
