package kalshi

// Wire types for the venue API. Only the fields the bot reads are mapped.

// holdingsResponse is GET /v1/social/profile/holdings: one holding per event,
// each aggregating the per-market positions.
type holdingsResponse struct {
	Holdings []eventHolding `json:"holdings"`
}

type eventHolding struct {
	EventTicker    string          `json:"event_ticker"`
	SeriesTicker   string          `json:"series_ticker"`
	MarketHoldings []marketHolding `json:"market_holdings"`
}

type marketHolding struct {
	MarketID           string `json:"market_id"`
	MarketTicker       string `json:"market_ticker"`
	SignedOpenPosition int    `json:"signed_open_position"` // negative = no, positive = yes
	PnL                int64  `json:"pnl"`                  // centi-cents
}

// metricsResponse is GET /v1/social/profile/metrics.
type metricsResponse struct {
	Metrics *userMetrics `json:"metrics"`
}

type userMetrics struct {
	PnL              int64   `json:"pnl"`
	Volume           float64 `json:"volume"`
	NumMarketsTraded int     `json:"num_markets_traded"`
}

// leaderboardResponse is GET /v1/social/leaderboard.
type leaderboardResponse struct {
	RankList []rankEntry `json:"rank_list"`
}

type rankEntry struct {
	Nickname string `json:"nickname"`
}

// tradesResponse is GET /v1/social/trades.
type tradesResponse struct {
	Trades []Trade `json:"trades"`
}

// Trade is one public trade by a tracked user.
type Trade struct {
	TradeID     string `json:"trade_id"`
	MarketID    string `json:"market_id"`
	Ticker      string `json:"ticker"`
	Price       int    `json:"price"` // cents
	Count       int    `json:"count"`
	TakerSide   string `json:"taker_side"`
	TakerAction string `json:"taker_action"`
	CreateDate  string `json:"create_date"`
}

// balanceResponse is GET /trade-api/v2/portfolio/balance.
type balanceResponse struct {
	Balance int64 `json:"balance"` // cents
}

// orderRequest is POST /trade-api/v2/portfolio/orders. The price cap rides in
// yes_price or no_price depending on the side.
type orderRequest struct {
	Ticker        string `json:"ticker"`
	Type          string `json:"type"`
	Action        string `json:"action"`
	Side          string `json:"side"`
	Count         int    `json:"count"`
	YesPrice      *int   `json:"yes_price,omitempty"`
	NoPrice       *int   `json:"no_price,omitempty"`
	ClientOrderID string `json:"client_order_id"`
	TimeInForce   string `json:"time_in_force"`
}

type orderResponse struct {
	Order struct {
		OrderID       string `json:"order_id"`
		Status        string `json:"status"`
		FillCount     int    `json:"fill_count"`
		TakerFillCost int    `json:"taker_fill_cost"`
	} `json:"order"`
}

// eventResponse is GET /trade-api/v2/events/{ticker}.
type eventResponse struct {
	Event   eventDetail   `json:"event"`
	Markets []eventMarket `json:"markets"`
}

type eventDetail struct {
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
}

type eventMarket struct {
	Ticker      string `json:"ticker"`
	YesSubTitle string `json:"yes_sub_title"`
	NoSubTitle  string `json:"no_sub_title"`
	Volume      int64  `json:"volume"`
}

// Event is the event-detail view exposed to callers.
type Event struct {
	EventTicker string
	Title       string
	Markets     []EventMarket
}

// EventMarket is one market inside an event.
type EventMarket struct {
	Ticker      string
	YesSubTitle string
	NoSubTitle  string
	Volume      int64
}
