package bybitclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tradingjournal/internal/ports"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://api.bybit.com"

// Client implements the ports.PriceFeed interface against the Bybit v2
// public tickers endpoint.
type Client struct {
	http   *resty.Client
	logger ports.Logger
}

// Config holds configuration specific to the Bybit client adapter.
type Config struct {
	BaseURL string        // Defaults to the production API
	Timeout time.Duration // Transport-level timeout (e.g., 5 * time.Second)
	Logger  ports.Logger
}

// tickersResponse is the documented success envelope. Any other shape is
// treated as "unavailable", never as a crash.
type tickersResponse struct {
	RetCode int    `json:"ret_code"`
	RetMsg  string `json:"ret_msg"`
	Result  []struct {
		Symbol    string `json:"symbol"`
		LastPrice string `json:"last_price"`
	} `json:"result"`
}

// New creates a new Bybit client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Bybit client")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	cfg.Logger.Info(context.Background(), "Bybit client configured", map[string]interface{}{"baseURL": baseURL})
	return &Client{http: httpClient, logger: cfg.Logger}, nil
}

// LastPrice retrieves the last traded price for a given symbol. The caller
// owns retry policy across refresh cycles; a single call never retries.
func (c *Client) LastPrice(ctx context.Context, symbol string) (float64, error) {
	op := "LastPrice"
	var body tickersResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("symbol", symbol).
		SetResult(&body).
		Get("/v2/public/tickers")
	if err != nil {
		return 0, c.handleError(ctx, err, op, symbol)
	}
	if resp.StatusCode() != 200 {
		err := fmt.Errorf("%w: status %d for symbol %s", ports.ErrFeedUnavailable, resp.StatusCode(), symbol)
		c.logger.Warn(ctx, op+" failed", map[string]interface{}{"symbol": symbol, "status": resp.StatusCode()})
		return 0, err
	}
	if body.RetCode != 0 {
		err := fmt.Errorf("%w: ret_code %d (%s) for symbol %s", ports.ErrFeedUnavailable, body.RetCode, body.RetMsg, symbol)
		c.logger.Warn(ctx, op+" failed", map[string]interface{}{"symbol": symbol, "retCode": body.RetCode, "retMsg": body.RetMsg})
		return 0, err
	}
	if len(body.Result) == 0 {
		return 0, fmt.Errorf("%w: no ticker data returned for symbol %s", ports.ErrMalformedResponse, symbol)
	}

	price, err := strconv.ParseFloat(body.Result[0].LastPrice, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: could not parse price '%s' for symbol %s", ports.ErrMalformedResponse, body.Result[0].LastPrice, symbol)
	}
	return price, nil
}

// handleError translates transport errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, op, symbol string) error {
	var finalErr error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", op, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s canceled: %w: %w", op, ports.ErrContextCanceled, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", op, ports.ErrFeedUnavailable, err)
	}
	c.logger.Warn(ctx, op+" failed", map[string]interface{}{"symbol": symbol, "error": err.Error()})
	return finalErr
}
