package binanceclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tradingjournal/internal/ports"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
)

const (
	// Base URLs
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"
)

// Client implements the ports.PriceFeed interface using the go-binance
// library, as an alternative to the Bybit feed. Only public ticker
// endpoints are used; API keys are optional.
type Client struct {
	futuresClient *futures.Client
	logger        ports.Logger
}

// Config holds configuration specific to the Binance client adapter.
type Config struct {
	APIKey     string
	SecretKey  string
	UseTestnet bool
	Logger     ports.Logger
}

// New creates a new Binance client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance client")
	}

	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)

	// Set BaseURL directly instead of using global futures.UseTestnet
	if cfg.UseTestnet {
		client.BaseURL = baseURLTestnet
	} else {
		client.BaseURL = baseURLProduction
	}
	cfg.Logger.Info(context.Background(), "Binance client configured", map[string]interface{}{"baseURL": client.BaseURL})

	return &Client{futuresClient: client, logger: cfg.Logger}, nil
}

// LastPrice retrieves the last ticker price for a given symbol.
func (c *Client) LastPrice(ctx context.Context, symbol string) (float64, error) {
	op := "LastPrice"
	tickers, err := c.futuresClient.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
	if err != nil {
		return 0, c.handleError(ctx, err, op, symbol)
	}
	if len(tickers) == 0 {
		return 0, fmt.Errorf("%w: no ticker data returned for symbol %s", ports.ErrMalformedResponse, symbol)
	}

	price, err := strconv.ParseFloat(tickers[0].LastPrice, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: could not parse price '%s' for symbol %s", ports.ErrMalformedResponse, tickers[0].LastPrice, symbol)
	}
	return price, nil
}

// handleError translates Binance API and transport errors into standardized
// ports errors. Every failure mode maps to "this symbol is unpriced for this
// pass"; the distinction is kept only for logging.
func (c *Client) handleError(ctx context.Context, err error, op, symbol string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": op, "symbol": symbol, "originalError": err.Error()}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message
		c.logger.Warn(ctx, op+" failed with API error", fields)
		return fmt.Errorf("%s failed: %w: %w", op, ports.ErrFeedUnavailable, err)
	}

	var finalErr error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", op, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s canceled: %w: %w", op, ports.ErrContextCanceled, err)
	case strings.Contains(err.Error(), "connection refused"),
		strings.Contains(err.Error(), "connection reset by peer"),
		strings.Contains(err.Error(), "use of closed network connection"):
		finalErr = fmt.Errorf("%s failed: %w: %w", op, ports.ErrFeedUnavailable, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", op, ports.ErrFeedUnavailable, err)
	}

	c.logger.Warn(ctx, op+" failed", fields)
	return finalErr
}
