package journal

import (
	"context"
	"sync"
	"testing"
	"time"

	"tradingjournal/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger, discarding all output.
type mockLogger struct{}

func (l *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (l *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (l *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (l *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// fakeFeed serves canned prices and counts lookups per symbol.
type fakeFeed struct {
	mu     sync.Mutex
	prices map[string]float64
	errs   map[string]error
	calls  map[string]int
	delay  time.Duration
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		prices: make(map[string]float64),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeFeed) LastPrice(ctx context.Context, symbol string) (float64, error) {
	f.mu.Lock()
	f.calls[symbol]++
	price := f.prices[symbol]
	err := f.errs[symbol]
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return 0, ports.ErrTimeout
		}
	}
	return price, err
}

func (f *fakeFeed) callCount(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[symbol]
}

func newTestResolver(t *testing.T, feed ports.PriceFeed) *Resolver {
	t.Helper()
	r, err := NewResolver(ResolverConfig{Feed: feed, Logger: &mockLogger{}, Timeout: time.Second, Concurrency: 2})
	require.NoError(t, err)
	return r
}

func TestNewResolverValidation(t *testing.T) {
	_, err := NewResolver(ResolverConfig{Logger: &mockLogger{}})
	assert.ErrorIs(t, err, ports.ErrConfigurationError)

	_, err = NewResolver(ResolverConfig{Feed: newFakeFeed()})
	assert.ErrorIs(t, err, ports.ErrConfigurationError)
}

func TestResolveDeduplicatesSymbols(t *testing.T) {
	feed := newFakeFeed()
	feed.prices["BTCUSDT"] = 50000
	feed.prices["ETHUSDT"] = 3000
	r := newTestResolver(t, feed)

	prices := r.Resolve(context.Background(), []string{"BTCUSDT", "ETHUSDT", "BTCUSDT", "", "BTCUSDT"})

	assert.Len(t, prices, 2)
	assert.Equal(t, 1, feed.callCount("BTCUSDT"), "duplicate symbols must hit the feed once")
	assert.Equal(t, 1, feed.callCount("ETHUSDT"))

	price, ok := prices.Lookup("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, 50000.0, price)
}

func TestResolveIsolatesFailures(t *testing.T) {
	feed := newFakeFeed()
	feed.prices["BTCUSDT"] = 50000
	feed.errs["DOGEUSDT"] = ports.ErrFeedUnavailable
	r := newTestResolver(t, feed)

	prices := r.Resolve(context.Background(), []string{"BTCUSDT", "DOGEUSDT"})

	price, ok := prices.Lookup("BTCUSDT")
	require.True(t, ok, "one failing symbol must not poison the batch")
	assert.Equal(t, 50000.0, price)

	_, ok = prices.Lookup("DOGEUSDT")
	assert.False(t, ok)
	assert.ErrorIs(t, prices["DOGEUSDT"].Err, ports.ErrFeedUnavailable)
}

func TestResolveEmptyInput(t *testing.T) {
	feed := newFakeFeed()
	r := newTestResolver(t, feed)

	prices := r.Resolve(context.Background(), nil)
	assert.Empty(t, prices)

	prices = r.Resolve(context.Background(), []string{"", ""})
	assert.Empty(t, prices)
}

func TestPriceMapLookup(t *testing.T) {
	m := PriceMap{
		"GOOD": {Price: 10},
		"ERR":  {Price: 10, Err: ports.ErrTimeout},
		"ZERO": {Price: 0},
	}

	_, ok := m.Lookup("GOOD")
	assert.True(t, ok)
	_, ok = m.Lookup("ERR")
	assert.False(t, ok, "a price that arrived with an error is not usable")
	_, ok = m.Lookup("ZERO")
	assert.False(t, ok, "a non-positive price is not usable")
	_, ok = m.Lookup("MISSING")
	assert.False(t, ok)
}

func TestResolvePerSymbolTimeout(t *testing.T) {
	feed := newFakeFeed()
	feed.prices["SLOWUSDT"] = 1
	feed.delay = 200 * time.Millisecond
	r, err := NewResolver(ResolverConfig{
		Feed:        feed,
		Logger:      &mockLogger{},
		Timeout:     20 * time.Millisecond,
		Concurrency: 1,
	})
	require.NoError(t, err)

	prices := r.Resolve(context.Background(), []string{"SLOWUSDT"})
	_, ok := prices.Lookup("SLOWUSDT")
	assert.False(t, ok)
	assert.ErrorIs(t, prices["SLOWUSDT"].Err, ports.ErrTimeout)
}
