// Package stocks fetches market quotes and daily price history from Finnhub.
package stocks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/metrics"
)

const (
	// DefaultBaseURL is Finnhub's REST API root.
	DefaultBaseURL = "https://finnhub.io/api/v1"

	historyWindow = 30 * 24 * time.Hour
	maxParallel   = 8
	maxErrorBody  = 512

	tokenHeader = "X-Finnhub-Token"
)

// UpstreamError describes a failed call to the quote provider.
type UpstreamError struct {
	Endpoint string
	Symbol   string
	Status   int
	Detail   string
	Err      error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Endpoint, e.Symbol, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Endpoint, e.Symbol, e.Status, e.Detail)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Endpoint, e.Symbol, e.Status)
	}
}

// PublicMessage describes the failure without transport internals, so it is
// safe to show to API callers.
func (e *UpstreamError) PublicMessage() string {
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Endpoint, e.Symbol, e.Status, e.Detail)
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s %s: invalid response", e.Endpoint, e.Symbol)
	case e.Status != 0:
		return fmt.Sprintf("%s %s: status %d", e.Endpoint, e.Symbol, e.Status)
	default:
		return fmt.Sprintf("%s %s: provider unreachable", e.Endpoint, e.Symbol)
	}
}

// Unwrap returns the transport error, if any.
func (e *UpstreamError) Unwrap() error { return e.Err }

// PricePoint is one daily closing price.
type PricePoint struct {
	Date  string          `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// quoteResponse is Finnhub's /quote payload; c is the current price.
type quoteResponse struct {
	C float64 `json:"c"`
}

// candleResponse is Finnhub's /stock/candle payload.
type candleResponse struct {
	S string    `json:"s"`
	T []int64   `json:"t"`
	C []float64 `json:"c"`
}

// Client talks to the Finnhub REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	now        func() time.Time
}

// NewClient creates a Finnhub client. An empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		now:        time.Now,
	}
}

// ParseSymbols splits a comma-separated symbol list, dropping blanks and
// duplicates while keeping the original order.
func ParseSymbols(raw string) []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		symbols = append(symbols, s)
	}
	return symbols
}

// Quotes fetches the current price of every symbol concurrently. Any single
// failure fails the whole call.
func (c *Client) Quotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	var mu sync.Mutex
	prices := make(map[string]decimal.Decimal, len(symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			var q quoteResponse
			err := c.get(ctx, "/quote", symbol, url.Values{"symbol": {symbol}}, &q)
			metrics.UpstreamRequests.WithLabelValues("quote", metrics.Result(err)).Inc()
			if err != nil {
				return err
			}
			mu.Lock()
			prices[symbol] = decimal.NewFromFloat(q.C)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return prices, nil
}

// History returns the daily closing prices of the last 30 days. A symbol
// without data yields an empty slice.
func (c *Client) History(ctx context.Context, symbol string) ([]PricePoint, error) {
	to := c.now()
	from := to.Add(-historyWindow)

	params := url.Values{
		"symbol":     {symbol},
		"resolution": {"D"},
		"from":       {strconv.FormatInt(from.Unix(), 10)},
		"to":         {strconv.FormatInt(to.Unix(), 10)},
	}

	var candles candleResponse
	err := c.get(ctx, "/stock/candle", symbol, params, &candles)
	metrics.UpstreamRequests.WithLabelValues("candle", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}

	points := make([]PricePoint, 0, len(candles.T))
	if candles.S != "ok" {
		return points, nil
	}
	for i, ts := range candles.T {
		if i >= len(candles.C) {
			break
		}
		points = append(points, PricePoint{
			Date:  time.Unix(ts, 0).UTC().Format("Jan 2"),
			Price: decimal.NewFromFloat(candles.C[i]),
		})
	}
	return points, nil
}

func (c *Client) get(ctx context.Context, path, symbol string, params url.Values, dst interface{}) error {
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &UpstreamError{Endpoint: path, Symbol: symbol, Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tokenHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Endpoint: path, Symbol: symbol, Err: fmt.Errorf("http request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{
			Endpoint: path,
			Symbol:   symbol,
			Status:   resp.StatusCode,
			Detail:   strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &UpstreamError{Endpoint: path, Symbol: symbol, Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
