// Package api is the HTTP gateway to the remote trading-bot service.
//
// One method per endpoint, no retries, no caching. Retry policy belongs to
// the polling layer; this layer only reports what the wire said.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/web3guy0/algodash/internal/model"
)

// StatusError is returned for any non-2xx response so callers can tell an
// HTTP-level rejection apart from a transport failure.
type StatusError struct {
	Status int
	URL    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Status, e.URL)
}

// Client talks to the trading-bot API at a fixed base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gateway for the given base URL, e.g.
// "http://127.0.0.1:8000".
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// PriceHistory fetches the price series for a symbol over a time range.
func (c *Client) PriceHistory(ctx context.Context, symbol string, tr model.TimeRange) ([]model.PricePoint, error) {
	var series []model.PricePoint
	err := c.getJSON(ctx, "/price-history/"+url.PathEscape(symbol), rangeQuery(tr), &series)
	if err != nil {
		return nil, fmt.Errorf("price history %s: %w", symbol, err)
	}
	return series, nil
}

// Indicators fetches the computed indicator snapshot for a symbol.
func (c *Client) Indicators(ctx context.Context, symbol string, tr model.TimeRange) (model.Indicators, error) {
	var ind model.Indicators
	err := c.getJSON(ctx, "/indicators/"+url.PathEscape(symbol), rangeQuery(tr), &ind)
	if err != nil {
		return model.Indicators{}, fmt.Errorf("indicators %s: %w", symbol, err)
	}
	return ind, nil
}

type statusResponse struct {
	Bot    string `json:"bot"`
	Trades int    `json:"trades"`
}

// Status fetches the bot's run state and total trade count.
func (c *Client) Status(ctx context.Context) (model.BotStatus, int, error) {
	var resp statusResponse
	if err := c.getJSON(ctx, "/status", nil, &resp); err != nil {
		return model.BotIdle, 0, fmt.Errorf("status: %w", err)
	}
	return model.ParseBotStatus(resp.Bot), resp.Trades, nil
}

// Balance fetches the bot's wallet balance.
func (c *Client) Balance(ctx context.Context) (model.Balance, error) {
	var bal model.Balance
	if err := c.getJSON(ctx, "/balance", nil, &bal); err != nil {
		return model.Balance{}, fmt.Errorf("balance: %w", err)
	}
	return bal, nil
}

type logsResponse struct {
	Log []model.TradeLogEntry `json:"log"`
}

// TradeLog fetches the full trade log in server (chronological) order.
func (c *Client) TradeLog(ctx context.Context) ([]model.TradeLogEntry, error) {
	var resp logsResponse
	if err := c.getJSON(ctx, "/logs", nil, &resp); err != nil {
		return nil, fmt.Errorf("trade log: %w", err)
	}
	return resp.Log, nil
}

// StartStrategy asks the remote bot to start trading.
func (c *Client) StartStrategy(ctx context.Context) error {
	if err := c.post(ctx, "/strategy/start"); err != nil {
		return fmt.Errorf("start strategy: %w", err)
	}
	return nil
}

// StopStrategy asks the remote bot to stop trading.
func (c *Client) StopStrategy(ctx context.Context) error {
	if err := c.post(ctx, "/strategy/stop"); err != nil {
		return fmt.Errorf("stop strategy: %w", err)
	}
	return nil
}

func rangeQuery(tr model.TimeRange) url.Values {
	q := url.Values{}
	q.Set("period", tr.Period)
	q.Set("interval", tr.Interval)
	return q
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Status: resp.StatusCode, URL: u}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) post(ctx context.Context, path string) error {
	u := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(nil))
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, URL: u}
	}
	return nil
}
