package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the public blockchain.info explorer endpoint.
const DefaultBaseURL = "https://blockchain.info"

// StatusError is returned when the explorer responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("explorer returned %d %s for %s",
		e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Client is the HTTP client for the blockchain explorer API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new explorer client. A nil httpClient gets a 30s
// timeout default; a nil logger discards everything.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Unconfirmed fetches the most recent unconfirmed transactions, truncated to
// limit. The explorer feed caps out around 100 entries per request.
func (c *Client) Unconfirmed(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	var feed struct {
		Txs []Transaction `json:"txs"`
	}
	if err := c.getJSON(ctx, c.baseURL+"/unconfirmed-transactions?format=json", &feed); err != nil {
		return nil, err
	}
	if len(feed.Txs) > limit {
		feed.Txs = feed.Txs[:limit]
	}
	if err := validateTransactions(feed.Txs); err != nil {
		return nil, fmt.Errorf("unconfirmed transactions feed: %w", err)
	}

	c.logger.Debug("fetched unconfirmed transactions", "count", len(feed.Txs), "limit", limit)
	return feed.Txs, nil
}

// Transaction fetches a single transaction by hash. The hash is validated
// before any network call.
func (c *Client) Transaction(ctx context.Context, hash string) (*Transaction, error) {
	if err := ValidateTxHash(hash); err != nil {
		return nil, err
	}

	var tx Transaction
	if err := c.getJSON(ctx, c.baseURL+"/rawtx/"+url.PathEscape(hash), &tx); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("no transaction with hash %s", hash)
		}
		return nil, err
	}
	if err := validateTransactions([]Transaction{tx}); err != nil {
		return nil, fmt.Errorf("transaction %s: %w", hash, err)
	}

	c.logger.Debug("fetched transaction", "hash", tx.Hash,
		"inputs", len(tx.Inputs), "outputs", len(tx.Out))
	return &tx, nil
}

// Address fetches the summary and recent transaction history for one
// address. The address is validated before any network call.
func (c *Client) Address(ctx context.Context, addr string, limit int) (*AddressSummary, error) {
	if err := ValidateAddress(addr); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	u := fmt.Sprintf("%s/rawaddr/%s?limit=%d", c.baseURL, url.PathEscape(addr), limit)
	var summary AddressSummary
	if err := c.getJSON(ctx, u, &summary); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("no address %s known to the explorer", addr)
		}
		return nil, err
	}
	if err := validateTransactions(summary.Txs); err != nil {
		return nil, fmt.Errorf("address %s history: %w", addr, err)
	}

	c.logger.Debug("fetched address summary", "address", summary.Address,
		"n_tx", summary.TxCount, "final_balance", summary.FinalBalance)
	return &summary, nil
}

// USDRate fetches the current BTC price in USD from the ticker endpoint.
func (c *Client) USDRate(ctx context.Context) (float64, error) {
	var ticker map[string]tickerEntry
	if err := c.getJSON(ctx, c.baseURL+"/ticker", &ticker); err != nil {
		return 0, err
	}

	usd, ok := ticker["USD"]
	if !ok {
		return 0, fmt.Errorf("ticker response from %s has no USD entry", c.baseURL)
	}
	if usd.Last <= 0 || math.IsNaN(usd.Last) || math.IsInf(usd.Last, 0) {
		return 0, fmt.Errorf("ticker reported unusable USD rate %v", usd.Last)
	}

	c.logger.Debug("fetched USD rate", "usd_per_btc", usd.Last)
	return usd.Last, nil
}

// UnconfirmedSnapshot fetches the unconfirmed feed and the USD rate
// concurrently, joining before returning.
func (c *Client) UnconfirmedSnapshot(ctx context.Context, limit int) ([]Transaction, float64, error) {
	var (
		txs  []Transaction
		rate float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = c.Unconfirmed(gctx, limit)
		return err
	})
	g.Go(func() error {
		var err error
		rate, err = c.USDRate(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return txs, rate, nil
}

// AddressSnapshot fetches an address summary and the USD rate concurrently.
func (c *Client) AddressSnapshot(ctx context.Context, addr string, limit int) (*AddressSummary, float64, error) {
	// Validate up front so a bad address never triggers the rate fetch.
	if err := ValidateAddress(addr); err != nil {
		return nil, 0, err
	}

	var (
		summary *AddressSummary
		rate    float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = c.Address(gctx, addr, limit)
		return err
	})
	g.Go(func() error {
		var err error
		rate, err = c.USDRate(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return summary, rate, nil
}

// getJSON issues a GET request and decodes the JSON response into v.
func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, URL: u}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", u, err)
	}
	return nil
}
