package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"finman/pkg/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Client fetches base-currency-relative rate tables from the public
// exchange-rate API (rates expressed as "1 unit of base equals X of each
// other currency").
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg *config.ExchangeConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

type ratesResponse struct {
	Base            string             `json:"base"`
	TimeLastUpdated int64              `json:"time_last_updated"`
	Rates           map[string]float64 `json:"rates"`
}

// FetchRates returns the rate table for the given base code together with
// the provider's last-updated timestamp.
func (c *Client) FetchRates(ctx context.Context, baseCode string) (map[string]decimal.Decimal, time.Time, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, baseCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to fetch rates for %s: %w", baseCode, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, time.Time{}, fmt.Errorf("rates request for %s returned status %d", baseCode, resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode rates response: %w", err)
	}
	if len(body.Rates) == 0 {
		return nil, time.Time{}, fmt.Errorf("rates response for %s contained no rates", baseCode)
	}

	rates := make(map[string]decimal.Decimal, len(body.Rates))
	for code, rate := range body.Rates {
		rates[code] = decimal.NewFromFloat(rate)
	}

	lastUpdated := time.Unix(body.TimeLastUpdated, 0)

	c.logger.Debug("Fetched exchange rates",
		zap.String("base", baseCode),
		zap.Int("count", len(rates)),
	)

	return rates, lastUpdated, nil
}
