package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finman/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchRates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"base": "USD",
			"time_last_updated": 1717200000,
			"rates": {"USD": 1, "EUR": 0.92, "JPY": 157.31}
		}`))
	}))
	defer server.Close()

	client := NewClient(&config.ExchangeConfig{
		BaseURL:     server.URL,
		HTTPTimeout: 5 * time.Second,
	}, zap.NewNop())

	rates, lastUpdated, err := client.FetchRates(context.Background(), "USD")
	require.NoError(t, err)

	assert.Len(t, rates, 3)
	assert.Equal(t, "0.92", rates["EUR"].String())
	assert.Equal(t, "157.31", rates["JPY"].String())
	assert.Equal(t, int64(1717200000), lastUpdated.Unix())
}

func TestFetchRatesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(&config.ExchangeConfig{
		BaseURL:     server.URL,
		HTTPTimeout: 5 * time.Second,
	}, zap.NewNop())

	_, _, err := client.FetchRates(context.Background(), "USD")
	assert.Error(t, err)
}

func TestCurrencyName(t *testing.T) {
	assert.Equal(t, "Euro", CurrencyName("EUR"))
	assert.Equal(t, "United States Dollar", CurrencyName("USD"))
	assert.Equal(t, "Unknown Currency", CurrencyName("ZZZ"))
}
