package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/kritika-v/stockwatch/backend/internal/models"
)

// Fetcher is the market-data contract used by the stocks handler.
type Fetcher interface {
	Fetch(ctx context.Context, ticker string) (*models.Quote, error)
}

// YahooClient fetches bars and fundamentals from the Yahoo Finance public API.
type YahooClient struct {
	BaseURL string
	Client  *http.Client
}

func NewYahooClient(baseURL string) *YahooClient {
	return &YahooClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooSummary is the response structure from the quoteSummary API. Each
// module maps field names to either a {raw, fmt} object or a bare scalar.
type yahooSummary struct {
	QuoteSummary struct {
		Result []map[string]map[string]interface{} `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// Fetch returns the trailing month of daily bars plus the fundamentals of
// interest (beta, trailingPE, forwardPE, priceToBook) for the ticker.
func (c *YahooClient) Fetch(ctx context.Context, ticker string) (*models.Quote, error) {
	bars, err := c.fetchDailyBars(ctx, ticker)
	if err != nil {
		return nil, err
	}
	fundamentals, err := c.fetchFundamentals(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return &models.Quote{Ticker: ticker, Bars: bars, Fundamentals: fundamentals}, nil
}

func (c *YahooClient) fetchDailyBars(ctx context.Context, ticker string) ([]models.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1mo", c.BaseURL, url.PathEscape(ticker))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned for %s", ticker)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data for %s", ticker)
	}
	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(quote.Open) < n || len(quote.High) < n || len(quote.Low) < n ||
		len(quote.Close) < n || len(quote.Volume) < n {
		return nil, fmt.Errorf("yahoo: malformed quote data for %s", ticker)
	}
	bars := make([]models.Bar, 0, n)

	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		cl := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, models.Bar{
			Date:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func (c *YahooClient) fetchFundamentals(ctx context.Context, ticker string) (map[string]any, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=summaryDetail,defaultKeyStatistics",
		c.BaseURL, url.PathEscape(ticker))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no fundamentals for %s", ticker)
	}

	modules := summary.QuoteSummary.Result[0]
	detail := modules["summaryDetail"]
	stats := modules["defaultKeyStatistics"]

	fundamentals := map[string]any{}
	if v := fieldValue(detail, stats, "beta"); v != nil {
		fundamentals["beta"] = v
	}
	if v := fieldValue(detail, stats, "trailingPE"); v != nil {
		fundamentals["trailingPE"] = v
	}
	if v := fieldValue(detail, stats, "forwardPE"); v != nil {
		fundamentals["forwardPE"] = v
	}
	if v := fieldValue(stats, detail, "priceToBook"); v != nil {
		fundamentals["priceToBook"] = v
	}
	return fundamentals, nil
}

// fieldValue looks a field up in the primary module, then the fallback,
// unwrapping Yahoo's {raw, fmt} envelope when present.
func fieldValue(primary, fallback map[string]interface{}, field string) interface{} {
	for _, module := range []map[string]interface{}{primary, fallback} {
		v, ok := module[field]
		if !ok || v == nil {
			continue
		}
		if wrapped, ok := v.(map[string]interface{}); ok {
			return wrapped["raw"]
		}
		return v
	}
	return nil
}

func (c *YahooClient) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
