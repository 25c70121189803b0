package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"TickerLens/internal/model"
)

// YahooProvider implements Provider using the Yahoo Finance public API.
type YahooProvider struct {
	client *resty.Client
}

// YahooOptions configures a YahooProvider.
type YahooOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Proxy     string
}

// NewYahooProvider creates a new Yahoo Finance provider.
func NewYahooProvider(opts YahooOptions) *YahooProvider {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(opts.BaseURL, "/"))
	client.SetTimeout(opts.Timeout)
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", "application/json")
	if opts.Proxy != "" {
		client.SetProxy(opts.Proxy)
	}
	return &YahooProvider{client: client}
}

func (p *YahooProvider) Name() string { return "yahoo" }

// yahooChart is the response structure from the chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency  string `json:"currency"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooRaw is Yahoo's {"raw": ..., "fmt": ...} number wrapper.
type yahooRaw struct {
	Raw *float64 `json:"raw"`
}

func (r *yahooRaw) value() *float64 {
	if r == nil {
		return nil
	}
	return r.Raw
}

// yahooSummary is the response structure from the quoteSummary API.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail *struct {
				MarketCap     *yahooRaw `json:"marketCap"`
				TrailingPE    *yahooRaw `json:"trailingPE"`
				DividendYield *yahooRaw `json:"dividendYield"`
			} `json:"summaryDetail"`
			AssetProfile *struct {
				LongBusinessSummary *string `json:"longBusinessSummary"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

func (p *YahooProvider) get(ctx context.Context, path, ticker string, query map[string]string) ([]byte, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetPathParam("symbol", ticker).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("yahoo %s: %w", ticker, ErrSymbolNotFound)
	case resp.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode(), resp.String())
	}
	return resp.Body(), nil
}

// DailyBars fetches daily bars between start and end, both inclusive.
func (p *YahooProvider) DailyBars(ctx context.Context, ticker string, start, end time.Time) ([]model.Bar, error) {
	body, err := p.get(ctx, "/v8/finance/chart/{symbol}", ticker, map[string]string{
		"period1":  strconv.FormatInt(model.TruncateDay(start).Unix(), 10),
		"period2":  strconv.FormatInt(model.TruncateDay(end).AddDate(0, 0, 1).Unix(), 10),
		"interval": "1d",
		"events":   "history",
	})
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w: %v", ErrMalformedResponse, err)
	}
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("yahoo %s: %w", ticker, ErrSymbolNotFound)
		}
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo: %w: no chart result", ErrMalformedResponse)
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return []model.Bar{}, nil
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: %w: no quote indicators", ErrMalformedResponse)
	}
	quote := result.Indicators.Quote[0]
	n := len(result.Timestamp)
	if len(quote.Close) != n {
		return nil, fmt.Errorf("yahoo: %w: %d timestamps, %d closes", ErrMalformedResponse, n, len(quote.Close))
	}

	bars := make([]model.Bar, 0, n)
	for i, ts := range result.Timestamp {
		c := quote.Close[i]
		if c == nil {
			continue // null bars (holidays etc.)
		}
		bars = append(bars, model.Bar{
			Date:   model.TruncateDay(time.Unix(ts+result.Meta.GMTOffset, 0).UTC()),
			Open:   at(quote.Open, i),
			High:   at(quote.High, i),
			Low:    at(quote.Low, i),
			Close:  *c,
			Volume: at(quote.Volume, i),
		})
	}
	return bars, nil
}

// Metadata fetches market cap, P/E, dividend yield and business summary.
func (p *YahooProvider) Metadata(ctx context.Context, ticker string) (*Metadata, error) {
	body, err := p.get(ctx, "/v10/finance/quoteSummary/{symbol}", ticker, map[string]string{
		"modules": "summaryDetail,assetProfile",
	})
	if err != nil {
		return nil, err
	}

	var summary yahooSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w: %v", ErrMalformedResponse, err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, ErrSymbolNotFound)
	}

	r := summary.QuoteSummary.Result[0]
	meta := &Metadata{}
	if d := r.SummaryDetail; d != nil {
		meta.MarketCap = d.MarketCap.value()
		meta.PERatio = d.TrailingPE.value()
		meta.DividendYield = d.DividendYield.value()
	}
	if a := r.AssetProfile; a != nil {
		meta.LongDescription = a.LongBusinessSummary
	}
	return meta, nil
}

func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	return *values[i]
}
