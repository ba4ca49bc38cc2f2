package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"evagobi/internal/errors"
	"evagobi/internal/infrastructure"
	"evagobi/pkg/contracts/domain"
)

const (
	explorePath   = "/trends/api/explore"
	multilinePath = "/trends/api/widgetdata/multiline"
	timeseriesID  = "TIMESERIES"
	maxBodyBytes  = 4 << 20
	defaultUA     = "Mozilla/5.0 (X11; Linux x86_64) evagobi-trends"
)

// Client fetches interest over time for one keyword and region
type Client interface {
	InterestOverTime(ctx context.Context, q domain.TrendQuery) ([]domain.InterestPoint, error)
}

// GoogleClientConfig configures the Google Trends client
type GoogleClientConfig struct {
	BaseURL  string
	Language string
	TZOffset int
	RPS      float64
	Timeout  time.Duration
}

// GoogleClient talks to the unofficial Google Trends JSON API: an explore
// call yields a token for the TIMESERIES widget, which is then fetched from
// the multiline endpoint.
type GoogleClient struct {
	cfg     GoogleClientConfig
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics

	mu     sync.Mutex
	warmed bool
}

// NewGoogleClient creates a throttled client. metrics may be nil.
func NewGoogleClient(cfg GoogleClientConfig, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) (*GoogleClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &GoogleClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout, Jar: jar},
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		logger:  logger.With(slog.String("component", "trends_client")),
		metrics: metrics,
	}, nil
}

type exploreRequest struct {
	ComparisonItem []comparisonItem `json:"comparisonItem"`
	Category       int              `json:"category"`
	Property       string           `json:"property"`
}

type comparisonItem struct {
	Keyword string `json:"keyword"`
	Geo     string `json:"geo"`
	Time    string `json:"time"`
}

type exploreResponse struct {
	Widgets []struct {
		ID      string          `json:"id"`
		Token   string          `json:"token"`
		Request json.RawMessage `json:"request"`
	} `json:"widgets"`
}

type multilineResponse struct {
	Default struct {
		TimelineData []struct {
			Time    string `json:"time"`
			Value   []int  `json:"value"`
			HasData []bool `json:"hasData"`
		} `json:"timelineData"`
	} `json:"default"`
}

// InterestOverTime returns the weekly (or daily) interest series for q
func (c *GoogleClient) InterestOverTime(ctx context.Context, q domain.TrendQuery) ([]domain.InterestPoint, error) {
	c.warmUp(ctx)

	req, err := json.Marshal(exploreRequest{
		ComparisonItem: []comparisonItem{{Keyword: q.Keyword, Geo: q.GeoCode, Time: q.Timeframe}},
	})
	if err != nil {
		return nil, err
	}

	var explore exploreResponse
	if err := c.getJSON(ctx, explorePath, url.Values{"req": {string(req)}}, &explore); err != nil {
		return nil, err
	}

	for _, w := range explore.Widgets {
		if w.ID != timeseriesID {
			continue
		}
		var data multilineResponse
		params := url.Values{"req": {string(w.Request)}, "token": {w.Token}}
		if err := c.getJSON(ctx, multilinePath, params, &data); err != nil {
			return nil, err
		}
		return toPoints(data)
	}

	return nil, errors.NewParsingError("explore response has no TIMESERIES widget", nil).
		WithContext("keyword", q.Keyword).
		WithContext("geo", q.GeoCode)
}

func toPoints(data multilineResponse) ([]domain.InterestPoint, error) {
	points := make([]domain.InterestPoint, 0, len(data.Default.TimelineData))
	for _, d := range data.Default.TimelineData {
		secs, err := strconv.ParseInt(d.Time, 10, 64)
		if err != nil {
			return nil, errors.NewParsingError("invalid timeline timestamp", err).WithContext("time", d.Time)
		}
		value := 0
		if len(d.Value) > 0 {
			value = d.Value[0]
		}
		points = append(points, domain.InterestPoint{
			Date:  time.Unix(secs, 0).UTC(),
			Value: value,
		})
	}
	return points, nil
}

// warmUp visits the landing page until one visit succeeds; the API rejects
// cookieless clients. A failed visit is logged and retried on the next call.
func (c *GoogleClient) warmUp(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.warmed {
		return
	}
	if err := c.fetchCookies(ctx); err != nil {
		c.logger.WarnContext(ctx, "Cookie warmup failed", slog.String("error", err.Error()))
		return
	}
	c.warmed = true
}

func (c *GoogleClient) fetchCookies(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/?geo=US", nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", defaultUA)
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.NewNetworkError("landing page request failed", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewNetworkError(fmt.Sprintf("landing page returned %s", resp.Status), nil).
			WithContext("status", resp.StatusCode)
	}
	return nil
}

func (c *GoogleClient) getJSON(ctx context.Context, path string, params url.Values, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("hl", c.cfg.Language)
	params.Set("tz", strconv.Itoa(c.cfg.TZOffset))
	endpoint := c.cfg.BaseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", defaultUA)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordTrendsRequest(ctx, path, "error")
		return errors.NewNetworkError("trends request failed", err).WithContext("endpoint", path)
	}
	defer resp.Body.Close()

	c.metrics.RecordTrendsRequest(ctx, path, strconv.Itoa(resp.StatusCode))
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return errors.NewNetworkError("failed to read trends response", err).WithContext("endpoint", path)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.NewNetworkError(fmt.Sprintf("trends returned %s", resp.Status), nil).
			WithContext("endpoint", path).
			WithContext("status", resp.StatusCode)
	}

	if err := json.Unmarshal(StripXSSIPrefix(body), v); err != nil {
		return errors.NewParsingError("invalid trends response", err).WithContext("endpoint", path)
	}
	return nil
}

// StripXSSIPrefix removes the ")]}'" guard Google prepends to JSON bodies
func StripXSSIPrefix(body []byte) []byte {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if !bytes.HasPrefix(trimmed, []byte(")]}'")) {
		return body
	}
	if i := bytes.IndexAny(trimmed, "{["); i >= 0 {
		return trimmed[i:]
	}
	return nil
}
