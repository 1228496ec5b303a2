package eastmoney

import (
	"context"
	"strings"
	"time"

	"FundMonitor/internal/domain/models"
	drepo "FundMonitor/internal/domain/repository"
	xhttp "FundMonitor/pkg/http"
	"FundMonitor/pkg/util"
)

// Source names this provider in errors and metrics.
const Source = "eastmoney"

const (
	DefaultBaseURL = "https://fundgz.1234567.com.cn/js/"
	DefaultTimeout = 8 * time.Second
	referer        = "https://fund.eastmoney.com/"
)

// Client fetches intraday fund valuation estimates.
type Client struct {
	baseURL string
	http    *xhttp.Client
	now     func() time.Time
}

var _ drepo.FundSource = (*Client)(nil)

func New(baseURL, userAgent string, timeout time.Duration, opts ...xhttp.ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}
	base := []xhttp.ClientOption{
		xhttp.WithTimeout(timeout),
		xhttp.WithHeader("User-Agent", userAgent),
		xhttp.WithHeader("Referer", referer),
		xhttp.WithHeader("Cache-Control", "no-cache"),
	}
	return &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(append(base, opts...)...),
		now:     time.Now,
	}
}

// FetchFund requests <base><code>.js?rt=<unix ms>; rt defeats intermediary caches.
func (c *Client) FetchFund(ctx context.Context, code string) (models.FundSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.http.Timeout())
	defer cancel()

	now := c.now()
	body, err := c.http.Fetch(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + code + ".js",
		QueryParams: map[string][]string{"rt": {util.UnixMilli(now)}},
	})
	if err != nil {
		return models.FundSnapshot{}, &models.TransportError{Source: Source, Identity: code, Err: err}
	}
	return ParseEstimate(body, code, now)
}
