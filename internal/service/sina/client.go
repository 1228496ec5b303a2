package sina

import (
	"context"
	"time"

	"FundMonitor/internal/domain/models"
	drepo "FundMonitor/internal/domain/repository"
	xhttp "FundMonitor/pkg/http"
)

// Source names this provider in errors and metrics.
const Source = "sina"

const (
	DefaultBaseURL = "https://hq.sinajs.cn/list="
	DefaultTimeout = 10 * time.Second
	referer        = "https://finance.sina.com.cn/"
)

// Client fetches index quotes from Sina.
type Client struct {
	baseURL string
	http    *xhttp.Client
	now     func() time.Time
}

var _ drepo.IndexSource = (*Client)(nil)

// New creates a Sina client. baseURL is the list endpoint the code is appended to.
func New(baseURL, userAgent string, timeout time.Duration, opts ...xhttp.ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base := []xhttp.ClientOption{
		xhttp.WithTimeout(timeout),
		xhttp.WithHeader("Referer", referer),
		xhttp.WithHeader("Accept", "*/*"),
		xhttp.WithHeader("Connection", "keep-alive"),
	}
	if userAgent != "" {
		base = append(base, xhttp.WithHeader("User-Agent", userAgent))
	}
	return &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(append(base, opts...)...),
		now:     time.Now,
	}
}

// FetchIndex requests and parses one index quote.
func (c *Client) FetchIndex(ctx context.Context, target models.IndexTarget) (models.IndexSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, c.http.Timeout())
	defer cancel()

	body, err := c.http.Fetch(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + target.Code,
	})
	if err != nil {
		return models.IndexSnapshot{}, &models.TransportError{Source: Source, Identity: target.Code, Err: err}
	}
	return ParseQuote(body, target.Code, target.Name, c.now())
}
