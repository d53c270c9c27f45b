package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hansbeauty/dashboard-backend/pkg/config"
	pkgerrors "github.com/hansbeauty/dashboard-backend/pkg/errors"
	"github.com/hansbeauty/dashboard-backend/pkg/logger"
	"github.com/hansbeauty/dashboard-backend/pkg/metrics"
)

const (
	ResourceProducts  = "products"
	ResourcePurchases = "purchases"
	ResourceStats     = "purchase_stats"

	productsPath  = "/api/products/"
	purchasesPath = "/api/purchases/"
	statsPath     = "/api/purchase/stats/"

	userAgent = "hansbeauty-dashboard"
)

// Client issues GET requests against the fixed upstream origin shared by all
// proxy endpoints. It recovers mislabeled JSON responses and maps failures
// onto the FETCH_FAILED / UPSTREAM_ERROR taxonomy.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	logg         *logger.Logger
	metrics      *metrics.UpstreamMetrics
	previewBytes int
}

// Result is a validated upstream response; Body is known-good JSON.
type Result struct {
	Body        []byte
	Status      int
	ContentType string
}

// ErrorDetails is the payload carried by UPSTREAM_ERROR results: the upstream
// status, declared content type, and a bounded preview of the body. The full
// body is never surfaced so oversized error pages cannot leak through.
type ErrorDetails struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Preview     string `json:"preview"`
}

// NewClient builds the shared upstream client from configuration.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger, m *metrics.UpstreamMetrics) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		logg:         logg,
		metrics:      m,
		previewBytes: cfg.PreviewBytes,
	}
}

// Products fetches the full product list.
func (c *Client) Products(ctx context.Context) (*Result, error) {
	return c.Fetch(ctx, ResourceProducts, productsPath)
}

// Purchases fetches the raw flat purchase list.
func (c *Client) Purchases(ctx context.Context) (*Result, error) {
	return c.Fetch(ctx, ResourcePurchases, purchasesPath)
}

// PurchaseStats fetches the precomputed statistics document.
func (c *Client) PurchaseStats(ctx context.Context) (*Result, error) {
	return c.Fetch(ctx, ResourceStats, statsPath)
}

// Fetch performs a GET for the named resource. A transport failure yields
// FETCH_FAILED; a non-OK or non-JSON response whose body does not even parse
// as JSON yields UPSTREAM_ERROR. A body that is valid JSON is treated as
// success regardless of the declared content type.
func (c *Client) Fetch(ctx context.Context, resource, path string) (*Result, error) {
	url := c.baseURL + path
	if c.logg != nil {
		ctx = c.logg.WithResource(ctx, resource)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building upstream request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveDuration(resource, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(resource, "fetch_failed")
		if c.logg != nil {
			c.logg.Error(ctx, "upstream fetch failed", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeFetchFailed, err, "fetch "+resource).
			WithDetails(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncFailure(resource, "fetch_failed")
		if c.logg != nil {
			c.logg.Error(ctx, "reading upstream body", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeFetchFailed, err, "read "+resource).
			WithDetails(err.Error())
	}

	contentType := resp.Header.Get("Content-Type")
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	declaredJSON := strings.Contains(contentType, "application/json")

	if !ok || !declaredJSON {
		if !json.Valid(body) {
			c.metrics.IncFailure(resource, "upstream_error")
			if c.logg != nil {
				c.logg.Warn(c.logg.WithFields(ctx, map[string]any{
					"status":       resp.StatusCode,
					"content_type": contentType,
				}), "upstream contract violation")
			}
			return nil, pkgerrors.New(pkgerrors.CodeUpstreamError, "upstream returned non-JSON response").
				WithDetails(ErrorDetails{
					Status:      resp.StatusCode,
					ContentType: contentType,
					Preview:     c.preview(body),
				})
		}
		if c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "content_type", contentType), "upstream mislabeled JSON body, recovering")
		}
	}

	c.metrics.IncSuccess(resource)
	return &Result{
		Body:        body,
		Status:      resp.StatusCode,
		ContentType: contentType,
	}, nil
}

// Ping verifies the upstream origin is reachable and serving JSON.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.PurchaseStats(ctx)
	return err
}

func (c *Client) preview(body []byte) string {
	if c.previewBytes > 0 && len(body) > c.previewBytes {
		return string(body[:c.previewBytes])
	}
	return string(body)
}
