package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hansbeauty/dashboard-backend/api/responses"
	"github.com/hansbeauty/dashboard-backend/internal/purchases"
	"github.com/hansbeauty/dashboard-backend/internal/upstream"
	pkgerrors "github.com/hansbeauty/dashboard-backend/pkg/errors"
	"github.com/hansbeauty/dashboard-backend/pkg/logger"
)

const proxyPreviewLimit = 500

// Fetcher is the upstream surface the proxy endpoints relay.
type Fetcher interface {
	Products(ctx context.Context) (*upstream.Result, error)
	Purchases(ctx context.Context) (*upstream.Result, error)
	PurchaseStats(ctx context.Context) (*upstream.Result, error)
}

// ProxyProducts relays the upstream product list verbatim.
func ProxyProducts(fetcher Fetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fetcher.Products(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteRaw(w, http.StatusOK, res.Body)
	}
}

// ProxyPurchases relays the upstream purchase list after normalizing each flat
// record into the nested user/product shape. The response is always a JSON
// array, even when upstream hands back a lone object.
func ProxyPurchases(fetcher Fetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fetcher.Purchases(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		normalized, err := purchases.NormalizeJSON(res.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeUpstreamError, err, "purchases payload shape").
					WithDetails(upstream.ErrorDetails{
						Status:      res.Status,
						ContentType: res.ContentType,
						Preview:     preview(res.Body),
					}))
			return
		}

		body, err := json.Marshal(normalized)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding purchases"))
			return
		}
		responses.WriteRaw(w, http.StatusOK, body)
	}
}

// ProxyPurchaseStats relays the upstream statistics document verbatim.
func ProxyPurchaseStats(fetcher Fetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := fetcher.PurchaseStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteRaw(w, http.StatusOK, res.Body)
	}
}

func preview(body []byte) string {
	if len(body) > proxyPreviewLimit {
		return string(body[:proxyPreviewLimit])
	}
	return string(body)
}
