package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hansbeauty/dashboard-backend/api/middleware"
	"github.com/hansbeauty/dashboard-backend/api/responses"
	"github.com/hansbeauty/dashboard-backend/api/validators"
	"github.com/hansbeauty/dashboard-backend/internal/orders"
	"github.com/hansbeauty/dashboard-backend/internal/purchases"
	pkgerrors "github.com/hansbeauty/dashboard-backend/pkg/errors"
	"github.com/hansbeauty/dashboard-backend/pkg/logger"
	"github.com/hansbeauty/dashboard-backend/pkg/pagination"
)

type purchaseSource interface {
	Purchases(ctx context.Context) ([]purchases.Purchase, bool)
}

type ordersPage struct {
	Orders   []purchases.Purchase `json:"orders"`
	Total    int                  `json:"total"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
	Degraded []string             `json:"degraded,omitempty"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled returned"`
}

// OrdersList serves the normalized order list with the session's status
// overrides merged in.
func OrdersList(src purchaseSource, log *orders.StatusLog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if src == nil || log == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		ps, degraded := src.Purchases(r.Context())
		ps = log.Apply(middleware.SessionIDFromContext(r.Context()), ps)

		params := pagination.FromQuery(r)
		page := ordersPage{
			Orders: pagination.Page(ps, params),
			Total:  len(ps),
			Limit:  params.Limit,
			Offset: params.Offset,
		}
		if degraded {
			page.Degraded = []string{"purchases"}
		}
		responses.WriteSuccess(w, page)
	}
}

// OrdersSetStatus records a status override for the order within the caller's
// session. Edits never propagate upstream.
func OrdersSetStatus(log *orders.StatusLog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if log == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
		if orderID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}

		var body statusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := log.Set(sessionID, orderID, body.Status); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithFields(r.Context(), map[string]any{
				"order_id": orderID,
				"status":   body.Status,
			}), "order.status.updated")
		}

		responses.WriteSuccess(w, map[string]string{
			"order_id": orderID,
			"status":   strings.ToLower(body.Status),
		})
	}
}

// OrdersUndo reverts the session's most recent status edit.
func OrdersUndo(log *orders.StatusLog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if log == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		orderID, ok := log.Undo(sessionID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "nothing to undo"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"order_id":  orderID,
			"overrides": log.Overrides(sessionID),
		})
	}
}
