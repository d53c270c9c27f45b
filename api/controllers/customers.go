package controllers

import (
	"context"
	"net/http"

	"github.com/hansbeauty/dashboard-backend/api/responses"
	"github.com/hansbeauty/dashboard-backend/internal/customers"
	"github.com/hansbeauty/dashboard-backend/internal/dashboard"
	pkgerrors "github.com/hansbeauty/dashboard-backend/pkg/errors"
	"github.com/hansbeauty/dashboard-backend/pkg/logger"
	"github.com/hansbeauty/dashboard-backend/pkg/pagination"
)

type customersService interface {
	Customers(ctx context.Context) (*dashboard.Directory, error)
}

type customersPage struct {
	Customers []customers.Customer `json:"customers"`
	Total     int                  `json:"total"`
	Limit     int                  `json:"limit"`
	Offset    int                  `json:"offset"`
	Degraded  []string             `json:"degraded,omitempty"`
}

// CustomersList serves the customer directory derived from the purchase list,
// windowed by limit/offset query parameters.
func CustomersList(svc customersService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		dir, err := svc.Customers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.FromQuery(r)
		responses.WriteSuccess(w, customersPage{
			Customers: pagination.Page(dir.Customers, params),
			Total:     len(dir.Customers),
			Limit:     params.Limit,
			Offset:    params.Offset,
			Degraded:  dir.Degraded,
		})
	}
}
