package controllers

import (
	"context"
	"net/http"

	"github.com/hansbeauty/dashboard-backend/api/responses"
	"github.com/hansbeauty/dashboard-backend/internal/dashboard"
	pkgerrors "github.com/hansbeauty/dashboard-backend/pkg/errors"
	"github.com/hansbeauty/dashboard-backend/pkg/logger"
)

type overviewService interface {
	Overview(ctx context.Context) (*dashboard.Overview, error)
}

// DashboardOverview serves the composed home-page payload: summary stats,
// recent orders, revenue and province series, and the raw inventory list.
func DashboardOverview(svc overviewService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		overview, err := svc.Overview(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}
