package controllers

import (
	"context"
	"net/http"

	"github.com/hansbeauty/dashboard-backend/api/responses"
	"github.com/hansbeauty/dashboard-backend/internal/dashboard"
	pkgerrors "github.com/hansbeauty/dashboard-backend/pkg/errors"
	"github.com/hansbeauty/dashboard-backend/pkg/logger"
)

type analyticsService interface {
	Analytics(ctx context.Context) (*dashboard.Report, error)
	RevenueChart(ctx context.Context) (*dashboard.RevenueSeries, error)
	ProvinceChart(ctx context.Context) (*dashboard.ProvinceSeries, error)
}

// AnalyticsReport serves the analytics-page payload.
func AnalyticsReport(svc analyticsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		report, err := svc.Analytics(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// AnalyticsRevenue serves the monthly revenue chart series.
func AnalyticsRevenue(svc analyticsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		series, err := svc.RevenueChart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, series)
	}
}

// AnalyticsProvinces serves the per-province order distribution.
func AnalyticsProvinces(svc analyticsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		series, err := svc.ProvinceChart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, series)
	}
}
