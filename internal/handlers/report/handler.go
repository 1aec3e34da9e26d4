package report

import (
	"guesthouse/infras/otel"
	"guesthouse/internal/domains/report/service"
	"guesthouse/shared/constant"
	"guesthouse/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Report
	otel    otel.Otel
}

func New(service service.Report, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reports", func(routerGroup chi.Router) {
		routerGroup.Get("/summary", handler.GetSummary)
		routerGroup.Get("/dashboard", handler.GetDashboard)
	})
}

// GetSummary reports booked rooms per day, week and month.
// @Summary Get booking summary
// @Description Booked room counts of approved, not yet ended bookings keyed by day, month-relative week and month.
// @Tags Report
// @Produce json
// @Param reference_date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Data[dto.SummaryResponse] "Booking summary"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/summary [get]
// @Security BearerAuth
func (handler *Handler) GetSummary(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSummary")
	defer scope.End()

	res, err := handler.service.Summary(ctx, request.URL.Query().Get(constant.RequestParamReferenceDate))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build booking summary")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetDashboard reports the dashboard counters.
// @Summary Get dashboard statistics
// @Description Booking counters by status and payment, plus rooms still free facility-wide.
// @Tags Report
// @Produce json
// @Param reference_date query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Data[dto.DashboardResponse] "Dashboard statistics"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reports/dashboard [get]
// @Security BearerAuth
func (handler *Handler) GetDashboard(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboard")
	defer scope.End()

	res, err := handler.service.Dashboard(ctx, request.URL.Query().Get(constant.RequestParamReferenceDate))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build dashboard statistics")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
