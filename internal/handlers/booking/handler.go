package booking

import (
	"guesthouse/infras/otel"
	"guesthouse/internal/domains/booking/model"
	"guesthouse/internal/domains/booking/model/dto"
	"guesthouse/internal/domains/booking/service"
	"guesthouse/shared/constant"
	gDto "guesthouse/shared/dto"
	"guesthouse/shared/failure"
	"guesthouse/shared/validator"
	"guesthouse/transport/http/response"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

var sortableColumns = []string{
	model.FieldCreatedAt,
	model.FieldCheckInDate,
	model.FieldCheckOutDate,
	model.FieldFullName,
	model.FieldRoomType,
	model.FieldStatus,
}

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.SubmitBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/pending", handler.GetPendingBookings)
		routerGroup.Get("/{tempId}", handler.GetBooking)
		routerGroup.Get("/{tempId}/invoice", handler.GetInvoice)
		routerGroup.Post("/{tempId}/approve", handler.ApproveBooking)
		routerGroup.Post("/{tempId}/decline", handler.DeclineBooking)
	})
}

// SubmitBooking handles a guest's booking request.
// @Summary Submit a booking request
// @Description Store a pending booking and return its temporary id for correlation.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.SubmitBookingRequest true "Submit Booking Request"
// @Success 201 {object} response.Data[dto.SubmitBookingResponse] "Booking submitted"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) SubmitBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitBooking")
	defer scope.End()

	req := dto.SubmitBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Submit(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking submitted with temp id " + res.TempID)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetBookings retrieves bookings page by page.
// @Summary Get all bookings
// @Description Retrieve bookings with pagination and an optional status filter.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, approved, declined)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)
	queryParams.RestrictSortBy(sortableColumns...)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status := request.URL.Query().Get(constant.RequestParamStatus); status != "" {
		if !slices.Contains([]string{model.StatusPending, model.StatusApproved, model.StatusDeclined}, status) {
			err := failure.InvalidRequest("status must be one of pending approved declined")
			scope.TraceError(err)

			response.WithError(writer, err)

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetPendingBookings lists bookings waiting for review.
// @Summary Get pending bookings
// @Description Retrieve every pending booking in submission order.
// @Tags Booking
// @Produce json
// @Success 200 {object} response.Data[[]dto.BookingResponse] "Pending bookings"
// @Failure 500 {object} response.Error
// @Router /v1/bookings/pending [get]
// @Security BearerAuth
func (handler *Handler) GetPendingBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPendingBookings")
	defer scope.End()

	bookings, err := handler.service.ListPending(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list pending bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetBooking retrieves a booking by its temporary id.
// @Summary Get a booking
// @Description Retrieve a booking by the temporary id issued at submission.
// @Tags Booking
// @Produce json
// @Param tempId path string true "Temporary booking id"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{tempId} [get]
// @Security BearerAuth
func (handler *Handler) GetBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBooking")
	defer scope.End()

	tempID := chi.URLParam(request, constant.RequestParamTempID)

	booking, err := handler.service.Get(ctx, tempID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("temp_id", tempID).Msg("failed to get booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// GetInvoice renders the invoice of a booking.
// @Summary Download a booking invoice
// @Description Render the invoice PDF of a booking.
// @Tags Booking
// @Produce application/pdf
// @Param tempId path string true "Temporary booking id"
// @Success 200 {file} file "Invoice PDF"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{tempId}/invoice [get]
// @Security BearerAuth
func (handler *Handler) GetInvoice(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInvoice")
	defer scope.End()

	tempID := chi.URLParam(request, constant.RequestParamTempID)

	content, fileName, err := handler.service.Invoice(ctx, tempID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("temp_id", tempID).Msg("failed to render invoice")

		response.WithError(writer, err)

		return
	}

	response.WithFile(writer, constant.ContentTypePDF, fileName, content)
}

// ApproveBooking approves a pending booking.
// @Summary Approve a booking
// @Description Assign a room and a permanent booking id. A warning is returned when the guest could not be notified.
// @Tags Booking
// @Accept json
// @Produce json
// @Param tempId path string true "Temporary booking id"
// @Param request body dto.ApproveBookingRequest true "Approve Booking Request"
// @Success 200 {object} response.Data[dto.ApproveBookingResponse] "Booking approved"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{tempId}/approve [post]
// @Security BearerAuth
func (handler *Handler) ApproveBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveBooking")
	defer scope.End()

	tempID := chi.URLParam(request, constant.RequestParamTempID)
	req := dto.ApproveBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Approve(ctx, tempID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("temp_id", tempID).Msg("failed to approve booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking " + tempID + " approved by user " + user)

	response.WithJSON(writer, http.StatusOK, res)
}

// DeclineBooking declines a pending booking.
// @Summary Decline a booking
// @Description Decline a pending booking with a reason. A warning is returned when the guest could not be notified.
// @Tags Booking
// @Accept json
// @Produce json
// @Param tempId path string true "Temporary booking id"
// @Param request body dto.DeclineBookingRequest true "Decline Booking Request"
// @Success 200 {object} response.Data[dto.DeclineBookingResponse] "Booking declined"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{tempId}/decline [post]
// @Security BearerAuth
func (handler *Handler) DeclineBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeclineBooking")
	defer scope.End()

	tempID := chi.URLParam(request, constant.RequestParamTempID)
	req := dto.DeclineBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Decline(ctx, tempID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("temp_id", tempID).Msg("failed to decline booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking " + tempID + " declined by user " + user)

	response.WithJSON(writer, http.StatusOK, res)
}
