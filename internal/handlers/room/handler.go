package room

import (
	"guesthouse/infras/otel"
	"guesthouse/internal/domains/room/model/dto"
	"guesthouse/internal/domains/room/service"
	"guesthouse/shared/constant"
	"guesthouse/shared/validator"
	"guesthouse/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
}

func New(service service.Room, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/rooms", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetRooms)
		routerGroup.Post("/check-availability", handler.CheckAvailability)
	})
}

func (handler *Handler) scope(request *http.Request, name string) (*http.Request, otel.Scope) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".room."+name)

	return request.WithContext(ctx), scope
}

// GetRooms lists the room catalog.
// @Summary Get room catalog
// @Description Room types with their unit counts and daily rates.
// @Tags Room
// @Produce json
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "Room catalog"
// @Router /v1/rooms [get]
func (handler *Handler) GetRooms(writer http.ResponseWriter, request *http.Request) {
	request, scope := handler.scope(request, "GetRooms")
	defer scope.End()

	response.WithJSON(writer, http.StatusOK, handler.service.Catalog(request.Context()))
}

// CheckAvailability counts free rooms of a type for a stay.
// @Summary Check room availability
// @Description Number of rooms of the given type still free between the two calendar dates.
// @Tags Room
// @Accept json
// @Produce json
// @Param request body dto.CheckAvailabilityRequest true "Check Availability Request"
// @Success 200 {object} response.Data[dto.CheckAvailabilityResponse] "Availability"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/rooms/check-availability [post]
func (handler *Handler) CheckAvailability(writer http.ResponseWriter, request *http.Request) {
	request, scope := handler.scope(request, "CheckAvailability")
	defer scope.End()

	var req dto.CheckAvailabilityRequest

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("Rejected availability request body")
		response.WithError(writer, err)

		return
	}

	scope.SetAttributes(map[string]any{
		"room.type":      req.RoomType,
		"stay.check_in":  req.CheckInDate,
		"stay.check_out": req.CheckOutDate,
	})

	res, err := handler.service.CheckAvailability(request.Context(), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("room_type", req.RoomType).Msg("Failed to check availability")
		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
