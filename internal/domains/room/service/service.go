package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"guesthouse/infras/otel"
	bookingModel "guesthouse/internal/domains/booking/model"
	bookingRepo "guesthouse/internal/domains/booking/repository"
	"guesthouse/internal/domains/room/model"
	"guesthouse/internal/domains/room/model/dto"
	"guesthouse/shared/constant"
	"guesthouse/shared/daterange"
	gDto "guesthouse/shared/dto"
	"guesthouse/shared/failure"

	"github.com/rs/zerolog/log"
)

type Room interface {
	Catalog(ctx context.Context) dto.GetRoomsResponse
	CheckAvailability(ctx context.Context, req dto.CheckAvailabilityRequest) (dto.CheckAvailabilityResponse, error)
	Available(ctx context.Context, roomType string, checkIn, checkOut time.Time) (int, error)
}

type serviceImpl struct {
	bookings bookingRepo.Booking
	otel     otel.Otel
}

func New(bookings bookingRepo.Booking, otel otel.Otel) Room {
	return &serviceImpl{
		bookings: bookings,
		otel:     otel,
	}
}

func (s *serviceImpl) Catalog(ctx context.Context) dto.GetRoomsResponse {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Catalog")
	defer scope.End()

	var res dto.GetRoomsResponse
	res.FromModels(model.Catalog())

	return res
}

func (s *serviceImpl) CheckAvailability(ctx context.Context, req dto.CheckAvailabilityRequest) (res dto.CheckAvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.CheckAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	roomType := strings.TrimSpace(req.RoomType)
	if roomType == constant.Empty || strings.TrimSpace(req.CheckInDate) == constant.Empty || strings.TrimSpace(req.CheckOutDate) == constant.Empty {
		return res, failure.InvalidRequest("room_type, check_in_date and check_out_date are required")
	}

	checkIn, err := daterange.ParseDate(req.CheckInDate)
	if err != nil {
		return res, failure.InvalidRequest("check_in_date must be a valid date")
	}

	checkOut, err := daterange.ParseDate(req.CheckOutDate)
	if err != nil {
		return res, failure.InvalidRequest("check_out_date must be a valid date")
	}

	available, err := s.Available(ctx, roomType, checkIn, checkOut)
	if err != nil {
		return res, err
	}

	res.FromAvailability(roomType, available)

	return res, nil
}

func (s *serviceImpl) Available(ctx context.Context, roomType string, checkIn, checkOut time.Time) (available int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Available")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err := model.Find(roomType); err != nil {
		log.Warn().Str("room_type", roomType).Msg("availability requested for unknown room type")

		return 0, nil
	}

	checkIn, checkOut = daterange.Truncate(checkIn), daterange.Truncate(checkOut)
	if !checkIn.Before(checkOut) {
		// nothing can overlap an empty or reversed range
		return AvailableRooms(nil, roomType, checkIn, checkOut), nil
	}

	approved, err := s.bookings.GetAll(ctx, gDto.QueryParams{}, approvedOverlapping(roomType, checkIn, checkOut))
	if err != nil {
		log.Error().Err(err).Str("room_type", roomType).Msg("failed to load approved bookings")

		return 0, failure.PersistenceError(fmt.Errorf("failed to load approved bookings: %w", err))
	}

	return AvailableRooms(approved, roomType, checkIn, checkOut), nil
}

// AvailableRooms subtracts the rooms of every approved booking of roomType whose
// calendar-date stay overlaps [checkIn, checkOut) from the type's inventory.
// The result is clamped to zero; unknown room types have no rooms.
func AvailableRooms(bookings []bookingModel.Booking, roomType string, checkIn, checkOut time.Time) int {
	total, err := model.TotalUnits(roomType)
	if err != nil {
		return 0
	}

	checkIn, checkOut = daterange.Truncate(checkIn), daterange.Truncate(checkOut)
	booked := 0

	for _, booking := range bookings {
		if booking.Status != bookingModel.StatusApproved || booking.RoomType != roomType {
			continue
		}

		if daterange.Overlaps(booking.CheckInDate, booking.CheckOutDate, checkIn, checkOut) {
			booked += booking.RoomsRequired
		}
	}

	return max(0, total-booked)
}

// approvedOverlapping narrows storage reads to approved bookings of roomType
// whose stay could intersect [checkIn, checkOut). AvailableRooms re-checks the overlap.
func approvedOverlapping(roomType string, checkIn, checkOut time.Time) gDto.FilterGroup {
	return gDto.And(
		gDto.Filter{
			Field:    bookingModel.FieldStatus,
			Value:    bookingModel.StatusApproved,
			Operator: gDto.FilterOperatorEq,
			Table:    bookingModel.TableName,
		},
		gDto.Filter{
			Field:    bookingModel.FieldRoomType,
			Value:    roomType,
			Operator: gDto.FilterOperatorEq,
			Table:    bookingModel.TableName,
		},
		gDto.Filter{
			Field:    bookingModel.FieldCheckInDate,
			Value:    daterange.Format(checkOut),
			Operator: gDto.FilterOperatorLess,
			Table:    bookingModel.TableName,
		},
		gDto.Filter{
			Field:    bookingModel.FieldCheckOutDate,
			Value:    daterange.Format(checkIn),
			Operator: gDto.FilterOperatorGreater,
			Table:    bookingModel.TableName,
		},
	)
}
