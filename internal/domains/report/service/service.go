package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"guesthouse/config"
	"guesthouse/infras/otel"
	bookingModel "guesthouse/internal/domains/booking/model"
	bookingRepo "guesthouse/internal/domains/booking/repository"
	"guesthouse/internal/domains/report/model"
	"guesthouse/internal/domains/report/model/dto"
	roomModel "guesthouse/internal/domains/room/model"
	"guesthouse/shared/constant"
	"guesthouse/shared/daterange"
	gDto "guesthouse/shared/dto"
	"guesthouse/shared/failure"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Report interface {
	Summary(ctx context.Context, referenceDate string) (dto.SummaryResponse, error)
	Dashboard(ctx context.Context, referenceDate string) (dto.DashboardResponse, error)
}

type serviceImpl struct {
	bookings bookingRepo.Booking
	cfg      *config.Config
	otel     otel.Otel
}

func New(bookings bookingRepo.Booking, cfg *config.Config, otel otel.Otel) Report {
	return &serviceImpl{
		bookings: bookings,
		cfg:      cfg,
		otel:     otel,
	}
}

// Summarize counts booked rooms per day, month-relative week and month for every
// approved booking that has not fully ended before reference. Check-in and
// check-out days are both counted.
func Summarize(bookings []bookingModel.Booking, reference time.Time) model.Summary {
	summary := model.NewSummary()

	for _, booking := range bookings {
		if booking.CheckInDate.IsZero() || !booking.IsActiveOn(reference) {
			continue
		}

		for day := range daterange.EachDay(booking.CheckInDate, booking.CheckOutDate) {
			summary.Add(day, booking.RoomsRequired)
		}
	}

	return summary
}

// ComputeStats reduces the booking snapshot to dashboard counters. Payment
// counters span every status.
func ComputeStats(bookings []bookingModel.Booking, reference time.Time, capacity int) model.Stats {
	stats := model.Stats{TotalBookings: len(bookings)}
	booked := 0

	for _, booking := range bookings {
		switch booking.Status {
		case bookingModel.StatusPending:
			stats.PendingBookings++
		case bookingModel.StatusDeclined:
			stats.DeclinedBookings++
		}

		if booking.IsActiveOn(reference) {
			booked += booking.RoomsRequired
		}

		switch {
		case strings.EqualFold(booking.PaymentStatus, bookingModel.PaymentOnline):
			stats.OnlinePayments++
		case strings.EqualFold(booking.PaymentStatus, bookingModel.PaymentCash):
			stats.CashPayments++
		}
	}

	stats.AvailableRooms = max(0, capacity-booked)

	return stats
}

func (s *serviceImpl) Summary(ctx context.Context, referenceDate string) (res dto.SummaryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Summary")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reference, err := parseReference(referenceDate)
	if err != nil {
		return res, err
	}

	bookings, err := s.snapshot(ctx)
	if err != nil {
		return res, err
	}

	res.FromModel(Summarize(bookings, reference), reference)

	return res, nil
}

func (s *serviceImpl) Dashboard(ctx context.Context, referenceDate string) (res dto.DashboardResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".report.Dashboard")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reference, err := parseReference(referenceDate)
	if err != nil {
		return res, err
	}

	bookings, err := s.snapshot(ctx)
	if err != nil {
		return res, err
	}

	capacity := s.capacity()
	res.FromModel(ComputeStats(bookings, reference, capacity), reference, capacity)

	return res, nil
}

// capacity is the configured facility-wide cap, or the catalog sum when unset.
func (s *serviceImpl) capacity() int {
	if s.cfg.Booking.FacilityCapacity > 0 {
		return s.cfg.Booking.FacilityCapacity
	}

	return roomModel.FacilityCapacity()
}

func (s *serviceImpl) snapshot(ctx context.Context) ([]bookingModel.Booking, error) {
	bookings, err := s.bookings.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to read bookings for report")

		return nil, failure.PersistenceError(fmt.Errorf("failed to read bookings: %w", err))
	}

	return bookings, nil
}

func parseReference(value string) (time.Time, error) {
	if strings.TrimSpace(value) == constant.Empty {
		return daterange.Today(), nil
	}

	reference, err := daterange.ParseDate(value)
	if err != nil {
		return reference, failure.InvalidRequest("reference_date must be a valid date")
	}

	return reference, nil
}
