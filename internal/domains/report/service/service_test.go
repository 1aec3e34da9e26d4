package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"guesthouse/config"
	otelMocks "guesthouse/infras/otel/mocks"
	bookingMocks "guesthouse/internal/domains/booking/mocks"
	bookingModel "guesthouse/internal/domains/booking/model"
	"guesthouse/internal/domains/report/service"
	"guesthouse/shared/failure"
)

func date(day string) time.Time {
	parsed, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}

	return parsed
}

func booking(status string, rooms int, checkIn, checkOut, payment string) bookingModel.Booking {
	return bookingModel.Booking{
		RoomType:      "Single",
		RoomsRequired: rooms,
		CheckInDate:   date(checkIn),
		CheckOutDate:  date(checkOut),
		PaymentStatus: payment,
		Status:        status,
	}
}

func TestSummarize(t *testing.T) {
	t.Run("approved booking fills every bucket", func(t *testing.T) {
		bookings := []bookingModel.Booking{
			booking(bookingModel.StatusApproved, 2, "2025-11-01", "2025-11-02", "online"),
		}

		summary := service.Summarize(bookings, date("2025-10-15"))

		assert.Equal(t, map[string]int{"2025-11-01": 2, "2025-11-02": 2}, summary.Daily)
		assert.Equal(t, map[string]int{"2025-W1": 4}, summary.Weekly)
		assert.Equal(t, map[string]int{"2025-11": 4}, summary.Monthly)
	})

	t.Run("past pending and declined bookings are ignored", func(t *testing.T) {
		bookings := []bookingModel.Booking{
			booking(bookingModel.StatusApproved, 1, "2025-09-01", "2025-09-03", ""),
			booking(bookingModel.StatusPending, 1, "2025-11-01", "2025-11-02", ""),
			booking(bookingModel.StatusDeclined, 1, "2025-11-01", "2025-11-02", ""),
			{Status: bookingModel.StatusApproved, RoomsRequired: 1},
		}

		summary := service.Summarize(bookings, date("2025-10-15"))

		assert.Empty(t, summary.Daily)
		assert.Empty(t, summary.Weekly)
		assert.Empty(t, summary.Monthly)
	})

	t.Run("check out on the reference day still counts", func(t *testing.T) {
		bookings := []bookingModel.Booking{
			booking(bookingModel.StatusApproved, 1, "2025-10-13", "2025-10-15", ""),
		}

		summary := service.Summarize(bookings, date("2025-10-15"))

		assert.Len(t, summary.Daily, 3)
		assert.Equal(t, 3, summary.Weekly["2025-W2"]+summary.Weekly["2025-W3"])
	})

	t.Run("buckets accumulate across bookings and months", func(t *testing.T) {
		bookings := []bookingModel.Booking{
			booking(bookingModel.StatusApproved, 1, "2025-10-31", "2025-11-01", ""),
			booking(bookingModel.StatusApproved, 3, "2025-11-01", "2025-11-01", ""),
		}

		summary := service.Summarize(bookings, date("2025-10-01"))

		assert.Equal(t, 4, summary.Daily["2025-11-01"])
		assert.Equal(t, 1, summary.Monthly["2025-10"])
		assert.Equal(t, 4, summary.Monthly["2025-11"])
		assert.Equal(t, 1, summary.Weekly["2025-W5"])
	})
}

func TestComputeStats(t *testing.T) {
	bookings := []bookingModel.Booking{
		booking(bookingModel.StatusApproved, 3, "2025-10-10", "2025-10-20", "Online"),
		booking(bookingModel.StatusApproved, 5, "2025-09-01", "2025-09-02", "cash"),
		booking(bookingModel.StatusPending, 2, "2025-10-15", "2025-10-16", "ONLINE"),
		booking(bookingModel.StatusDeclined, 1, "2025-10-15", "2025-10-16", "CASH"),
		booking(bookingModel.StatusPending, 1, "2025-10-15", "2025-10-16", "pending"),
	}

	tests := []struct {
		name      string
		capacity  int
		available int
	}{
		{name: "catalog capacity", capacity: 18, available: 15},
		{name: "historical flat cap", capacity: 20, available: 17},
		{name: "never negative", capacity: 2, available: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := service.ComputeStats(bookings, date("2025-10-15"), tt.capacity)

			assert.Equal(t, 5, stats.TotalBookings)
			assert.Equal(t, 2, stats.PendingBookings)
			assert.Equal(t, 1, stats.DeclinedBookings)
			assert.Equal(t, 2, stats.OnlinePayments)
			assert.Equal(t, 2, stats.CashPayments)
			assert.Equal(t, tt.available, stats.AvailableRooms)
		})
	}
}

func TestReportService_Summary(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		setupMock  func(repo *bookingMocks.MockBooking)
		wantReason string
		wantDate   string
	}{
		{
			name:      "explicit reference date",
			reference: "2025-10-15",
			setupMock: func(repo *bookingMocks.MockBooking) {
				repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]bookingModel.Booking{booking(bookingModel.StatusApproved, 2, "2025-11-01", "2025-11-02", "")}, nil)
			},
			wantDate: "2025-10-15",
		},
		{
			name:       "malformed reference date",
			reference:  "15/10/2025",
			setupMock:  func(repo *bookingMocks.MockBooking) {},
			wantReason: failure.ReasonInvalidRequest,
		},
		{
			name:      "storage failure",
			reference: "2025-10-15",
			setupMock: func(repo *bookingMocks.MockBooking) {
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("pq: timeout"))
			},
			wantReason: failure.ReasonPersistenceError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := bookingMocks.NewMockBooking(ctrl)
			tt.setupMock(repo)

			svc := service.New(repo, &config.Config{}, otelMocks.NewOtel())

			res, err := svc.Summary(context.Background(), tt.reference)

			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, failure.GetReason(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantDate, res.ReferenceDate)
			assert.Equal(t, 2, res.Daily["2025-11-01"])
		})
	}
}

func TestReportService_Dashboard(t *testing.T) {
	snapshot := []bookingModel.Booking{booking(bookingModel.StatusApproved, 4, "2025-10-10", "2025-10-20", "cash")}

	tests := []struct {
		name      string
		capacity  int
		available int
		total     int
	}{
		{name: "capacity derived from catalog", capacity: 0, available: 14, total: 18},
		{name: "configured capacity", capacity: 20, available: 16, total: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := bookingMocks.NewMockBooking(ctrl)
			repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(snapshot, nil)

			cfg := &config.Config{}
			cfg.Booking.FacilityCapacity = tt.capacity

			svc := service.New(repo, cfg, otelMocks.NewOtel())

			res, err := svc.Dashboard(context.Background(), "2025-10-15")

			require.NoError(t, err)
			assert.Equal(t, tt.available, res.AvailableRooms)
			assert.Equal(t, tt.total, res.FacilityCapacity)
			assert.Equal(t, 1, res.CashPayments)
		})
	}
}
