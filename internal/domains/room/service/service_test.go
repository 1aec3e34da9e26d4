package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"guesthouse/infras/otel/mocks"
	bookingMocks "guesthouse/internal/domains/booking/mocks"
	bookingModel "guesthouse/internal/domains/booking/model"
	"guesthouse/internal/domains/room/model/dto"
	"guesthouse/internal/domains/room/service"
	"guesthouse/shared/failure"
)

func date(day string) time.Time {
	parsed, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}

	return parsed
}

func approved(roomType string, rooms int, checkIn, checkOut string) bookingModel.Booking {
	return bookingModel.Booking{
		RoomType:      roomType,
		RoomsRequired: rooms,
		CheckInDate:   date(checkIn),
		CheckOutDate:  date(checkOut),
		Status:        bookingModel.StatusApproved,
	}
}

func TestAvailableRooms(t *testing.T) {
	existing := []bookingModel.Booking{approved("Single", 3, "2025-09-20", "2025-09-22")}

	tests := []struct {
		name     string
		bookings []bookingModel.Booking
		roomType string
		checkIn  string
		checkOut string
		expected int
	}{
		{
			name:     "overlapping stay subtracts rooms",
			bookings: existing,
			roomType: "Single",
			checkIn:  "2025-09-21",
			checkOut: "2025-09-23",
			expected: 7,
		},
		{
			name:     "check in on previous check out day does not overlap",
			bookings: existing,
			roomType: "Single",
			checkIn:  "2025-09-22",
			checkOut: "2025-09-24",
			expected: 10,
		},
		{
			name:     "check out on existing check in day does not overlap",
			bookings: existing,
			roomType: "Single",
			checkIn:  "2025-09-18",
			checkOut: "2025-09-20",
			expected: 10,
		},
		{
			name:     "other room type is ignored",
			bookings: existing,
			roomType: "Double",
			checkIn:  "2025-09-21",
			checkOut: "2025-09-23",
			expected: 5,
		},
		{
			name: "pending and declined bookings are ignored",
			bookings: []bookingModel.Booking{
				{RoomType: "Suite", RoomsRequired: 2, CheckInDate: date("2025-09-20"), CheckOutDate: date("2025-09-25"), Status: bookingModel.StatusPending},
				{RoomType: "Suite", RoomsRequired: 1, CheckInDate: date("2025-09-20"), CheckOutDate: date("2025-09-25"), Status: bookingModel.StatusDeclined},
			},
			roomType: "Suite",
			checkIn:  "2025-09-21",
			checkOut: "2025-09-22",
			expected: 3,
		},
		{
			name: "overbooked inventory is clamped to zero",
			bookings: []bookingModel.Booking{
				approved("Suite", 2, "2025-09-20", "2025-09-25"),
				approved("Suite", 2, "2025-09-21", "2025-09-23"),
			},
			roomType: "Suite",
			checkIn:  "2025-09-21",
			checkOut: "2025-09-22",
			expected: 0,
		},
		{
			name:     "degenerate query range overlaps nothing",
			bookings: existing,
			roomType: "Single",
			checkIn:  "2025-09-21",
			checkOut: "2025-09-21",
			expected: 10,
		},
		{
			name:     "reversed query range overlaps nothing",
			bookings: existing,
			roomType: "Single",
			checkIn:  "2025-09-23",
			checkOut: "2025-09-21",
			expected: 10,
		},
		{
			name:     "unknown room type has no rooms",
			bookings: existing,
			roomType: "Penthouse",
			checkIn:  "2025-09-21",
			checkOut: "2025-09-23",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := service.AvailableRooms(tt.bookings, tt.roomType, date(tt.checkIn), date(tt.checkOut))
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAvailableRooms_DisjointRangesAreUnaffected(t *testing.T) {
	occupied := approved("Double", 4, "2025-10-10", "2025-10-15")
	queries := [][2]string{
		{"2025-10-01", "2025-10-10"},
		{"2025-10-15", "2025-10-20"},
		{"2025-11-01", "2025-11-03"},
	}

	for _, query := range queries {
		before := service.AvailableRooms(nil, "Double", date(query[0]), date(query[1]))
		after := service.AvailableRooms([]bookingModel.Booking{occupied}, "Double", date(query[0]), date(query[1]))

		assert.Equal(t, before, after, "query %v", query)
		assert.LessOrEqual(t, after, 5)
	}
}

func TestRoomService_CheckAvailability(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := bookingMocks.NewMockBooking(ctrl)
	svc := service.New(mockRepo, mocks.NewOtel())

	tests := []struct {
		name       string
		req        dto.CheckAvailabilityRequest
		setupMock  func()
		wantReason string
		wantResult dto.CheckAvailabilityResponse
	}{
		{
			name: "rooms available",
			req:  dto.CheckAvailabilityRequest{RoomType: "Single", CheckInDate: "2025-09-21", CheckOutDate: "2025-09-23"},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]bookingModel.Booking{approved("Single", 3, "2025-09-20", "2025-09-22")}, nil)
			},
			wantResult: dto.CheckAvailabilityResponse{RoomType: "Single", AvailableRooms: 7, Message: "7 Single room(s) available"},
		},
		{
			name: "fully booked",
			req:  dto.CheckAvailabilityRequest{RoomType: "Suite", CheckInDate: "2025-09-21", CheckOutDate: "2025-09-23"},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]bookingModel.Booking{approved("Suite", 3, "2025-09-20", "2025-09-24")}, nil)
			},
			wantResult: dto.CheckAvailabilityResponse{RoomType: "Suite", AvailableRooms: 0, Message: "No Suite rooms available in selected dates"},
		},
		{
			name:       "missing room type",
			req:        dto.CheckAvailabilityRequest{CheckInDate: "2025-09-21", CheckOutDate: "2025-09-23"},
			setupMock:  func() {},
			wantReason: failure.ReasonInvalidRequest,
		},
		{
			name:       "unparseable date",
			req:        dto.CheckAvailabilityRequest{RoomType: "Single", CheckInDate: "21/09/2025", CheckOutDate: "2025-09-23"},
			setupMock:  func() {},
			wantReason: failure.ReasonInvalidRequest,
		},
		{
			name:       "unknown room type skips storage",
			req:        dto.CheckAvailabilityRequest{RoomType: "Penthouse", CheckInDate: "2025-09-21", CheckOutDate: "2025-09-23"},
			setupMock:  func() {},
			wantResult: dto.CheckAvailabilityResponse{RoomType: "Penthouse", AvailableRooms: 0, Message: "No Penthouse rooms available in selected dates"},
		},
		{
			name: "storage failure",
			req:  dto.CheckAvailabilityRequest{RoomType: "Double", CheckInDate: "2025-09-21", CheckOutDate: "2025-09-23"},
			setupMock: func() {
				mockRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("connection refused"))
			},
			wantReason: failure.ReasonPersistenceError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.CheckAvailability(context.Background(), tt.req)

			if tt.wantReason != "" {
				assert.Error(t, err)
				assert.Equal(t, tt.wantReason, failure.GetReason(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantResult, result)
		})
	}
}

func TestRoomService_Catalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.New(bookingMocks.NewMockBooking(ctrl), mocks.NewOtel())

	result := svc.Catalog(context.Background())

	assert.Equal(t, []dto.RoomResponse{
		{Type: "Single", TotalUnits: 10, DailyRate: 800},
		{Type: "Double", TotalUnits: 5, DailyRate: 1200},
		{Type: "Suite", TotalUnits: 3, DailyRate: 1800},
	}, result.Rooms)
	assert.Equal(t, 18, result.FacilityCapacity)
}
