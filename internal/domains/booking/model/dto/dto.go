package dto

import (
	"fmt"
	"guesthouse/internal/domains/booking/model"
	roomModel "guesthouse/internal/domains/room/model"
	"guesthouse/shared"
	"guesthouse/shared/constant"
	"guesthouse/shared/daterange"
	gDto "guesthouse/shared/dto"
	"guesthouse/shared/failure"
	gModel "guesthouse/shared/model"
	"guesthouse/shared/timezone"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const hoursPerDay = 24

type GuestRequest struct {
	Name    string `json:"name"    validate:"required,max=100"`
	Age     int    `json:"age"     validate:"gte=0,lte=150"`
	Address string `json:"address" validate:"omitempty,max=255"`
	Email   string `json:"email"   validate:"omitempty,email,max=100"`
	Phone   string `json:"phone"   validate:"omitempty,max=20"`
}

type SubmitBookingRequest struct {
	FullName      string         `json:"full_name"       validate:"required,notblank,max=100"`
	Email         string         `json:"email"           validate:"required,email,max=100"`
	Phone         string         `json:"phone"           validate:"required,notblank,max=20"`
	Address       string         `json:"address"         validate:"omitempty,max=255"`
	Purpose       string         `json:"purpose"         validate:"omitempty,max=255"`
	RoomType      string         `json:"room_type"       validate:"required,oneof=Single Double Suite"`
	RoomsRequired int            `json:"rooms_required"  validate:"omitempty,gte=1,lte=10"`
	CheckInDate   string         `json:"check_in_date"   validate:"required"`
	CheckInTime   string         `json:"check_in_time"   validate:"omitempty,datetime=15:04"`
	CheckOutDate  string         `json:"check_out_date"  validate:"required"`
	CheckOutTime  string         `json:"check_out_time"  validate:"omitempty,datetime=15:04"`
	Guests        []GuestRequest `json:"guests"          validate:"omitempty,dive"`
	PaymentStatus string         `json:"payment_status"  validate:"omitempty,max=20"`
	Category      string         `json:"category"        validate:"omitempty,oneof=Official Private Semi-Private"`
}

// Persons counts the primary guest plus the additional guests.
func (s *SubmitBookingRequest) Persons() int {
	return 1 + len(s.Guests)
}

// Rooms is the requested room count, at least one.
func (s *SubmitBookingRequest) Rooms() int {
	if s.RoomsRequired < 1 {
		return 1
	}

	return s.RoomsRequired
}

// CheckOccupancy rejects more persons than the requested rooms can hold.
func (s *SubmitBookingRequest) CheckOccupancy() error {
	allowed := s.Rooms() * roomModel.MaxPersonsPerRoom
	if s.Persons() > allowed {
		return failure.OccupancyExceeded(fmt.Sprintf("Only %d persons allowed for %d room(s).", allowed, s.Rooms()))
	}

	return nil
}

// Stay parses the calendar dates of the request.
func (s *SubmitBookingRequest) Stay() (checkIn, checkOut time.Time, err error) {
	checkIn, err = daterange.ParseDate(s.CheckInDate)
	if err != nil {
		return checkIn, checkOut, failure.ValidationError("check_in_date must be a valid date")
	}

	checkOut, err = daterange.ParseDate(s.CheckOutDate)
	if err != nil {
		return checkIn, checkOut, failure.ValidationError("check_out_date must be a valid date")
	}

	return checkIn, checkOut, nil
}

func (s *SubmitBookingRequest) ToModel() (model.Booking, error) {
	rate, err := roomModel.DailyRate(s.RoomType)
	if err != nil {
		return model.Booking{}, failure.ValidationError("room_type must be one of " + strings.Join(roomModel.Types(), " "))
	}

	checkIn, checkOut, err := s.Stay()
	if err != nil {
		return model.Booking{}, err
	}

	start, err := daterange.CombineDateTime(checkIn, s.CheckInTime)
	if err != nil {
		return model.Booking{}, failure.ValidationError("check_in_time must match the format 15:04")
	}

	end, err := daterange.CombineDateTime(checkOut, s.CheckOutTime)
	if err != nil {
		return model.Booking{}, failure.ValidationError("check_out_time must match the format 15:04")
	}

	guests := make(model.Guests, len(s.Guests))
	for i, guest := range s.Guests {
		guests[i] = model.Guest(guest)
	}

	return model.Booking{
		ID:            uuid.NewString(),
		TempID:        uuid.NewString(),
		FullName:      strings.TrimSpace(s.FullName),
		Email:         strings.TrimSpace(s.Email),
		Phone:         strings.TrimSpace(s.Phone),
		Address:       s.Address,
		Purpose:       s.Purpose,
		RoomType:      s.RoomType,
		RoomsRequired: s.Rooms(),
		CheckInDate:   checkIn,
		CheckInTime:   clockOrMidnight(s.CheckInTime),
		CheckOutDate:  checkOut,
		CheckOutTime:  clockOrMidnight(s.CheckOutTime),
		Guests:        guests,
		Amount:        Price(rate, start, end, s.Rooms()),
		PaymentStatus: paymentStatus(s.PaymentStatus),
		Category:      s.Category,
		Status:        model.StatusPending,
		Metadata:      gModel.NewMetadata(timezone.Now(), constant.ContextGuest),
	}, nil
}

// Price charges whole started days, with a floor of one day for empty or reversed stays.
func Price(dailyRate int64, checkIn, checkOut time.Time, rooms int) int64 {
	days := int64(math.Ceil(checkOut.Sub(checkIn).Hours() / hoursPerDay))
	if days < 1 {
		days = 1
	}

	return dailyRate * days * int64(rooms)
}

func paymentStatus(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case model.PaymentOnline:
		return model.PaymentOnline
	case model.PaymentCash:
		return model.PaymentCash
	default:
		return model.PaymentPending
	}
}

func clockOrMidnight(clock string) string {
	if strings.TrimSpace(clock) == "" {
		return "00:00"
	}

	return strings.TrimSpace(clock)
}

type SubmitBookingResponse struct {
	TempID string `json:"temp_id"`
}

type ApproveBookingRequest struct {
	RoomNumber string `json:"room_number" validate:"max=20"`
}

type DeclineBookingRequest struct {
	Reason string `json:"reason"`
}

// ApprovalFields is the column set written by the approve transition.
type ApprovalFields struct {
	BookingID  string `db:"booking_id"`
	RoomNumber string `db:"room_number"`
	Status     string `db:"status"`
}

// DeclineFields is the column set written by the decline transition.
type DeclineFields struct {
	DeclineReason string `db:"decline_reason"`
	Status        string `db:"status"`
}

// Warning reports a non-fatal problem after a committed state change.
type Warning struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type ApproveBookingResponse struct {
	TempID     string   `json:"temp_id"`
	BookingID  string   `json:"booking_id"`
	RoomNumber string   `json:"room_number"`
	Warning    *Warning `json:"warning,omitempty"`
}

type DeclineBookingResponse struct {
	TempID  string   `json:"temp_id"`
	Warning *Warning `json:"warning,omitempty"`
}

type GuestResponse struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type BookingResponse struct {
	TempID        string          `json:"temp_id"`
	BookingID     string          `json:"booking_id,omitempty"`
	RoomNumber    string          `json:"room_number,omitempty"`
	DeclineReason string          `json:"decline_reason,omitempty"`
	FullName      string          `json:"full_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	Purpose       string          `json:"purpose"`
	RoomType      string          `json:"room_type"`
	RoomsRequired int             `json:"rooms_required"`
	CheckInDate   string          `json:"check_in_date"`
	CheckInTime   string          `json:"check_in_time"`
	CheckOutDate  string          `json:"check_out_date"`
	CheckOutTime  string          `json:"check_out_time"`
	Guests        []GuestResponse `json:"guests"`
	Amount        int64           `json:"amount"`
	PaymentStatus string          `json:"payment_status"`
	Category      string          `json:"category"`
	Status        string          `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.TempID = model.TempID
	r.BookingID = value(model.BookingID)
	r.RoomNumber = value(model.RoomNumber)
	r.DeclineReason = value(model.DeclineReason)
	r.FullName = model.FullName
	r.Email = model.Email
	r.Phone = model.Phone
	r.Address = model.Address
	r.Purpose = model.Purpose
	r.RoomType = model.RoomType
	r.RoomsRequired = model.RoomsRequired
	r.CheckInDate = daterange.Format(model.CheckInDate)
	r.CheckInTime = model.CheckInTime
	r.CheckOutDate = daterange.Format(model.CheckOutDate)
	r.CheckOutTime = model.CheckOutTime
	r.Amount = model.Amount
	r.PaymentStatus = model.PaymentStatus
	r.Category = model.Category
	r.Status = model.Status
	r.Metadata.FromModel(model.Metadata)

	r.Guests = make([]GuestResponse, len(model.Guests))
	for i, guest := range model.Guests {
		r.Guests[i] = GuestResponse(guest)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

func value(field *string) string {
	return model.Value(field)
}
