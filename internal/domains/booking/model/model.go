package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"guesthouse/shared/model"
	"time"
)

const (
	TableName  = "room_bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldTempID        = "temp_id"
	FieldBookingID     = "booking_id"
	FieldRoomNumber    = "room_number"
	FieldDeclineReason = "decline_reason"
	FieldFullName      = "full_name"
	FieldEmail         = "email"
	FieldRoomType      = "room_type"
	FieldCheckInDate   = "check_in_date"
	FieldCheckOutDate  = "check_out_date"
	FieldPaymentStatus = "payment_status"
	FieldCategory      = "category"
	FieldStatus        = "status"
	FieldCreatedAt     = "created_at"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

const (
	PaymentOnline  = "online"
	PaymentCash    = "cash"
	PaymentPending = "pending"
)

const (
	CategoryOfficial    = "Official"
	CategoryPrivate     = "Private"
	CategorySemiPrivate = "Semi-Private"
)

// Guest is an additional occupant listed on a booking.
type Guest struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// Guests is stored as a JSONB array.
type Guests []Guest

func (g Guests) Value() (driver.Value, error) {
	if g == nil {
		return []byte("[]"), nil
	}

	raw, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal guests: %w", err)
	}

	return raw, nil
}

func (g *Guests) Scan(src any) error {
	var raw []byte

	switch value := src.(type) {
	case nil:
		*g = Guests{}

		return nil
	case []byte:
		raw = value
	case string:
		raw = []byte(value)
	default:
		return errors.New("guests: unsupported column type")
	}

	return json.Unmarshal(raw, g)
}

type Booking struct {
	ID            string    `db:"id"`
	TempID        string    `db:"temp_id"`
	BookingID     *string   `db:"booking_id"`
	RoomNumber    *string   `db:"room_number"`
	DeclineReason *string   `db:"decline_reason"`
	FullName      string    `db:"full_name"`
	Email         string    `db:"email"`
	Phone         string    `db:"phone"`
	Address       string    `db:"address"`
	Purpose       string    `db:"purpose"`
	RoomType      string    `db:"room_type"`
	RoomsRequired int       `db:"rooms_required"`
	CheckInDate   time.Time `db:"check_in_date"`
	CheckInTime   string    `db:"check_in_time"`
	CheckOutDate  time.Time `db:"check_out_date"`
	CheckOutTime  string    `db:"check_out_time"`
	Guests        Guests    `db:"guests"`
	Amount        int64     `db:"amount"`
	PaymentStatus string    `db:"payment_status"`
	Category      string    `db:"category"`
	Status        string    `db:"status"`
	model.Metadata
}

// Persons counts the primary guest plus every additional guest.
func (b Booking) Persons() int {
	return 1 + len(b.Guests)
}

// IsActiveOn reports whether an approved booking still occupies rooms on or after day.
func (b Booking) IsActiveOn(day time.Time) bool {
	return b.Status == StatusApproved && !b.CheckOutDate.IsZero() && !b.CheckOutDate.Before(day)
}

// Value returns the dereferenced string or empty when unset.
func Value(field *string) string {
	if field == nil {
		return ""
	}

	return *field
}
