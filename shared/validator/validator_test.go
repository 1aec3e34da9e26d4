package validator_test

import (
	"errors"
	"guesthouse/shared/failure"
	"guesthouse/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guest struct {
	Name string `json:"name" validate:"required,notblank"`
	Age  int    `json:"age"  validate:"gte=0,lte=120"`
}

type stay struct {
	FullName      string  `json:"full_name"      validate:"required,notblank,max=20"`
	Email         string  `json:"email"          validate:"required,email"`
	RoomType      string  `json:"room_type"      validate:"required,oneof=Single Double Suite"`
	RoomsRequired int     `json:"rooms_required" validate:"required,min=1"`
	CheckInDate   string  `json:"check_in_date"  validate:"required,datetime=2006-01-02"`
	Guests        []guest `json:"guests"         validate:"omitempty,dive"`
	Internal      string  `json:"-"`
}

func validStay() stay {
	return stay{
		FullName:      "Asha Rao",
		Email:         "asha@example.com",
		RoomType:      "Double",
		RoomsRequired: 1,
		CheckInDate:   "2025-03-10",
	}
}

func assertFailure(t *testing.T, err error, reason, message string) {
	t.Helper()

	var f *failure.Failure
	require.True(t, errors.As(err, &f), "expected a failure, got %v", err)
	assert.Equal(t, reason, f.Reason)

	if message != "" {
		assert.Equal(t, message, f.Message)
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *stay)
		wantMsg string
	}{
		{name: "valid", mutate: func(_ *stay) {}},
		{name: "missing name", mutate: func(s *stay) { s.FullName = "" }, wantMsg: "full_name is required"},
		{name: "blank name", mutate: func(s *stay) { s.FullName = "   " }, wantMsg: "full_name must not be blank"},
		{name: "long name", mutate: func(s *stay) { s.FullName = strings.Repeat("a", 21) }, wantMsg: "full_name must be at most 20"},
		{name: "bad email", mutate: func(s *stay) { s.Email = "asha" }, wantMsg: "email must be a valid email address"},
		{name: "unknown room", mutate: func(s *stay) { s.RoomType = "Dorm" }, wantMsg: "room_type must be one of Single Double Suite"},
		{name: "bad date", mutate: func(s *stay) { s.CheckInDate = "10/03/2025" }, wantMsg: "check_in_date must match the format YYYY-MM-DD"},
		{name: "nested guest", mutate: func(s *stay) { s.Guests = []guest{{Name: "Ravi", Age: 130}} }, wantMsg: "age must be less than or equal to 120"},
		{name: "hidden field is ignored", mutate: func(s *stay) { s.Internal = "x" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validStay()
			tt.mutate(&s)

			err := validator.ValidateStruct(&s)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			assertFailure(t, err, failure.ReasonValidationError, tt.wantMsg)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantReason string
		wantMsg    string
	}{
		{
			name: "decoded and valid",
			body: `{"full_name":"Asha Rao","email":"asha@example.com","room_type":"Suite","rooms_required":2,"check_in_date":"2025-03-10"}`,
		},
		{name: "empty body", body: "", wantReason: failure.ReasonInvalidRequest, wantMsg: "request body is empty"},
		{name: "truncated json", body: `{"full_name":`, wantReason: failure.ReasonInvalidRequest},
		{name: "wrong type", body: `{"rooms_required":"two"}`, wantReason: failure.ReasonInvalidRequest},
		{name: "fails rules", body: `{"email":"asha@example.com"}`, wantReason: failure.ReasonValidationError, wantMsg: "full_name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s stay

			err := validator.Validate(strings.NewReader(tt.body), &s)

			if tt.wantReason == "" {
				require.NoError(t, err)
				assert.Equal(t, 2, s.RoomsRequired)

				return
			}

			assertFailure(t, err, tt.wantReason, tt.wantMsg)
		})
	}
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("approved", "oneof=pending approved declined"))

	err := validator.ValidateVar("cancelled", "oneof=pending approved declined")
	assertFailure(t, err, failure.ReasonValidationError, "")
}
