package booking_test

import (
	"encoding/json"
	"errors"
	otelMocks "guesthouse/infras/otel/mocks"
	"guesthouse/internal/domains/booking/mocks"
	"guesthouse/internal/domains/booking/model/dto"
	"guesthouse/internal/handlers/booking"
	"guesthouse/shared/constant"
	gDto "guesthouse/shared/dto"
	"guesthouse/shared/failure"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Reason  string          `json:"reason"`
}

func serve(t *testing.T, svc *mocks.MockBookingService, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	handler := booking.New(svc, otelMocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get(constant.RequestHeaderContentType) == constant.ContentTypeJSON {
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func TestHandler_SubmitBooking(t *testing.T) {
	validBody := `{"full_name":"Asha Rao","email":"asha@example.com","phone":"9800000000","room_type":"Double",` +
		`"rooms_required":1,"check_in_date":"2025-03-10","check_out_date":"2025-03-12"}`

	tests := []struct {
		name       string
		body       string
		setupMock  func(svc *mocks.MockBookingService)
		wantStatus int
		wantReason string
	}{
		{
			name: "accepted",
			body: validBody,
			setupMock: func(svc *mocks.MockBookingService) {
				svc.EXPECT().Submit(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, req dto.SubmitBookingRequest) (dto.SubmitBookingResponse, error) {
						assert.Equal(t, "Double", req.RoomType)

						return dto.SubmitBookingResponse{TempID: "temp-1"}, nil
					})
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed json",
			body:       `{"full_name":`,
			setupMock:  func(_ *mocks.MockBookingService) {},
			wantStatus: http.StatusBadRequest,
			wantReason: failure.ReasonInvalidRequest,
		},
		{
			name:       "missing required field",
			body:       `{"email":"asha@example.com"}`,
			setupMock:  func(_ *mocks.MockBookingService) {},
			wantStatus: http.StatusBadRequest,
			wantReason: failure.ReasonValidationError,
		},
		{
			name: "too many guests",
			body: validBody,
			setupMock: func(svc *mocks.MockBookingService) {
				svc.EXPECT().Submit(gomock.Any(), gomock.Any()).
					Return(dto.SubmitBookingResponse{}, failure.OccupancyExceeded("Only 3 persons allowed for 1 room(s)."))
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantReason: failure.ReasonOccupancyExceeded,
		},
		{
			name: "storage failure is not leaked",
			body: validBody,
			setupMock: func(svc *mocks.MockBookingService) {
				svc.EXPECT().Submit(gomock.Any(), gomock.Any()).
					Return(dto.SubmitBookingResponse{}, errors.New("pq: relation does not exist"))
			},
			wantStatus: http.StatusInternalServerError,
			wantReason: failure.ReasonInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := mocks.NewMockBookingService(ctrl)
			tt.setupMock(svc)

			rec, env := serve(t, svc, http.MethodPost, "/bookings", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus < http.StatusBadRequest, env.Success)
			assert.Equal(t, tt.wantReason, env.Reason)

			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, constant.ResponseErrorInternal, env.Error)
			}
		})
	}
}

func TestHandler_GetBookings(t *testing.T) {
	t.Run("status filter is passed through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc := mocks.NewMockBookingService(ctrl)
		svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, _ gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error) {
				if assert.Len(t, filter.Filters, 1) {
					assert.Equal(t, "pending", filter.Filters[0].(gDto.Filter).Value)
				}

				return dto.GetBookingsResponse{TotalData: 1, TotalPage: 1}, nil
			})

		rec, env := serve(t, svc, http.MethodGet, "/bookings?status=pending", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)
	})

	t.Run("unknown status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		rec, env := serve(t, mocks.NewMockBookingService(ctrl), http.MethodGet, "/bookings?status=cancelled", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, failure.ReasonInvalidRequest, env.Reason)
	})
}

func TestHandler_ApproveBooking(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(svc *mocks.MockBookingService)
		wantStatus  int
		wantWarning bool
	}{
		{
			name: "approved",
			setupMock: func(svc *mocks.MockBookingService) {
				svc.EXPECT().Approve(gomock.Any(), "temp-1", dto.ApproveBookingRequest{RoomNumber: "204"}).
					Return(dto.ApproveBookingResponse{TempID: "temp-1", BookingID: "K3Z9QX1A", RoomNumber: "204"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "approved with notification warning",
			setupMock: func(svc *mocks.MockBookingService) {
				svc.EXPECT().Approve(gomock.Any(), "temp-1", gomock.Any()).
					Return(dto.ApproveBookingResponse{
						TempID:     "temp-1",
						BookingID:  "K3Z9QX1A",
						RoomNumber: "204",
						Warning:    &dto.Warning{Reason: failure.ReasonNotificationFailed, Message: "queue down"},
					}, nil)
			},
			wantStatus:  http.StatusOK,
			wantWarning: true,
		},
		{
			name: "already decided",
			setupMock: func(svc *mocks.MockBookingService) {
				svc.EXPECT().Approve(gomock.Any(), "temp-1", gomock.Any()).
					Return(dto.ApproveBookingResponse{}, failure.NotFound("no pending booking found for temp-1"))
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := mocks.NewMockBookingService(ctrl)
			tt.setupMock(svc)

			rec, env := serve(t, svc, http.MethodPost, "/bookings/temp-1/approve", `{"room_number":"204"}`)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			var res dto.ApproveBookingResponse
			assert.NoError(t, json.Unmarshal(env.Data, &res))
			assert.Equal(t, "K3Z9QX1A", res.BookingID)
			assert.Equal(t, tt.wantWarning, res.Warning != nil)
		})
	}
}

func TestHandler_DeclineBooking(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockBookingService(ctrl)
	svc.EXPECT().Decline(gomock.Any(), "temp-2", dto.DeclineBookingRequest{Reason: "Fully booked"}).
		Return(dto.DeclineBookingResponse{TempID: "temp-2"}, nil)

	rec, env := serve(t, svc, http.MethodPost, "/bookings/temp-2/decline", `{"reason":"Fully booked"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}

func TestHandler_GetInvoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := mocks.NewMockBookingService(ctrl)
	svc.EXPECT().Invoice(gomock.Any(), "temp-3").Return([]byte("%PDF-1.3"), "invoice-temp-3.pdf", nil)

	rec, _ := serve(t, svc, http.MethodGet, "/bookings/temp-3/invoice", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, constant.ContentTypePDF, rec.Header().Get(constant.RequestHeaderContentType))
	assert.Contains(t, rec.Header().Get(constant.RequestHeaderContentDisposition), "invoice-temp-3.pdf")
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}
