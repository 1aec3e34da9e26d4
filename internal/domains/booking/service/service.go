package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"errors"
	"fmt"
	"guesthouse/config"
	"guesthouse/infras/otel"
	"guesthouse/internal/document"
	"guesthouse/internal/domains/booking/model"
	"guesthouse/internal/domains/booking/model/dto"
	"guesthouse/internal/domains/booking/repository"
	roomService "guesthouse/internal/domains/room/service"
	"guesthouse/internal/events"
	"guesthouse/shared"
	"guesthouse/shared/cache"
	"guesthouse/shared/constant"
	gDto "guesthouse/shared/dto"
	"guesthouse/shared/failure"
	"guesthouse/shared/timezone"
	"guesthouse/shared/validator"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/thanhpk/randstr"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

const (
	bookingIDLength          = 8
	bookingIDAlphabet        = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	defaultBookingIDAttempts = 5

	warningNotification = "the booking was updated but the guest notification could not be queued"
)

type Booking interface {
	Submit(ctx context.Context, req dto.SubmitBookingRequest) (dto.SubmitBookingResponse, error)
	Approve(ctx context.Context, tempID string, req dto.ApproveBookingRequest) (dto.ApproveBookingResponse, error)
	Decline(ctx context.Context, tempID string, req dto.DeclineBookingRequest) (dto.DeclineBookingResponse, error)
	Get(ctx context.Context, tempID string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	ListPending(ctx context.Context) ([]dto.BookingResponse, error)
	ListByStatus(ctx context.Context, status string) ([]dto.BookingResponse, error)
	Invoice(ctx context.Context, tempID string) (content []byte, fileName string, err error)
}

type serviceImpl struct {
	repo      repository.Booking
	rooms     roomService.Room
	publisher events.Publisher
	renderer  document.Renderer
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Booking,
	rooms roomService.Room,
	publisher events.Publisher,
	renderer document.Renderer,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:      repo,
		rooms:     rooms,
		publisher: publisher,
		renderer:  renderer,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

// NewBookingID returns an 8 character base-36 token.
func NewBookingID() string {
	return randstr.String(bookingIDLength, bookingIDAlphabet)
}

// StatusFilter matches bookings in the given lifecycle status.
func StatusFilter(status string) gDto.FilterGroup {
	return shared.FilterByID(status, model.FieldStatus, model.TableName)
}

func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitBookingRequest) (res dto.SubmitBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Submit")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	if err = req.CheckOccupancy(); err != nil {
		return res, err
	}

	booking, err := req.ToModel()
	if err != nil {
		return res, err
	}

	if s.cfg.Booking.EnforceAvailability {
		if err = s.ensureAvailable(ctx, booking); err != nil {
			return res, err
		}
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to insert booking")

		return res, failure.PersistenceError(fmt.Errorf("failed to insert booking: %w", err))
	}

	log.Info().Str("temp_id", booking.TempID).Str("room_type", booking.RoomType).Msg("booking submitted")

	s.invalidate(ctx, constant.Empty)

	res.TempID = booking.TempID

	return res, nil
}

func (s *serviceImpl) ensureAvailable(ctx context.Context, booking model.Booking) error {
	available, err := s.rooms.Available(ctx, booking.RoomType, booking.CheckInDate, booking.CheckOutDate)
	if err != nil {
		return err
	}

	if available >= booking.RoomsRequired {
		return nil
	}

	if available == 0 {
		return failure.RoomsUnavailable(fmt.Sprintf("No %s rooms available in selected dates", booking.RoomType))
	}

	return failure.RoomsUnavailable(fmt.Sprintf("Only %d %s room(s) available in selected dates", available, booking.RoomType))
}

func (s *serviceImpl) Approve(ctx context.Context, tempID string, req dto.ApproveBookingRequest) (res dto.ApproveBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Approve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	roomNumber := strings.TrimSpace(req.RoomNumber)
	if roomNumber == constant.Empty {
		return res, failure.InvalidRequest("room_number is required")
	}

	req.RoomNumber = roomNumber
	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	attempts := s.cfg.Booking.BookingIDMaxAttempts
	if attempts <= 0 {
		attempts = defaultBookingIDAttempts
	}

	var bookingID string

	for attempt := 1; ; attempt++ {
		bookingID = NewBookingID()

		fields := shared.TransformFields(dto.ApprovalFields{
			BookingID:  bookingID,
			RoomNumber: roomNumber,
			Status:     model.StatusApproved,
		}, user)

		var changed bool

		changed, err = s.repo.Transition(ctx, tempID, model.StatusPending, fields)
		if errors.Is(err, repository.ErrDuplicate) && attempt < attempts {
			log.Warn().Str("booking_id", bookingID).Int("attempt", attempt).Msg("booking id collision, retrying")

			continue
		}

		if err != nil {
			log.Error().Err(err).Str("temp_id", tempID).Msg("failed to approve booking")

			return res, failure.PersistenceError(fmt.Errorf("failed to approve booking: %w", err))
		}

		if !changed {
			return res, failure.NotFound("no pending booking found for " + tempID)
		}

		break
	}

	log.Info().Str("temp_id", tempID).Str("booking_id", bookingID).Str("room_number", roomNumber).Msg("booking approved")

	s.invalidate(ctx, tempID)

	res.TempID = tempID
	res.BookingID = bookingID
	res.RoomNumber = roomNumber
	res.Warning = s.notify(ctx, events.TypeBookingApproved, tempID)

	return res, nil
}

func (s *serviceImpl) Decline(ctx context.Context, tempID string, req dto.DeclineBookingRequest) (res dto.DeclineBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Decline")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	reason := strings.TrimSpace(req.Reason)
	if reason == constant.Empty {
		return res, failure.ValidationError("reason is required")
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	fields := shared.TransformFields(dto.DeclineFields{
		DeclineReason: reason,
		Status:        model.StatusDeclined,
	}, user)

	changed, err := s.repo.Transition(ctx, tempID, model.StatusPending, fields)
	if err != nil {
		log.Error().Err(err).Str("temp_id", tempID).Msg("failed to decline booking")

		return res, failure.PersistenceError(fmt.Errorf("failed to decline booking: %w", err))
	}

	if !changed {
		return res, failure.NotFound("no pending booking found for " + tempID)
	}

	log.Info().Str("temp_id", tempID).Msg("booking declined")

	s.invalidate(ctx, tempID)

	res.TempID = tempID
	res.Warning = s.notify(ctx, events.TypeBookingDeclined, tempID)

	return res, nil
}

// notify publishes the post-commit event. Failures are reported as a warning and never undo the transition.
func (s *serviceImpl) notify(ctx context.Context, eventType, tempID string) *dto.Warning {
	booking, err := s.repo.Get(ctx, shared.FilterByID(tempID, model.FieldTempID, model.TableName))
	if err == nil && booking.TempID == constant.Empty {
		err = fmt.Errorf("booking %s not found after transition", tempID)
	}

	if err == nil {
		err = s.publisher.Publish(ctx, events.New(eventType, booking, timezone.Now()))
	}

	if err != nil {
		log.Warn().Err(err).Str("temp_id", tempID).Str("type", eventType).Msg("booking notification failed")

		return &dto.Warning{Reason: failure.ReasonNotificationFailed, Message: warningNotification}
	}

	return nil
}

// invalidate evicts the booking's own entry before returning so a follow-up
// read sees the transition. List and count pages are scanned out in the background.
func (s *serviceImpl) invalidate(ctx context.Context, tempID string) {
	ctx = context.WithoutCancel(ctx)

	if tempID != constant.Empty {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetBooking, tempID)); err != nil {
			log.Error().Err(err).Str("temp_id", tempID).Msg("failed to delete booking from cache")
		}
	}

	go func(ctx context.Context) {
		shared.InvalidateCaches(ctx, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(ctx, s.cache, cacheCountBooking)
	}(ctx)
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, failure.PersistenceError(fmt.Errorf("failed to get bookings: %w", err))
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, failure.PersistenceError(fmt.Errorf("failed to count bookings: %w", err))
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, tempID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, tempID)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.find(ctx, tempID)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, tempID string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(tempID, model.FieldTempID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("temp_id", tempID).Msg("failed to get booking")

		return booking, failure.PersistenceError(fmt.Errorf("failed to get booking: %w", err))
	}

	if booking.TempID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) ListPending(ctx context.Context) ([]dto.BookingResponse, error) {
	return s.ListByStatus(ctx, model.StatusPending)
}

// ListByStatus returns bookings of one status in submission order.
func (s *serviceImpl) ListByStatus(ctx context.Context, status string) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ListByStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !slices.Contains([]string{model.StatusPending, model.StatusApproved, model.StatusDeclined}, status) {
		return res, failure.InvalidRequest("status must be one of pending approved declined")
	}

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldCreatedAt,
		SortDir: gDto.SortDirAsc,
	}

	models, err := s.repo.GetAll(ctx, params, StatusFilter(status))
	if err != nil {
		log.Error().Err(err).Str("status", status).Msg("failed to list bookings")

		return res, failure.PersistenceError(fmt.Errorf("failed to list %s bookings: %w", status, err))
	}

	res = make([]dto.BookingResponse, len(models))
	for i, mod := range models {
		res[i].FromModel(mod)
	}

	return res, nil
}

func (s *serviceImpl) Invoice(ctx context.Context, tempID string) (content []byte, fileName string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Invoice")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, tempID)
	if err != nil {
		return nil, constant.Empty, err
	}

	content, err = s.renderer.Render(ctx, document.KindInvoice, booking)
	if err != nil {
		log.Error().Err(err).Str("temp_id", tempID).Msg("failed to render invoice")

		return nil, constant.Empty, fmt.Errorf("failed to render invoice: %w", err)
	}

	return content, document.FileName(document.KindInvoice, booking), nil
}
