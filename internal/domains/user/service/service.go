package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=User=MockUserService

import (
	"context"
	"errors"
	"fmt"
	"guesthouse/config"
	"guesthouse/infras/otel"
	"guesthouse/internal/domains/user/model"
	"guesthouse/internal/domains/user/model/dto"
	"guesthouse/internal/domains/user/repository"
	"guesthouse/shared"
	"guesthouse/shared/cache"
	"guesthouse/shared/constant"
	"guesthouse/shared/failure"
	"guesthouse/shared/password"
	"guesthouse/shared/validator"

	"github.com/rs/zerolog/log"
)

const cacheGetUser = "user:get"

// User manages staff accounts. Passwords are stored as bcrypt hashes only.
type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// actor is the staff id behind ctx, or the guest marker for CLI and public calls.
func actor(ctx context.Context) string {
	if id, _ := ctx.Value(constant.ContextKeyUserID).(string); id != constant.Empty {
		return id
	}

	return constant.ContextGuest
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Email = model.NormalizeEmail(req.Email)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	taken, err := s.repo.EmailTaken(ctx, req.Email)
	if err != nil {
		return res, failure.PersistenceError(fmt.Errorf("checking email %s: %w", req.Email, err))
	}

	if taken {
		return res, failure.Conflict("email already registered")
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return res, fmt.Errorf("hashing password: %w", err)
	}

	user := req.ToModel(actor(ctx), hash)

	if err = s.repo.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return res, failure.Conflict("email already registered")
		}

		return res, failure.PersistenceError(fmt.Errorf("creating user: %w", err))
	}

	log.Info().Str("user_id", user.ID).Str("level", user.Level).Str("created_by", user.CreatedBy).Msg("staff account created")

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	key := shared.BuildCacheKey(cacheGetUser, id)

	if s.cache.Get(ctx, key, &res) == nil {
		return res, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return res, failure.PersistenceError(fmt.Errorf("getting user %s: %w", id, err))
	}

	if user.ID == constant.Empty {
		return res, failure.NotFound("user not found")
	}

	res.FromModel(user)

	go func(ctx context.Context) {
		if err := s.cache.Save(ctx, key, res, s.cfg.Cache.TTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache user")
		}
	}(context.WithoutCancel(ctx))

	return res, nil
}
