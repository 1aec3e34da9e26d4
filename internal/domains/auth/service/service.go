package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Auth=MockAuthService

import (
	"context"
	"fmt"
	"guesthouse/config"
	"guesthouse/infras/jwt"
	"guesthouse/infras/otel"
	"guesthouse/internal/domains/auth/model/dto"
	userModel "guesthouse/internal/domains/user/model"
	userDto "guesthouse/internal/domains/user/model/dto"
	userRepo "guesthouse/internal/domains/user/repository"
	"guesthouse/shared"
	"guesthouse/shared/constant"
	"guesthouse/shared/failure"
	"guesthouse/shared/password"
	"guesthouse/shared/timezone"
	"guesthouse/shared/validator"

	"github.com/rs/zerolog/log"
)

// invalidCredentials is returned for both unknown emails and wrong passwords.
const invalidCredentials = "invalid email or password"

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) error
	Me(ctx context.Context) (userDto.UserResponse, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

// account loads a staff account by id, mapping absence to not found.
func (s *serviceImpl) account(ctx context.Context, id string) (userModel.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return user, failure.PersistenceError(fmt.Errorf("getting user %s: %w", id, err))
	}

	if user.ID == constant.Empty {
		return user, failure.NotFound("user not found")
	}

	return user, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return res, failure.PersistenceError(fmt.Errorf("getting user for login: %w", err))
	}

	if user.ID == constant.Empty || password.Verify(req.Password, user.Password) != nil {
		log.Warn().Str("email", req.Email).Bool("known", user.ID != constant.Empty).Msg("rejected login attempt")

		return res, failure.Unauthorized(invalidCredentials)
	}

	if !user.Active {
		return res, failure.Forbidden("user account is deactivated")
	}

	pair, err := s.jwtService.GenerateTokenPair(ctx, user.ID, user.Email, user.Level)
	if err != nil {
		return res, fmt.Errorf("issuing tokens for %s: %w", user.ID, err)
	}

	// A failed last-login stamp never blocks the login.
	now := timezone.Now()
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{userModel.FieldLastLogin: now}); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to record last login")
	} else {
		user.LastLogin = &now
	}

	res.FromTokenPair(pair)
	res.User.FromModel(user)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	pair, err := s.jwtService.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("rejected refresh token")

		return res, failure.Unauthorized("invalid refresh token")
	}

	res.FromTokenPair(pair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, userID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return err
	}

	user, err := s.account(ctx, userID)
	if err != nil {
		return err
	}

	if password.Verify(req.CurrentPassword, user.Password) != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	hash, err := password.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hashing new password: %w", err)
	}

	if err = s.userRepo.UpdateFields(ctx, userID, shared.TransformFields(dto.PasswordFields{Password: hash}, userID)); err != nil {
		return failure.PersistenceError(fmt.Errorf("updating password for %s: %w", userID, err))
	}

	log.Info().Str("user_id", userID).Msg("password changed")

	return nil
}

// Me returns the account behind the access token on ctx.
func (s *serviceImpl) Me(ctx context.Context) (res userDto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Me")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return res, failure.Unauthorized("missing user identity")
	}

	user, err := s.account(ctx, userID)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	return res, nil
}
