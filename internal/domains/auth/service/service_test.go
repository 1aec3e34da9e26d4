package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"guesthouse/config"
	"guesthouse/infras/jwt"
	jwtMocks "guesthouse/infras/jwt/mocks"
	"guesthouse/infras/otel/mocks"
	"guesthouse/internal/domains/auth/model/dto"
	"guesthouse/internal/domains/auth/service"
	userMocks "guesthouse/internal/domains/user/mocks"
	userModel "guesthouse/internal/domains/user/model"
	"guesthouse/shared/constant"
	"guesthouse/shared/failure"
	gModel "guesthouse/shared/model"
	"guesthouse/shared/password"
	"guesthouse/shared/timezone"
)

func init() {
	password.Cost = bcrypt.MinCost
}

type fixture struct {
	repo *userMocks.MockUser
	jwt  *jwtMocks.MockJWT
	svc  service.Auth
}

func setup(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := userMocks.NewMockUser(ctrl)
	tokens := jwtMocks.NewMockJWT(ctrl)

	return fixture{
		repo: repo,
		jwt:  tokens,
		svc:  service.New(repo, &config.Config{}, mocks.NewOtel(), tokens),
	}
}

func warden(t *testing.T, plain string) userModel.User {
	t.Helper()

	hash, err := password.Hash(plain)
	require.NoError(t, err)

	return userModel.User{
		ID:       "user-1",
		Email:    "warden@example.com",
		Password: hash,
		Level:    constant.RoleAdmin,
		Active:   true,
		Metadata: gModel.NewMetadata(timezone.Now(), constant.ContextGuest),
	}
}

func TestAuthService_Login(t *testing.T) {
	pair := &jwt.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer", ExpiresIn: 900}

	tests := []struct {
		name          string
		req           dto.LoginRequest
		setupMock     func(f fixture, user userModel.User)
		wantReason    string
		wantLastLogin bool
	}{
		{
			name: "tokens issued and last login stamped",
			req:  dto.LoginRequest{Email: "warden@example.com", Password: "front-desk-1"},
			setupMock: func(f fixture, user userModel.User) {
				f.repo.EXPECT().FindByEmail(gomock.Any(), "warden@example.com").Return(user, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), "user-1", "warden@example.com", constant.RoleAdmin).Return(pair, nil)
				f.repo.EXPECT().
					UpdateFields(gomock.Any(), "user-1", gomock.Cond(func(fields map[string]any) bool {
						_, stamped := fields[userModel.FieldLastLogin]

						return stamped && len(fields) == 1
					})).
					Return(nil)
			},
			wantLastLogin: true,
		},
		{
			name: "last login failure is not fatal",
			req:  dto.LoginRequest{Email: "warden@example.com", Password: "front-desk-1"},
			setupMock: func(f fixture, user userModel.User) {
				f.repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(pair, nil)
				f.repo.EXPECT().UpdateFields(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("pq: timeout"))
			},
		},
		{
			name: "unknown email",
			req:  dto.LoginRequest{Email: "nobody@example.com", Password: "front-desk-1"},
			setupMock: func(f fixture, _ userModel.User) {
				f.repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantReason: failure.ReasonUnauthorized,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Email: "warden@example.com", Password: "guessed-it"},
			setupMock: func(f fixture, user userModel.User) {
				f.repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantReason: failure.ReasonUnauthorized,
		},
		{
			name: "deactivated account",
			req:  dto.LoginRequest{Email: "warden@example.com", Password: "front-desk-1"},
			setupMock: func(f fixture, user userModel.User) {
				user.Active = false
				f.repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantReason: failure.ReasonForbidden,
		},
		{
			name: "storage failure",
			req:  dto.LoginRequest{Email: "warden@example.com", Password: "front-desk-1"},
			setupMock: func(f fixture, _ userModel.User) {
				f.repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("connection refused"))
			},
			wantReason: failure.ReasonPersistenceError,
		},
		{
			name: "token signing failure",
			req:  dto.LoginRequest{Email: "warden@example.com", Password: "front-desk-1"},
			setupMock: func(f fixture, user userModel.User) {
				f.repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
				f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("empty secret"))
			},
			wantReason: failure.ReasonInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.setupMock(f, warden(t, "front-desk-1"))

			res, err := f.svc.Login(context.Background(), tt.req)

			if tt.wantReason != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantReason, failure.GetReason(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "access", res.AccessToken)
			assert.Equal(t, "user-1", res.User.ID)
			assert.Equal(t, tt.wantLastLogin, res.User.LastLogin != nil)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	t.Run("rotated", func(t *testing.T) {
		f := setup(t)
		f.jwt.EXPECT().RefreshTokens(gomock.Any(), "refresh").
			Return(&jwt.TokenPair{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil)

		res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

		require.NoError(t, err)
		assert.Equal(t, "access-2", res.AccessToken)
		assert.Equal(t, "refresh-2", res.RefreshToken)
	})

	t.Run("rejected", func(t *testing.T) {
		f := setup(t)
		f.jwt.EXPECT().RefreshTokens(gomock.Any(), gomock.Any()).Return(nil, jwt.ErrExpiredToken)

		_, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "stale"})

		assert.Equal(t, failure.ReasonUnauthorized, failure.GetReason(err))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.ChangePasswordRequest
		setupMock  func(f fixture, user userModel.User)
		wantReason string
	}{
		{
			name: "changed",
			req:  dto.ChangePasswordRequest{CurrentPassword: "front-desk-1", NewPassword: "front-desk-2"},
			setupMock: func(f fixture, user userModel.User) {
				f.repo.EXPECT().FindByID(gomock.Any(), "user-1").Return(user, nil)
				f.repo.EXPECT().
					UpdateFields(gomock.Any(), "user-1", gomock.Cond(func(fields map[string]any) bool {
						hash, _ := fields[userModel.FieldPassword].(string)

						return password.Verify("front-desk-2", hash) == nil && fields[constant.FieldModifiedBy] == "user-1"
					})).
					Return(nil)
			},
		},
		{
			name:       "new password equals current",
			req:        dto.ChangePasswordRequest{CurrentPassword: "front-desk-1", NewPassword: "front-desk-1"},
			setupMock:  func(_ fixture, _ userModel.User) {},
			wantReason: failure.ReasonValidationError,
		},
		{
			name: "current password is wrong",
			req:  dto.ChangePasswordRequest{CurrentPassword: "not-mine-1", NewPassword: "front-desk-2"},
			setupMock: func(f fixture, user userModel.User) {
				f.repo.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(user, nil)
			},
			wantReason: failure.ReasonInvalidRequest,
		},
		{
			name: "account vanished",
			req:  dto.ChangePasswordRequest{CurrentPassword: "front-desk-1", NewPassword: "front-desk-2"},
			setupMock: func(f fixture, _ userModel.User) {
				f.repo.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantReason: failure.ReasonNotFound,
		},
		{
			name: "update fails",
			req:  dto.ChangePasswordRequest{CurrentPassword: "front-desk-1", NewPassword: "front-desk-2"},
			setupMock: func(f fixture, user userModel.User) {
				f.repo.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(user, nil)
				f.repo.EXPECT().UpdateFields(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("pq: read only"))
			},
			wantReason: failure.ReasonPersistenceError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			tt.setupMock(f, warden(t, "front-desk-1"))

			err := f.svc.ChangePassword(context.Background(), tt.req, "user-1")

			if tt.wantReason == "" {
				assert.NoError(t, err)

				return
			}

			assert.Equal(t, tt.wantReason, failure.GetReason(err))
		})
	}
}

func TestAuthService_Me(t *testing.T) {
	t.Run("no identity", func(t *testing.T) {
		_, err := setup(t).svc.Me(context.Background())

		assert.Equal(t, failure.ReasonUnauthorized, failure.GetReason(err))
	})

	t.Run("signed in", func(t *testing.T) {
		f := setup(t)
		f.repo.EXPECT().FindByID(gomock.Any(), "user-1").Return(warden(t, "front-desk-1"), nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
		res, err := f.svc.Me(ctx)

		require.NoError(t, err)
		assert.Equal(t, "warden@example.com", res.Email)
		assert.Equal(t, constant.RoleAdmin, res.Level)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := setup(t)
		f.repo.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(userModel.User{}, errors.New("pq: down"))

		ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
		_, err := f.svc.Me(ctx)

		assert.Equal(t, failure.ReasonPersistenceError, failure.GetReason(err))
	})
}
