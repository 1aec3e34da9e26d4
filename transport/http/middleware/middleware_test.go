package middleware_test

import (
	"errors"
	"guesthouse/config"
	"guesthouse/infras/jwt"
	jwtMocks "guesthouse/infras/jwt/mocks"
	otelMocks "guesthouse/infras/otel/mocks"
	"guesthouse/permissions"
	cacheMocks "guesthouse/shared/cache/mocks"
	"guesthouse/shared/constant"
	"guesthouse/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/mock/gomock"
)

func newGuardedRouter(authRole middleware.AuthRole) *chi.Mux {
	ok := func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
	router.Post("/v1/rooms/check-availability", ok)
	router.Post("/v1/bookings/{tempId}/approve", ok)
	router.Post("/v1/users/", ok)

	return router
}

func TestAuthRole(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.APIKey = "internal-key"

	tests := []struct {
		name       string
		path       string
		headers    map[string]string
		setupMock  func(mockJWT *jwtMocks.MockJWT)
		wantStatus int
		wantRole   string
	}{
		{
			name:       "public route needs no token",
			path:       "/v1/rooms/check-availability",
			setupMock:  func(_ *jwtMocks.MockJWT) {},
			wantStatus: http.StatusOK,
		},
		{
			name:       "admin route without token",
			path:       "/v1/bookings/temp-1/approve",
			setupMock:  func(_ *jwtMocks.MockJWT) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed authorization header",
			path:       "/v1/bookings/temp-1/approve",
			headers:    map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			setupMock:  func(_ *jwtMocks.MockJWT) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "admin token reaches the handler",
			path:    "/v1/bookings/temp-1/approve",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer good"},
			setupMock: func(mockJWT *jwtMocks.MockJWT) {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u-1", Email: "admin@guesthouse.test", Role: constant.RoleAdmin}, nil)
			},
			wantStatus: http.StatusOK,
			wantRole:   constant.RoleAdmin,
		},
		{
			name:    "expired token",
			path:    "/v1/bookings/temp-1/approve",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer old"},
			setupMock: func(mockJWT *jwtMocks.MockJWT) {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "old", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "claims without email",
			path:    "/v1/bookings/temp-1/approve",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer partial"},
			setupMock: func(mockJWT *jwtMocks.MockJWT) {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "partial", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u-1", Role: constant.RoleAdmin}, nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "admin cannot create staff accounts",
			path:    "/v1/users/",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer good"},
			setupMock: func(mockJWT *jwtMocks.MockJWT) {
				mockJWT.EXPECT().ValidateToken(gomock.Any(), "good", jwt.AccessToken).
					Return(&jwt.Claims{UserID: "u-1", Email: "admin@guesthouse.test", Role: constant.RoleAdmin}, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "internal api key skips the token",
			path:       "/v1/bookings/temp-1/approve",
			headers:    map[string]string{constant.RequestHeaderAPIKey: "internal-key"},
			setupMock:  func(_ *jwtMocks.MockJWT) {},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong api key",
			path:       "/v1/bookings/temp-1/approve",
			headers:    map[string]string{constant.RequestHeaderAPIKey: "guess"},
			setupMock:  func(_ *jwtMocks.MockJWT) {},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockJWT := jwtMocks.NewMockJWT(ctrl)
			tt.setupMock(mockJWT)

			authRole := middleware.NewAuthRoleMiddleware(mockJWT, otelMocks.NewOtel(), permissions.Get(), cfg)
			router := newGuardedRouter(authRole)

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantRole != "" {
				assert.Equal(t, tt.wantRole, rec.Header().Get("X-Role"))
			}
		})
	}
}

func TestAppMiddleware_RateLimit(t *testing.T) {
	tests := []struct {
		name          string
		enable        bool
		setupMock     func(mockCache *cacheMocks.MockRedisCache)
		header        http.Header
		wantStatus    int
		wantRemaining string
		wantRetry     string
	}{
		{
			name:       "disabled limiter never touches the cache",
			enable:     false,
			setupMock:  func(_ *cacheMocks.MockRedisCache) {},
			wantStatus: http.StatusOK,
		},
		{
			name:   "first request in window",
			enable: true,
			setupMock: func(mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().Increment(gomock.Any(), "limiter:10.0.0.7:booking-form", 60).Return(int64(1), nil)
			},
			wantStatus:    http.StatusOK,
			wantRemaining: "2",
		},
		{
			name:   "over the limit",
			enable: true,
			setupMock: func(mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().Increment(gomock.Any(), gomock.Any(), 60).Return(int64(4), nil)
			},
			wantStatus:    http.StatusTooManyRequests,
			wantRemaining: "0",
			wantRetry:     "60",
		},
		{
			name:   "forwarded client address is used",
			enable: true,
			header: http.Header{"X-Forwarded-For": {"203.0.113.9, 10.0.0.1"}},
			setupMock: func(mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().Increment(gomock.Any(), "limiter:203.0.113.9:booking-form", 60).Return(int64(3), nil)
			},
			wantStatus:    http.StatusOK,
			wantRemaining: "0",
		},
		{
			name:   "forged forwarded header falls back to the peer",
			enable: true,
			header: http.Header{"X-Forwarded-For": {"<script>"}},
			setupMock: func(mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().Increment(gomock.Any(), "limiter:10.0.0.7:booking-form", 60).Return(int64(2), nil)
			},
			wantStatus:    http.StatusOK,
			wantRemaining: "1",
		},
		{
			name:   "cache outage lets the request through",
			enable: true,
			setupMock: func(mockCache *cacheMocks.MockRedisCache) {
				mockCache.EXPECT().Increment(gomock.Any(), gomock.Any(), 60).Return(int64(0), errors.New("redis down"))
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			cfg := &config.Config{}
			cfg.App.RateLimiter.Enable = tt.enable
			cfg.App.RateLimiter.MaxRequests = 3
			cfg.App.RateLimiter.WindowSeconds = 60

			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			tt.setupMock(mockCache)

			app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, mockCache)
			handler := app.Tracing(app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})))

			req := httptest.NewRequest(http.MethodPost, "/v1/bookings/", nil)
			req.RemoteAddr = "10.0.0.7:51234"
			req.Header.Set(constant.RequestHeaderUserAgent, "booking-form")

			for name, values := range tt.header {
				req.Header[name] = values
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantRemaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
			assert.Equal(t, tt.wantRetry, rec.Header().Get("Retry-After"))
		})
	}
}

func TestAppMiddleware_Tracing(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantError bool
	}{
		{name: "success", status: http.StatusOK},
		{name: "client error is not a span error", status: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, recorder := otelMocks.NewRecorder()

			cfg := &config.Config{}
			cfg.App.Name = "guesthouse"

			app := middleware.NewAppMiddleware(tracer, cfg, nil)

			router := chi.NewRouter()
			router.Use(app.Tracing)
			router.Get("/v1/bookings/{tempId}", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			req := httptest.NewRequest(http.MethodGet, "/v1/bookings/temp-9", nil)
			req.Header.Set(constant.RequestHeaderUserAgent, "front-desk/1.0")
			req.Header.Set(constant.RequestHeaderForwardedFor, "203.0.113.7, 10.0.0.1")

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			spans := recorder.Ended()
			if !assert.Len(t, spans, 1) {
				return
			}

			span := spans[0]
			assert.Equal(t, "GET /v1/bookings/temp-9", span.Name())
			assert.Equal(t, tt.wantError, span.Status().Code == codes.Error)

			attributes := map[string]string{}
			for _, kv := range span.Attributes() {
				attributes[string(kv.Key)] = kv.Value.Emit()
			}

			assert.Equal(t, "/v1/bookings/{tempId}", attributes["http.route"])
			assert.Equal(t, strconv.Itoa(tt.status), attributes["http.status_code"])
			assert.Equal(t, "front-desk/1.0", attributes["http.user_agent"])
			assert.Equal(t, "203.0.113.7", attributes["http.source"])
		})
	}
}
