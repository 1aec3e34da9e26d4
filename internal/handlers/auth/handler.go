package auth

import (
	"guesthouse/infras/otel"
	"guesthouse/internal/domains/auth/model/dto"
	"guesthouse/internal/domains/auth/service"
	userDto "guesthouse/internal/domains/user/model/dto"
	"guesthouse/shared/constant"
	"guesthouse/shared/validator"
	"guesthouse/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

// Router mounts the staff session routes. Login and refresh skip token checks
// through the permission table.
func (handler *Handler) Router(router chi.Router) {
	router.Route("/auth", func(session chi.Router) {
		session.Post("/login", handler.Login)
		session.Post("/refresh-token", handler.RefreshToken)
		session.Get("/me", handler.Me)
		session.Post("/change-password", handler.ChangePassword)
	})
}

func (handler *Handler) scope(request *http.Request, name string) (*http.Request, otel.Scope) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)

	return request.WithContext(ctx), scope
}

func fail(writer http.ResponseWriter, scope otel.Scope, err error, message string) {
	scope.TraceError(err)
	log.Warn().Err(err).Msg(message)
	response.WithError(writer, err)
}

// Login handles staff login
// @Summary Login a staff account
// @Description Exchange email and password for an access and refresh token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.LoginResponse] "User logged in successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	request, scope := handler.scope(request, "Login")
	defer scope.End()

	var req dto.LoginRequest
	if err := validator.Validate(request.Body, &req); err != nil {
		fail(writer, scope, err, "invalid login request")

		return
	}

	res, err := handler.service.Login(request.Context(), req)
	if err != nil {
		fail(writer, scope, err, "login failed")

		return
	}

	scope.SetAttribute("user.id", res.User.ID)
	response.WithJSON(writer, http.StatusOK, res)
}

// RefreshToken rotates the token pair
// @Summary Refresh tokens
// @Description Exchange a valid refresh token for a new token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Data[dto.RefreshTokenResponse] "Token refreshed successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/refresh-token [post]
func (handler *Handler) RefreshToken(writer http.ResponseWriter, request *http.Request) {
	request, scope := handler.scope(request, "RefreshToken")
	defer scope.End()

	var req dto.RefreshTokenRequest
	if err := validator.Validate(request.Body, &req); err != nil {
		fail(writer, scope, err, "invalid refresh request")

		return
	}

	res, err := handler.service.RefreshToken(request.Context(), req)
	if err != nil {
		fail(writer, scope, err, "token refresh failed")

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// Me returns the signed-in account
// @Summary Get current user
// @Description Return the account behind the access token.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Data[userDto.UserResponse] "Current user"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/auth/me [get]
// @Security BearerAuth
func (handler *Handler) Me(writer http.ResponseWriter, request *http.Request) {
	request, scope := handler.scope(request, "Me")
	defer scope.End()

	var (
		res userDto.UserResponse
		err error
	)

	if res, err = handler.service.Me(request.Context()); err != nil {
		fail(writer, scope, err, "failed to load current user")

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// ChangePassword replaces the signed-in account's password
// @Summary Change password
// @Description Change the password of the signed-in account.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} response.Message "Password changed successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/change-password [post]
// @Security BearerAuth
func (handler *Handler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	request, scope := handler.scope(request, "ChangePassword")
	defer scope.End()

	var req dto.ChangePasswordRequest
	if err := validator.Validate(request.Body, &req); err != nil {
		fail(writer, scope, err, "invalid change password request")

		return
	}

	userID, _ := request.Context().Value(constant.ContextKeyUserID).(string)

	if err := handler.service.ChangePassword(request.Context(), req, userID); err != nil {
		fail(writer, scope, err, "password change failed")

		return
	}

	response.WithMessage(writer, http.StatusOK, "Password changed successfully")
}
