package user

import (
	"guesthouse/infras/otel"
	"guesthouse/internal/domains/user/model/dto"
	"guesthouse/internal/domains/user/service"
	"guesthouse/shared/constant"
	"guesthouse/shared/validator"
	"guesthouse/transport/http/response"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Handler manages staff accounts. Every route is limited to superadmins by
// the permission table.
type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/users", func(staff chi.Router) {
		staff.Post("/", handler.CreateUser)
		staff.Get("/{id}", handler.GetUserByID)
	})
}

func fail(writer http.ResponseWriter, scope otel.Scope, err error, message string) {
	scope.TraceError(err)
	log.Error().Err(err).Msg(message)
	response.WithError(writer, err)
}

// CreateUser registers a new staff account.
// @Summary Create a staff account
// @Description Create an admin or superadmin account. Only superadmins may call it.
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "Create User Request"
// @Success 201 {object} response.Data[dto.UserResponse] "User created successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users [post]
// @Security BearerAuth
func (handler *Handler) CreateUser(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateUser")
	defer scope.End()

	var req dto.CreateUserRequest
	if err := validator.Validate(request.Body, &req); err != nil {
		fail(writer, scope, err, "invalid staff account request")

		return
	}

	staff, err := handler.service.Create(ctx, req)
	if err != nil {
		fail(writer, scope, err, "failed to create staff account")

		return
	}

	scope.SetAttributes(map[string]any{"user.id": staff.ID, "user.level": staff.Level})
	log.Info().Str("user_id", staff.ID).Str("level", staff.Level).Msg("staff account created")

	response.WithJSON(writer, http.StatusCreated, staff)
}

// GetUserByID retrieves a staff account by its ID.
// @Summary Get a staff account by ID
// @Tags User
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Data[dto.UserResponse] "User details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/users/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUserByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)
	scope.SetAttribute("user.id", id)

	staff, err := handler.service.Get(ctx, id)
	if err != nil {
		fail(writer, scope, err, "failed to get staff account")

		return
	}

	response.WithJSON(writer, http.StatusOK, staff)
}
