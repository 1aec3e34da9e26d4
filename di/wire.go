//go:build wireinject
// +build wireinject

package di

import (
	"guesthouse/config"
	"guesthouse/infras/jwt"
	"guesthouse/infras/kafka"
	"guesthouse/infras/mailer"
	"guesthouse/infras/otel"
	"guesthouse/infras/postgres"
	"guesthouse/infras/redis"
	"guesthouse/infras/s3"
	"guesthouse/internal/document"
	"guesthouse/internal/events"
	"guesthouse/permissions"
	"guesthouse/shared/cache"
	"guesthouse/transport/http"
	"guesthouse/transport/http/middleware"
	"guesthouse/transport/http/router"

	"github.com/google/wire"

	authService "guesthouse/internal/domains/auth/service"
	bookingRepository "guesthouse/internal/domains/booking/repository"
	bookingService "guesthouse/internal/domains/booking/service"
	notificationService "guesthouse/internal/domains/notification/service"
	reportService "guesthouse/internal/domains/report/service"
	roomService "guesthouse/internal/domains/room/service"
	userRepository "guesthouse/internal/domains/user/repository"
	userService "guesthouse/internal/domains/user/service"

	authHandler "guesthouse/internal/handlers/auth"
	bookingHandler "guesthouse/internal/handlers/booking"
	reportHandler "guesthouse/internal/handlers/report"
	roomHandler "guesthouse/internal/handlers/room"
	userHandler "guesthouse/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
	mailer.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	document.New,
)

var notificationDomain = wire.NewSet(
	notificationService.New,
	wire.Bind(new(events.Handler), new(notificationService.Notification)),
)

var eventBus = wire.NewSet(
	notificationDomain,
	events.NewKafkaPublisher,
	events.NewLocalPublisher,
	events.NewPublisher,
	wire.Bind(new(http.Drainer), new(*events.LocalPublisher)),
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
	roomService.New,
	reportService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
	authService.New,
)

var domains = wire.NewSet(
	eventBus,
	bookingDomain,
	userDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	roomHandler.New,
	bookingHandler.New,
	reportHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

// InitializeNotifier builds the broker consumer that delivers guest notifications.
func InitializeNotifier() *events.Consumer {
	wire.Build(
		config.Get,
		otel.New,
		kafka.New,
		s3.New,
		mailer.New,
		document.New,
		notificationDomain,
		events.NewConsumer,
	)

	return &events.Consumer{}
}

// InitializeUserService builds the account service used by the admin CLI.
func InitializeUserService() userService.User {
	wire.Build(
		config.Get,
		otel.New,
		postgres.New,
		redis.New,
		cache.NewRedisCache,
		userRepository.New,
		userService.New,
	)

	return nil
}
