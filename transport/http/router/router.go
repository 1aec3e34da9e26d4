package router

import (
	"guesthouse/internal/handlers/auth"
	"guesthouse/internal/handlers/booking"
	"guesthouse/internal/handlers/report"
	"guesthouse/internal/handlers/room"
	"guesthouse/internal/handlers/user"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth    auth.Handler
	User    user.Handler
	Room    room.Handler
	Booking booking.Handler
	Report  report.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

type mountable interface {
	Router(chi.Router)
}

func (r *Router) mounts() []mountable {
	return []mountable{
		&r.DomainHandlers.Auth,
		&r.DomainHandlers.User,
		&r.DomainHandlers.Room,
		&r.DomainHandlers.Booking,
		&r.DomainHandlers.Report,
	}
}

// SetupRoutes mounts every domain under /v1. Permission paths in
// permissions.json use the resulting chi patterns.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(v1 chi.Router) {
		for _, handler := range r.mounts() {
			handler.Router(v1)
		}
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
