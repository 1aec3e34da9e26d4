package events

import (
	"context"
	"fmt"
	"guesthouse/infras/otel"
	"guesthouse/shared/constant"
	"sync"

	"github.com/rs/zerolog/log"
)

// LocalPublisher delivers events in process on a detached goroutine.
type LocalPublisher struct {
	handler Handler
	otel    otel.Otel
	wg      sync.WaitGroup
}

func NewLocalPublisher(handler Handler, otel otel.Otel) *LocalPublisher {
	return &LocalPublisher{
		handler: handler,
		otel:    otel,
	}
}

func (p *LocalPublisher) Publish(ctx context.Context, event Event) error {
	_, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".local.Publish")
	defer scope.End()

	detached := context.WithoutCancel(ctx)

	p.wg.Add(1)

	go func() {
		defer p.wg.Done()

		if err := p.handler.Handle(detached, event); err != nil {
			log.Error().Err(err).Str("type", event.Type).Str("temp_id", event.Booking.TempID).Msg("failed to handle booking event")
		}
	}()

	return nil
}

// Wait blocks until every event handed off so far has been handled.
func (p *LocalPublisher) Wait() {
	p.wg.Wait()
}

// Drain is Wait bounded by ctx. Events still running when ctx ends are abandoned.
func (p *LocalPublisher) Drain(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining local booking events: %w", ctx.Err())
	}
}
