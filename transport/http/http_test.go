package http

import (
	"context"
	"guesthouse/config"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type drainer struct {
	calls    int
	deadline bool
}

func (d *drainer) Drain(ctx context.Context) error {
	d.calls++
	_, d.deadline = ctx.Deadline()

	return nil
}

func TestShutdown_DrainsBackgroundWork(t *testing.T) {
	tests := []struct {
		name      string
		timeout   time.Duration
		wantCalls int
	}{
		{name: "cleanup period drains", timeout: time.Second, wantCalls: 1},
		{name: "immediate close skips draining", timeout: 0, wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			background := &drainer{}

			h := New(&config.Config{}, nil, nil, nil, background)
			h.server = &http.Server{}

			h.shutdown(tt.timeout)

			assert.Equal(t, tt.wantCalls, background.calls)

			if tt.wantCalls > 0 {
				assert.True(t, background.deadline)
			}
		})
	}
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		state ServerState
		want  int
	}{
		{ServerStateReady, http.StatusOK},
		{ServerStateInGracePeriod, http.StatusServiceUnavailable},
		{ServerStateInCleanupPeriod, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		h := New(&config.Config{}, nil, nil, nil, nil)
		h.state.Store(int32(tt.state))

		rec := httptest.NewRecorder()
		h.healthCheck(rec, nil)

		assert.Equal(t, tt.want, rec.Code, "state %d", tt.state)
	}
}
