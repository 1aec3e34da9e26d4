package config_test

import (
	"guesthouse/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Booking.BookingIDMaxAttempts)
	assert.Equal(t, "booking.approved", cfg.Kafka.Topics.BookingApproved)
	assert.Equal(t, "disable", cfg.DB.Postgres.Write.SSLMode)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("BOOKING_FACILITY_CAPACITY", "20")
	t.Setenv("BOOKING_ENFORCE_AVAILABILITY", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("DB_POSTGRES_WRITE_HOST", "db.internal")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 20, cfg.Booking.FacilityCapacity)
	assert.True(t, cfg.Booking.EnforceAvailability)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "db.internal", cfg.DB.Postgres.Write.Host)
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("BOOKING_ID_MAX_ATTEMPTS", "many")

	_, err := config.Load()

	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *config.Config {
		cfg := &config.Config{}
		cfg.JWT.AccessSecret = "access"
		cfg.JWT.RefreshSecret = "refresh"

		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr []error
	}{
		{name: "valid", mutate: func(_ *config.Config) {}},
		{
			name:    "missing refresh secret",
			mutate:  func(cfg *config.Config) { cfg.JWT.RefreshSecret = "" },
			wantErr: []error{config.ErrMissingJWTSecret},
		},
		{
			name:    "kafka without brokers",
			mutate:  func(cfg *config.Config) { cfg.Kafka.Enable = true },
			wantErr: []error{config.ErrMissingBrokers},
		},
		{
			name: "several problems at once",
			mutate: func(cfg *config.Config) {
				cfg.JWT.AccessSecret = ""
				cfg.Booking.FacilityCapacity = -1
			},
			wantErr: []error{config.ErrMissingJWTSecret, config.ErrNegativeSetting},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)

				return
			}

			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}
