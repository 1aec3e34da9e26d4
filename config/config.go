package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const EnvDevelopment = "development"

type Server struct {
	Env      string `envconfig:"ENV"       default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Port     string `envconfig:"PORT"      default:"8080"`
	Host     string `envconfig:"HOST"`
	Shutdown struct {
		CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
		GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"5"`
	} `envconfig:"SHUTDOWN"`
}

type App struct {
	Name     string `envconfig:"APP_NAME" default:"guesthouse"`
	Timezone string `envconfig:"TIMEZONE" default:"Asia/Kolkata"`
	CORS     struct {
		AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
		AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
		AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
		AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
		Enable           bool     `envconfig:"ENABLE"`
		MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
	} `envconfig:"CORS"`
	RateLimiter struct {
		Enable        bool `envconfig:"ENABLE"`
		MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"60"`
		WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
	} `envconfig:"RATE_LIMITER"`
	APIKey string `envconfig:"API_KEY"`
}

type Cache struct {
	Redis struct {
		Primary struct {
			Host     string `envconfig:"HOST"`
			Port     string `envconfig:"PORT"`
			Password string `envconfig:"PASSWORD"`
			DB       int    `envconfig:"DB"`
		} `envconfig:"PRIMARY"`
	} `envconfig:"REDIS"`
	TTL int `envconfig:"TTL" default:"300"`
}

type JWT struct {
	AccessSecret     string `envconfig:"ACCESS_SECRET"`
	RefreshSecret    string `envconfig:"REFRESH_SECRET"`
	AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"15"`
	RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
}

// Database is one side of the read/write postgres pair.
type Database struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE" default:"UTC"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Postgres struct {
	MaxRetry       int      `envconfig:"MAX_RETRY"       default:"3"`
	RetryWaitTime  int      `envconfig:"RETRY_WAIT_TIME" default:"2"`
	MigrationTable string   `envconfig:"MIGRATION_TABLE"`
	AutoMigrate    bool     `envconfig:"AUTO_MIGRATE"`
	Prefix         string   `envconfig:"PREFIX"`
	Read           Database `envconfig:"READ"`
	Write          Database `envconfig:"WRITE"`
}

type Kafka struct {
	Enable        bool     `envconfig:"ENABLE"`
	Brokers       []string `envconfig:"BROKERS"`
	ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"guesthouse-notifier"`
	SASL          struct {
		Username string `envconfig:"USERNAME"`
		Password string `envconfig:"PASSWORD"`
	} `envconfig:"SASL"`
	Topics struct {
		BookingApproved string `envconfig:"BOOKING_APPROVED" default:"booking.approved"`
		BookingDeclined string `envconfig:"BOOKING_DECLINED" default:"booking.declined"`
	} `envconfig:"TOPICS"`
}

type Mail struct {
	APIKeyPublic  string `envconfig:"API_KEY_PUBLIC"`
	APIKeyPrivate string `envconfig:"API_KEY_PRIVATE"`
	SenderEmail   string `envconfig:"SENDER_EMAIL"`
	SenderName    string `envconfig:"SENDER_NAME"`
}

// Booking tunes the reservation workflow. A zero FacilityCapacity means the
// room catalog total.
type Booking struct {
	FacilityCapacity     int  `envconfig:"FACILITY_CAPACITY"`
	EnforceAvailability  bool `envconfig:"ENFORCE_AVAILABILITY"`
	BookingIDMaxAttempts int  `envconfig:"ID_MAX_ATTEMPTS" default:"5"`
}

type External struct {
	Otel struct {
		Endpoint string `envconfig:"ENDPOINT"`
	} `envconfig:"OTEL"`
	S3 struct {
		APIEndpoint     string `envconfig:"API_ENDPOINT"`
		AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
		SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
		BucketName      string `envconfig:"BUCKET_NAME"`
		PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
	} `envconfig:"S3"`
}

type DB struct {
	Postgres Postgres `envconfig:"POSTGRES"`
}

type Config struct {
	Server   Server   `envconfig:"SERVER"`
	App      App      `envconfig:"APP"`
	Cache    Cache    `envconfig:"CACHE"`
	JWT      JWT      `envconfig:"JWT"`
	DB       DB       `envconfig:"DB"`
	Kafka    Kafka    `envconfig:"KAFKA"`
	Mail     Mail     `envconfig:"MAIL"`
	Booking  Booking  `envconfig:"BOOKING"`
	External External `envconfig:"EXTERNAL"`
}

var (
	ErrMissingJWTSecret = errors.New("JWT access and refresh secrets are required")
	ErrMissingBrokers   = errors.New("kafka is enabled but no brokers are configured")
	ErrNegativeSetting  = errors.New("booking settings cannot be negative")
)

// IsDevelopment reports whether the service runs with local conveniences
// such as console logs and immediate shutdown.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == EnvDevelopment
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}

	if c.Kafka.Enable && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, ErrMissingBrokers)
	}

	if c.Booking.FacilityCapacity < 0 || c.Booking.BookingIDMaxAttempts < 0 {
		errs = append(errs, ErrNegativeSetting)
	}

	return errors.Join(errs...)
}

// Load reads the environment into a fresh Config without touching the
// process-wide instance.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	return &cfg, nil
}

var (
	conf *Config
	once sync.Once
)

func Init() error {
	var err error

	once.Do(func() {
		if loadErr := godotenv.Load(".env"); loadErr != nil {
			log.Warn().Err(loadErr).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Loaded variables from .env file into environment")
		}

		conf, err = Load()
		if err != nil {
			return
		}

		if verr := conf.Validate(); verr != nil {
			log.Warn().Err(verr).Msg("Service configuration is incomplete")
		}

		log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized")
	})

	return err
}

func Get() *Config {
	if err := Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return conf
}
