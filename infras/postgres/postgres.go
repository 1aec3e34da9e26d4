package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"guesthouse/config"
	"net"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConnections = 10
	maxOpenConnections = 10
	connMaxLifetime    = 30 * time.Minute
)

// Connection splits reads from writes so reports and availability lookups
// can be pointed at a replica.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	return &Connection{
		Read:  Connect("read", DSN(pg.Read, pg.Prefix), pg.MaxRetry, pg.RetryWaitTime),
		Write: Connect("write", DSN(pg.Write, pg.Prefix), pg.MaxRetry, pg.RetryWaitTime),
	}
}

// DSN renders a lib/pq connection URL. Credentials are escaped and the
// session timezone is set when configured.
func DSN(db config.Database, prefix string) string {
	query := url.Values{}
	if db.SSLMode != "" {
		query.Set("sslmode", db.SSLMode)
	}

	if db.Timezone != "" {
		query.Set("timezone", db.Timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.Username, db.Password),
		Host:     net.JoinHostPort(db.Host, db.Port),
		Path:     "/" + prefix + db.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Connect retries until the database answers. The process cannot serve
// bookings without storage, so exhausting the retries is fatal.
func Connect(role, dsn string, maxRetry, waitSeconds int) *sqlx.DB {
	attempts := max(maxRetry, 1)

	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		var db *sqlx.DB

		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			log.Info().Str("role", role).Int("attempt", attempt).Msg("Connected to database")

			return db
		}

		log.Warn().Err(err).Str("role", role).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	log.Fatal().Err(errors.Join(fmt.Errorf("giving up after %d attempts", attempts), err)).Str("role", role).Msg("Database unavailable")

	return nil
}

func (c *Connection) Close() error {
	return errors.Join(c.Read.Close(), c.Write.Close())
}
