// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required values are enforced by must(); the
// rest fall back to sensible defaults so a bare .env still boots.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	JWTSecret       string // secret used to sign JWTs
	AccessTTLMin    int    // access token time-to-live in minutes
	BcryptCost      int    // bcrypt cost for password hashing
	DefaultReceiver string // receiver identifier stamped into generated messages
	RabbitURL       string // AMQP broker URL, empty disables event publishing

	// Connection pool tuning.  Bulk generation bursts many short queries,
	// so idle connections are kept at the open limit.
	DBMaxOpenConns int // maximum open connections
	DBMaxIdleConns int // maximum idle connections
	DBConnLifeMin  int // connection lifetime in minutes
}

// Load reads configuration values from environment variables and returns a
// Config.  Missing required variables cause the program to exit with a
// fatal log message.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		JWTSecret:       must("JWT_SECRET"),
		AccessTTLMin:    intOr("ACCESS_TOKEN_TTL_MIN", 30),
		BcryptCost:      intOr("BCRYPT_COST", 10),
		DefaultReceiver: getenv("PNRGOV_RECEIVER", "USCBP"),
		RabbitURL:       rabbitURL(),
		DBMaxOpenConns:  intOr("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  intOr("DB_MAX_IDLE_CONNS", 25),
		DBConnLifeMin:   intOr("DB_CONN_LIFETIME_MIN", 30),
	}
}

// rabbitURL honors both the RABBITMQ_URL and AMQP_URL spellings.
func rabbitURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// intOr converts the variable to an integer, falling back to def when the
// variable is unset.  A set but malformed value is fatal.
func intOr(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
