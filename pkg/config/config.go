package config

import (
	"time"
)

type DB struct {
	Driver string `envconfig:"DRIVER" default:"postgres"`
	Url    string `envconfig:"URL"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:""`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

// Lock configures per-account serialization. Timeout bounds how long a
// command waits for an account; the redis settings feed redsync.
type Lock struct {
	Driver     string        `envconfig:"DRIVER" default:"memory"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"5s"`
	Expiry     time.Duration `envconfig:"EXPIRY" default:"10s"`
	Tries      int           `envconfig:"TRIES" default:"32"`
	RetryDelay time.Duration `envconfig:"RETRY_DELAY" default:"50ms"`
}

type EventBus struct {
	Driver       string `envconfig:"DRIVER" default:"memory"`
	Stream       string `envconfig:"STREAM" default:"ledger:events"`
	Group        string `envconfig:"GROUP" default:"ledger"`
	KafkaBrokers string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string `envconfig:"KAFKA_TOPIC" default:"ledger.events"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[ledger]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Redis     *Redis     `envconfig:"REDIS"`
	Lock      *Lock      `envconfig:"LOCK"`
	EventBus  *EventBus  `envconfig:"EVENTBUS"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
}
