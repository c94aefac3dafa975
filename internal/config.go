package internal

import (
	"fmt"
	"time"
)

const (
	StoreDriverBadger = "badger"
	StoreDriverRedis  = "redis"
)

type Config struct {
	BufferSize           int           `env:"BUFFER_SIZE,required=true"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,required=true"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,required=true"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,required=true"`

	Host      string `env:"HOST,required=true"`
	Port      int    `env:"PORT,required=true"`
	DebugPort int    `env:"DEBUG_PORT,default=8081"`

	LogLevel string `env:"LOG_LEVEL,required=true"`

	StoreDriver    string `env:"STORE_DRIVER,default=badger"`
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	RedisAddr      string `env:"REDIS_ADDR,default=localhost:6379"`

	AllowedOrigin    string `env:"ALLOWED_ORIGIN,default=*"`
	MaxSnapshotBytes int64  `env:"MAX_SNAPSHOT_BYTES,default=5000000"`
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate rejects a store driver we have no repository for.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverBadger, StoreDriverRedis:
		return nil
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q",
			StoreDriverBadger, StoreDriverRedis, c.StoreDriver)
	}
}
