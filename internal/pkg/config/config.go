package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	Session SessionConfig
	Pricing PricingConfig
	Worker  WorkerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr       string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password   string        `envconfig:"REDIS_PASSWORD" default:""`
	DB         int           `envconfig:"REDIS_DB" default:"0"`
	CatalogTTL time.Duration `envconfig:"REDIS_CATALOG_TTL" default:"15m"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

// SessionConfig signs the anonymous draft-session token handed out at step 0.
type SessionConfig struct {
	Secret   string        `envconfig:"SESSION_SECRET" required:"true"`
	Duration time.Duration `envconfig:"SESSION_DURATION" default:"24h"`
}

// PricingConfig carries the rate tables consumed by the pricing engine.
// Tier thresholds and rates are parallel slices; both are validated at load.
type PricingConfig struct {
	TierThresholdDays []int   `envconfig:"PRICING_TIER_THRESHOLD_DAYS" default:"1,5,9,16,20,36,91,121"`
	TierRateCents     []int64 `envconfig:"PRICING_TIER_RATE_CENTS" default:"6500,6000,5500,5000,4500,4000,3500,3000"`
	LicenseRateCents  int64   `envconfig:"PRICING_LICENSE_RATE_CENTS" default:"3000"`
	DepositCents      int64   `envconfig:"PRICING_DEPOSIT_CENTS" default:"35000"`
}

type WorkerConfig struct {
	PollInterval time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"5s"`
	BatchSize    int32         `envconfig:"WORKER_BATCH_SIZE" default:"20"`
	MaxAttempts  int32         `envconfig:"WORKER_MAX_ATTEMPTS" default:"5"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func (c *PricingConfig) Validate() error {
	if len(c.TierThresholdDays) == 0 || len(c.TierThresholdDays) != len(c.TierRateCents) {
		return fmt.Errorf("pricing tiers misconfigured: %d thresholds, %d rates",
			len(c.TierThresholdDays), len(c.TierRateCents))
	}
	for i := 1; i < len(c.TierThresholdDays); i++ {
		if c.TierThresholdDays[i] <= c.TierThresholdDays[i-1] {
			return fmt.Errorf("pricing tier thresholds must be strictly increasing")
		}
		if c.TierRateCents[i] >= c.TierRateCents[i-1] {
			return fmt.Errorf("pricing tier rates must be strictly decreasing")
		}
	}
	return nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Pricing.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error",
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Session: SessionConfig{
			Secret:   "test-secret",
			Duration: time.Hour,
		},
		Pricing: PricingConfig{
			TierThresholdDays: []int{1, 5, 9, 16, 20, 36, 91, 121},
			TierRateCents:     []int64{6500, 6000, 5500, 5000, 4500, 4000, 3500, 3000},
			LicenseRateCents:  3000,
			DepositCents:      35000,
		},
		Worker: WorkerConfig{
			PollInterval: 50 * time.Millisecond,
			BatchSize:    20,
			MaxAttempts:  3,
		},
	}
}
