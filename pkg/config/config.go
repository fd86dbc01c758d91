package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Allocation   AllocationConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GARAGEHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"GARAGEHUB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GARAGEHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GARAGEHUB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"GARAGEHUB_DB_DSN"`

	Host     string `envconfig:"GARAGEHUB_DB_HOST"`
	Port     int    `envconfig:"GARAGEHUB_DB_PORT" default:"5432"`
	User     string `envconfig:"GARAGEHUB_DB_USER"`
	Password string `envconfig:"GARAGEHUB_DB_PASSWORD"`
	Name     string `envconfig:"GARAGEHUB_DB_NAME"`
	SSLMode  string `envconfig:"GARAGEHUB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GARAGEHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GARAGEHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GARAGEHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GARAGEHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// ensureDSN builds the DSN from discrete host settings when one is not provided.
func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either GARAGEHUB_DB_DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"GARAGEHUB_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"GARAGEHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GARAGEHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GARAGEHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GARAGEHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GARAGEHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GARAGEHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GARAGEHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GARAGEHUB_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GARAGEHUB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GARAGEHUB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GARAGEHUB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GARAGEHUB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GARAGEHUB_ARGON_KEY_LEN" default:"32"`
}

// AllocationConfig tunes the parts allocation coordinator.
type AllocationConfig struct {
	// StrictStock rejects inventory lines whose quantity exceeds the part's
	// combined stock instead of clamping on-hand stock at zero.
	StrictStock bool `envconfig:"GARAGEHUB_ALLOCATION_STRICT_STOCK" default:"false"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GARAGEHUB_AUTO_MIGRATE" default:"false"`
}
