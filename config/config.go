package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env       string `env:"ENV" env-default:"local"`
	HTTP      HTTP
	Mongo     Mongo
	JWT       JWT
	Redis     Redis
	Limiter   Limiter
	Log       Log
	Tracing   Tracing
	Dashboard Dashboard
}

type HTTP struct {
	Port            string        `env:"HTTP_PORT" env-default:"5000"`
	GinMode         string        `env:"GIN_MODE" env-default:"debug"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// TrustedProxies lists the balancer addresses/CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string `env:"TRUSTED_PROXIES" env-separator:","`
}

type Mongo struct {
	URI     string        `env:"MONGO_URI"`
	DBName  string        `env:"DB_NAME"`
	Timeout time.Duration `env:"MONGO_TIMEOUT" env-default:"5s"`
}

type JWT struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL" env-default:"168h"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type Limiter struct {
	TokenLookupLimit  int           `env:"TOKEN_LOOKUP_LIMIT" env-default:"30"`
	TokenLookupWindow time.Duration `env:"TOKEN_LOOKUP_WINDOW" env-default:"1m"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

type Tracing struct {
	Endpoint    string `env:"OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" env-default:"foodorder"`
}

type Dashboard struct {
	TopProducts int `env:"TOP_PRODUCTS" env-default:"5"`
}

// LoadEnv reads a .env file into the process environment when one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	LoadEnv()

	cfg, err := Load()
	if err != nil {
		log.Fatalf("error reading config: %v", err)
	}
	return cfg
}

func (c *Config) validate() error {
	var errs []error
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.Mongo.DBName == "" {
		errs = append(errs, errors.New("DB_NAME is required"))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Dashboard.TopProducts <= 0 {
		errs = append(errs, errors.New("TOP_PRODUCTS must be positive"))
	}
	return errors.Join(errs...)
}
