package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage selecciona el backend de persistencia.
type Storage string

const (
	StorageMongo    Storage = "mongo"
	StoragePostgres Storage = "postgres"
	StorageMemory   Storage = "memory"
)

const devJWTSecret = "dev-secret"

type Config struct {
	Env  string `env:"ENV" envDefault:"development"`
	Port string `env:"PORT" envDefault:"8080"`

	Storage Storage `env:"STORAGE" envDefault:"mongo"`

	MongoURI      string        `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017/petdiary"`
	MongoDatabase string        `env:"MONGODB_DATABASE" envDefault:"petdiary"`
	MongoTimeout  time.Duration `env:"MONGODB_TIMEOUT" envDefault:"5s"`

	// Solo si STORAGE=postgres.
	PostgresDSN string `env:"DB_DSN"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// Acepta X-Debug-User-ID sin token. Opt-in explícito; prohibido en producción.
	AllowDebugUser bool `env:"ALLOW_DEBUG_USER" envDefault:"false"`

	// Límite por IP en /auth/*. 0 desactiva.
	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS" envDefault:"5"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"pet-diary"`
}

// Load lee un .env opcional (los archivos que falten se ignoran) y luego el entorno.
func Load(dotenvFiles ...string) (Config, error) {
	for _, f := range dotenvFiles {
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return errors.New("MONGODB_URI is required when STORAGE=mongo")
		}
	case StoragePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("DB_DSN is required when STORAGE=postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE %q", c.Storage)
	}

	if c.IsProduction() && c.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	if c.IsProduction() && c.AllowDebugUser {
		return errors.New("ALLOW_DEBUG_USER cannot be enabled in production")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DebugUserAllowed: solo con ALLOW_DEBUG_USER=true y fuera de producción.
func (c Config) DebugUserAllowed() bool {
	return c.AllowDebugUser && !c.IsProduction()
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
