package configuration

import (
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		panic(err)
	}
	return c
})

// Use returns the process-wide configuration, loading it on first use.
func Use() *Configuration {
	return singleton()
}

type DatabaseOptions struct {
	Name     string `env:"DB_NAME" envDefault:"tourhub"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type RedisOptions struct {
	Enabled bool   `env:"REDIS_ENABLED" envDefault:"false"`
	URL     string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
	// Channel carries view invalidation paths to subscribed renderers.
	Channel string `env:"REDIS_INVALIDATION_CHANNEL" envDefault:"tourhub:invalidate"`
}

type StorageOptions struct {
	Bucket        string `env:"MEDIA_BUCKET" envDefault:"tourhub-media"`
	Region        string `env:"MEDIA_REGION" envDefault:"eu-central-1"`
	PublicBaseURL string `env:"MEDIA_PUBLIC_BASE_URL"`
}

type AuthOptions struct {
	// JWTSecret verifies tokens minted by the upstream identity service.
	JWTSecret string `env:"AUTH_JWT_SECRET" envDefault:"dev-secret"`
}

type Configuration struct {
	Database DatabaseOptions
	Redis    RedisOptions
	Storage  StorageOptions
	Auth     AuthOptions

	ServerPort       int      `env:"PORT" envDefault:"8080"`
	GoAppEnvironment string   `env:"GO_APP_ENV" envDefault:"development"`
	AllowedOrigins   []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	RequestIDHeader  string   `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	RLSEnforce       string   `env:"RLS_ENFORCE" envDefault:"off"`
	LogLevel         string   `env:"LOG_LEVEL" envDefault:"info"`

	logger     *logrus.Logger
	loggerOnce sync.Once
}

func (c *Configuration) load(envFiles []string) error {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return fmt.Errorf("failed to load env files: %w", err)
		}
	}
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("failed to parse env: %w", err)
	}
	return nil
}

func (c *Configuration) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func (c *Configuration) Logger() *logrus.Logger {
	c.loggerOnce.Do(func() {
		logger := logrus.New()
		level, err := logrus.ParseLevel(c.LogLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)
		if c.GoAppEnvironment == Production {
			logger.SetFormatter(&logrus.JSONFormatter{})
		} else {
			logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		}
		c.logger = logger
	})
	return c.logger
}
