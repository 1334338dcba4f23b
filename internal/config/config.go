// Package config loads the site configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/granddom/site/pkg/logger"
	"github.com/granddom/site/pkg/messages"
	"github.com/granddom/site/pkg/redis"
)

var (
	ErrParse        = errors.New("config: failed to parse environment")
	ErrInvalidValue = errors.New("config: invalid value")
)

// Config is the site configuration.
type Config struct {
	Address         string        `env:"ADDRESS" envDefault:":8080"`
	BaseURL         string        `env:"BASE_URL" envDefault:"https://granddom.com"`
	DefaultLocale   string        `env:"DEFAULT_LOCALE" envDefault:"pl"`
	MessagesDir     string        `env:"MESSAGES_DIR"`
	CachePrefix     string        `env:"CACHE_PREFIX" envDefault:"granddom:messages"`
	CacheGeneration string        `env:"CACHE_GENERATION"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"24h"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	Log   logger.Config
	Redis redis.Config
	S3    messages.S3Config
}

// Load reads the given .env files (".env" when none are given; missing
// files are skipped), then parses the environment into a Config.
// Variables already set in the environment win over .env values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrParse, fmt.Errorf("loading %s: %w", f, err))
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrParse, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if cfg.CacheGeneration == "" {
		cfg.CacheGeneration = uuid.NewString()
	}
	return cfg, nil
}

// CacheKeyPrefix scopes shared cache keys to the message generation, so
// documents cached by an earlier deploy are never read. Without
// CACHE_GENERATION every process start is a new generation.
func (c Config) CacheKeyPrefix() string {
	if c.CacheGeneration == "" {
		return c.CachePrefix
	}
	return c.CachePrefix + ":" + c.CacheGeneration
}

// MessagesFromS3 reports whether messages are read from a bucket.
func (c Config) MessagesFromS3() bool {
	return c.S3.Bucket != ""
}

func (c Config) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: BASE_URL %q must be an absolute http(s) URL", ErrInvalidValue, c.BaseURL)
	}
	if c.DefaultLocale == "" {
		return fmt.Errorf("%w: DEFAULT_LOCALE is empty", ErrInvalidValue)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: SHUTDOWN_TIMEOUT must be positive", ErrInvalidValue)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: CACHE_TTL must be positive", ErrInvalidValue)
	}
	if c.MessagesDir != "" && c.MessagesFromS3() {
		return fmt.Errorf("%w: MESSAGES_DIR and MESSAGES_S3_BUCKET are mutually exclusive", ErrInvalidValue)
	}
	return nil
}
