package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/graphprep/pkg/errors"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// EnvRedisURL overrides redis_url from the config file.
const EnvRedisURL = "GRAPHPREP_REDIS_URL"

const (
	configFileName    = "config.toml"
	defaultListenAddr = ":8080"
)

var backends = []string{BackendFile, BackendRedis, BackendNone}

// Config is the optional TOML config file:
//
//	cache_backend = "redis"
//	redis_url     = "redis://localhost:6379/0"
//	listen_addr   = ":9090"
//	result_ttl    = "12h"
//	artifact_ttl  = "72h"
type Config struct {
	CacheBackend string   `toml:"cache_backend"`
	RedisURL     string   `toml:"redis_url"`
	ListenAddr   string   `toml:"listen_addr"`
	ResultTTL    duration `toml:"result_ttl"`
	ArtifactTTL  duration `toml:"artifact_ttl"`
}

// duration decodes Go duration strings such as "90m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		CacheBackend: BackendFile,
		ListenAddr:   defaultListenAddr,
	}
}

// LoadConfig reads the config file at path. An empty path means the default
// location, where a missing file is not an error. Environment overrides are
// applied and the result is validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err == nil {
			path = filepath.Join(dir, configFileName)
		}
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			switch {
			case errors.Is(err, os.ErrNotExist) && !explicit:
			case errors.Is(err, os.ErrNotExist):
				return Config{}, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config file %s not found", path)
			default:
				return Config{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "invalid config file %s", path)
			}
		}
	}

	if url := os.Getenv(EnvRedisURL); url != "" {
		cfg.RedisURL = url
	}
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = BackendFile
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if err := perrors.ValidateFormat("cache_backend", c.CacheBackend, backends); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "invalid cache_backend %q", c.CacheBackend)
	}
	if c.CacheBackend == BackendRedis {
		if err := perrors.ValidateRedisURL(c.RedisURL); err != nil {
			return err
		}
	}
	if c.ResultTTL.Duration < 0 || c.ArtifactTTL.Duration < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "ttl values must not be negative")
	}
	return nil
}

// String renders the effective config for display.
func (c Config) String() string {
	return fmt.Sprintf("cache_backend=%s listen_addr=%s result_ttl=%s artifact_ttl=%s",
		c.CacheBackend, c.ListenAddr, c.ResultTTL.Duration, c.ArtifactTTL.Duration)
}
