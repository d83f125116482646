package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

// TOKEN_ENV is the environment variable holding the Ed API token.
// Tokens are issued at https://edstem.org/us/settings/api-tokens and are
// never read from config.yaml.
const TOKEN_ENV = "ED_API_TOKEN"

// ErrConfig marks configuration problems that must abort the run before
// any network call is made.
var ErrConfig = errors.New("invalid configuration")

type AppConfig struct {
	Logging           LoggingConfig `yaml:"logging"`
	CourseID          string        `yaml:"course_id"`
	Filter            FilterConfig  `yaml:"filter"`
	OutputDir         string        `yaml:"output_dir"`
	PageSize          int           `yaml:"page_size"`
	RequestTimeoutSec int           `yaml:"request_timeout_seconds"`

	// Token is resolved from the environment, not from YAML.
	Token string `yaml:"-"`
}

// RequestTimeout returns the HTTP timeout as a duration.
func (c *AppConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FilterConfig selects which thread titles survive filtering.
// Mode is "substring" or "prefix"; both match case-insensitively.
type FilterConfig struct {
	Mode    string `yaml:"mode"`
	Pattern string `yaml:"pattern"`
}

// Load reads .env and config.yaml, applies defaults and validates.
// Validation failures wrap ErrConfig so main can report them before any
// network traffic.
func Load() (*AppConfig, error) {
	godotenv.Load(filepath.Join(basePath(), ENV_FILE))

	data, err := os.ReadFile(filepath.Join(basePath(), CONFIG_FILE))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfig, CONFIG_FILE, err)
	}

	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConfig, CONFIG_FILE, err)
	}

	c.Token = os.Getenv(TOKEN_ENV)
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.PageSize <= 0 {
		c.PageSize = 100
	}
	if c.RequestTimeoutSec <= 0 {
		c.RequestTimeoutSec = 10
	}
	if c.Filter.Mode == "" {
		c.Filter.Mode = "substring"
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *AppConfig) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("%w: %s is not set", ErrConfig, TOKEN_ENV)
	}
	if strings.TrimSpace(c.CourseID) == "" {
		return fmt.Errorf("%w: course_id is not set", ErrConfig)
	}
	if c.Filter.Pattern == "" {
		return fmt.Errorf("%w: filter.pattern is not set", ErrConfig)
	}
	switch c.Filter.Mode {
	case "substring", "prefix":
	default:
		return fmt.Errorf("%w: filter.mode must be \"substring\" or \"prefix\", got %q", ErrConfig, c.Filter.Mode)
	}
	return nil
}

// basePath walks up from the working directory until it finds config.yaml,
// so the tool can be run from any subdirectory of the repo.
func basePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
