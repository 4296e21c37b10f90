package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the runtime configuration, read from the environment and optionally from a
// .env file. Command line flags override the individual values.
type Config struct {
	Firebase Firebase
	Sheets   Sheets
	Log      Log
}

type Firebase struct {
	URL     string        `env:"FIREBASE_URL" validate:"omitempty,url"`
	Path    string        `env:"FIREBASE_PATH" envDefault:"reactivos"`
	Timeout time.Duration `env:"FIREBASE_TIMEOUT" envDefault:"30s" validate:"gt=0"`
}

type Sheets struct {
	Credentials string `env:"SHEETS_CREDENTIALS"`
	URL         string `env:"SHEETS_URL" validate:"omitempty,url"`
	Sheet       string `env:"SHEETS_SHEET" envDefault:"Sheet1"`
}

type Log struct {
	Format LogFormat  `env:"LOG_FORMAT" envDefault:"TEXT"`
	Level  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

// LogFormat is the log output format (TEXT or JSON).
type LogFormat uint8

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

func (f LogFormat) String() string {
	return []string{"TEXT", "JSON"}[f]
}

func (f *LogFormat) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "TEXT", "":
		*f = LogFormatText
	case "JSON":
		*f = LogFormatJSON
	default:
		return fmt.Errorf("unknown log format: %s", text)
	}

	return nil
}

func (f LogFormat) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Load reads the configuration from the environment, after first loading any variables
// defined in the dotenv file. A missing dotenv file is not an error and variables that are
// already set in the environment take precedence over the file.
func Load(dotenv string) (*Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %v: %w", dotenv, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration as loaded from the environment. Commands that override
// values from the command line revalidate the affected section, e.g. Firebase.Validate.
func (cfg *Config) Validate() error {
	return check(cfg)
}

// Validate checks the Firebase settings, typically after the command line overrides have
// been applied.
func (f Firebase) Validate() error {
	return check(f)
}

func check(v any) error {
	if err := validate.Struct(v); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return fmt.Errorf("invalid configuration: %v %v", errs[0].Namespace(), message(errs[0]))
		}

		return fmt.Errorf("invalid configuration (%w)", err)
	}

	return nil
}

var validate = validator.New()

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "url":
		return fmt.Sprintf("must be a valid URL (%v)", fe.Value())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return "is invalid"
	}
}
