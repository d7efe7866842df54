// Package config loads contactnorm settings from CONTACTNORM_* variables and
// command-line flags, flags taking precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vortex-fintech/contactnorm/contact"
	"github.com/vortex-fintech/contactnorm/data/postgres"
	"github.com/vortex-fintech/contactnorm/data/redis"
	"github.com/vortex-fintech/contactnorm/foundation/contactutil"
	ferrors "github.com/vortex-fintech/contactnorm/foundation/errors"
	"github.com/vortex-fintech/contactnorm/foundation/retry"
)

const EnvPrefix = "CONTACTNORM_"

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"

	FormatJSON = "json"
	FormatCSV  = "csv"

	SinkStdout = "stdout"
	SinkRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env string `env:"ENV" envDefault:"production"`

	Source string `env:"SOURCE" envDefault:"file"`
	Input  string `env:"INPUT" envDefault:"-"`
	// Format is detected from the Input extension when empty.
	Format string    `env:"FORMAT"`
	CSV    CSVConfig `envPrefix:"CSV_"`

	Postgres postgres.Config `envPrefix:"PG_"`
	Query    postgres.Query  `envPrefix:"PG_"`

	Sink     string        `env:"SINK" envDefault:"stdout"`
	Output   string        `env:"OUTPUT" envDefault:"-"`
	Redis    redis.Config  `envPrefix:"REDIS_"`
	RedisKey string        `env:"REDIS_KEY" envDefault:"contactnorm:emails"`
	RedisTTL time.Duration `env:"REDIS_TTL"`

	Policy PolicyConfig `envPrefix:"POLICY_"`

	MetricsFile     string        `env:"METRICS_FILE"`
	RetryMaxElapsed time.Duration `env:"RETRY_MAX_ELAPSED" envDefault:"20s"`
}

type CSVConfig struct {
	NameColumn    string `env:"NAME_COLUMN" envDefault:"name"`
	ContactColumn string `env:"CONTACT_COLUMN" envDefault:"contact"`
	Comma         string `env:"COMMA" envDefault:","`
	KeepEmpty     bool   `env:"KEEP_EMPTY"`
}

type PolicyConfig struct {
	Case        string `env:"CASE" envDefault:"lower"`
	Trim        bool   `env:"TRIM"`
	Missing     string `env:"MISSING" envDefault:"drop"`
	Fill        string `env:"FILL"`
	DropEmpty   bool   `env:"DROP_EMPTY"`
	Dedupe      bool   `env:"DEDUPE"`
	Validate    bool   `env:"VALIDATE"`
	DropInvalid bool   `env:"DROP_INVALID"`
}

// Load parses the process environment. environ, when non-nil, replaces it.
func Load(environ map[string]string) (Config, error) {
	var cfg Config
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Policy converts the flat settings into a contact.Policy.
func (p PolicyConfig) Policy() (contact.Policy, error) {
	c, ok := contactutil.ParseCase(p.Case)
	if !ok {
		return contact.Policy{}, ferrors.ConfigInvariant(ErrInvalidConfig, "case", "unknown_mode")
	}
	m, ok := contact.ParseMissing(p.Missing)
	if !ok {
		return contact.Policy{}, ferrors.ConfigInvariant(ErrInvalidConfig, "missing", "unknown_strategy")
	}
	pol := contact.Policy{
		Case:           c,
		TrimSpace:      p.Trim,
		Missing:        m,
		FillValue:      p.Fill,
		DropEmpty:      p.DropEmpty,
		DropDuplicates: p.Dedupe,
		ValidateEmail:  p.Validate || p.DropInvalid,
		DropInvalid:    p.DropInvalid,
	}
	if err := pol.Validate(); err != nil {
		return contact.Policy{}, err
	}
	return pol, nil
}

// InputFormat returns the configured format or guesses it from Input.
func (c Config) InputFormat() string {
	if f := strings.ToLower(strings.TrimSpace(c.Format)); f != "" {
		return f
	}
	if strings.EqualFold(filepath.Ext(c.Input), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}

func (c Config) CSVComma() rune {
	r := []rune(c.CSV.Comma)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

func (c Config) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	if c.RetryMaxElapsed > 0 {
		p.MaxElapsed = c.RetryMaxElapsed
	}
	return p
}

func (c Config) Validate() error {
	switch c.Source {
	case SourceFile:
		switch c.InputFormat() {
		case FormatJSON, FormatCSV:
		default:
			return ferrors.ConfigInvariant(ErrInvalidConfig, "format", "unknown_format")
		}
		if len([]rune(c.CSV.Comma)) > 1 {
			return ferrors.ConfigInvariant(ErrInvalidConfig, "csv_comma", "single_character")
		}
	case SourcePostgres:
		if strings.TrimSpace(c.Postgres.URL) == "" {
			return ferrors.ConfigInvariant(ErrInvalidConfig, "pg_url", "required")
		}
	default:
		return ferrors.ConfigInvariant(ErrInvalidConfig, "source", "unknown_source")
	}

	switch c.Sink {
	case SinkStdout:
	case SinkRedis:
		if strings.TrimSpace(c.RedisKey) == "" {
			return ferrors.ConfigInvariant(ErrInvalidConfig, "redis_key", "required")
		}
	default:
		return ferrors.ConfigInvariant(ErrInvalidConfig, "sink", "unknown_sink")
	}

	if _, err := c.Policy.Policy(); err != nil {
		return err
	}
	return nil
}
