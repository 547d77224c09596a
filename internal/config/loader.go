package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables recognized by Load.
const (
	EnvPrefix     = "COLLAB_"
	EnvConfigFile = "COLLAB_CONFIG"
	envNesting    = "__"
)

// listKeys are the string-list options. Env values for them are comma
// separated; file values replace the default list instead of merging into it.
var listKeys = []string{ //nolint:gochecknoglobals // fixed key table
	"engine.distribution_list_patterns",
	"engine.system_account_patterns",
	"engine.holiday_keywords",
	"engine.keywords.broadcast",
	"engine.keywords.informational",
	"engine.keywords.training",
	"engine.keywords.collaborative",
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if COLLAB_CONFIG is set
//  3. env (prefix COLLAB_, "__" separates nested keys)
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, os.Getenv(EnvConfigFile))
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file layer.
func LoadFile(_ context.Context, path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "read config file %q", path), ErrLoadConfig)
		}
	}

	// COLLAB_ENGINE__SCORE_THRESHOLD -> engine.score_threshold
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, envNesting, ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "read environment"), ErrLoadConfig)
	}

	// Unmarshal into a copy of the defaults
	cfg := *base
	cfg.Engine = base.Engine.Clone()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode config"), ErrLoadConfig)
	}
	for _, key := range listKeys {
		if !k.Exists(key) {
			continue
		}
		*listField(&cfg.Engine, key) = stringList(k.Get(key))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the process options and the engine configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return invalidf("addr must not be empty")
	}
	if c.MaxBodyBytes <= 0 {
		return invalidf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	return c.Engine.Validate()
}

func listField(e *Engine, key string) *[]string {
	switch key {
	case "engine.distribution_list_patterns":
		return &e.DistributionListPatterns
	case "engine.system_account_patterns":
		return &e.SystemAccountPatterns
	case "engine.holiday_keywords":
		return &e.HolidayKeywords
	case "engine.keywords.broadcast":
		return &e.Keywords.Broadcast
	case "engine.keywords.informational":
		return &e.Keywords.Informational
	case "engine.keywords.training":
		return &e.Keywords.Training
	case "engine.keywords.collaborative":
		return &e.Keywords.Collaborative
	}
	panic("config: unknown list key " + key)
}

// stringList normalizes a YAML list or a comma separated env value.
func stringList(v interface{}) []string {
	var raw []string
	switch t := v.(type) {
	case []interface{}:
		for _, item := range t {
			raw = append(raw, fmt.Sprint(item))
		}
	case []string:
		raw = t
	case string:
		raw = strings.Split(t, ",")
	default:
		raw = []string{fmt.Sprint(t)}
	}
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
