// Package config loads service settings. Sources are applied in order:
// built-in defaults, an optional YAML file, COMPOSEDECK_* environment
// variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "COMPOSEDECK_"

type Config struct {
	ListenAddr string `yaml:"listen_addr" validate:"required"`
	// RootDir holds one subdirectory per client.
	RootDir   string `yaml:"root_dir" validate:"required"`
	LogLevel  string `yaml:"log_level" validate:"oneof=trace debug info warn warning error"`
	LogFormat string `yaml:"log_format" validate:"oneof=text json"`
	// ContainerMatcher selects how containers are tied to services: "name" or "label".
	ContainerMatcher     string `yaml:"container_matcher" validate:"oneof=name label"`
	ReconcileConcurrency int    `yaml:"reconcile_concurrency" validate:"min=1,max=64"`
	LogTail              int    `yaml:"log_tail" validate:"min=1,max=10000"`
	// CloneDepth of zero clones full history.
	CloneDepth int `yaml:"clone_depth" validate:"min=0"`
	// ProxyHost is dialed for ports published on all interfaces.
	ProxyHost string `yaml:"proxy_host" validate:"required"`
}

func Default() Config {
	return Config{
		ListenAddr:           ":3001",
		RootDir:              "files",
		LogLevel:             "info",
		LogFormat:            "text",
		ContainerMatcher:     "name",
		ReconcileConcurrency: 4,
		LogTail:              200,
		CloneDepth:           1,
		ProxyHost:            "127.0.0.1",
	}
}

// Load builds a configuration from defaults, the file at path (skipped when
// path is empty) and the environment.
func Load(path string, lookupEnv func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := cfg.applyEnv(lookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setting binds one field to its flag and environment names.
type setting struct {
	flag  string
	usage string
	str   func(c *Config) *string
	num   func(c *Config) *int
}

var settings = []setting{
	{flag: "listen-addr", usage: "HTTP listen address", str: func(c *Config) *string { return &c.ListenAddr }},
	{flag: "root-dir", usage: "directory with one subdirectory per client", str: func(c *Config) *string { return &c.RootDir }},
	{flag: "log-level", usage: "log level (trace, debug, info, warn, error)", str: func(c *Config) *string { return &c.LogLevel }},
	{flag: "log-format", usage: "log format (text, json)", str: func(c *Config) *string { return &c.LogFormat }},
	{flag: "container-matcher", usage: "container identity rule (name, label)", str: func(c *Config) *string { return &c.ContainerMatcher }},
	{flag: "reconcile-concurrency", usage: "clients loaded in parallel when listing", num: func(c *Config) *int { return &c.ReconcileConcurrency }},
	{flag: "log-tail", usage: "log lines returned per service", num: func(c *Config) *int { return &c.LogTail }},
	{flag: "proxy-host", usage: "host dialed when proxying to published ports", str: func(c *Config) *string { return &c.ProxyHost }},
	{flag: "clone-depth", usage: "git clone depth for new clients (0 = full history)", num: func(c *Config) *int { return &c.CloneDepth }},
}

func (s setting) env() string {
	b := []byte(EnvPrefix + s.flag)
	for i, ch := range b {
		switch {
		case ch == '-':
			b[i] = '_'
		case ch >= 'a' && ch <= 'z':
			b[i] = ch - 'a' + 'A'
		}
	}
	return string(b)
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) error {
	if lookupEnv == nil {
		return nil
	}
	for _, s := range settings {
		v, ok := lookupEnv(s.env())
		if !ok {
			continue
		}
		if s.str != nil {
			*s.str(c) = v
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", s.env(), err)
		}
		*s.num(c) = n
	}
	return nil
}

// RegisterFlags defines a flag for every setting, defaulting to Default().
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	for _, s := range settings {
		if s.str != nil {
			fs.String(s.flag, *s.str(&d), s.usage)
		} else {
			fs.Int(s.flag, *s.num(&d), s.usage)
		}
	}
}

// ApplyFlags overrides settings whose flags were set explicitly.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	for _, s := range settings {
		if !fs.Changed(s.flag) {
			continue
		}
		var err error
		if s.str != nil {
			*s.str(c), err = fs.GetString(s.flag)
		} else {
			*s.num(c), err = fs.GetInt(s.flag)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

var validate = validator.New()

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return fmt.Errorf("invalid config: %s fails %q (got %v)", f.Field(), f.Tag(), f.Value())
	}
	return err
}
