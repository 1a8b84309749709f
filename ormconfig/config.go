// Package ormconfig loads the connection configuration goorm needs to
// open a database, via a layered flag/env/file loader narrowed to the
// single settings struct a driver actually needs.
package ormconfig

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DSN is the subset of connection settings goorm's sqlite driver
// consumes. String settings under the file's `extra` key unmarshal
// into Extra; the driver ignores them but application code can read
// them. Other unknown keys are dropped.
type DSN struct {
	Driver string            `mapstructure:"driver"`
	Path   string            `mapstructure:"path"`
	Extra  map[string]string `mapstructure:"extra"`
}

type Option func(*loader)

type loader struct {
	flagName    string
	envVar      string
	filePath    string
	explicitErr error
}

// WithFlag reads the config path from the named command-line flag.
func WithFlag(flagName string) Option {
	return func(l *loader) { l.flagName = flagName }
}

// WithEnv reads the config path from the named environment variable.
func WithEnv(envVar string) Option {
	return func(l *loader) { l.envVar = envVar }
}

// WithFile reads the config from a fixed path, used when no flag or
// env override is present.
func WithFile(path string) Option {
	return func(l *loader) { l.filePath = path }
}

// Load resolves a DSN from, in priority order, a CLI flag, an
// environment variable, then a file path.
func Load(opts ...Option) (*DSN, error) {
	l := &loader{flagName: "config", envVar: "GOORM_CONFIG", filePath: "goorm.yml"}
	for _, opt := range opts {
		opt(l)
	}

	path := flagValue(l.flagName)
	if path == "" {
		path = os.Getenv(l.envVar)
	}
	if path == "" {
		path = l.filePath
	}
	if path == "" {
		return nil, fmt.Errorf("ormconfig: no config path resolved")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(detectType(path))
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("ormconfig: reading %s: %w", path, err)
	}
	v.AutomaticEnv()

	var dsn DSN
	if err := v.Unmarshal(&dsn); err != nil {
		return nil, fmt.Errorf("ormconfig: unmarshal: %w", err)
	}
	if dsn.Driver == "" {
		dsn.Driver = "sqlite"
	}
	return &dsn, nil
}

func flagValue(name string) string {
	if name == "" {
		return ""
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	path := fs.String(name, "", "path to goorm config file")
	_ = fs.Parse(os.Args[1:])
	return *path
}

func detectType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}
