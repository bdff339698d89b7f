package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config supplies the root directory every path is derived from, plus the
// ambient settings commands need.
type Config interface {
	Root() string
	TimeZone() *time.Location
	LogLevel() string
	LogFormat() string
}

// LoadConfig reads .rosebud.yaml from $ROSEBUD_CONFIG_PATH or the working
// directory; ROSEBUD_* environment variables override file values.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("root", "~/.rosebud")
	v.SetDefault("timezone", "Local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetConfigName(".rosebud") // .yaml is implicit
	v.SetEnvPrefix("ROSEBUD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("ROSEBUD_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	root, err := homedir.Expand(v.GetString("root"))
	if err != nil {
		return nil, fmt.Errorf("store: expand root: %w", err)
	}
	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		return nil, fmt.Errorf("store: timezone: %w", err)
	}
	return &fileConfig{
		Path:   root,
		Zone:   loc,
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
		Source: v.ConfigFileUsed(),
	}, nil
}

type fileConfig struct {
	Path   string `json:"root"`
	Zone   *time.Location
	Level  string `json:"logLevel"`
	Format string `json:"logFormat"`
	Source string `json:"source,omitempty"`
}

func (f *fileConfig) Root() string {
	return f.Path
}

func (f *fileConfig) TimeZone() *time.Location {
	return f.Zone
}

func (f *fileConfig) LogLevel() string {
	return f.Level
}

func (f *fileConfig) LogFormat() string {
	return f.Format
}

// ConfigSource names the config file that was read, if any.
func ConfigSource(cfg Config) string {
	if fc, ok := cfg.(*fileConfig); ok {
		return fc.Source
	}
	return ""
}

// StaticConfig is a Config fixed at construction, for tests and embedding.
type StaticConfig struct {
	Path string
	Zone *time.Location
}

func (s StaticConfig) Root() string {
	return s.Path
}

func (s StaticConfig) TimeZone() *time.Location {
	if s.Zone == nil {
		return time.Local
	}
	return s.Zone
}

func (s StaticConfig) LogLevel() string {
	return "info"
}

func (s StaticConfig) LogFormat() string {
	return "console"
}
