package main

import (
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is resolved from flags, SUNSPOT_* environment variables and an
// optional config file, in that order of precedence.
type Config struct {
	OutputDir    string `mapstructure:"output_dir" default:"."`
	PreviewScale int    `mapstructure:"preview_scale"`
	DumpStages   bool   `mapstructure:"dump_stages"`
	Workers      int    `mapstructure:"workers" default:"4"`
	Debug        bool   `mapstructure:"debug"`
}

func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.PreviewScale < 0 || c.PreviewScale > 16 {
		return fmt.Errorf("preview scale must be between 0 and 16, got %d", c.PreviewScale)
	}
	return nil
}

var flagKeys = map[string]string{
	"output-dir":    "output_dir",
	"preview-scale": "preview_scale",
	"dump-stages":   "dump_stages",
	"workers":       "workers",
	"debug":         "debug",
}

func registerFlags(flags *pflag.FlagSet) {
	flags.StringP("output-dir", "o", "", "directory for thumbnails (default \".\")")
	flags.Int("preview-scale", 0, "also write an upscaled <name>.preview.png at this factor")
	flags.Bool("dump-stages", false, "write every intermediate mask next to the thumbnail")
	flags.IntP("workers", "j", 0, "images processed concurrently (default 4)")
	flags.Bool("debug", false, "enable debug mode with verbose logging")
	flags.String("config", "", "config file (yaml, toml or json)")
}

func loadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SUNSPOT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply config defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
