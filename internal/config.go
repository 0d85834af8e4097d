package internal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/tuannm99/strata/internal/sampling"
)

var ErrInvalidConfig = errors.New("strata: invalid config")

type StrataConfig struct {
	AppName string `mapstructure:"app_name" yaml:"app_name"`

	Sampling struct {
		Mode       string `mapstructure:"mode" yaml:"mode"`
		Other      string `mapstructure:"other" yaml:"other"`
		Seed       uint64 `mapstructure:"seed" yaml:"seed"`
		Oversample bool   `mapstructure:"oversample" yaml:"oversample"`
	} `mapstructure:"sampling" yaml:"sampling"`

	Output struct {
		DefaultPath string `mapstructure:"default_path" yaml:"default_path"`
		PreviewRows int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	} `mapstructure:"output" yaml:"output"`

	Log struct {
		Level string `mapstructure:"level" yaml:"level"`
	} `mapstructure:"log" yaml:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "strata")
	v.SetDefault("sampling.mode", "lenient")
	v.SetDefault("sampling.other", "grouped")
	v.SetDefault("sampling.seed", 0)
	v.SetDefault("sampling.oversample", false)
	v.SetDefault("output.default_path", "sampled_data.tsv")
	v.SetDefault("output.preview_rows", 20)
	v.SetDefault("log.level", "info")
}

// LoadConfig reads an optional YAML file (empty path means defaults only),
// then applies STRATA_* environment overrides.
func LoadConfig(path string) (*StrataConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("strata")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg StrataConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *StrataConfig) Validate() error {
	if _, err := sampling.ParseMode(c.Sampling.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := sampling.ParseOtherStrategy(c.Sampling.Other); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Output.PreviewRows < 0 {
		return fmt.Errorf("%w: output.preview_rows must be >= 0", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	return nil
}
