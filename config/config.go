// Package config loads the runtime settings: which back-end to use, how
// to reach it and how long to wait for it.
package config

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Config carries every tunable of the evaluation pipeline. Values come
// from an optional config file and from GOPHERQBF_* environment
// variables; unset keys fall back to the defaults below.
type Config struct {
	// Backend is "auto", "depqbf" or "bridge".
	Backend string `mapstructure:"backend"`
	// SolverCommand invokes the QDIMACS solver; it may carry flags.
	SolverCommand string `mapstructure:"solver_command"`
	// CNFMode is "distribute" or "tseitin".
	CNFMode string `mapstructure:"cnf_mode"`
	// TimeoutSeconds bounds one solver subprocess.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`

	JavaCommand    string `mapstructure:"java_command"`
	BridgeJar      string `mapstructure:"bridge_jar"`
	BridgeClassDir string `mapstructure:"bridge_class_dir"`

	LogFormat string `mapstructure:"log_format"`
	Debug     bool   `mapstructure:"debug"`
}

// Timeout returns the solver budget as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads the configuration. path names a config file explicitly; when
// empty, gopherqbf.yaml in the working directory is used if present, and
// a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("backend", "auto")
	v.SetDefault("solver_command", "depqbf")
	v.SetDefault("cnf_mode", "distribute")
	v.SetDefault("timeout_seconds", 60)
	v.SetDefault("java_command", "java")
	v.SetDefault("bridge_jar", "")
	v.SetDefault("bridge_class_dir", "tweety_bridge")
	v.SetDefault("log_format", "console")
	v.SetDefault("debug", false)
	// Every key needs a default (even a zero one): Unmarshal only
	// consults the environment for keys viper already knows about.
	v.SetEnvPrefix("GOPHERQBF")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "could not read config file %q", path)
		}
	} else {
		v.SetConfigName("gopherqbf")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "could not read config file")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "could not decode configuration")
	}
	return &cfg, nil
}
