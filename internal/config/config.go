// Package config loads generator settings with viper from an optional
// .derive-generator.yaml, DERIVEGEN_* environment variables and bound flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"derive-generator/internal/derive"
)

// FileName is the project configuration file looked up from the working
// directory upwards, stopping at the module root.
const FileName = ".derive-generator.yaml"

// EnvPrefix prefixes environment variables, e.g. DERIVEGEN_OUTPUT.
const EnvPrefix = "DERIVEGEN"

// Configuration keys.
const (
	KeyOutput            = "output"
	KeyRuntimeImport     = "runtime_import"
	KeyFixImports        = "fix_imports"
	KeyStrictAnnotations = "strict_annotations"
	KeyVerbose           = "verbose"
	KeyJSONLogs          = "json_logs"
)

// DefaultOutput is the name of the generated file in each package.
const DefaultOutput = "derive_gen.go"

// Config holds the generator settings.
type Config struct {
	Output            string `mapstructure:"output"`
	RuntimeImport     string `mapstructure:"runtime_import"`
	FixImports        bool   `mapstructure:"fix_imports"`
	StrictAnnotations bool   `mapstructure:"strict_annotations"`
	Verbose           int    `mapstructure:"verbose"`
	JSONLogs          bool   `mapstructure:"json_logs"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyOutput, DefaultOutput)
	v.SetDefault(KeyRuntimeImport, derive.DefaultRuntimeImport)
	v.SetDefault(KeyFixImports, true)
	v.SetDefault(KeyStrictAnnotations, false)
	v.SetDefault(KeyVerbose, 0)
	v.SetDefault(KeyJSONLogs, false)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	return v
}

// Load reads configPath, or the project configuration file found from the
// working directory when configPath is empty, into v and returns the result.
// A missing project file is not an error; a missing explicit file is.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	if configPath == "" {
		configPath = FindProjectConfig()
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path, without
// environment variables.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	return Load(v, configPath)
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if !strings.HasSuffix(c.Output, ".go") || strings.ContainsAny(c.Output, `/\`) {
		return errors.WithHint(
			errors.Newf("invalid output %q", c.Output),
			"output is a Go file name such as derive_gen.go, written next to each package",
		)
	}

	if strings.HasSuffix(c.Output, "_test.go") {
		return errors.Newf("invalid output %q: generated code cannot live in a test file", c.Output)
	}

	if c.RuntimeImport == "" {
		return errors.New("runtime_import must not be empty")
	}

	return nil
}

// DeriveOptions returns the expansion options.
func (c *Config) DeriveOptions() derive.Options {
	return derive.Options{
		RuntimeImport:     c.RuntimeImport,
		StrictAnnotations: c.StrictAnnotations,
	}
}

// FindProjectConfig walks up from the working directory looking for
// FileName. The walk stops at the first directory holding a go.mod file.
func FindProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	return findConfigFrom(dir)
}

func findConfigFrom(dir string) string {
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return ""
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}

		dir = parent
	}
}
