// Package config loads tabledef settings from defaults, a YAML file, the
// environment and command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/koba/tabledef/internal/database"
	"github.com/koba/tabledef/internal/generator"
)

// DefaultConfigFile is looked up in the working directory when no file is given
const DefaultConfigFile = "tabledef.yaml"

// Config holds every tabledef setting
type Config struct {
	Dialect     string `koanf:"dialect"`
	LengthRatio string `koanf:"length_ratio"`
	FillMode    string `koanf:"fill_mode"`
	Filler      string `koanf:"filler"`
	Rows        int    `koanf:"rows"`
	Batch       bool   `koanf:"batch"`
	Schema      string `koanf:"schema"`
	IfNotExists bool   `koanf:"if_not_exists"`
	Temporary   bool   `koanf:"temporary"`
	Verbose     bool   `koanf:"verbose"`

	DBType     string `koanf:"db_type"`
	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBName     string `koanf:"db_name"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	DBSchema   string `koanf:"db_schema"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"dialect":       generator.Oracle,
		"length_ratio":  generator.RatioFull.String(),
		"fill_mode":     generator.FillFiller.String(),
		"filler":        string(generator.DefaultFiller),
		"rows":          1,
		"batch":         false,
		"schema":        "",
		"if_not_exists": false,
		"temporary":     false,
		"verbose":       false,
		"db_host":       "localhost",
	}
}

// Load reads the configuration.
// Precedence (highest to lowest): flags > TABLEDEF_ env > DB_ env > config file > defaults
//
// Only flags that were explicitly set override other sources; flag names map
// to keys by replacing '-' with '_'.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			cfgFile = DefaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment: DB_HOST -> db_host, TABLEDEF_ROWS -> rows
	if err := k.Load(env.Provider("DB_", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}
	if err := k.Load(env.Provider("TABLEDEF_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "TABLEDEF_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	if _, err := generator.LookupDialect(c.Dialect); err != nil {
		return err
	}
	if _, err := generator.ParseLengthRatio(c.LengthRatio); err != nil {
		return err
	}
	if _, err := generator.ParseFillMode(c.FillMode); err != nil {
		return err
	}
	if _, err := c.FillerRune(); err != nil {
		return err
	}
	if c.Rows < 0 {
		return fmt.Errorf("rows must not be negative, got %d", c.Rows)
	}
	return nil
}

// FillerRune returns the filler as a single character
func (c *Config) FillerRune() (rune, error) {
	if c.Filler == "" {
		return generator.DefaultFiller, nil
	}
	r, size := utf8.DecodeRuneInString(c.Filler)
	if size != len(c.Filler) || r == '\'' || r == '"' {
		return 0, fmt.Errorf("filler must be a single non-quote character, got %q", c.Filler)
	}
	return r, nil
}

// DDLOptions returns the generator options selected by the config
func (c *Config) DDLOptions() []generator.DDLOption {
	var opts []generator.DDLOption
	if c.IfNotExists {
		opts = append(opts, generator.WithIfNotExists())
	}
	if c.Temporary {
		opts = append(opts, generator.WithTemporary())
	}
	return opts
}

// ValueOptions returns the value generator options selected by the config.
// Call Validate first; invalid values fall back to the defaults.
func (c *Config) ValueOptions() []generator.ValueOption {
	ratio, _ := generator.ParseLengthRatio(c.LengthRatio)
	mode, _ := generator.ParseFillMode(c.FillMode)
	filler, err := c.FillerRune()
	if err != nil {
		filler = generator.DefaultFiller
	}
	opts := []generator.ValueOption{
		generator.WithLengthRatio(ratio),
		generator.WithFillMode(mode),
		generator.WithFiller(filler),
	}
	if d, err := generator.LookupDialect(c.Dialect); err == nil {
		opts = append(opts, generator.WithMaxDate(d.MaxDate))
	}
	return opts
}

// Database returns the connection settings for introspection
func (c *Config) Database() (database.Config, error) {
	if c.DBType == "" {
		return database.Config{}, fmt.Errorf("db_type is required (set DB_TYPE or --db-type)")
	}
	if c.DBName == "" {
		return database.Config{}, fmt.Errorf("db_name is required (set DB_NAME or --db-name)")
	}

	port := c.DBPort
	if port == "" {
		port = database.DefaultPort(c.DBType)
	}
	host := c.DBHost
	if host == "" {
		host = "localhost"
	}

	return database.Config{
		Type:     c.DBType,
		Host:     host,
		Port:     port,
		Database: c.DBName,
		User:     c.DBUser,
		Password: c.DBPassword,
		Schema:   c.DBSchema,
	}, nil
}
