package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koba/tabledef/internal/generator"
)

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("dialect", "oracle", "")
	flags.String("length-ratio", "full", "")
	flags.Int("rows", 1, "")
	flags.Bool("if-not-exists", false, "")
	flags.String("db-port", "", "")
	return flags
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tabledef.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "oracle", cfg.Dialect)
	assert.Equal(t, "full", cfg.LengthRatio)
	assert.Equal(t, "filler", cfg.FillMode)
	assert.Equal(t, "N", cfg.Filler)
	assert.Equal(t, 1, cfg.Rows)
	assert.False(t, cfg.Batch)
	assert.Equal(t, "localhost", cfg.DBHost)
}

func TestLoad_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, `
dialect: postgres
length_ratio: half
fill_mode: comment
rows: 5
schema: app
db_type: mysql
db_name: fromfile
`)
	t.Setenv("DB_NAME", "fromdbenv")
	t.Setenv("TABLEDEF_ROWS", "7")
	t.Setenv("TABLEDEF_DB_USER", "tester")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--length-ratio", "one_third", "--if-not-exists"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Dialect, "unset flag must not override the file")
	assert.Equal(t, "one_third", cfg.LengthRatio)
	assert.Equal(t, "comment", cfg.FillMode)
	assert.Equal(t, 7, cfg.Rows)
	assert.Equal(t, "app", cfg.Schema)
	assert.True(t, cfg.IfNotExists)
	assert.Equal(t, "fromdbenv", cfg.DBName)
	assert.Equal(t, "tester", cfg.DBUser)
}

func TestLoad_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("dialect: mysql\n"), 0o600))
	t.Chdir(dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Dialect)
}

func TestLoad_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorContains(t, err, "error reading config file")

	_, err = Load(writeConfig(t, "dialect: sybase\n"), nil)
	assert.ErrorIs(t, err, generator.ErrUnsupportedDialect)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{Dialect: "oracle", LengthRatio: "full", FillMode: "filler", Filler: "N", Rows: 1}

	tests := []struct {
		name      string
		modify    func(*Config)
		errSubstr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown dialect", func(c *Config) { c.Dialect = "db2" }, "unsupported dialect"},
		{"bad ratio", func(c *Config) { c.LengthRatio = "quarter" }, "invalid length ratio"},
		{"bad mode", func(c *Config) { c.FillMode = "lorem" }, "invalid fill mode"},
		{"quote filler", func(c *Config) { c.Filler = "'" }, "filler must be"},
		{"long filler", func(c *Config) { c.Filler = "NN" }, "filler must be"},
		{"negative rows", func(c *Config) { c.Rows = -1 }, "rows must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_Database(t *testing.T) {
	cfg := Config{DBType: "postgres", DBName: "app", DBUser: "u"}

	db, err := cfg.Database()
	require.NoError(t, err)
	assert.Equal(t, "5432", db.Port)
	assert.Equal(t, "localhost", db.Host)
	assert.Equal(t, "app", db.Database)

	cfg.DBType = "mysql"
	cfg.DBPort = "13306"
	db, err = cfg.Database()
	require.NoError(t, err)
	assert.Equal(t, "13306", db.Port)

	_, err = (&Config{DBName: "app"}).Database()
	assert.ErrorContains(t, err, "db_type is required")

	_, err = (&Config{DBType: "mysql"}).Database()
	assert.ErrorContains(t, err, "db_name is required")
}

func TestConfig_GeneratorOptions(t *testing.T) {
	cfg := Config{Dialect: "mysql", LengthRatio: "1/3", FillMode: "comment", Filler: "x", IfNotExists: true, Temporary: true}
	require.NoError(t, cfg.Validate())

	assert.Len(t, cfg.DDLOptions(), 2)

	g := generator.NewValueGenerator(cfg.ValueOptions()...)
	assert.Equal(t, generator.RatioOneThird, g.LengthRatio())
	assert.Equal(t, generator.FillComment, g.FillMode())
}
