package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

const usersDef = `
name: users
comment: Registered users
columns:
  - {name: id, data_type: INTEGER, length: 10, primary_key: true, not_null: true}
  - {name: email, data_type: VARCHAR, length: 100, comment: Email address}
indexes:
  - {name: ux_users_email, columns: [email], unique: true}
`

func writeDef(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.yaml")
	require.NoError(t, os.WriteFile(path, []byte(usersDef), 0o600))
	return path
}

func TestCLI_DDL(t *testing.T) {
	out := execute(t, "ddl", "--def", writeDef(t), "--dialect", "postgres")

	assert.Contains(t, out, "CREATE TABLE users (\n  id INTEGER PRIMARY KEY NOT NULL,\n  email VARCHAR(100)\n);")
	assert.Contains(t, out, "COMMENT ON COLUMN users.email IS 'Email address';")
	assert.Contains(t, out, "CREATE UNIQUE INDEX ux_users_email ON users (email);")
}

func TestCLI_Insert(t *testing.T) {
	out := execute(t, "insert", "--def", writeDef(t), "--dialect", "oracle",
		"--length-ratio", "one_third", "--fill-mode", "comment", "--rows", "2")

	want := "INSERT INTO users (id, email) VALUES (999, 'Email address" + strings.Repeat("N", 20) + "');\n"
	assert.Equal(t, want+want, out)
}

func TestCLI_Demo(t *testing.T) {
	out := execute(t, "demo", "--dialect", "mysql", "--length-ratio", "full", "--fill-mode", "filler", "--rows", "1")

	assert.Contains(t, out, "=== DDL (mysql) ===")
	assert.Contains(t, out, ") COMMENT='Demo users table';")
	assert.Contains(t, out, "INSERT INTO demo.demo_users (id, name, email, created_at, status) VALUES (999999999, ")
	assert.Contains(t, out, "=== Batch INSERT ===")
}
