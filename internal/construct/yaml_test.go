package construct

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koba/tabledef/internal/schema"
)

const usersYAML = `
name: users
schema: app
comment: Registered users
columns:
  - name: id
    data_type: INTEGER
    length: 10
    primary_key: true
    not_null: true
  - name: email
    data_type: VARCHAR
    length: 100
    unique: true
    comment: Email address
  - name: created_at
    data_type: TIMESTAMP
    default: CURRENT_TIMESTAMP
indexes:
  - name: ux_users_email
    columns: [email]
    unique: true
`

func TestYAMLSource(t *testing.T) {
	table, err := Build(NewYAMLSource(writeFile(t, "users.yaml", usersYAML)))
	require.NoError(t, err)

	assert.Equal(t, "app.users", table.QualifiedName())
	assert.Equal(t, "Registered users", table.Comment())
	assert.Equal(t, []string{"id", "email", "created_at"}, table.ColumnNames())

	email, ok := table.Column("email")
	require.True(t, ok)
	assert.Equal(t, 100, *email.Length)
	assert.Equal(t, "Email address", email.CommentText())
	assert.Equal(t, 2, email.Position)

	created, _ := table.Column("created_at")
	assert.Nil(t, created.Length)
	assert.Equal(t, "CURRENT_TIMESTAMP", *created.Default)

	assert.Equal(t, []schema.Index{{Name: "ux_users_email", Columns: []string{"email"}, Unique: true}}, table.Indexes())
}

func TestYAMLSource_Errors(t *testing.T) {
	_, err := Build(&YAMLSource{Data: []byte("name: [unterminated")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse definition file")

	_, err = Build(&YAMLSource{Data: []byte("comment: no name\ncolumns:\n  - {name: id, data_type: INT}\n")})
	assert.ErrorIs(t, err, schema.ErrConfiguration)
}
