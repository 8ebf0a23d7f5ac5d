package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koba/tabledef/internal/construct"
	"github.com/koba/tabledef/internal/database"
	"github.com/koba/tabledef/internal/schema"
	"github.com/koba/tabledef/internal/testutil"
)

func TestSaveLoad(t *testing.T) {
	demo, err := construct.Build(construct.DemoSource())
	require.NoError(t, err)

	plain, err := schema.NewTable("audit", "", "", []schema.Column{{Name: "id", DataType: "BIGINT"}}, nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "catalog.db")
	require.NoError(t, Save(path, []*schema.Table{plain, demo}, map[string]string{"source": "test"}))

	catalog, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", catalog.Metadata["source"])
	assert.NotEmpty(t, catalog.Metadata["created_at"])
	assert.Equal(t, []string{"audit", "demo.demo_users"}, catalog.Names())

	src, err := catalog.Source("demo.demo_users")
	require.NoError(t, err)

	rebuilt, err := construct.Build(src)
	require.NoError(t, err)
	assert.Equal(t, demo.QualifiedName(), rebuilt.QualifiedName())
	assert.Equal(t, demo.Comment(), rebuilt.Comment())
	assert.Equal(t, demo.Columns(), rebuilt.Columns())
	assert.Equal(t, demo.Indexes(), rebuilt.Indexes())

	_, err = catalog.Source("missing")
	assert.Error(t, err)
}

func TestSave_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	first, err := schema.NewTable("first", "", "", []schema.Column{{Name: "id", DataType: "INT"}}, nil)
	require.NoError(t, err)
	second, err := schema.NewTable("second", "", "", []schema.Column{{Name: "id", DataType: "INT"}}, nil)
	require.NoError(t, err)

	require.NoError(t, Save(path, []*schema.Table{first}, nil))
	require.NoError(t, Save(path, []*schema.Table{second}, nil))

	catalog, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, catalog.Names())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog file does not exist")
}

func TestSnapshot(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT TABLE_NAME FROM information_schema.TABLES").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_NAME"}).AddRow("users"))
	mock.ExpectQuery("SELECT TABLE_COMMENT").
		WithArgs("shop", "users").
		WillReturnRows(sqlmock.NewRows([]string{"TABLE_COMMENT"}).AddRow(""))
	mock.ExpectQuery("FROM information_schema.COLUMNS").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}).
			AddRow("id", "bigint", nil, int64(19), int64(0), "NO", nil, "PRI", ""))
	mock.ExpectQuery("FROM information_schema.STATISTICS").
		WillReturnRows(sqlmock.NewRows([]string{"INDEX_NAME", "COLUMN_NAME", "NON_UNIQUE"}))

	path := filepath.Join(t.TempDir(), "shop.db")
	err = Snapshot(database.NewMySQLWithDB(db, "shop"), nil, "shop", path, testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = os.Stat(path)
	require.NoError(t, err)

	catalog, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"shop.users"}, catalog.Names())
	assert.Equal(t, []string{"id"}, catalog.Tables["shop.users"].ColumnNames())
}
