package construct

import "github.com/koba/tabledef/internal/schema"

// StaticSource serves a definition held in memory
type StaticSource struct {
	Info    TableInfo
	Columns []ColumnRow
	Indexes []schema.Index
}

// ReadSchema returns the table metadata
func (s *StaticSource) ReadSchema() (TableInfo, error) {
	return s.Info, nil
}

// ReadColumns returns the column rows
func (s *StaticSource) ReadColumns() ([]ColumnRow, error) {
	return s.Columns, nil
}

// ReadIndexes returns the indexes
func (s *StaticSource) ReadIndexes() ([]schema.Index, error) {
	return s.Indexes, nil
}

// DemoSource returns a small sample definition
func DemoSource() *StaticSource {
	str := schema.StringPtr
	num := schema.IntPtr
	return &StaticSource{
		Info: TableInfo{Name: "demo_users", Schema: "demo", Comment: "Demo users table"},
		Columns: []ColumnRow{
			{Name: "id", DataType: "INTEGER", PrimaryKey: true, NotNull: true, Comment: str("Primary key")},
			{Name: "name", DataType: "VARCHAR", Length: num(100), NotNull: true, Comment: str("User name")},
			{Name: "email", DataType: "VARCHAR", Length: num(255), Unique: true, NotNull: true, Comment: str("Email address")},
			{Name: "created_at", DataType: "TIMESTAMP", NotNull: true, Default: str("CURRENT_TIMESTAMP"), Comment: str("Creation timestamp")},
			{Name: "status", DataType: "CHAR", Length: num(1), NotNull: true, Default: str("'A'"), Comment: str("Record status")},
		},
		Indexes: []schema.Index{
			{Name: "ux_demo_users_email", Columns: []string{"email"}, Unique: true},
			{Name: "ix_demo_users_status", Columns: []string{"status", "created_at"}},
		},
	}
}
