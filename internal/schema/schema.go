package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Column represents a table column definition
type Column struct {
	Name       string  `json:"name"`
	DataType   string  `json:"data_type"`
	Length     *int    `json:"length,omitempty"`
	Precision  *int    `json:"precision,omitempty"`
	PrimaryKey bool    `json:"primary_key"`
	Unique     bool    `json:"unique"`
	NotNull    bool    `json:"not_null"`
	Default    *string `json:"default,omitempty"`
	Comment    *string `json:"comment,omitempty"`
	Position   int     `json:"position"`
}

// Family returns the type family of the column's data type
func (c Column) Family() Family {
	return FamilyOf(c.DataType)
}

// CommentText returns the comment or an empty string when none is set
func (c Column) CommentText() string {
	if c.Comment == nil {
		return ""
	}
	return *c.Comment
}

// Index represents a table index. Columns reference the owning table's
// columns by name.
type Index struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
	Unique  bool     `json:"unique" yaml:"unique"`
}

// Table is a validated table definition. It is built once by NewTable and is
// read-only afterwards: accessors hand out copies.
type Table struct {
	name    string
	schema  string
	comment string

	columns []Column
	byName  map[string]int
	indexes []Index
	byIndex map[string]int
}

// NewTable validates the definition and returns a Table.
//
// A table needs at least one column. Column positions that are zero are assigned from slice order; non-zero
// positions must already match it. Every index column must name a column of
// the table.
func NewTable(name, schemaName, comment string, columns []Column, indexes []Index) (*Table, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, configErr("", "table name is required")
	}
	if len(columns) == 0 {
		return nil, configErr(name, "table has no columns")
	}

	t := &Table{
		name:    name,
		schema:  strings.TrimSpace(schemaName),
		comment: comment,
		columns: make([]Column, 0, len(columns)),
		byName:  make(map[string]int, len(columns)),
		indexes: make([]Index, 0, len(indexes)),
		byIndex: make(map[string]int, len(indexes)),
	}

	for i, col := range columns {
		if strings.TrimSpace(col.Name) == "" {
			return nil, configErr(name, fmt.Sprintf("column %d has no name", i+1))
		}
		if _, dup := t.byName[col.Name]; dup {
			return nil, configErr(name, fmt.Sprintf("duplicate column %q", col.Name))
		}
		switch col.Position {
		case 0:
			col.Position = i + 1
		case i + 1:
		default:
			return nil, configErr(name, fmt.Sprintf("column %q has position %d, want %d", col.Name, col.Position, i+1))
		}
		t.byName[col.Name] = len(t.columns)
		t.columns = append(t.columns, copyColumn(col))
	}

	for _, idx := range indexes {
		if strings.TrimSpace(idx.Name) == "" {
			return nil, configErr(name, "index has no name")
		}
		if _, dup := t.byIndex[idx.Name]; dup {
			return nil, configErr(name, fmt.Sprintf("duplicate index %q", idx.Name))
		}
		if len(idx.Columns) == 0 {
			return nil, configErr(name, fmt.Sprintf("index %q has no columns", idx.Name))
		}
		for _, colName := range idx.Columns {
			if _, ok := t.byName[colName]; !ok {
				return nil, configErr(name, fmt.Sprintf("index %q references unknown column %q", idx.Name, colName))
			}
		}
		t.byIndex[idx.Name] = len(t.indexes)
		t.indexes = append(t.indexes, copyIndex(idx))
	}

	return t, nil
}

// Name returns the table name
func (t *Table) Name() string { return t.name }

// Schema returns the schema qualifier, empty when unset
func (t *Table) Schema() string { return t.schema }

// Comment returns the table comment, empty when unset
func (t *Table) Comment() string { return t.comment }

// QualifiedName returns schema.name, or name when no schema is set
func (t *Table) QualifiedName() string {
	if t.schema == "" {
		return t.name
	}
	return t.schema + "." + t.name
}

// Columns returns the columns ordered by position
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	for i, c := range t.columns {
		out[i] = copyColumn(c)
	}
	return out
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Column{}, false
	}
	return copyColumn(t.columns[i]), true
}

// ColumnNames returns the column names ordered by position
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Indexes returns the indexes in declaration order
func (t *Table) Indexes() []Index {
	out := make([]Index, len(t.indexes))
	for i, idx := range t.indexes {
		out[i] = copyIndex(idx)
	}
	return out
}

// Index looks up an index by name
func (t *Table) Index(name string) (Index, bool) {
	i, ok := t.byIndex[name]
	if !ok {
		return Index{}, false
	}
	return copyIndex(t.indexes[i]), true
}

// String returns a multi-line summary of the table
func (t *Table) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "table_name=%s\n", t.name)
	fmt.Fprintf(&b, "table_comment=%s\n", t.comment)
	fmt.Fprintf(&b, "table_schema=%s\n", t.schema)
	b.WriteString("columns:\n")
	for _, c := range t.columns {
		fmt.Fprintf(&b, "  %d %s %s\n", c.Position, c.Name, c.DataType)
	}
	b.WriteString("indexes:\n")
	for _, idx := range t.indexes {
		fmt.Fprintf(&b, "  %s (%s)\n", idx.Name, strings.Join(idx.Columns, ", "))
	}
	return b.String()
}

type tableJSON struct {
	Name    string   `json:"name"`
	Schema  string   `json:"schema,omitempty"`
	Comment string   `json:"comment,omitempty"`
	Columns []Column `json:"columns"`
	Indexes []Index  `json:"indexes"`
}

// MarshalJSON implements json.Marshaler
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{
		Name:    t.name,
		Schema:  t.schema,
		Comment: t.comment,
		Columns: t.Columns(),
		Indexes: t.Indexes(),
	})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded definition goes
// through the same validation as NewTable.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw tableJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewTable(raw.Name, raw.Schema, raw.Comment, raw.Columns, raw.Indexes)
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}

func copyColumn(c Column) Column {
	if c.Length != nil {
		c.Length = IntPtr(*c.Length)
	}
	if c.Precision != nil {
		c.Precision = IntPtr(*c.Precision)
	}
	if c.Default != nil {
		c.Default = StringPtr(*c.Default)
	}
	if c.Comment != nil {
		c.Comment = StringPtr(*c.Comment)
	}
	return c
}

func copyIndex(idx Index) Index {
	idx.Columns = append([]string(nil), idx.Columns...)
	return idx
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to v
func StringPtr(v string) *string { return &v }
