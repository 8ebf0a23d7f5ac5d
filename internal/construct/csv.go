package construct

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/koba/tabledef/internal/schema"
)

// Column listing field names, in file order
const (
	FieldName       = "name"
	FieldDataType   = "data_type"
	FieldLength     = "length"
	FieldPrecision  = "precision"
	FieldPrimaryKey = "primary_key"
	FieldUnique     = "unique"
	FieldNotNull    = "not_null"
	FieldDefault    = "default"
	FieldComment    = "comment"
)

// ColumnHeader is the header row of a column listing
var ColumnHeader = []string{
	FieldName, FieldDataType, FieldLength, FieldPrecision,
	FieldPrimaryKey, FieldUnique, FieldNotNull, FieldDefault, FieldComment,
}

// CSVSource reads a column listing, and optionally an index listing, from CSV
// files. Table metadata is supplied by the caller.
//
// The index file has the header name,columns,unique with columns separated
// by '|'.
type CSVSource struct {
	Info        TableInfo
	ColumnsPath string
	IndexesPath string
}

// ReadSchema returns the configured table metadata
func (s *CSVSource) ReadSchema() (TableInfo, error) {
	return s.Info, nil
}

// ReadColumns parses the column listing file
func (s *CSVSource) ReadColumns() ([]ColumnRow, error) {
	f, err := os.Open(s.ColumnsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open column listing: %w", err)
	}
	defer f.Close()

	return ReadColumnRows(f)
}

// ReadIndexes parses the index listing file, if one is configured
func (s *CSVSource) ReadIndexes() ([]schema.Index, error) {
	if s.IndexesPath == "" {
		return nil, nil
	}

	f, err := os.Open(s.IndexesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index listing: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse index listing: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	pos, err := HeaderIndex(records[0], "name", "columns")
	if err != nil {
		return nil, err
	}

	var indexes []schema.Index
	for line, rec := range records[1:] {
		idx := schema.Index{Name: field(rec, pos, "name")}
		for _, col := range strings.Split(field(rec, pos, "columns"), "|") {
			if col = strings.TrimSpace(col); col != "" {
				idx.Columns = append(idx.Columns, col)
			}
		}
		if idx.Unique, err = parseBool(field(rec, pos, "unique")); err != nil {
			return nil, fmt.Errorf("index listing line %d: %w", line+2, err)
		}
		indexes = append(indexes, idx)
	}

	return indexes, nil
}

// ReadColumnRows parses a CSV column listing. The header row names the
// fields; name and data_type are required, the rest may be missing.
func ReadColumnRows(r io.Reader) ([]ColumnRow, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse column listing: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("column listing is empty")
	}

	pos, err := HeaderIndex(records[0], FieldName, FieldDataType)
	if err != nil {
		return nil, err
	}

	rows := make([]ColumnRow, 0, len(records)-1)
	for line, rec := range records[1:] {
		row, err := ParseColumnRecord(pos, rec)
		if err != nil {
			return nil, fmt.Errorf("column listing line %d: %w", line+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// HeaderIndex maps header names to their position and checks that the
// required names are present
func HeaderIndex(header []string, required ...string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range required {
		if _, ok := pos[name]; !ok {
			return nil, fmt.Errorf("missing required column %q in header", name)
		}
	}
	return pos, nil
}

// ParseColumnRecord decodes one CSV record using a header index.
// Empty cells decode to nil for the optional fields.
func ParseColumnRecord(pos map[string]int, rec []string) (ColumnRow, error) {
	row := ColumnRow{
		Name:     field(rec, pos, FieldName),
		DataType: field(rec, pos, FieldDataType),
		Default:  optString(field(rec, pos, FieldDefault)),
		Comment:  optString(field(rec, pos, FieldComment)),
	}

	var err error
	if row.Length, err = optInt(field(rec, pos, FieldLength)); err != nil {
		return row, fmt.Errorf("length: %w", err)
	}
	if row.Precision, err = optInt(field(rec, pos, FieldPrecision)); err != nil {
		return row, fmt.Errorf("precision: %w", err)
	}
	if row.PrimaryKey, err = parseBool(field(rec, pos, FieldPrimaryKey)); err != nil {
		return row, fmt.Errorf("primary_key: %w", err)
	}
	if row.Unique, err = parseBool(field(rec, pos, FieldUnique)); err != nil {
		return row, fmt.Errorf("unique: %w", err)
	}
	if row.NotNull, err = parseBool(field(rec, pos, FieldNotNull)); err != nil {
		return row, fmt.Errorf("not_null: %w", err)
	}
	return row, nil
}

// Record encodes the row in ColumnHeader order. Nil fields become empty cells.
func (r ColumnRow) Record() []string {
	return []string{
		r.Name,
		r.DataType,
		formatInt(r.Length),
		formatInt(r.Precision),
		strconv.FormatBool(r.PrimaryKey),
		strconv.FormatBool(r.Unique),
		strconv.FormatBool(r.NotNull),
		formatString(r.Default),
		formatString(r.Comment),
	}
}

func field(rec []string, pos map[string]int, name string) string {
	i, ok := pos[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optInt accepts spreadsheet-style "100.0" as well as "100"
func optInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil, nil
	}
	s = strings.TrimSuffix(s, ".0")
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return &n, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0", "no", "n":
		return false, nil
	case "true", "1", "yes", "y", "x":
		return true, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
