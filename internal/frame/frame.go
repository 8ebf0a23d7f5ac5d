// Package frame holds the tabular (column, generated literal) representation
// produced by the value generator, and its CSV file form.
package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/koba/tabledef/internal/construct"
)

// FieldGenerated is the header name of the generated literal column
const FieldGenerated = "generated_value"

// Header is the header row of a frame file
var Header = append(append([]string(nil), construct.ColumnHeader...), FieldGenerated)

// Row is one column definition plus its generated literal
type Row struct {
	construct.ColumnRow
	Generated string
}

// Frame is an ordered list of rows, one per table column
type Frame struct {
	Rows []Row
}

// Len returns the number of rows; a nil frame has none
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Names returns the column names in row order
func (f *Frame) Names() []string {
	names := make([]string, len(f.Rows))
	for i, r := range f.Rows {
		names[i] = r.Name
	}
	return names
}

// Literals returns the generated literals in row order
func (f *Frame) Literals() []string {
	literals := make([]string, len(f.Rows))
	for i, r := range f.Rows {
		literals[i] = r.Generated
	}
	return literals
}

// WriteCSV writes the frame with a header row
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range f.Rows {
		if err := cw.Write(append(r.Record(), r.Generated)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a frame written by WriteCSV
func ReadCSV(r io.Reader) (*Frame, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse frame: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("frame file is empty")
	}

	pos, err := construct.HeaderIndex(records[0], construct.FieldName, FieldGenerated)
	if err != nil {
		return nil, err
	}

	f := &Frame{Rows: make([]Row, 0, len(records)-1)}
	for line, rec := range records[1:] {
		col, err := construct.ParseColumnRecord(pos, rec)
		if err != nil {
			return nil, fmt.Errorf("frame line %d: %w", line+2, err)
		}
		generated := ""
		if i := pos[FieldGenerated]; i < len(rec) {
			generated = rec[i]
		}
		if generated == "" {
			return nil, fmt.Errorf("frame line %d: %s is empty", line+2, FieldGenerated)
		}
		f.Rows = append(f.Rows, Row{ColumnRow: col, Generated: generated})
	}
	return f, nil
}

// Save writes the frame to a CSV file
func (f *Frame) Save(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create frame file: %w", err)
	}
	if err := f.WriteCSV(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write frame file: %w", err)
	}
	return file.Close()
}

// Load reads a frame from a CSV file
func Load(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame file: %w", err)
	}
	defer file.Close()

	return ReadCSV(file)
}

// Render prints the frame as a table
func (f *Frame) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Name", "Type", "Length", "Comment", "Generated"})

	for i, r := range f.Rows {
		var length, comment string
		if r.Length != nil {
			length = strconv.Itoa(*r.Length)
		}
		if r.Comment != nil {
			comment = *r.Comment
		}
		t.AppendRow(table.Row{i + 1, r.Name, r.DataType, length, comment, r.Generated})
	}
	t.Render()
}

// ExportStatements writes statements to a single-column CSV file
func ExportStatements(path, header string, statements []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	cw := csv.NewWriter(file)
	if err := cw.Write([]string{header}); err != nil {
		file.Close()
		return fmt.Errorf("failed to write export file: %w", err)
	}
	for _, stmt := range statements {
		if err := cw.Write([]string{stmt}); err != nil {
			file.Close()
			return fmt.Errorf("failed to write export file: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		file.Close()
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return file.Close()
}
