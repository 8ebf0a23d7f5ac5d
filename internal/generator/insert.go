package generator

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/koba/tabledef/internal/frame"
)

// Export CSV headers
const (
	InsertHeader      = "insert_statements"
	BatchInsertHeader = "batch_insert_statement"
)

// InsertRequest describes the statements to build
type InsertRequest struct {
	Table  string
	Schema string
	// Rows is the number of rows; every row carries the same literals
	Rows int
	// ExportPath, when set, also writes the statements to a CSV file
	ExportPath string
}

// InsertBuilder generates INSERT statements from a generated frame
type InsertBuilder struct {
	frame  *frame.Frame
	logger *slog.Logger
}

// NewInsertBuilder creates a builder over a generated or loaded frame
func NewInsertBuilder(f *frame.Frame, logger *slog.Logger) *InsertBuilder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &InsertBuilder{frame: f, logger: logger}
}

// Insert returns one INSERT statement per requested row
func (b *InsertBuilder) Insert(req InsertRequest) ([]string, error) {
	if err := b.check("insert", req); err != nil {
		return nil, err
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		qualify(req.Schema, req.Table),
		strings.Join(b.frame.Names(), ", "),
		strings.Join(b.frame.Literals(), ", "),
	)

	statements := make([]string, req.Rows)
	for i := range statements {
		statements[i] = stmt
	}

	if req.ExportPath != "" {
		if err := b.export(req.ExportPath, InsertHeader, statements); err != nil {
			return nil, err
		}
	}
	return statements, nil
}

// BatchInsert returns a single INSERT statement with one tuple per row
func (b *InsertBuilder) BatchInsert(req InsertRequest) (string, error) {
	if err := b.check("batch insert", req); err != nil {
		return "", err
	}

	tuple := "(" + strings.Join(b.frame.Literals(), ", ") + ")"
	tuples := make([]string, req.Rows)
	for i := range tuples {
		tuples[i] = "  " + tuple
	}

	stmt := fmt.Sprintf("INSERT INTO %s (%s)\nVALUES\n%s;",
		qualify(req.Schema, req.Table),
		strings.Join(b.frame.Names(), ", "),
		strings.Join(tuples, ",\n"),
	)

	if req.ExportPath != "" {
		if err := b.export(req.ExportPath, BatchInsertHeader, []string{stmt}); err != nil {
			return "", err
		}
	}
	return stmt, nil
}

func (b *InsertBuilder) check(op string, req InsertRequest) error {
	if b.frame.Len() == 0 {
		return &PreconditionError{Op: op, Reason: "no generated values; generate or load a frame first"}
	}
	if strings.TrimSpace(req.Table) == "" {
		return &PreconditionError{Op: op, Reason: "table name is required"}
	}
	if req.Rows < 1 {
		return fmt.Errorf("%s: rows must be at least 1, got %d", op, req.Rows)
	}
	return nil
}

func (b *InsertBuilder) export(path, header string, statements []string) error {
	if err := frame.ExportStatements(path, header, statements); err != nil {
		return err
	}
	b.logger.Debug("statements exported",
		slog.String("path", path),
		slog.Int("statements", len(statements)))
	return nil
}

func qualify(schemaName, name string) string {
	if schemaName == "" {
		return name
	}
	return schemaName + "." + name
}
