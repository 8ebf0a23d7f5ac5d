package generator

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/koba/tabledef/internal/construct"
	"github.com/koba/tabledef/internal/frame"
	"github.com/koba/tabledef/internal/schema"
)

// LengthRatio is the share of a column's declared length that generated
// values fill
type LengthRatio int

const (
	RatioFull LengthRatio = iota
	RatioHalf
	RatioOneThird
)

// Apply returns max(1, floor(length * ratio)); non-positive lengths give 1
func (r LengthRatio) Apply(length int) int {
	if length <= 0 {
		return 1
	}
	var n int
	switch r {
	case RatioHalf:
		n = length / 2
	case RatioOneThird:
		n = length / 3
	default:
		n = length
	}
	return max(1, n)
}

func (r LengthRatio) String() string {
	switch r {
	case RatioHalf:
		return "half"
	case RatioOneThird:
		return "one_third"
	default:
		return "full"
	}
}

// ParseLengthRatio accepts full, half, one_third and the fractions 1, 1/2, 1/3
func ParseLengthRatio(s string) (LengthRatio, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "1", "":
		return RatioFull, nil
	case "half", "1/2":
		return RatioHalf, nil
	case "one_third", "one-third", "third", "1/3":
		return RatioOneThird, nil
	default:
		return RatioFull, fmt.Errorf("invalid length ratio %q (want full, half or one_third)", s)
	}
}

// FillMode selects how character values are filled
type FillMode int

const (
	// FillFiller repeats the filler character
	FillFiller FillMode = iota
	// FillComment starts with the column comment and pads with filler
	FillComment
)

func (m FillMode) String() string {
	if m == FillComment {
		return "comment"
	}
	return "filler"
}

// ParseFillMode accepts filler or comment
func ParseFillMode(s string) (FillMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "filler", "only_n", "":
		return FillFiller, nil
	case "comment", "comment_n":
		return FillComment, nil
	default:
		return FillFiller, fmt.Errorf("invalid fill mode %q (want filler or comment)", s)
	}
}

const (
	// DefaultFiller pads generated character values
	DefaultFiller = 'N'

	fallbackCharLength    = 1
	fallbackNumericLength = 9
)

// ValueOption configures a ValueGenerator
type ValueOption func(*ValueGenerator)

// WithLengthRatio sets the length ratio
func WithLengthRatio(r LengthRatio) ValueOption {
	return func(g *ValueGenerator) { g.ratio = r }
}

// WithFillMode sets the fill mode
func WithFillMode(m FillMode) ValueOption {
	return func(g *ValueGenerator) { g.mode = m }
}

// WithFiller sets the filler character. Quote characters are ignored.
func WithFiller(r rune) ValueOption {
	return func(g *ValueGenerator) {
		if r != '\'' && r != '"' && r != 0 {
			g.filler = r
		}
	}
}

// WithMaxDate sets the temporal literal, normally a dialect's MaxDate
func WithMaxDate(literal string) ValueOption {
	return func(g *ValueGenerator) { g.maxDate = literal }
}

// WithValueLogger sets the logger for setting changes
func WithValueLogger(logger *slog.Logger) ValueOption {
	return func(g *ValueGenerator) { g.logger = logger }
}

// ValueGenerator derives one synthetic literal per column. Output depends
// only on the column and the generator settings.
type ValueGenerator struct {
	ratio   LengthRatio
	mode    FillMode
	filler  rune
	maxDate string
	logger  *slog.Logger
}

// NewValueGenerator creates a generator with full length, filler-only mode
// and DefaultMaxDate unless overridden
func NewValueGenerator(opts ...ValueOption) *ValueGenerator {
	g := &ValueGenerator{
		ratio:   RatioFull,
		mode:    FillFiller,
		filler:  DefaultFiller,
		maxDate: DefaultMaxDate,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LengthRatio returns the current length ratio
func (g *ValueGenerator) LengthRatio() LengthRatio { return g.ratio }

// FillMode returns the current fill mode
func (g *ValueGenerator) FillMode() FillMode { return g.mode }

// SetLengthRatio changes the length ratio
func (g *ValueGenerator) SetLengthRatio(r LengthRatio) {
	g.ratio = r
	g.logger.Debug("length ratio set", slog.String("ratio", r.String()))
}

// SetFillMode changes the fill mode
func (g *ValueGenerator) SetFillMode(m FillMode) {
	g.mode = m
	g.logger.Debug("fill mode set", slog.String("mode", m.String()))
}

// Generate builds the frame for a table: every column in position order
// with its generated literal
func (g *ValueGenerator) Generate(table *schema.Table) (*frame.Frame, error) {
	if table == nil {
		return nil, &PreconditionError{Op: "generate values", Reason: "no table definition"}
	}

	columns := table.Columns()
	rows := construct.FromColumns(columns)
	f := &frame.Frame{Rows: make([]frame.Row, len(columns))}
	for i, col := range columns {
		f.Rows[i] = frame.Row{ColumnRow: rows[i], Generated: g.Value(col)}
	}
	return f, nil
}

// Value returns the literal for a column: its declared default unless that
// is absent or NULL, otherwise a synthesized value
func (g *ValueGenerator) Value(col schema.Column) string {
	if col.Default != nil {
		def := strings.TrimSpace(*col.Default)
		if def != "" && !strings.EqualFold(def, "NULL") {
			return *col.Default
		}
	}
	return g.Literal(col)
}

// Literal synthesizes a SQL literal from the column's type family
func (g *ValueGenerator) Literal(col schema.Column) string {
	switch col.Family() {
	case schema.FamilyCharacter:
		return "'" + g.Text(col) + "'"
	case schema.FamilyNumeric:
		return strings.Repeat("9", g.ActualLength(col))
	case schema.FamilyTemporal:
		return g.maxDate
	case schema.FamilyBoolean:
		return "TRUE"
	default:
		return "NULL"
	}
}

// ActualLength returns the generated length for a column
func (g *ValueGenerator) ActualLength(col schema.Column) int {
	declared := 0
	if col.Length != nil {
		declared = *col.Length
	}
	if declared <= 0 {
		if col.Family() == schema.FamilyNumeric {
			declared = fallbackNumericLength
		} else {
			declared = fallbackCharLength
		}
	}
	return g.ratio.Apply(declared)
}

// Text returns the unquoted content of a character value. It never contains
// quote characters. Lengths count characters, not bytes.
func (g *ValueGenerator) Text(col schema.Column) string {
	n := g.ActualLength(col)
	if g.mode != FillComment {
		return strings.Repeat(string(g.filler), n)
	}

	comment := []rune(sanitize(col.CommentText()))
	if len(comment) >= n {
		return string(comment[:n])
	}
	return string(comment) + strings.Repeat(string(g.filler), n-len(comment))
}

func sanitize(s string) string {
	return strings.NewReplacer("'", "", `"`, "").Replace(s)
}
