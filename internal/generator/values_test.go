package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koba/tabledef/internal/schema"
	"github.com/koba/tabledef/internal/testutil"
)

func TestLengthRatio_Apply(t *testing.T) {
	tests := []struct {
		ratio  LengthRatio
		length int
		want   int
	}{
		{RatioFull, 10, 10},
		{RatioFull, 1, 1},
		{RatioHalf, 100, 50},
		{RatioHalf, 7, 3},
		{RatioHalf, 1, 1},
		{RatioOneThird, 10, 3},
		{RatioOneThird, 2, 1},
		{RatioOneThird, 0, 1},
		{RatioFull, -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.ratio.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ratio.Apply(tt.length))
		})
	}
}

func TestParseLengthRatio(t *testing.T) {
	for in, want := range map[string]LengthRatio{
		"full": RatioFull, "1": RatioFull, "HALF": RatioHalf, "1/2": RatioHalf,
		"one_third": RatioOneThird, "1/3": RatioOneThird,
	} {
		got, err := ParseLengthRatio(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLengthRatio("quarter")
	assert.Error(t, err)
}

func TestParseFillMode(t *testing.T) {
	for in, want := range map[string]FillMode{
		"filler": FillFiller, "only_n": FillFiller, "Comment": FillComment, "comment_n": FillComment,
	} {
		got, err := ParseFillMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFillMode("random")
	assert.Error(t, err)
}

func TestValueGenerator_NumericOneThird(t *testing.T) {
	g := NewValueGenerator(WithLengthRatio(RatioOneThird))
	col := schema.Column{Name: "id", DataType: "INTEGER", Length: schema.IntPtr(10), PrimaryKey: true, NotNull: true}

	assert.Equal(t, 3, g.ActualLength(col))
	assert.Equal(t, "999", g.Value(col))
}

func TestValueGenerator_CommentPlusFiller(t *testing.T) {
	g := NewValueGenerator(WithLengthRatio(RatioHalf), WithFillMode(FillComment))
	col := schema.Column{Name: "email", DataType: "VARCHAR", Length: schema.IntPtr(100), Comment: schema.StringPtr("Email address")}

	text := g.Text(col)
	assert.Equal(t, "Email address"+strings.Repeat("N", 37), text)
	assert.Len(t, text, 50)
	assert.Equal(t, "'"+text+"'", g.Value(col))
}

func TestValueGenerator_Text(t *testing.T) {
	tests := []struct {
		name    string
		mode    FillMode
		length  *int
		comment *string
		want    string
	}{
		{"filler only", FillFiller, schema.IntPtr(5), schema.StringPtr("ignored"), "NNNNN"},
		{"no length falls back to one", FillFiller, nil, nil, "N"},
		{"zero length falls back to one", FillFiller, schema.IntPtr(0), nil, "N"},
		{"truncated comment", FillComment, schema.IntPtr(5), schema.StringPtr("Customer name"), "Custo"},
		{"exact comment", FillComment, schema.IntPtr(4), schema.StringPtr("Name"), "Name"},
		{"no comment pads", FillComment, schema.IntPtr(3), nil, "NNN"},
		{"quotes stripped", FillComment, schema.IntPtr(12), schema.StringPtr(`it's "ok"`), "its okNNNNNN"},
		{"runes not bytes", FillComment, schema.IntPtr(4), schema.StringPtr("氏名"), "氏名NN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewValueGenerator(WithFillMode(tt.mode))
			col := schema.Column{Name: "c", DataType: "VARCHAR", Length: tt.length, Comment: tt.comment}
			assert.Equal(t, tt.want, g.Text(col))
		})
	}
}

func TestValueGenerator_NoQuotesInText(t *testing.T) {
	comments := []string{`'`, `"`, `''''`, `a'b"c`, `"quoted" 'single'`, `'"'"'"'"'"'"'"'"`}
	for _, ratio := range []LengthRatio{RatioFull, RatioHalf, RatioOneThird} {
		g := NewValueGenerator(WithLengthRatio(ratio), WithFillMode(FillComment))
		for _, c := range comments {
			for _, length := range []int{1, 3, 8, 40} {
				text := g.Text(schema.Column{Name: "c", DataType: "CHAR", Length: schema.IntPtr(length), Comment: schema.StringPtr(c)})
				assert.NotContains(t, text, "'")
				assert.NotContains(t, text, `"`)
				assert.Equal(t, ratio.Apply(length), len([]rune(text)))
			}
		}
	}
}

func TestValueGenerator_Literal(t *testing.T) {
	g := NewValueGenerator()

	tests := []struct {
		col  schema.Column
		want string
	}{
		{schema.Column{Name: "n", DataType: "NUMBER"}, "999999999"},
		{schema.Column{Name: "n", DataType: "DECIMAL", Length: schema.IntPtr(4)}, "9999"},
		{schema.Column{Name: "d", DataType: "DATE"}, "DATE '9999-12-31'"},
		{schema.Column{Name: "d", DataType: "TIMESTAMP WITH TIME ZONE"}, "DATE '9999-12-31'"},
		{schema.Column{Name: "b", DataType: "BOOLEAN"}, "TRUE"},
		{schema.Column{Name: "x", DataType: "BLOB"}, "NULL"},
		{schema.Column{Name: "s", DataType: "VARCHAR2", Length: schema.IntPtr(2)}, "'NN'"},
	}

	for _, tt := range tests {
		t.Run(tt.col.DataType, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Literal(tt.col))
		})
	}
}

func TestValueGenerator_DefaultOverrides(t *testing.T) {
	g := NewValueGenerator()

	assert.Equal(t, "'A'", g.Value(schema.Column{Name: "s", DataType: "CHAR", Length: schema.IntPtr(1), Default: schema.StringPtr("'A'")}))
	assert.Equal(t, "CURRENT_TIMESTAMP", g.Value(schema.Column{Name: "t", DataType: "TIMESTAMP", Default: schema.StringPtr("CURRENT_TIMESTAMP")}))
	assert.Equal(t, "'NNN'", g.Value(schema.Column{Name: "s", DataType: "VARCHAR", Length: schema.IntPtr(3), Default: schema.StringPtr("null")}))
	assert.Equal(t, "99", g.Value(schema.Column{Name: "n", DataType: "INT", Length: schema.IntPtr(2), Default: schema.StringPtr("NULL")}))
}

func TestValueGenerator_Options(t *testing.T) {
	g := NewValueGenerator(WithFiller('x'), WithMaxDate("'9999-12-31'"))
	assert.Equal(t, "xxx", g.Text(schema.Column{Name: "c", DataType: "CHAR", Length: schema.IntPtr(3)}))
	assert.Equal(t, "'9999-12-31'", g.Literal(schema.Column{Name: "d", DataType: "DATETIME"}))

	quoted := NewValueGenerator(WithFiller('\''))
	assert.Equal(t, "NN", quoted.Text(schema.Column{Name: "c", DataType: "CHAR", Length: schema.IntPtr(2)}))
}

func TestValueGenerator_Setters(t *testing.T) {
	g := NewValueGenerator(WithValueLogger(testutil.NewTestLogger(t)))
	assert.Equal(t, RatioFull, g.LengthRatio())
	assert.Equal(t, FillFiller, g.FillMode())

	g.SetLengthRatio(RatioOneThird)
	g.SetFillMode(FillComment)
	assert.Equal(t, RatioOneThird, g.LengthRatio())
	assert.Equal(t, FillComment, g.FillMode())

	col := schema.Column{Name: "c", DataType: "VARCHAR", Length: schema.IntPtr(9), Comment: schema.StringPtr("Label")}
	assert.Equal(t, "'Lab'", g.Value(col))
}

func TestValueGenerator_Generate(t *testing.T) {
	g := NewValueGenerator(WithLengthRatio(RatioHalf), WithFillMode(FillComment))

	f, err := g.Generate(demoTable(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "email", "created_at", "status"}, f.Names())
	assert.Equal(t, []string{
		"9999",
		"'User name" + strings.Repeat("N", 41) + "'",
		"'Email address" + strings.Repeat("N", 114) + "'",
		"CURRENT_TIMESTAMP",
		"'A'",
	}, f.Literals())
	assert.Equal(t, "VARCHAR", f.Rows[1].DataType)
	require.NotNil(t, f.Rows[1].Length)
	assert.Equal(t, 100, *f.Rows[1].Length)

	again, err := g.Generate(demoTable(t))
	require.NoError(t, err)
	assert.Equal(t, f, again)
}

func TestValueGenerator_GenerateNilTable(t *testing.T) {
	f, err := NewValueGenerator().Generate(nil)
	assert.Nil(t, f)
	assert.ErrorIs(t, err, ErrPrecondition)
}
