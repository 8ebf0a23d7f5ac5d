package schema

import "strings"

// Family classifies a data type tag for rendering and value generation
type Family int

const (
	FamilyOther Family = iota
	FamilyCharacter
	FamilyNumeric
	FamilyTemporal
	FamilyBoolean
)

func (f Family) String() string {
	switch f {
	case FamilyCharacter:
		return "character"
	case FamilyNumeric:
		return "numeric"
	case FamilyTemporal:
		return "temporal"
	case FamilyBoolean:
		return "boolean"
	default:
		return "other"
	}
}

var families = map[string]Family{
	"VARCHAR":           FamilyCharacter,
	"VARCHAR2":          FamilyCharacter,
	"CHAR":              FamilyCharacter,
	"NVARCHAR":          FamilyCharacter,
	"NVARCHAR2":         FamilyCharacter,
	"NCHAR":             FamilyCharacter,
	"CHARACTER":         FamilyCharacter,
	"CHARACTER VARYING": FamilyCharacter,
	"BPCHAR":            FamilyCharacter,
	"TEXT":              FamilyCharacter,
	"CLOB":              FamilyCharacter,

	"INTEGER":          FamilyNumeric,
	"INT":              FamilyNumeric,
	"SMALLINT":         FamilyNumeric,
	"BIGINT":           FamilyNumeric,
	"TINYINT":          FamilyNumeric,
	"NUMBER":           FamilyNumeric,
	"DECIMAL":          FamilyNumeric,
	"NUMERIC":          FamilyNumeric,
	"FLOAT":            FamilyNumeric,
	"DOUBLE":           FamilyNumeric,
	"DOUBLE PRECISION": FamilyNumeric,
	"REAL":             FamilyNumeric,

	"DATE":      FamilyTemporal,
	"TIMESTAMP": FamilyTemporal,
	"DATETIME":  FamilyTemporal,

	"BOOLEAN": FamilyBoolean,
	"BOOL":    FamilyBoolean,
}

// sized lists the character types that take a (length) suffix in DDL
var sized = map[string]bool{
	"VARCHAR":           true,
	"VARCHAR2":          true,
	"CHAR":              true,
	"NVARCHAR":          true,
	"NVARCHAR2":         true,
	"NCHAR":             true,
	"CHARACTER":         true,
	"CHARACTER VARYING": true,
}

// FamilyOf returns the family of a data type tag. Matching is case-insensitive
// and ignores surrounding whitespace; "timestamp with time zone" and the like
// count as temporal.
func FamilyOf(dataType string) Family {
	key := normalizeType(dataType)
	if f, ok := families[key]; ok {
		return f
	}
	if strings.HasPrefix(key, "TIMESTAMP ") {
		return FamilyTemporal
	}
	return FamilyOther
}

// TakesLength reports whether DDL renders a (length) suffix for the type
func TakesLength(dataType string) bool {
	return sized[normalizeType(dataType)]
}

func normalizeType(dataType string) string {
	return strings.Join(strings.Fields(strings.ToUpper(dataType)), " ")
}
