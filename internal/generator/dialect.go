package generator

import (
	"sort"
	"strings"
	"sync"
)

// Dialect describes the syntax differences the generators care about
type Dialect struct {
	Name string
	// Terminator ends every statement
	Terminator string
	// InlineComments renders comments as column/table options instead of
	// COMMENT ON statements
	InlineComments bool
	// IfNotExists enables CREATE TABLE IF NOT EXISTS
	IfNotExists bool
	// Temporary is the keyword sequence for temporary tables
	Temporary string
	// MaxDate is the literal used for temporal test values
	MaxDate string
}

// Built-in dialect names
const (
	Oracle   = "oracle"
	Postgres = "postgres"
	MySQL    = "mysql"
)

// DefaultMaxDate is the temporal literal for dialects with ANSI date literals
const DefaultMaxDate = "DATE '9999-12-31'"

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]*Dialect{
		Oracle: {
			Name:       Oracle,
			Terminator: ";",
			Temporary:  "GLOBAL TEMPORARY",
			MaxDate:    DefaultMaxDate,
		},
		Postgres: {
			Name:        Postgres,
			Terminator:  ";",
			IfNotExists: true,
			Temporary:   "TEMPORARY",
			MaxDate:     DefaultMaxDate,
		},
		MySQL: {
			Name:           MySQL,
			Terminator:     ";",
			InlineComments: true,
			IfNotExists:    true,
			Temporary:      "TEMPORARY",
			MaxDate:        "'9999-12-31'",
		},
	}
)

// RegisterDialect adds or replaces a dialect
func RegisterDialect(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name)] = d
}

// LookupDialect returns a dialect by case-insensitive name
func LookupDialect(name string) (*Dialect, error) {
	dialectsMu.RLock()
	d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	dialectsMu.RUnlock()
	if !ok {
		return nil, &UnsupportedDialectError{Dialect: name, Supported: Dialects()}
	}
	return d, nil
}

// Dialects returns the registered dialect names (sorted)
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
