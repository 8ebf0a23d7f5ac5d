package construct

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/koba/tabledef/internal/schema"
)

// yamlDocument is the on-disk shape of a YAML table definition:
//
//	name: users
//	schema: app
//	comment: Registered users
//	columns:
//	  - {name: id, data_type: INTEGER, primary_key: true, not_null: true}
//	indexes:
//	  - {name: ux_users_email, columns: [email], unique: true}
type yamlDocument struct {
	TableInfo `yaml:",inline"`
	Columns   []ColumnRow    `yaml:"columns"`
	Indexes   []schema.Index `yaml:"indexes"`
}

// YAMLSource reads a table definition from a YAML document.
// The document is parsed once, on ReadSchema.
type YAMLSource struct {
	Path string
	Data []byte

	doc *yamlDocument
}

// NewYAMLSource creates a source reading from a file
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{Path: path}
}

// ReadSchema parses the document and returns the table metadata
func (s *YAMLSource) ReadSchema() (TableInfo, error) {
	doc, err := s.load()
	if err != nil {
		return TableInfo{}, err
	}
	return doc.TableInfo, nil
}

// ReadColumns returns the column rows
func (s *YAMLSource) ReadColumns() ([]ColumnRow, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Columns, nil
}

// ReadIndexes returns the indexes
func (s *YAMLSource) ReadIndexes() ([]schema.Index, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Indexes, nil
}

func (s *YAMLSource) load() (*yamlDocument, error) {
	if s.doc != nil {
		return s.doc, nil
	}

	data := s.Data
	if data == nil {
		var err error
		data, err = os.ReadFile(s.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read definition file: %w", err)
		}
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse definition file: %w", err)
	}
	s.doc = &doc
	return s.doc, nil
}
