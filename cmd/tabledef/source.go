package main

import (
	"fmt"

	"github.com/koba/tabledef/internal/catalog"
	"github.com/koba/tabledef/internal/construct"
	"github.com/koba/tabledef/internal/database"
	"github.com/koba/tabledef/internal/schema"
)

// loadTable builds the table definition selected by the source flags
func loadTable() (*schema.Table, error) {
	builder := construct.NewBuilder(logger)

	switch {
	case defFile != "":
		return builder.Build(construct.NewYAMLSource(defFile))

	case columnsFile != "":
		return builder.Build(&construct.CSVSource{
			Info:        construct.TableInfo{Name: tableName, Schema: cfg.Schema, Comment: tableComment},
			ColumnsPath: columnsFile,
			IndexesPath: indexesFile,
		})

	case catalogFile != "":
		c, err := catalog.Load(catalogFile)
		if err != nil {
			return nil, err
		}
		name := tableName
		if name == "" {
			if len(c.Names()) != 1 {
				return nil, fmt.Errorf("--table is required, catalog holds %v", c.Names())
			}
			name = c.Names()[0]
		}
		src, err := c.Source(name)
		if err != nil {
			return nil, err
		}
		return builder.Build(src)

	case fromDB:
		if tableName == "" {
			return nil, fmt.Errorf("--table is required with --db")
		}
		return introspectTable(builder)

	default:
		return nil, fmt.Errorf("no table definition: use --def, --columns, --catalog or --db")
	}
}

func introspectTable(builder *construct.Builder) (*schema.Table, error) {
	dbConfig, err := cfg.Database()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db, err := database.NewDatabase(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	if err := db.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	src := db.Table(tableName)
	src.Qualifier = cfg.Schema
	return builder.Build(src)
}
