package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/koba/tabledef/internal/catalog"
	"github.com/koba/tabledef/internal/config"
	"github.com/koba/tabledef/internal/construct"
	"github.com/koba/tabledef/internal/database"
	"github.com/koba/tabledef/internal/frame"
	"github.com/koba/tabledef/internal/generator"
)

var (
	cfgFile string

	// definition source
	defFile      string
	columnsFile  string
	indexesFile  string
	catalogFile  string
	fromDB       bool
	tableName    string
	tableComment string

	// outputs
	frameFile   string
	exportFile  string
	outFile     string
	catalogPath string

	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tabledef",
	Short: "Table definition DDL and test data generator",
	Long: `A tool that reads a table definition and generates dialect-specific DDL,
synthetic test values and INSERT statements for it.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Generate CREATE TABLE DDL",
	Long:  `Generate CREATE TABLE, COMMENT and CREATE INDEX statements for a table definition.`,
	Args:  cobra.NoArgs,
	RunE:  runDDL,
}

var valuesCmd = &cobra.Command{
	Use:   "values",
	Short: "Generate synthetic test values",
	Long:  `Generate one literal per column and display them. Use --out to save the values for the insert command.`,
	Args:  cobra.NoArgs,
	RunE:  runValues,
}

var insertCmd = &cobra.Command{
	Use:   "insert",
	Short: "Generate INSERT statements",
	Long:  `Generate INSERT statements from freshly generated values, or from a values file saved with --frame.`,
	Args:  cobra.NoArgs,
	RunE:  runInsert,
}

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Generate DDL followed by INSERT statements",
	Args:  cobra.NoArgs,
	RunE:  runScript,
}

var introspectCmd = &cobra.Command{
	Use:   "introspect [table...]",
	Short: "Store table definitions from a live database in a catalog",
	Long: `Read table definitions from a MySQL or PostgreSQL database and save them to a
catalog file for offline generation. Without arguments every table is stored.`,
	RunE: runIntrospect,
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run every generator against a built-in sample table",
	Args:  cobra.NoArgs,
	RunE:  runDemo,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ./tabledef.yaml)")
	pf.String("dialect", generator.Oracle, "SQL dialect ("+strings.Join(generator.Dialects(), ", ")+")")
	pf.String("length-ratio", "full", "Share of declared length to fill (full, half, one_third)")
	pf.String("fill-mode", "filler", "Character fill mode (filler, comment)")
	pf.String("filler", "N", "Filler character")
	pf.Int("rows", 1, "Number of rows to insert")
	pf.Bool("batch", false, "Generate one multi-row INSERT statement")
	pf.String("schema", "", "Schema qualifier for generated statements")
	pf.Bool("if-not-exists", false, "Add IF NOT EXISTS where the dialect supports it")
	pf.Bool("temporary", false, "Create a temporary table")
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.String("db-type", "", "Database type for introspection (mysql, postgres)")
	pf.String("db-host", "localhost", "Database host")
	pf.String("db-port", "", "Database port (default: by type)")
	pf.String("db-name", "", "Database name")
	pf.String("db-user", "", "Database user")
	pf.String("db-password", "", "Database password")
	pf.String("db-schema", "", "PostgreSQL namespace to introspect (default: public)")

	for _, cmd := range []*cobra.Command{ddlCmd, valuesCmd, insertCmd, scriptCmd} {
		addSourceFlags(cmd)
	}

	valuesCmd.Flags().StringVarP(&outFile, "out", "o", "", "Save the generated values to a CSV file")
	insertCmd.Flags().StringVar(&frameFile, "frame", "", "Use values saved by the values command instead of generating")
	insertCmd.Flags().StringVar(&exportFile, "export", "", "Also write the statements to a CSV file")
	introspectCmd.Flags().StringVarP(&catalogPath, "out", "o", "catalog.db", "Catalog file to write")

	rootCmd.AddCommand(ddlCmd)
	rootCmd.AddCommand(valuesCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(introspectCmd)
	rootCmd.AddCommand(demoCmd)
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&defFile, "def", "", "YAML table definition file")
	cmd.Flags().StringVar(&columnsFile, "columns", "", "Column listing CSV file")
	cmd.Flags().StringVar(&indexesFile, "indexes", "", "Index listing CSV file (with --columns)")
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "Catalog file written by introspect")
	cmd.Flags().BoolVar(&fromDB, "db", false, "Read the table from the configured database")
	cmd.Flags().StringVarP(&tableName, "table", "t", "", "Table name (with --columns, --catalog or --db)")
	cmd.Flags().StringVar(&tableComment, "table-comment", "", "Table comment (with --columns)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func runDDL(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}

	ddl, err := generator.CreateTable(table, cfg.Dialect, cfg.DDLOptions()...)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ddl)
	return nil
}

func runValues(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}

	f, err := newValueGenerator().Generate(table)
	if err != nil {
		return err
	}

	f.Render(cmd.OutOrStdout())

	if outFile != "" {
		if err := f.Save(outFile); err != nil {
			return err
		}
		logger.Info("values saved", slog.String("path", outFile))
	}
	return nil
}

func runInsert(cmd *cobra.Command, args []string) error {
	var (
		f   *frame.Frame
		req = generator.InsertRequest{Schema: cfg.Schema, Rows: cfg.Rows, ExportPath: exportFile}
	)

	if frameFile != "" {
		if tableName == "" {
			return fmt.Errorf("--table is required with --frame")
		}
		loaded, err := frame.Load(frameFile)
		if err != nil {
			return err
		}
		f = loaded
		req.Table = tableName
	} else {
		table, err := loadTable()
		if err != nil {
			return err
		}
		f, err = newValueGenerator().Generate(table)
		if err != nil {
			return err
		}
		req.Table = table.Name()
		if req.Schema == "" {
			req.Schema = table.Schema()
		}
	}

	b := generator.NewInsertBuilder(f, logger)
	out := cmd.OutOrStdout()
	if cfg.Batch {
		stmt, err := b.BatchInsert(req)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, stmt)
		return nil
	}

	statements, err := b.Insert(req)
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		fmt.Fprintln(out, stmt)
	}
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	table, err := loadTable()
	if err != nil {
		return err
	}

	script, err := generator.GenerateScript(table, cfg.Dialect, newValueGenerator(), generator.ScriptOptions{
		DDL:   cfg.DDLOptions(),
		Rows:  cfg.Rows,
		Batch: cfg.Batch,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), script)
	return nil
}

func runIntrospect(cmd *cobra.Command, args []string) error {
	dbConfig, err := cfg.Database()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db, err := database.NewDatabase(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := db.Connect(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	logger.Info("introspecting", slog.String("database", dbConfig.Database), slog.String("path", catalogPath))
	if err := catalog.Snapshot(db, args, cfg.Schema, catalogPath, logger); err != nil {
		return fmt.Errorf("failed to create catalog: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Catalog created successfully: %s\n", catalogPath)
	return nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	table, err := construct.NewBuilder(logger).Build(construct.DemoSource())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "=== %s ===\n%s\n", table.QualifiedName(), table)

	ddl, err := generator.CreateTable(table, cfg.Dialect, cfg.DDLOptions()...)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "=== DDL (%s) ===\n%s\n\n", cfg.Dialect, ddl)

	f, err := newValueGenerator().Generate(table)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "=== Values ===")
	f.Render(out)

	b := generator.NewInsertBuilder(f, logger)
	req := generator.InsertRequest{Table: table.Name(), Schema: table.Schema(), Rows: max(cfg.Rows, 1)}

	statements, err := b.Insert(req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n=== INSERT ===\n%s\n", strings.Join(statements, "\n"))

	batch, err := b.BatchInsert(req)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n=== Batch INSERT ===\n%s\n", batch)
	return nil
}

func newValueGenerator() *generator.ValueGenerator {
	opts := append(cfg.ValueOptions(), generator.WithValueLogger(logger))
	return generator.NewValueGenerator(opts...)
}
