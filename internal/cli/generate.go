package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sqlkit-dev/sqlkit/internal/extractor"
	"github.com/sqlkit-dev/sqlkit/internal/generator"
	"github.com/sqlkit-dev/sqlkit/internal/util"
	"github.com/sqlkit-dev/sqlkit/pkg/database"
)

type generateConfig struct {
	databaseURL         string
	outputFile          string
	packageName         string
	excludeSchemas      []string
	includeSystemTables bool
}

func newGenerateCommand() *cobra.Command {
	cfg := &generateConfig{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Introspect a database and emit Go row/column definitions",
		Long: `Connect to a live PostgreSQL database, walk its catalog, and emit a
single Go source file with one row struct, column-name slice, and
unique-index slice per table, plus a type, constants, and an ordered
values slice per enum.`,
		Example: `  # Generate into ./dbschema/schema_generated.go
  sqlkitgen generate --database-url "$DATABASE_URL" --output ./dbschema/schema_generated.go

  # Change the emitted package name
  sqlkitgen generate --database-url "$DATABASE_URL" --output ./dbschema/schema_generated.go --package dbschema`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.databaseURL, "database-url", "", "PostgreSQL connection URL")
	cmd.Flags().StringVar(&cfg.outputFile, "output", "./schema_generated.go", "Output file path")
	cmd.Flags().StringVar(&cfg.packageName, "package", "dbschema", "Emitted package name")
	cmd.Flags().StringSliceVar(&cfg.excludeSchemas, "exclude-schema", nil, "Additional schemas to exclude")
	cmd.Flags().BoolVar(&cfg.includeSystemTables, "include-system-tables", false, "Include system catalog tables")

	cmd.MarkFlagRequired("database-url") //nolint:errcheck

	return cmd
}

func runGenerate(ctx context.Context, cfg *generateConfig) error {
	pool, err := database.NewPoolFromURL(ctx, cfg.databaseURL)
	if err != nil {
		return util.WrapError("connect to database", err)
	}
	defer pool.Close()

	ext, err := extractor.New(ctx, pool, extractor.Options{
		ExcludeSchemas:      cfg.excludeSchemas,
		IncludeSystemTables: cfg.includeSystemTables,
	})
	if err != nil {
		return util.WrapError("build extractor", err)
	}

	fmt.Fprintf(os.Stderr, "Introspecting schema...\n")

	db, err := ext.Extract(ctx)
	if err != nil {
		return util.WrapError("extract schema", err)
	}

	fmt.Fprintf(os.Stderr, "Found %d tables\n", len(db.Tables))

	gen := generator.New(&generator.Options{PackageName: cfg.packageName})

	src, err := gen.Generate(db)
	if err != nil {
		return util.WrapError("generate source", err)
	}

	if err := os.WriteFile(cfg.outputFile, src, 0o644); err != nil { //nolint:gosec
		return util.WrapError("write output file", err)
	}

	fmt.Fprintf(os.Stderr, "Wrote %s\n", cfg.outputFile)

	return nil
}
