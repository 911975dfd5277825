package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sqlkit-dev/sqlkit/internal/util"
	"github.com/sqlkit-dev/sqlkit/sqlkit"
)

// fragmentCheckSpec is the diagnostic input format: a table plus an
// equality-predicate map, mirroring sqlkit.Select's (table, where)
// shortcut signature closely enough to exercise the compiler without a
// live connection.
type fragmentCheckSpec struct {
	Table   string         `yaml:"table"`
	Where   map[string]any `yaml:"where"`
	Columns []string       `yaml:"columns"`
	OrderBy string         `yaml:"order_by"`
	Limit   *int           `yaml:"limit"`
}

type fragmentCheckConfig struct {
	specFile string
}

func newFragmentCheckCommand() *cobra.Command {
	cfg := &fragmentCheckConfig{}

	cmd := &cobra.Command{
		Use:   "fragment-check",
		Short: "Compile a SELECT fragment from a YAML spec and print its SQL",
		Long: `Reads a small YAML description of a table, WHERE predicate, column
list, ordering, and limit, builds the equivalent sqlkit.Select fragment,
and prints the compiled SQL text and positional parameter values without
ever opening a database connection.`,
		Example: `  sqlkitgen fragment-check --spec ./query.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFragmentCheck(cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.specFile, "spec", "", "Path to a YAML fragment-check spec")
	cmd.MarkFlagRequired("spec") //nolint:errcheck

	return cmd
}

func runFragmentCheck(cfg *fragmentCheckConfig) error {
	raw, err := os.ReadFile(cfg.specFile)
	if err != nil {
		return util.WrapError("read spec file", err)
	}

	var spec fragmentCheckSpec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return util.WrapError("parse spec file", err)
	}

	if spec.Table == "" {
		return fmt.Errorf("fragment-check: spec is missing a table")
	}

	opts := sqlkit.SelectOptions{}
	if len(spec.Columns) > 0 {
		opts.Columns = spec.Columns
	}

	if spec.OrderBy != "" {
		opts.Order = []sqlkit.OrderSpec{{By: spec.OrderBy}}
	}

	opts.Limit = spec.Limit

	frag := sqlkit.Select(spec.Table, sqlkit.PredicateMap(spec.Where), opts)

	compiled, err := frag.Compile()
	if err != nil {
		return util.WrapError("compile fragment", err)
	}

	fmt.Println(compiled.Text)

	for i, v := range compiled.Values {
		fmt.Printf("  $%d = %#v\n", i+1, v)
	}

	return nil
}
