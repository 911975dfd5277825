// Package cli wires sqlkitgen's cobra commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sqlkit-dev/sqlkit/internal/util"
)

// BuildInfo carries version metadata stamped in at link time.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Execute builds the root command tree and runs it against os.Args.
func Execute(ctx context.Context, info BuildInfo) error {
	rootCmd := newRootCommand()
	rootCmd.AddCommand(
		newGenerateCommand(),
		newFragmentCheckCommand(),
		newVersionCommand(info),
	)

	return util.WrapError("execute command", rootCmd.ExecuteContext(ctx))
}

func newRootCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sqlkitgen",
		Short: "sqlkit schema codegen and fragment diagnostics",
		Long: `sqlkitgen introspects a PostgreSQL/TimescaleDB database and emits
Go source describing its schema for use with sqlkit's fragment builders,
and offers a diagnostic command for compiling a fragment without running it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("sqlkitgen %s\n", info.Version)
			fmt.Printf("  commit:     %s\n", info.Commit)
			fmt.Printf("  built:      %s\n", info.BuildTime)
		},
	}
}
