package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(gs *globalState) *cobra.Command {
	root := &cobra.Command{
		Use:   "wasmparse",
		Short: "Decode and inspect WebAssembly binary modules",
		Long: `wasmparse decodes WebAssembly 1.0 binary modules into their sections
and prints them as a text tree, JSON or a summary table, or opens an
interactive section browser.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return gs.setup()
		},
	}
	root.SetOut(gs.stdout)
	root.SetErr(gs.stderr)
	root.SetIn(gs.stdin)

	flags := root.PersistentFlags()
	flags.StringVar(&gs.flags.logLevel, "log-level", gs.flags.logLevel,
		"log level: debug, info, warn or error (env "+envLogLevel+")")
	flags.StringVar(&gs.flags.maxAlloc, "max-alloc", gs.flags.maxAlloc,
		"largest single allocation, e.g. 64M; empty uses the input size (env "+envMaxAlloc+")")
	flags.BoolVar(&gs.flags.noColor, "no-color", gs.flags.noColor,
		"disable colored output (env "+envNoColor+")")
	flags.BoolVar(&gs.flags.skipLengthCheck, "skip-length-check", gs.flags.skipLengthCheck,
		"skip unread section bytes instead of failing")

	root.AddCommand(
		newDumpCommand(gs),
		newJSONCommand(gs),
		newSectionsCommand(gs),
		newBrowseCommand(gs),
		newVersionCommand(),
	)
	return root
}
