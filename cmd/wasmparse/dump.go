package main

import (
	"github.com/spf13/cobra"

	"github.com/wippyai/wasmparse/wasm"
)

func newDumpCommand(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <file.wasm>",
		Short: "Print every section as an indented text tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := gs.loadModule(args[0])
			if err != nil {
				return err
			}
			return wasm.Dump(cmd.OutOrStdout(), m, palette{enabled: gs.color()}.dumpStyle())
		},
	}
}
