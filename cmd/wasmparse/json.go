package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newJSONCommand(gs *globalState) *cobra.Command {
	var indent bool
	cmd := &cobra.Command{
		Use:   "json <file.wasm>",
		Short: "Print the decoded module as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := gs.loadModule(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			if indent {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(m)
		},
	}
	cmd.Flags().BoolVar(&indent, "indent", false, "indent the output")
	return cmd
}
