package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasmparse/wasm"
)

func newSectionsCommand(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "sections <file.wasm>",
		Short: "List sections with offsets and sizes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := gs.loadModule(args[0])
			if err != nil {
				return err
			}
			p := palette{enabled: gs.color()}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "INDEX\tID\tKIND\tNAME\tOFFSET\tSIZE\tENTRIES")
			for i := range m.Sections {
				s := &m.Sections[i]
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t%d\t%s\n",
					i, byte(s.ID), p.render(sectionStyle, s.Kind()), sectionName(s),
					s.Offset, s.PayloadLen, entries(s))
			}
			return w.Flush()
		},
	}
}

func sectionName(s *wasm.Section) string {
	if s.Name == nil {
		return "-"
	}
	return *s.Name
}

func entries(s *wasm.Section) string {
	switch body := s.Body.(type) {
	case nil, *wasm.CustomSection, *wasm.StartSection:
		return "-"
	default:
		return fmt.Sprint(body.Len())
	}
}
