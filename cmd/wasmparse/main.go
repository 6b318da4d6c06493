// Command wasmparse decodes WebAssembly binary modules and prints their
// sections.
//
// Usage:
//
//	wasmparse dump <file.wasm>
//	wasmparse json [--indent] <file.wasm>
//	wasmparse sections <file.wasm>
//	wasmparse browse <file.wasm>
package main

import (
	"fmt"
	"os"
)

func main() {
	gs := newGlobalState()
	if err := run(gs, os.Args[1:]); err != nil {
		p := palette{enabled: gs.stderrTTY && !gs.flags.noColor}
		fmt.Fprintln(gs.stderr, p.render(errorStyle, "Error: "+err.Error()))
		os.Exit(1)
	}
}

func run(gs *globalState, args []string) error {
	gs.flags = defaultFlags(gs.getenv)
	cmd := newRootCommand(gs)
	cmd.SetArgs(args)
	defer func() {
		if gs.logger != nil {
			_ = gs.logger.Sync()
		}
	}()
	return cmd.Execute()
}
