package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasmparse"
	"github.com/wippyai/wasmparse/wasm"
)

// Environment variables read for flag defaults.
const (
	envLogLevel = "WASMPARSE_LOG_LEVEL"
	envMaxAlloc = "WASMPARSE_MAX_ALLOC"
	envNoColor  = "NO_COLOR"
)

// globalState carries everything a command touches in the process
// environment, so commands can run against buffers in tests.
type globalState struct {
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
	getenv func(string) string
	logger *zap.Logger

	flags    globalFlags
	maxAlloc int64

	stdoutTTY bool
	stderrTTY bool
}

type globalFlags struct {
	logLevel        string
	maxAlloc        string
	noColor         bool
	skipLengthCheck bool
}

func newGlobalState() *globalState {
	return &globalState{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		stdin:     os.Stdin,
		getenv:    os.Getenv,
		logger:    zap.NewNop(),
		stdoutTTY: term.IsTerminal(int(os.Stdout.Fd())),
		stderrTTY: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// defaultFlags derives flag defaults from the environment.
func defaultFlags(getenv func(string) string) globalFlags {
	f := globalFlags{logLevel: "warn"}
	if v := getenv(envLogLevel); v != "" {
		f.logLevel = v
	}
	if v := getenv(envMaxAlloc); v != "" {
		f.maxAlloc = v
	}
	if getenv(envNoColor) != "" {
		f.noColor = true
	}
	return f
}

// setup resolves the parsed flags. It runs before every command.
func (gs *globalState) setup() error {
	n, err := parseSize(gs.flags.maxAlloc)
	if err != nil {
		return fmt.Errorf("invalid --max-alloc: %w", err)
	}
	gs.maxAlloc = n

	logger, err := newLogger(gs.flags.logLevel, gs.stderr, gs.stderrTTY && !gs.flags.noColor)
	if err != nil {
		return err
	}
	gs.logger = logger
	wasm.SetLogger(logger)
	return nil
}

// color reports whether stdout output should carry ANSI styling.
func (gs *globalState) color() bool {
	return gs.stdoutTTY && !gs.flags.noColor
}

func (gs *globalState) parseOptions() *wasm.Options {
	return &wasm.Options{
		MaxAllocation:   gs.maxAlloc,
		SkipLengthCheck: gs.flags.skipLengthCheck,
		Logger:          gs.logger,
	}
}

func (gs *globalState) loadModule(path string) (*wasm.Module, error) {
	gs.logger.Debug("parsing module", zap.String("path", path))
	return wasmparse.ParseFile(path, gs.parseOptions())
}

// parseSize parses a byte count with an optional K, M or G suffix (powers of 1024).
// The empty string means no limit.
func parseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	mult := int64(1)
	switch suffix := strings.ToUpper(s[len(s)-1:]); suffix {
	case "K":
		mult = 1 << 10
	case "M":
		mult = 1 << 20
	case "G":
		mult = 1 << 30
	}
	if mult != 1 {
		s = s[:len(s)-1]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative size %d", n)
	}
	if n > (1<<63-1)/mult {
		return 0, fmt.Errorf("size %s overflows", s)
	}
	return n * mult, nil
}
