// Package cli implements the pandora command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/G-Node/pandora/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	logLevel  string
	jsonMode  bool
}

// app is the state shared by one command tree: flags, the loaded
// configuration and the logger built from it.
type app struct {
	root  *cobra.Command
	flags rootFlags
	cfg   *viper.Viper
	log   zerolog.Logger
}

// NewRootCmd creates the top-level "pandora" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}
	root := &cobra.Command{
		Use:   "pandora",
		Short: "Inspect and edit annotated scientific datasets",
		Long: "Pandora manages roots of blocks, data arrays, tags and sources together\n" +
			"with their metadata section trees, stored as a SQLite container file\n" +
			"or as a directory tree.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	a.root = root

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "directory holding named roots (default: $(CWD)/.pandora)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage engine: sqlite or dirtree (default: sqlite)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		a.newInitCmd(),
		a.newInfoCmd(),
		a.newTreeCmd(),
		a.newBlockCmd(),
		a.newSectionCmd(),
		a.newPropertyCmd(),
		a.newValidateCmd(),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "pandora:", err)
		os.Exit(exitCode(err))
	}
}

// setup loads config.yaml and builds the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return &exitError{code: exitSysError, err: err}
	}
	a.cfg = cfg

	level, err := zerolog.ParseLevel(cfg.GetString(cfgKeyLogLevel))
	if err != nil {
		return &exitError{code: exitUserError, err: fmt.Errorf("log level: %w", err)}
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(level).
		With().Timestamp().Str("cmd", cmd.Name()).Logger()
	return nil
}

// exitError carries the process exit code for an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userErrors are the sentinels caused by bad input rather than by the
// system.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrOutOfBounds,
	types.ErrDuplicateName,
	types.ErrInvalidName,
	types.ErrReadOnly,
	types.ErrTypeMismatch,
	types.ErrInvalidDataType,
	types.ErrInvalidShape,
	types.ErrBackendUnknown,
	types.ErrBackendEmpty,
	types.ErrFormatInvalid,
}

// fail classifies err from a storage operation and prefixes it with op.
func fail(op string, err error) error {
	code := exitSysError
	for _, target := range userErrors {
		if errors.Is(err, target) {
			code = exitUserError
			break
		}
	}
	return &exitError{code: code, err: fmt.Errorf("%s: %w", op, err)}
}

// exitCode maps an error returned by Execute to the process exit code.
// Errors cobra produces itself (unknown commands, bad flags, wrong argument
// counts) are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
