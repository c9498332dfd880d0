// Package cli implements the schemalab command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/schemalab/internal/config"
	"github.com/mesh-intelligence/schemalab/internal/demo"
	"github.com/mesh-intelligence/schemalab/internal/logging"
	"github.com/mesh-intelligence/schemalab/internal/paths"
	"github.com/mesh-intelligence/schemalab/internal/store"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// skipConfig marks commands that run without loading config.yaml.
const skipConfig = "skip-config"

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	jsonMode  bool
	logLevel  string
}

// app is the state shared by every subcommand of one root command.
type app struct {
	flags     rootFlags
	configDir string
	cfg       config.Config
	logger    *slog.Logger
	now       func() time.Time
}

// NewRootCmd creates the top-level "schemalab" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: logging.Discard(), now: time.Now}

	root := &cobra.Command{
		Use:   "schemalab",
		Short: "Hands-on relational database design",
		Long: "schemalab walks through keys, constraints, normalization, relationships,\n" +
			"data types, and naming against an in-memory set of sample tables.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: .schemalab)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newServeCmd(a),
		newTablesCmd(a),
		newInsertCmd(a),
		newDemoCmd(a),
		newNormalizeCmd(a),
		newLintNameCmd(a),
		newTypesCmd(a),
		newERDCmd(a),
		newMirrorCmd(a),
	)
	return root
}

// setup resolves the config directory, loads config.yaml, and installs the
// logger in the command context.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(errors.Wrap(err, "resolve config dir"))
	}
	a.configDir = dir

	if cmd.Annotations[skipConfig] == "" {
		cfg, err := config.Load(dir)
		if err != nil {
			return userError(err)
		}
		a.cfg = cfg
	}
	if a.flags.logLevel != "" {
		a.cfg.Log.Level = a.flags.logLevel
	}

	logger, err := logging.New(cmd.ErrOrStderr(), a.cfg.Log.Level, a.cfg.Log.Format)
	if err != nil {
		return userError(err)
	}
	a.logger = logger
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	logger.Debug("config loaded", slog.String("config_dir", dir))
	return nil
}

// session seeds a fresh store and wraps it in a demo session.
func (a *app) session() (*demo.Session, error) {
	st, err := store.NewSeeded(a.now())
	if err != nil {
		return nil, sysError(errors.Wrap(err, "seed store"))
	}
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, userError(err)
	}
	return demo.NewSession(st,
		demo.WithClock(a.now),
		demo.WithLocation(loc),
		demo.WithLogger(a.logger),
	), nil
}

// Execute runs the root command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitCode(err)
}
