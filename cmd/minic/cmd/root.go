package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mlerror "github.com/msto63/minilang/foundation/core/error"
	mllog "github.com/msto63/minilang/foundation/core/log"
	"github.com/msto63/minilang/foundation/lang"
	"github.com/msto63/minilang/internal/history"
	"github.com/msto63/minilang/internal/report"
	"github.com/msto63/minilang/internal/runner"
	"github.com/msto63/minilang/pkg/core/config"
	"github.com/msto63/minilang/pkg/core/logging"
)

// app holds the state shared by all subcommands of one invocation
type app struct {
	cfgFile string
	verbose bool
	output  string

	cfg    *config.Config
	logger *mllog.Logger
	store  *history.SQLiteStore
}

// NewRootCmd builds the minic command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "minic",
		Short: "minilang - typed mini-language front end",
		Long: `minic tokenizes and grammar-checks programs written in minilang,
a small language of typed variable declarations and arithmetic assignments.

  x, y: integer;
  x := (9 * 10) + 8;

Source is read from a file argument, from -e/--expr, or from stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default: $"+config.EnvConfig+" or ./configs/minic.toml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "", "Output format: text, json or yaml")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err.Error())
	})

	rootCmd.AddCommand(
		newTokenizeCmd(a),
		newCheckCmd(a),
		newDemoCmd(a),
		newHistoryCmd(a),
		newServeCmd(a),
		newVersionCmd(a),
	)

	return rootCmd
}

// Execute runs the CLI with os.Args
func Execute() error {
	return ExecuteContext(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// ExecuteContext runs the CLI with explicit arguments and streams. Program
// rejections are already part of the rendered report and are not repeated on
// stderr.
func ExecuteContext(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !isProgramError(err) {
		fmt.Fprintf(stderr, "minic: %v\n", err)
	}
	return err
}

// ExitCode maps an execution error to the process exit status:
// 0 success, 1 rejected program, 2 usage or configuration, 3 internal
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if _, ok := mlerror.As(err); !ok {
		// cobra argument and command errors
		return 2
	}
	return mlerror.GetCode(err).ExitStatus()
}

func isProgramError(err error) bool {
	code := mlerror.GetCode(err)
	return code == mlerror.CodeLexical || code == mlerror.CodeSyntax
}

func usageError(message string) error {
	return mlerror.New(message).WithCode(mlerror.CodeInvalidInput)
}

// setup loads configuration and builds the logger
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if a.output != "" {
		a.cfg.Output.Format = a.output
	}
	if _, err := report.ParseFormat(a.cfg.Output.Format); err != nil {
		return usageError(err.Error())
	}

	level := a.cfg.General.LogLevel
	if a.verbose {
		level = "debug"
	}
	a.logger = logging.NewLogger(logging.LoggerConfig{
		ServiceName: "minic",
		Level:       level,
		Format:      a.cfg.General.LogFormat,
		Output:      cmd.ErrOrStderr(),
	})

	return nil
}

// close releases the history store
func (a *app) close() {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
}

// openHistory opens the run history. required controls whether a disabled
// or unavailable history is an error.
func (a *app) openHistory(required bool) (*history.SQLiteStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	if !a.cfg.History.Enabled {
		if required {
			return nil, mlerror.New("run history is disabled").
				WithCode(mlerror.CodeConfigError).
				WithDetail("key", "history.enabled")
		}
		return nil, nil
	}

	store, err := history.NewSQLiteStore(history.Config{Path: a.cfg.History.Path})
	if err != nil {
		if required {
			return nil, err
		}
		a.logger.WarnWithErr("run history unavailable", err)
		return nil, nil
	}
	a.store = store
	return store, nil
}

// newRunner builds the runner with the configured engine and history
func (a *app) newRunner() (*runner.Runner, error) {
	engine := lang.New(lang.Options{
		Logger:         a.logger,
		MaxInputLength: a.cfg.Frontend.MaxInputLength,
	})

	store, err := a.openHistory(false)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return runner.New(engine, nil, a.logger), nil
	}
	return runner.New(engine, store, a.logger), nil
}

func (a *app) renderer() *report.Renderer {
	format, _ := report.ParseFormat(a.cfg.Output.Format)
	return report.NewRenderer(report.Options{
		Format: format,
		Color:  a.cfg.Output.Color,
	})
}
