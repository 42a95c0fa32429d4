package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	mlerror "github.com/msto63/minilang/foundation/core/error"
	"github.com/msto63/minilang/foundation/lang"
)

func newTokenizeCmd(a *app) *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "tokenize [file]",
		Short: "Split a program into classified tokens",
		Long: `Runs the lexer only and prints the token sequence.

Examples:
  minic tokenize program.ml
  minic tokenize -e "x := 3.14;"
  echo "a, b: real;" | minic tokenize -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readSource(cmd, args, expr)
			if err != nil {
				return err
			}

			r, err := a.newRunner()
			if err != nil {
				return err
			}

			doc, runErr := r.Tokenize(cmd.Context(), name, source)
			if err := a.renderer().Render(cmd.OutOrStdout(), doc); err != nil {
				return mlerror.Wrap(err, "failed to render report").WithCode(mlerror.CodeInternal)
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "Program text given inline")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Tokenize and grammar-check a program",
		Long: `Runs the lexer and the grammar checker and prints the tokens, the
verdict and the symbol table of declared variables.

Exit status is 0 when the program is accepted and 1 when it is rejected.

Examples:
  minic check program.ml
  minic check -e "x, y: integer; x := (9 * 10) + 8;"
  cat program.ml | minic check -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, source, err := readSource(cmd, args, expr)
			if err != nil {
				return err
			}

			r, err := a.newRunner()
			if err != nil {
				return err
			}

			doc, runErr := r.Check(cmd.Context(), name, source)
			if err := a.renderer().Render(cmd.OutOrStdout(), doc); err != nil {
				return mlerror.Wrap(err, "failed to render report").WithCode(mlerror.CodeInternal)
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&expr, "expr", "e", "", "Program text given inline")
	return cmd
}

func newDemoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Check the built-in sample program",
		Long: `Runs the built-in sample program through both stages:

  ` + lang.DemoSource + `

The sample is rejected by the grammar checker; the command still exits 0
because the rejection is the expected result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newRunner()
			if err != nil {
				return err
			}

			doc, runErr := r.Check(cmd.Context(), "demo", lang.DemoSource)
			if err := a.renderer().Render(cmd.OutOrStdout(), doc); err != nil {
				return mlerror.Wrap(err, "failed to render report").WithCode(mlerror.CodeInternal)
			}
			if runErr != nil && !isProgramError(runErr) {
				return runErr
			}
			return nil
		},
	}
}

// readSource resolves the program text from -e, a file argument or stdin
func readSource(cmd *cobra.Command, args []string, expr string) (name, source string, err error) {
	if expr != "" {
		if len(args) > 0 {
			return "", "", usageError("use either a file argument or --expr, not both")
		}
		return "<expr>", expr, nil
	}

	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			code := mlerror.CodeInvalidInput
			if os.IsNotExist(err) {
				code = mlerror.CodeNotFound
			}
			return "", "", mlerror.Wrap(err, "failed to read source file").
				WithCode(code).
				WithDetail("path", args[0])
		}
		return filepath.Base(args[0]), string(data), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		if stat, err := f.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
			return "", "", usageError("no source given: pass a file, use --expr or pipe the program on stdin")
		}
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", "", mlerror.Wrap(err, "failed to read stdin").WithCode(mlerror.CodeInvalidInput)
	}
	return "<stdin>", string(data), nil
}
