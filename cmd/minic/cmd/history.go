package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/msto63/minilang/internal/history"
	"github.com/msto63/minilang/internal/report"
)

func newHistoryCmd(a *app) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
		Long: `Every tokenize and check run is recorded in a local SQLite database
when history.enabled is set (the default).`,
	}

	var limit, offset int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory(true)
			if err != nil {
				return err
			}

			runs, err := store.List(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			if runs == nil {
				runs = []*history.Run{}
			}
			return a.writeRuns(cmd.OutOrStdout(), runs)
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs")
	listCmd.Flags().IntVar(&offset, "offset", 0, "Number of runs to skip")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run by id or unique id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory(true)
			if err != nil {
				return err
			}

			run, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.writeRun(cmd.OutOrStdout(), run)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory(true)
			if err != nil {
				return err
			}

			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d runs\n", n)
			return nil
		},
	}

	historyCmd.AddCommand(listCmd, showCmd, clearCmd)
	return historyCmd
}

// encode writes v as JSON or YAML and reports whether the format was one of them
func (a *app) encode(w io.Writer, v interface{}) (bool, error) {
	format, _ := report.ParseFormat(a.cfg.Output.Format)
	switch format {
	case report.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case report.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

func (a *app) textRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if !a.cfg.Output.Color {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}

func (a *app) writeRuns(w io.Writer, runs []*history.Run) error {
	if done, err := a.encode(w, runs); done {
		return err
	}

	r := a.textRenderer(w)
	muted := r.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, muted.Render("(no runs recorded)"))
		return err
	}

	header := []string{"ID", "CREATED", "MODE", "OUTCOME", "TOKENS", "SOURCE"}
	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			shortID(run.ID),
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run.Mode,
			run.Outcome,
			fmt.Sprintf("%d", run.TokenCount),
			run.SourceName,
		}
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	cell := r.NewStyle().PaddingRight(2)
	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = cell.Width(widths[i] + 2).Render(c)
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	var b strings.Builder
	b.WriteString(muted.Render(line(header)))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(line(row))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (a *app) writeRun(w io.Writer, run *history.Run) error {
	if done, err := a.encode(w, run); done {
		return err
	}

	r := a.textRenderer(w)
	label := r.NewStyle().Bold(true).Width(10)

	var b strings.Builder
	field := func(name, value string) {
		if value == "" {
			return
		}
		b.WriteString(label.Render(name))
		b.WriteString(value)
		b.WriteString("\n")
	}

	field("id", run.ID)
	field("created", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	field("mode", run.Mode)
	field("source", run.SourceName)
	field("digest", run.Digest)
	field("outcome", run.Outcome)
	field("tokens", fmt.Sprintf("%d", run.TokenCount))
	field("error", strings.TrimSpace(run.ErrorCode+" "+run.ErrorMessage))
	if len(run.Symbols) > 0 {
		parts := make([]string, len(run.Symbols))
		for i, sym := range run.Symbols {
			parts[i] = sym.Name + ": " + sym.Type
		}
		field("symbols", strings.Join(parts, ", "))
	}
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(run.Source, "\n"))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
