package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// Format selects the report encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat resolves a format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", name)
	}
}

// Options configures a Renderer
type Options struct {
	Format Format
	Color  bool
}

// Renderer writes documents in one format
type Renderer struct {
	options Options
}

// NewRenderer creates a renderer
func NewRenderer(opts Options) *Renderer {
	if opts.Format == "" {
		opts.Format = FormatText
	}
	return &Renderer{options: opts}
}

// Format returns the configured format
func (r *Renderer) Format() Format {
	return r.options.Format
}

// Render writes doc to w
func (r *Renderer) Render(w io.Writer, doc *Document) error {
	switch r.options.Format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(w, r.text(w, doc))
		return err
	}
}

func (r *Renderer) text(w io.Writer, doc *Document) string {
	renderer := lipgloss.NewRenderer(w)
	if !r.options.Color {
		renderer.SetColorProfile(termenv.Ascii)
	}
	s := newStyles(renderer)

	var b strings.Builder

	b.WriteString(s.heading.Render("Input Program:"))
	b.WriteString("\n")
	if doc.SourceName != "" {
		b.WriteString(s.muted.Render("(" + doc.SourceName + ")"))
		b.WriteString("\n")
	}
	b.WriteString(strings.TrimRight(doc.Source, "\n"))
	b.WriteString("\n\n")

	b.WriteString(s.heading.Render("Lexical Analysis:"))
	b.WriteString("\n")
	if doc.Outcome == OutcomeLexical || (doc.Mode == ModeTokenize && doc.Error != nil) {
		b.WriteString(s.errorPanel("Lexical Error", doc.Error))
		b.WriteString("\n")
		return b.String()
	}
	if doc.Error != nil && len(doc.Tokens) == 0 && doc.Outcome == OutcomeRejected {
		b.WriteString(s.errorPanel("Rejected", doc.Error))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(s.tokenTable(doc))
	b.WriteString("\n")
	if len(doc.Stats) > 0 {
		b.WriteString(s.stats(doc))
		b.WriteString("\n")
	}

	if doc.Mode == ModeTokenize {
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(s.heading.Render("Syntax Analysis:"))
	b.WriteString("\n")
	if doc.Error != nil {
		b.WriteString(s.errorPanel("Syntax Error", doc.Error))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(s.ok.Render("Syntax Analysis Completed Successfully!"))
	b.WriteString("\n\n")
	b.WriteString(s.heading.Render("Symbol Table:"))
	b.WriteString("\n")
	b.WriteString(s.symbolTable(doc))
	b.WriteString("\n")

	return b.String()
}

type styles struct {
	heading lipgloss.Style
	muted   lipgloss.Style
	ok      lipgloss.Style
	errBox  lipgloss.Style
	errHead lipgloss.Style
	kind    lipgloss.Style
	cell    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		ok:      r.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		errBox: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#EF4444")).
			Padding(0, 1),
		errHead: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		kind:    r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		cell:    r.NewStyle().PaddingRight(2),
	}
}

func (s styles) tokenTable(doc *Document) string {
	if len(doc.Tokens) == 0 {
		return s.muted.Render("  (no tokens)")
	}

	kindWidth, lexemeWidth := len("KIND"), len("LEXEME")
	for _, tok := range doc.Tokens {
		kindWidth = max(kindWidth, len(tok.Kind.String()))
		lexemeWidth = max(lexemeWidth, lipgloss.Width(tok.Lexeme))
	}

	var rows []string
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		s.cell.Width(6).Render("  #"),
		s.cell.Width(kindWidth+2).Render("KIND"),
		s.cell.Width(lexemeWidth+2).Render("LEXEME"),
		"POS",
	)
	rows = append(rows, s.muted.Render(header))

	for i, tok := range doc.Tokens {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			s.cell.Width(6).Render(fmt.Sprintf("%3d", i+1)),
			s.cell.Width(kindWidth+2).Inherit(s.kind).Render(tok.Kind.String()),
			s.cell.Width(lexemeWidth+2).Render(tok.Lexeme),
			fmt.Sprintf("%d:%d", tok.Line, tok.Column),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (s styles) stats(doc *Document) string {
	parts := make([]string, len(doc.Stats))
	total := 0
	for i, kc := range doc.Stats {
		parts[i] = fmt.Sprintf("%s=%d", kc.Kind, kc.Count)
		total += kc.Count
	}
	return s.muted.Render(fmt.Sprintf("%d tokens: %s", total, strings.Join(parts, " ")))
}

func (s styles) symbolTable(doc *Document) string {
	if len(doc.Symbols) == 0 {
		return s.muted.Render("  (empty)")
	}

	width := len("NAME")
	for _, sym := range doc.Symbols {
		width = max(width, lipgloss.Width(sym.Name))
	}

	rows := []string{s.muted.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		s.cell.Width(width+4).Render("  NAME"), "TYPE"))}
	for _, sym := range doc.Symbols {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			s.cell.Width(width+4).Render("  "+sym.Name),
			s.kind.Render(sym.Type),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (s styles) errorPanel(title string, info *ErrorInfo) string {
	if info == nil {
		return ""
	}

	lines := []string{
		s.errHead.Render(title + ": " + info.Message),
	}
	if len(info.Details) > 0 {
		keys := make([]string, 0, len(info.Details))
		for k := range info.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, s.muted.Render(fmt.Sprintf("%s: %v", k, info.Details[k])))
		}
	}
	lines = append(lines, s.muted.Render("code: "+info.Code))

	return s.errBox.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
