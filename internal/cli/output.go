// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// output.go - Result rendering for the msgcmd CLI.
//
// Handler results are printed either as styled text or as one JSONResponse
// document per message. JSON is highlighted with chroma on a terminal and
// help text is rendered with glamour.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/msgcmd/internal/commands"
)

// =============================================================================
// JSON RESPONSE
// =============================================================================

// JSONResponse is the document written for each message in --json mode.
type JSONResponse struct {
	Success bool `json:"success"`

	// Data is the handler result, converted to a JSON-friendly view
	Data any `json:"data"`

	Error     *string `json:"error"`
	ErrorKind string  `json:"error_kind,omitempty"`
	Timestamp string  `json:"timestamp"`

	// Command is the resolved command path
	Command string `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      jsonData(data),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	errStr := err.Error()
	return &JSONResponse{
		Success:   false,
		Error:     &errStr,
		ErrorKind: errorKind(err),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// ContextView is the serializable form of a commands.Context.
type ContextView struct {
	ID      string         `json:"id"`
	Command string         `json:"command"`
	Message string         `json:"message"`
	Tokens  []TokenView    `json:"tokens"`
	Flags   map[string]any `json:"flags"`
	Args    []string       `json:"args"`
}

// TokenView is the serializable form of a commands.Token.
type TokenView struct {
	Type  commands.TokenType `json:"type"`
	Raw   string             `json:"raw"`
	Value any                `json:"value,omitempty"`
}

// CompletionView is the serializable form of a commands.Completion.
type CompletionView struct {
	Value       string             `json:"value"`
	Kind        commands.TokenType `json:"kind"`
	Description string             `json:"description,omitempty"`
}

// NewContextView converts ctx for output.
func NewContextView(ctx *commands.Context) ContextView {
	view := ContextView{
		ID:      ctx.ID,
		Command: ctx.Command.Path(),
		Message: ctx.Message,
		Tokens:  make([]TokenView, 0, len(ctx.Tokens)),
		Flags:   make(map[string]any, len(ctx.Flags)),
		Args:    ctx.Args,
	}
	for _, tok := range ctx.Tokens {
		tv := TokenView{Type: tok.Type, Raw: tok.Raw}
		if tok.Flag != nil {
			tv.Value = tok.Flag.Value
		}
		view.Tokens = append(view.Tokens, tv)
	}
	for name, fv := range ctx.Flags {
		view.Flags[name] = fv.Value
	}
	return view
}

// helpText is returned by the help built-in so the printer can choose
// between plain and rendered output.
type helpText struct {
	Text     string
	Markdown string
}

func jsonData(result any) any {
	switch v := result.(type) {
	case *commands.Context:
		return NewContextView(v)
	case helpText:
		return v.Text
	case []commands.Completion:
		views := make([]CompletionView, 0, len(v))
		for _, c := range v {
			views = append(views, CompletionView{Value: c.Value, Kind: c.Kind, Description: c.Description})
		}
		return views
	default:
		return v
	}
}

// =============================================================================
// PRINTER
// =============================================================================

// Printer writes handler results and errors.
type Printer struct {
	Out  io.Writer
	Err  io.Writer
	JSON bool

	// Color enables styled text, highlighted JSON and rendered Markdown
	Color bool

	// Style is the chroma style used to highlight JSON
	Style string

	WordWrap int

	markdown *glamour.TermRenderer
}

// Result prints a handler result. command is the resolved command path.
func (p *Printer) Result(command string, result any) error {
	if p.JSON {
		return p.writeJSON(NewJSONResponse(command, result))
	}

	switch v := result.(type) {
	case nil:
		return nil
	case string:
		_, err := fmt.Fprintln(p.Out, v)
		return err
	case []string:
		_, err := fmt.Fprintln(p.Out, strings.Join(v, "\n"))
		return err
	case helpText:
		_, err := fmt.Fprint(p.Out, p.renderHelp(v))
		return err
	case *commands.Context:
		_, err := fmt.Fprint(p.Out, p.renderContext(v))
		return err
	case []commands.Completion:
		var b strings.Builder
		for _, c := range v {
			fmt.Fprintf(&b, "%s  %s\n", c.Value, p.style(DimStyle.Render, c.Description))
		}
		_, err := fmt.Fprint(p.Out, b.String())
		return err
	default:
		_, err := fmt.Fprintf(p.Out, "%v\n", v)
		return err
	}
}

// Error prints err. In JSON mode it goes to Out so every message produces
// exactly one document there.
func (p *Printer) Error(command string, err error) {
	if err == nil {
		return
	}
	if p.JSON {
		_ = p.writeJSON(NewJSONErrorResponse(command, err))
		return
	}
	fmt.Fprintf(p.Err, "%s %s\n", p.style(ErrorStyle.Render, "[ERROR]"), err.Error())
}

// Notice prints an informational line to Err.
func (p *Printer) Notice(format string, args ...any) {
	fmt.Fprintln(p.Err, p.style(DimStyle.Render, fmt.Sprintf(format, args...)))
}

// Warn prints a warning line to Err.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintln(p.Err, p.style(WarningStyle.Render, fmt.Sprintf(format, args...)))
}

func (p *Printer) style(render func(...string) string, s string) string {
	if !p.Color {
		return s
	}
	return render(s)
}

// label pads name to the label column, styled when colors are on.
func (p *Printer) label(name string) string {
	if !p.Color {
		return fmt.Sprintf("%-14s", name)
	}
	return LabelStyle.Render(name)
}

func (p *Printer) writeJSON(resp *JSONResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	out := string(data)
	if p.Color {
		out = highlightJSON(out, p.Style)
	}
	_, err = fmt.Fprintln(p.Out, out)
	return err
}

// renderHelp renders Markdown help through glamour when colors are on and
// falls back to the plain column layout.
func (p *Printer) renderHelp(h helpText) string {
	if !p.Color || h.Markdown == "" {
		return h.Text
	}
	if p.markdown == nil {
		wrap := p.WordWrap
		if wrap <= 0 {
			wrap = GetTerminalWidth()
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return h.Text
		}
		p.markdown = r
	}
	rendered, err := p.markdown.Render(h.Markdown)
	if err != nil {
		return h.Text
	}
	return rendered
}

func (p *Printer) renderContext(ctx *commands.Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s%s\n", p.label("Command"), p.style(TitleStyle.Render, ctx.Command.Path()))
	fmt.Fprintf(&b, "%s%s\n", p.label("Invocation"), ctx.ID)

	parts := make([]string, 0, len(ctx.Tokens))
	for _, tok := range ctx.Tokens {
		label := fmt.Sprintf("%s(%s)", tok.Raw, tok.Type)
		if style, ok := tokenStyles[tok.Type.String()]; ok {
			label = p.style(style.Render, label)
		}
		parts = append(parts, label)
	}
	fmt.Fprintf(&b, "%s%s\n", p.label("Tokens"), strings.Join(parts, " "))

	if len(ctx.Flags) > 0 {
		names := make([]string, 0, len(ctx.Flags))
		for name := range ctx.Flags {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(&b, "%s\n", p.label("Flags"))
		for _, name := range names {
			fmt.Fprintf(&b, "  --%s = %s\n", name, ctx.Flags[name].String())
		}
	}

	fmt.Fprintf(&b, "%s%q\n", p.label("Args"), ctx.Args)
	return b.String()
}

// highlightJSON colors src for a 256-color terminal. On any failure the
// source is returned unchanged.
func highlightJSON(src, styleName string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return src
	}
	return buf.String()
}
