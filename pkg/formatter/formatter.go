// Package formatter renders machine configurations as trace output.
package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thomasrohde/simple/go/pkg/ast"
	"github.com/thomasrohde/simple/go/pkg/evaluator"
	"github.com/thomasrohde/simple/go/pkg/machine"
)

// Style selects the trace rendering.
type Style string

const (
	// StyleText is the plain display form, one configuration per line.
	StyleText Style = "text"
	// StyleInspect wraps nodes and bound values in <<...>>.
	StyleInspect Style = "inspect"
	// StyleJSON writes one JSON object per configuration (NDJSON).
	StyleJSON Style = "json"
)

// Styles lists the accepted styles.
var Styles = []Style{StyleText, StyleInspect, StyleJSON}

var (
	stepStyle     = color.New(color.FgHiBlue)
	terminalStyle = color.New(color.FgGreen, color.Bold)
)

// ParseStyle converts a style name to a Style.
func ParseStyle(s string) (Style, error) {
	for _, st := range Styles {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown trace format %q (want one of text, inspect, json)", s)
}

// Format renders one configuration in the given style, without a newline.
func Format(c machine.Configuration, style Style) (string, error) {
	switch style {
	case StyleText, "":
		return c.String(), nil
	case StyleInspect:
		return inspect(c), nil
	case StyleJSON:
		b, err := json.Marshal(toRecord(c))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "", fmt.Errorf("unknown trace format %q", style)
}

func inspect(c machine.Configuration) string {
	if c.Mode != machine.ModeStatement {
		return ast.Inspect(c.Expr)
	}
	var sb strings.Builder
	sb.WriteString(ast.Inspect(c.Stmt))
	sb.WriteString(", {")
	for i, b := range c.Env.Bindings() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.Name)
		sb.WriteString(" -> ")
		sb.WriteString(ast.Inspect(b.Value))
	}
	sb.WriteByte('}')
	return sb.String()
}

// traceRecord is the JSON shape of a configuration.
type traceRecord struct {
	Step        int        `json:"step"`
	Mode        string     `json:"mode"`
	Kind        string     `json:"kind"`
	Node        string     `json:"node"`
	Environment orderedEnv `json:"environment"`
	Terminal    bool       `json:"terminal"`
}

func toRecord(c machine.Configuration) traceRecord {
	n := c.Node()
	return traceRecord{
		Step:        c.Step,
		Mode:        string(c.Mode),
		Kind:        n.Kind(),
		Node:        n.String(),
		Environment: orderedEnv{env: c.Env},
		Terminal:    c.Terminal(),
	}
}

// orderedEnv preserves binding order in JSON output.
type orderedEnv struct {
	env *evaluator.Env
}

func (o orderedEnv) MarshalJSON() ([]byte, error) {
	bindings := o.env.Bindings()
	if len(bindings) == 0 {
		return []byte("{}"), nil
	}

	buf := []byte{'{'}
	for i, b := range bindings {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyBytes, err := json.Marshal(b.Name)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyBytes...)
		buf = append(buf, ':')

		var raw any
		switch v := b.Value.(type) {
		case *ast.Number:
			raw = v.Value
		case *ast.Boolean:
			raw = v.Value
		}
		valBytes, err := json.Marshal(raw)
		if err != nil {
			return nil, err
		}
		buf = append(buf, valBytes...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// TraceWriter writes configurations to an io.Writer as they are emitted.
// Its Emit method has the signature machine.WithTrace expects.
type TraceWriter struct {
	w           io.Writer
	style       Style
	stepNumbers bool
	lines       int
	err         error
}

// TraceOption configures a TraceWriter.
type TraceOption func(*TraceWriter)

// WithStepNumbers prefixes text and inspect lines with [step].
func WithStepNumbers() TraceOption {
	return func(tw *TraceWriter) {
		tw.stepNumbers = true
	}
}

// NewTraceWriter creates a TraceWriter.
func NewTraceWriter(w io.Writer, style Style, opts ...TraceOption) *TraceWriter {
	tw := &TraceWriter{w: w, style: style}
	for _, opt := range opts {
		opt(tw)
	}
	return tw
}

// Emit writes one configuration. After the first write error, further
// configurations are dropped and the error is reported by Err.
func (tw *TraceWriter) Emit(c machine.Configuration) {
	if tw.err != nil {
		return
	}
	line, err := Format(c, tw.style)
	if err != nil {
		tw.err = err
		return
	}
	if tw.style != StyleJSON {
		if c.Terminal() {
			line = terminalStyle.Sprint(line)
		}
		if tw.stepNumbers {
			line = stepStyle.Sprintf("[%d]", c.Step) + " " + line
		}
	}
	if _, err := fmt.Fprintln(tw.w, line); err != nil {
		tw.err = err
		return
	}
	tw.lines++
}

// Lines returns the number of configurations written.
func (tw *TraceWriter) Lines() int {
	return tw.lines
}

// Err returns the first error encountered while writing.
func (tw *TraceWriter) Err() error {
	return tw.err
}
