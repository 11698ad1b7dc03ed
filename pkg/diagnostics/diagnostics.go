// Package diagnostics defines SIMPLE diagnostic types for program, config and
// reduction errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Diagnostic code constants.
const (
	EUnbound        = "E_UNBOUND"
	EType           = "E_TYPE"
	EInvalidStep    = "E_INVALID_STEP"
	EOverflow       = "E_OVERFLOW"
	EStepLimit      = "E_STEP_LIMIT"
	ETimeout        = "E_TIMEOUT"
	EProgram        = "E_PROGRAM"
	EIO             = "E_IO"
	EConfig         = "E_CONFIG"
	EUnknownExample = "E_UNKNOWN_EXAMPLE"
	EInternal       = "E_INTERNAL"
)

var (
	codeStyle = color.New(color.FgRed, color.Bold)
	nodeStyle = color.New(color.FgCyan, color.Bold)
	hintStyle = color.New(color.FgGreen)
)

// Diagnostic represents a program, config, or reduction diagnostic.
// Node and Env carry the display form of the offending node and the
// environment it was reduced in, when known.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Node    string `json:"node,omitempty"`
	Env     string `json:"env,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message, node, env, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Node:    node,
		Env:     env,
		Hint:    hint,
	}
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	out := fmt.Sprintf("%s: %s", codeStyle.Sprintf("error[%s]", d.Code), d.Message)
	if d.Node != "" {
		out += fmt.Sprintf("\n  --> %s", nodeStyle.Sprint(d.Node))
	}
	if d.Env != "" {
		out += fmt.Sprintf("\n  env: %s", d.Env)
	}
	if d.Hint != "" {
		out += fmt.Sprintf("\n  %s %s", hintStyle.Sprint("hint:"), d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n\n")
}

// ExitCode maps a diagnostic code to the process exit status.
func ExitCode(code string) int {
	switch code {
	case EProgram:
		return 2
	case EUnbound, EType, EInvalidStep, EOverflow, EInternal:
		return 3
	case EStepLimit, ETimeout:
		return 4
	default:
		return 1
	}
}
