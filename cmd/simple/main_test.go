package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasrohde/simple/go/pkg/config"
	"github.com/thomasrohde/simple/go/pkg/diagnostics"
	"github.com/thomasrohde/simple/go/pkg/program"
	"github.com/thomasrohde/simple/go/pkg/runtime"
)

// runCLI executes the CLI with color disabled and returns the exit code and
// captured output.
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--no-color"}, args...)
	code := execute(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func decodeDiag(t *testing.T, stderr string) map[string]string {
	t.Helper()
	var d map[string]string
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stderr)), &d), stderr)
	return d
}

func TestExampleList(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "example")
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "arithmetic "))
	assert.Contains(t, lines[1], "x = x + 1 rebinds x")
}

func TestExampleAssignment(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "example", "assignment")
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, "x = x + 1, {x -> 2}\n"+
		"x = 2 + 1, {x -> 2}\n"+
		"x = 3, {x -> 2}\n"+
		"does nothing, {x -> 3}\n", stdout)
	assert.Empty(t, stderr)
}

func TestExampleSeveralSeparated(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "example", "comparison", "arithmetic", "--step-numbers")
	require.Equal(t, 0, code)

	assert.Equal(t, "[0] 5 > 2 + 2\n[1] 5 > 4\n[2] true\n\n"+
		"[0] 1 * 2 + 3 * 4\n[1] 2 + 3 * 4\n[2] 2 + 12\n[3] 14\n", stdout)
}

func TestExampleInspect(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "example", "variables", "--format", "inspect")
	require.Equal(t, 0, code)
	assert.Equal(t, "<<x + y>>\n<<3 + y>>\n<<3 + 4>>\n<<7>>\n", stdout)
}

func TestExampleUnbound(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "example", "unbound")
	assert.Equal(t, 3, code)
	assert.Equal(t, "z + 1\n", stdout, "trace printed before the failure stays")

	d := decodeDiag(t, stderr)
	assert.Equal(t, "E_UNBOUND", d["code"])
	assert.Equal(t, "unbound variable 'z'", d["message"])
	assert.Equal(t, "z", d["node"])
	assert.Equal(t, "{}", d["env"])
}

func TestExampleUnknown(t *testing.T) {
	code, _, stderr := runCLI(t, "", "--pretty", "example", "loop")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `error[E_UNKNOWN_EXAMPLE]: unknown example "loop"`)
	assert.Contains(t, stderr, "hint: known examples: arithmetic, assignment, comparison, unbound, variables")
}

func TestExampleDump(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "example", "assignment", "--dump")
	require.Equal(t, 0, code)

	assert.Contains(t, stdout, "name: assignment\n")
	assert.Contains(t, stdout, "environment:\n  x: 2\n")
	assert.Contains(t, stdout, "statement:\n  assign:\n")
}

func TestRunFile(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "run", "testdata/double.yaml")
	require.Equal(t, 0, code, stderr)

	assert.Equal(t, "n = n * 2, {n -> 21, big -> false}\n"+
		"n = 21 * 2, {n -> 21, big -> false}\n"+
		"n = 42, {n -> 21, big -> false}\n"+
		"does nothing, {n -> 42, big -> false}\n", stdout)
}

func TestRunStdin(t *testing.T) {
	src := "expression:\n  add: [{number: 40}, {number: 2}]\n"
	code, stdout, _ := runCLI(t, src, "run", "-")
	require.Equal(t, 0, code)
	assert.Equal(t, "40 + 2\n42\n", stdout)
}

func TestRunTypeMismatchPretty(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "--pretty", "run", "testdata/mismatch.yaml")
	assert.Equal(t, 3, code)
	assert.Equal(t, "flag > 1\ntrue > 1\n", stdout)
	assert.Equal(t, "error[E_TYPE]: '>' requires two numbers, got Boolean and Number\n"+
		"  --> true > 1\n"+
		"  env: {flag -> true}\n"+
		"  hint: '+', '*' and '>' only accept numbers\n", stderr)
}

func TestRunBrokenProgram(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "run", "testdata/broken.yaml")
	assert.Equal(t, 2, code)
	assert.Empty(t, stdout)

	d := decodeDiag(t, stderr)
	assert.Equal(t, "E_PROGRAM", d["code"])
	assert.Equal(t, `testdata/broken.yaml: line 2, column 3: unknown expression node "subtract"`, d["message"])
}

func TestRunMissingFile(t *testing.T) {
	code, _, stderr := runCLI(t, "", "run", "testdata/absent.yaml")
	assert.Equal(t, 1, code)
	assert.Equal(t, "E_IO", decodeDiag(t, stderr)["code"])
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "run", "testdata/mismatch.yaml", "testdata/double.yaml")
	assert.Equal(t, 3, code)
	assert.NotContains(t, stdout, "does nothing")
}

func TestRunMaxSteps(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "run", "testdata/double.yaml", "--max-steps", "2")
	assert.Equal(t, 4, code)
	assert.Equal(t, 3, strings.Count(stdout, "\n"))

	d := decodeDiag(t, stderr)
	assert.Equal(t, "E_STEP_LIMIT", d["code"])
	assert.Equal(t, "step limit exceeded (max 2)", d["message"])
	assert.Equal(t, "n = 42", d["node"])
}

func TestRunNeedsArgs(t *testing.T) {
	code, _, stderr := runCLI(t, "", "run")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "error: requires at least 1 arg(s)")
}

func TestBadFlagValue(t *testing.T) {
	code, _, stderr := runCLI(t, "", "example", "arithmetic", "--format", "xml")
	assert.Equal(t, 1, code)
	assert.Equal(t, "E_CONFIG", decodeDiag(t, stderr)["code"])
}

func TestInitThenUseConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple.yaml")

	code, stdout, _ := runCLI(t, "", "init", "--config", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "Configuration file created/updated: "+path+"\n", stdout)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg.Format = "json"
	require.NoError(t, cfg.Write(path))

	code, stdout, _ = runCLI(t, "", "example", "comparison", "--config", path)
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"step":2,"mode":"expression","kind":"Boolean","node":"true","environment":{},"terminal":true}`, lines[2])
}

func TestBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simple.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_steps: lots\n"), 0o644))

	code, _, stderr := runCLI(t, "", "example", "arithmetic", "--config", path)
	assert.Equal(t, 1, code)
	assert.Equal(t, "E_CONFIG", decodeDiag(t, stderr)["code"])
}

func TestTraceSummary(t *testing.T) {
	code, trace, _ := runCLI(t, "", "run", "testdata/double.yaml", "--format", "json")
	require.Equal(t, 0, code)

	code, stdout, _ := runCLI(t, trace+"not json\n", "trace", "-")
	require.Equal(t, 0, code)

	var s TraceSummary
	require.NoError(t, json.Unmarshal([]byte(stdout), &s))
	assert.Equal(t, 4, s.Configurations)
	assert.Equal(t, 3, s.Steps)
	assert.Equal(t, "statement", s.Mode)
	assert.Equal(t, map[string]int{"Assign": 3, "DoNothing": 1}, s.KindsSeen)
	assert.Equal(t, "does nothing", s.Final)
	assert.True(t, s.Halted)
	assert.JSONEq(t, `{"n":42,"big":false}`, string(s.Environment))
	assert.Equal(t, 1, s.Skipped)
}

func TestTraceSummaryText(t *testing.T) {
	code, trace, _ := runCLI(t, "", "example", "unbound", "--format", "json")
	require.Equal(t, 3, code)

	code, stdout, _ := runCLI(t, trace, "trace", "-", "--text")
	require.Equal(t, 0, code)
	assert.Equal(t, "Mode: expression\n"+
		"Configurations: 1 (0 steps)\n"+
		"  Add: 1\n"+
		"Final: z + 1 (stopped before normal form)\n", stdout)
}

func TestTraceMissingFile(t *testing.T) {
	code, _, stderr := runCLI(t, "", "trace", "testdata/absent.jsonl")
	assert.Equal(t, 1, code)
	assert.Equal(t, "E_IO", decodeDiag(t, stderr)["code"])
}

func TestRef(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "ref")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "SIMPLE quick reference")

	code, stdout, _ = runCLI(t, "", "ref", "prog")
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(stdout, "Program documents\n"))

	code, _, stderr := runCLI(t, "", "ref", "loops")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown topic "loops"`)
}

func TestRefIgnoresBrokenConfig(t *testing.T) {
	code, _, _ := runCLI(t, "", "ref", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 0, code)
}

func TestExecuteRestoresColorSetting(t *testing.T) {
	prev := color.NoColor
	t.Cleanup(func() { color.NoColor = prev })

	color.NoColor = false
	code, _, _ := runCLI(t, "", "example", "comparison")
	require.Equal(t, 0, code)
	assert.False(t, color.NoColor, "--no-color must not leak into later runs")

	var stdout, stderr bytes.Buffer
	code = execute([]string{"example", "arithmetic", "--format", "json"}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code)
	assert.False(t, color.NoColor)
}

func TestDiagFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"unknown example", &runtime.UnknownExampleError{Name: "loop"}, diagnostics.EUnknownExample},
		{"decode", fmt.Errorf("a.yaml: %w", &program.DecodeError{Message: "bad"}), diagnostics.EProgram},
		{"no root", fmt.Errorf("%w: neither", runtime.ErrInvalidProgram), diagnostics.EProgram},
		{"timeout", context.DeadlineExceeded, diagnostics.ETimeout},
		{"missing file", fs.ErrNotExist, diagnostics.EIO},
		{"other", errors.New("boom"), diagnostics.EInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, diagFor(tt.err).Code)
		})
	}
}
