package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thomasrohde/simple/go/pkg/config"
	"github.com/thomasrohde/simple/go/pkg/diagnostics"
	"github.com/thomasrohde/simple/go/pkg/evaluator"
	"github.com/thomasrohde/simple/go/pkg/formatter"
	"github.com/thomasrohde/simple/go/pkg/program"
	"github.com/thomasrohde/simple/go/pkg/runtime"
)

// app holds the state shared by all subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	cfgFile string
	pretty  bool
	noColor bool
	flags   config.Config

	cfg    config.Config
	logger *zap.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{stdin: stdin, stdout: stdout, stderr: stderr}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "simple",
		Short:         "simple - a small-step reduction machine for the SIMPLE language",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "Configuration file (default "+config.DefaultPath+")")
	pf.StringVarP(&a.flags.Format, "format", "f", "", "Trace format: text, inspect or json")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&a.flags.StepNumbers, "step-numbers", "n", false, "Prefix trace lines with the step number")
	pf.IntVar(&a.flags.MaxSteps, "max-steps", 0, "Stop a run after this many steps (0 = unlimited)")
	pf.StringVar(&a.flags.Timeout, "timeout", "", "Stop a run after this long, e.g. 5s (0 = no timeout)")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.BoolVar(&a.pretty, "pretty", false, "Print diagnostics for humans instead of as JSON")

	root.AddCommand(a.runCmd())
	root.AddCommand(a.exampleCmd())
	root.AddCommand(a.traceCmd())
	root.AddCommand(a.initCmd())
	root.AddCommand(a.refCmd())
	return root
}

// setup loads the configuration file, applies flag overrides and builds the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return a.report(diagnostics.MakeDiag(diagnostics.EConfig, err.Error(), "", "", ""))
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = a.flags.Format
	}
	if flags.Changed("step-numbers") {
		cfg.StepNumbers = a.flags.StepNumbers
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = a.flags.MaxSteps
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.flags.Timeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.LogLevel
	}
	if a.noColor {
		cfg.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return a.report(diagnostics.MakeDiag(diagnostics.EConfig, err.Error(), "", "", ""))
	}
	a.cfg = cfg

	if !cfg.Color || cfg.Style() == formatter.StyleJSON {
		color.NoColor = true
	}

	level, _ := cfg.Level()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(a.stderr),
		level,
	)
	a.logger = zap.New(core)
	return nil
}

// newRuntime builds a runtime writing its trace to stdout.
func (a *app) newRuntime(tw *formatter.TraceWriter) *runtime.Runtime {
	return runtime.New(
		runtime.WithLogger(a.logger),
		runtime.WithMaxSteps(a.cfg.MaxSteps),
		runtime.WithTrace(tw.Emit),
	)
}

func (a *app) traceWriter() *formatter.TraceWriter {
	var opts []formatter.TraceOption
	if a.cfg.StepNumbers {
		opts = append(opts, formatter.WithStepNumbers())
	}
	return formatter.NewTraceWriter(a.stdout, a.cfg.Style(), opts...)
}

// runPrograms runs each program on rt in order and stops at the first
// failure. tw must be the trace writer rt was built with.
func (a *app) runPrograms(rt *runtime.Runtime, tw *formatter.TraceWriter, programs []*program.Program) error {
	for i, p := range programs {
		if i > 0 && a.cfg.Style() != formatter.StyleJSON {
			fmt.Fprintln(a.stdout)
		}
		if err := a.runOne(rt, p); err != nil {
			return err
		}
		if err := tw.Err(); err != nil {
			return a.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot write trace: %s", err), "", "", ""))
		}
	}
	return nil
}

func (a *app) runOne(rt *runtime.Runtime, p *program.Program) error {
	ctx := context.Background()
	timeout, _ := a.cfg.TimeoutDuration()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if _, err := rt.Run(ctx, p); err != nil {
		return a.fail(err)
	}
	return nil
}

// fail prints the diagnostic for err and returns the matching exitError.
func (a *app) fail(err error) error {
	return a.report(diagFor(err))
}

func (a *app) report(d diagnostics.Diagnostic) error {
	fmt.Fprintln(a.stderr, diagnostics.FormatDiagnostic(d, a.pretty))
	return &exitError{code: diagnostics.ExitCode(d.Code)}
}

// diagFor converts an error into a diagnostic.
func diagFor(err error) diagnostics.Diagnostic {
	var rerr *evaluator.ReductionError
	if errors.As(err, &rerr) {
		node := ""
		if rerr.Node != nil {
			node = rerr.Node.String()
		}
		return diagnostics.MakeDiag(rerr.Code, rerr.Message, node, rerr.Env.String(), hintFor(rerr.Code))
	}

	var derr *program.DecodeError
	if errors.As(err, &derr) {
		return diagnostics.MakeDiag(diagnostics.EProgram, err.Error(), "", "", "")
	}

	var uerr *runtime.UnknownExampleError
	if errors.As(err, &uerr) {
		return diagnostics.MakeDiag(diagnostics.EUnknownExample, err.Error(), "", "",
			"known examples: "+strings.Join(uerr.Known, ", "))
	}

	switch {
	case errors.Is(err, runtime.ErrInvalidProgram):
		return diagnostics.MakeDiag(diagnostics.EProgram, err.Error(), "", "", "")
	case errors.Is(err, context.DeadlineExceeded):
		return diagnostics.MakeDiag(diagnostics.ETimeout, "run timed out", "", "", "raise --timeout or set it to 0")
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return diagnostics.MakeDiag(diagnostics.EIO, err.Error(), "", "", "")
	}
	return diagnostics.MakeDiag(diagnostics.EInternal, err.Error(), "", "", "")
}

func hintFor(code string) string {
	switch code {
	case diagnostics.EUnbound:
		return "bind the variable in the program's environment"
	case diagnostics.EType:
		return "'+', '*' and '>' only accept numbers"
	case diagnostics.EStepLimit:
		return "raise --max-steps or set it to 0 for no limit"
	}
	return ""
}
