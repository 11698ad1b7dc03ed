// Command simple runs SIMPLE programs on the small-step reduction machine and
// prints every configuration the machine passes through.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the CLI and returns the process exit status.
// The global color setting is restored on return.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	defer func(noColor bool) { color.NoColor = noColor }(color.NoColor)

	a := newApp(stdin, stdout, stderr)
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil {
		return 0
	}

	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	// flag and argument errors from cobra
	fmt.Fprintf(stderr, "error: %s\n", err)
	return 1
}

// exitError carries an exit status for a failure whose diagnostic was
// already printed.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
