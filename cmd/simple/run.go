package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/thomasrohde/simple/go/pkg/program"
)

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <program.yaml>... | -",
		Short: "Run program documents and print their reduction trace",
		Long: "Run decodes each program document (YAML or JSON) and reduces it to normal form,\n" +
			"printing one line per configuration. Use - to read a program from stdin.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			programs := make([]*program.Program, 0, len(args))
			for _, path := range args {
				p, err := a.loadProgram(path)
				if err != nil {
					return a.fail(err)
				}
				programs = append(programs, p)
			}
			tw := a.traceWriter()
			return a.runPrograms(a.newRuntime(tw), tw, programs)
		},
	}
}

func (a *app) loadProgram(path string) (*program.Program, error) {
	if path != "-" {
		return program.Load(path)
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return nil, err
	}
	p, err := program.Decode(data)
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		p.Name = "<stdin>"
	}
	return p, nil
}
