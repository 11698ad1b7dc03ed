package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomasrohde/simple/go/pkg/program"
)

func (a *app) exampleCmd() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "example [name...]",
		Short: "Run the built-in example programs",
		Long:  "Without arguments, example lists the built-in programs. With names, it runs them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := a.traceWriter()
			rt := a.newRuntime(tw)
			if len(args) == 0 {
				for _, p := range rt.Examples().All() {
					fmt.Fprintf(a.stdout, "%-12s %s\n", p.Name, p.Description)
				}
				return nil
			}

			programs := make([]*program.Program, 0, len(args))
			for _, name := range args {
				p, err := rt.Example(name)
				if err != nil {
					return a.fail(err)
				}
				programs = append(programs, p)
			}

			if dump {
				for i, p := range programs {
					out, err := program.Encode(p)
					if err != nil {
						return a.fail(err)
					}
					if i > 0 {
						fmt.Fprintln(a.stdout, "---")
					}
					fmt.Fprint(a.stdout, string(out))
				}
				return nil
			}
			return a.runPrograms(rt, tw, programs)
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "Print the program documents instead of running them")
	return cmd
}
