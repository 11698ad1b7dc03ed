package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomasrohde/simple/go/pkg/config"
	"github.com/thomasrohde/simple/go/pkg/diagnostics"
)

func (a *app) initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			if path == "" {
				path = config.DefaultPath
			}
			if err := config.Default().Write(path); err != nil {
				return a.report(diagnostics.MakeDiag(diagnostics.EIO, err.Error(), "", "", ""))
			}
			fmt.Fprintf(a.stdout, "Configuration file created/updated: %s\n", path)
			return nil
		},
	}
	// the file being written may not exist yet, so skip loading it
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil }
	return cmd
}
