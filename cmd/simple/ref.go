package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thomasrohde/simple/go/pkg/help"
)

func (a *app) refCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ref [topic]",
		Short: "Show the SIMPLE language reference",
		Long:  "Without a topic, ref prints the quick reference. Topics: " + strings.Join(help.TopicList, ", ") + ".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprint(a.stdout, help.QUICKREF)
				return nil
			}
			_, content, err := help.MatchTopic(args[0])
			if err != nil {
				fmt.Fprintf(a.stderr, "%s\nAvailable topics: %s\n", err, strings.Join(help.TopicList, ", "))
				return &exitError{code: 1}
			}
			fmt.Fprint(a.stdout, content)
			return nil
		},
	}
	// no configuration is needed to print the reference
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error { return nil }
	return cmd
}
