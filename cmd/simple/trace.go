package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thomasrohde/simple/go/pkg/diagnostics"
)

// TraceSummary describes a JSON trace written by run --format json.
type TraceSummary struct {
	Configurations int             `json:"configurations"`
	Steps          int             `json:"steps"`
	Mode           string          `json:"mode,omitempty"`
	KindsSeen      map[string]int  `json:"kindsSeen"`
	Final          string          `json:"final,omitempty"`
	Halted         bool            `json:"halted"`
	Environment    json.RawMessage `json:"environment,omitempty"`
	Skipped        int             `json:"skipped"`
}

type traceLine struct {
	Step        int             `json:"step"`
	Mode        string          `json:"mode"`
	Kind        string          `json:"kind"`
	Node        string          `json:"node"`
	Environment json.RawMessage `json:"environment"`
	Terminal    bool            `json:"terminal"`
}

func (a *app) traceCmd() *cobra.Command {
	var text bool

	cmd := &cobra.Command{
		Use:   "trace <trace.jsonl> | -",
		Short: "Summarize a JSON trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = a.stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return a.report(diagnostics.MakeDiag(diagnostics.EIO, fmt.Sprintf("cannot read file: %s", args[0]), "", "", ""))
				}
				defer f.Close()
				r = f
			}

			summary, err := computeTraceSummary(r)
			if err != nil {
				return a.report(diagnostics.MakeDiag(diagnostics.EIO, err.Error(), "", "", ""))
			}
			if text {
				printTraceSummaryText(a.stdout, summary)
				return nil
			}
			b, _ := json.Marshal(summary)
			fmt.Fprintln(a.stdout, string(b))
			return nil
		},
	}

	cmd.Flags().BoolVar(&text, "text", false, "Print the summary as text instead of JSON")
	return cmd
}

func computeTraceSummary(r io.Reader) (*TraceSummary, error) {
	summary := &TraceSummary{
		KindsSeen: make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var c traceLine
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			summary.Skipped++
			continue
		}

		summary.Configurations++
		if summary.Mode == "" {
			summary.Mode = c.Mode
		}
		summary.KindsSeen[c.Kind]++
		if c.Step > summary.Steps {
			summary.Steps = c.Step
		}
		summary.Final = c.Node
		summary.Halted = c.Terminal
		summary.Environment = c.Environment
	}
	return summary, scanner.Err()
}

func printTraceSummaryText(w io.Writer, s *TraceSummary) {
	fmt.Fprintf(w, "Mode: %s\n", s.Mode)
	fmt.Fprintf(w, "Configurations: %d (%d steps)\n", s.Configurations, s.Steps)

	kinds := make([]string, 0, len(s.KindsSeen))
	for kind := range s.KindsSeen {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(w, "  %s: %d\n", kind, s.KindsSeen[kind])
	}

	state := "halted"
	if !s.Halted {
		state = "stopped before normal form"
	}
	fmt.Fprintf(w, "Final: %s (%s)\n", s.Final, state)
	if len(s.Environment) > 0 && string(s.Environment) != "{}" {
		fmt.Fprintf(w, "Environment: %s\n", s.Environment)
	}
	if s.Skipped > 0 {
		fmt.Fprintf(w, "Skipped lines: %d\n", s.Skipped)
	}
}
