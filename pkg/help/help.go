// Package help holds the SIMPLE language reference printed by `simple ref`.
package help

import (
	"fmt"
	"sort"
	"strings"
)

// QUICKREF is the one-page overview printed when no topic is given.
const QUICKREF = `SIMPLE quick reference

Expressions   number, boolean, variable, add (+), multiply (*), more_than (>)
Statements    do_nothing, assign (name = expression)
Values        numbers and booleans are terminal, nothing else is

A run starts from one expression or one statement plus an environment and
applies one reduction step at a time until a terminal node is reached.
Every configuration is printed, the initial one included.

Commands
  simple run <program.yaml>... | -     reduce program documents
  simple example [name...]             list or run the built-in programs
  simple trace <trace.jsonl> | -       summarize a JSON trace
  simple init                          write .simple.yaml
  simple ref [topic]                   show this reference

Topics: nodes, programs, reduction, config, diagnostics, examples
`

// Topics maps a topic name to its reference text.
var Topics = map[string]string{
	"nodes": `Nodes

  number     64-bit signed integer, terminal          42
  boolean    true or false, terminal                  true
  variable   reduces to its value in the environment  x
  add        integer sum                              a + b
  multiply   integer product                          a * b
  more_than  integer comparison, yields a boolean     a > b
  do_nothing the finished statement                   does nothing
  assign     binds a name once its expression is a value
                                                      x = a

Binary nodes print infix without parentheses, so 1 * 2 + 3 * 4 shows the
tree add(multiply(1, 2), multiply(3, 4)).
`,

	"programs": `Program documents

A program is a YAML (or JSON) mapping:

  name: double          optional, defaults to the file name
  description: ...      optional
  environment:          optional, values are integers or booleans
    n: 21
  statement:            exactly one of statement or expression
    assign:
      name: n
      expression:
        multiply: [{variable: n}, {number: 2}]

Every node is a mapping with one key. Binary nodes take a list of two
operands. do_nothing may be written as a bare scalar.
`,

	"reduction": `Reduction

One step rewrites the leftmost reducible subexpression:

  binary node   reduce the left operand until it is a value, then the
                right one, then combine the two numbers
  variable      replace with the bound value
  assign        reduce the expression, then replace the statement with
                do_nothing in an environment where the name is bound

Environments are never modified in place. Rebinding a name keeps its
original position when the environment is printed.
`,

	"config": `Configuration (.simple.yaml)

  format: text          text, inspect or json
  color: true
  step_numbers: false
  max_steps: 0          0 means no limit
  log_level: warn       debug, info, warn or error
  timeout: 30s          0 means no timeout

Flags override the file. Use --config to read another file.
`,

	"diagnostics": `Diagnostics

Errors are printed to stderr as JSON, or for humans with --pretty.

  E_PROGRAM          invalid program document               exit 2
  E_UNBOUND          variable not in the environment        exit 3
  E_TYPE             operator applied to a boolean          exit 3
  E_OVERFLOW         result does not fit in 64 bits         exit 3
  E_INVALID_STEP     stepping a terminal configuration      exit 3
  E_STEP_LIMIT       --max-steps reached                    exit 4
  E_TIMEOUT          --timeout reached                      exit 4
  E_IO, E_CONFIG     files, flags and configuration         exit 1
  E_UNKNOWN_EXAMPLE  no built-in program with that name     exit 1

The trace printed before a reduction error is kept on stdout.
`,

	"examples": `Examples

  simple example                       list the built-in programs
  simple example assignment            x = x + 1 in {x -> 2}
  simple example arithmetic -n         number every configuration
  simple example variables -f json     one JSON object per configuration
  simple example assignment --dump     print the program document
  simple run prog.yaml -f json | simple trace -
`,
}

// TopicList is the display order of Topics.
var TopicList = []string{"nodes", "programs", "reduction", "config", "diagnostics", "examples"}

// MatchTopic resolves a topic by exact name or unique prefix.
func MatchTopic(query string) (string, string, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if content, ok := Topics[query]; ok {
		return query, content, nil
	}

	var matches []string
	for _, name := range TopicList {
		if query != "" && strings.HasPrefix(name, query) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], Topics[matches[0]], nil
	case 0:
		return "", "", fmt.Errorf("unknown topic %q", query)
	default:
		sort.Strings(matches)
		return "", "", fmt.Errorf("ambiguous topic %q matches %s", query, strings.Join(matches, ", "))
	}
}
