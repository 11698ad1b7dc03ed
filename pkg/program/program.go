// Package program reads and writes SIMPLE programs as YAML documents.
//
// A document describes an already-built node tree; there is no source syntax
// to parse. A program holds an optional environment and exactly one of an
// expression or a statement:
//
//	name: assignment
//	environment:
//	  x: 2
//	statement:
//	  assign:
//	    name: x
//	    expression:
//	      add: [{variable: x}, {number: 1}]
//
// Nodes are single-key mappings: number, boolean, variable, add, multiply,
// more_than (each binary node takes a two-element sequence), assign (name
// and expression), plus the bare scalar do_nothing.
package program

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thomasrohde/simple/go/pkg/ast"
	"github.com/thomasrohde/simple/go/pkg/evaluator"
	"github.com/thomasrohde/simple/go/pkg/machine"
)

// Node keys.
const (
	keyNumber    = "number"
	keyBoolean   = "boolean"
	keyVariable  = "variable"
	keyAdd       = "add"
	keyMultiply  = "multiply"
	keyMoreThan  = "more_than"
	keyAssign    = "assign"
	keyDoNothing = "do_nothing"
)

// Decoding limits. maxDepth also stops self-referencing aliases and
// maxNodes stops anchors that are referenced repeatedly.
const (
	maxDepth = 10000
	maxNodes = 100000
)

// Program is a decoded SIMPLE program.
type Program struct {
	Name        string
	Description string
	Environment *evaluator.Env
	Expression  ast.Expr
	Statement   ast.Stmt
}

// Mode returns the machine mode the program runs in.
func (p *Program) Mode() machine.Mode {
	if p.Statement != nil {
		return machine.ModeStatement
	}
	return machine.ModeExpression
}

// Root returns the program's expression or statement.
func (p *Program) Root() ast.Node {
	if p.Statement != nil {
		return p.Statement
	}
	return p.Expression
}

// DecodeError reports a malformed program document.
// Line and Column are 1-based; they are zero when unknown.
type DecodeError struct {
	Line    int
	Column  int
	Message string
}

func (e *DecodeError) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

func errorAt(n *yaml.Node, format string, args ...any) error {
	return &DecodeError{Line: n.Line, Column: n.Column, Message: fmt.Sprintf(format, args...)}
}

// Load reads a program file. When the document has no name, the file name
// without extension is used.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// Decode decodes a program document.
func Decode(data []byte) (*Program, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Message: err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &DecodeError{Message: "empty program document"}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errorAt(root, "program must be a mapping, found %s", root.ShortTag())
	}

	d := &decoder{}
	p := &Program{Environment: evaluator.EmptyEnv()}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		var err error
		switch key.Value {
		case "name":
			p.Name, err = scalarString(val)
		case "description":
			p.Description, err = scalarString(val)
		case "environment":
			p.Environment, err = decodeEnv(val)
		case "expression":
			p.Expression, err = d.expr(val, 0)
		case "statement":
			p.Statement, err = d.stmt(val)
		default:
			err = errorAt(key, "unknown program key %q", key.Value)
		}
		if err != nil {
			return nil, err
		}
	}

	switch {
	case p.Expression == nil && p.Statement == nil:
		return nil, errorAt(root, "program needs an expression or a statement")
	case p.Expression != nil && p.Statement != nil:
		return nil, errorAt(root, "program has both an expression and a statement")
	}
	return p, nil
}

func scalarString(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", errorAt(n, "expected a string, found %s", n.ShortTag())
	}
	return n.Value, nil
}

func decodeEnv(n *yaml.Node) (*evaluator.Env, error) {
	env := evaluator.EmptyEnv()
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return env, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errorAt(n, "environment must be a mapping, found %s", n.ShortTag())
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if strings.TrimSpace(key.Value) == "" {
			return nil, errorAt(key, "environment names must be non-empty")
		}
		v, err := decodeValue(val)
		if err != nil {
			return nil, err
		}
		env = env.With(key.Value, v)
	}
	return env, nil
}

func decodeValue(n *yaml.Node) (ast.Value, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, errorAt(n, "environment values must be integers or booleans, found %s", n.ShortTag())
	}
	switch n.ShortTag() {
	case "!!int":
		var v int64
		if err := n.Decode(&v); err != nil {
			return nil, errorAt(n, "invalid integer %q", n.Value)
		}
		return ast.Num(v), nil
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return nil, errorAt(n, "invalid boolean %q", n.Value)
		}
		return ast.Bool(v), nil
	}
	return nil, errorAt(n, "environment values must be integers or booleans, found %s", n.ShortTag())
}

// single returns the key and value of a one-entry mapping.
func single(n *yaml.Node) (string, *yaml.Node, error) {
	if n.Kind == yaml.AliasNode {
		return single(n.Alias)
	}
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, errorAt(n, "node must be a mapping with exactly one key")
	}
	return n.Content[0].Value, n.Content[1], nil
}

// decoder counts the nodes it builds so that documents reusing anchors
// cannot expand into an unbounded tree.
type decoder struct {
	nodes int
}

func (d *decoder) count(n *yaml.Node, depth int) error {
	if depth > maxDepth {
		return errorAt(n, "expression nested deeper than %d levels", maxDepth)
	}
	d.nodes++
	if d.nodes > maxNodes {
		return errorAt(n, "program has more than %d nodes", maxNodes)
	}
	return nil
}

func (d *decoder) expr(n *yaml.Node, depth int) (ast.Expr, error) {
	if err := d.count(n, depth); err != nil {
		return nil, err
	}
	key, val, err := single(n)
	if err != nil {
		return nil, err
	}
	switch key {
	case keyNumber, keyBoolean:
		v, err := decodeValue(val)
		if err != nil {
			return nil, err
		}
		if (key == keyNumber) != (v.Kind() == "Number") {
			return nil, errorAt(val, "%s node holds %s", key, val.ShortTag())
		}
		return v, nil
	case keyVariable:
		name, err := scalarString(val)
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, errorAt(val, "variable name must be non-empty")
		}
		return ast.Var(name), nil
	case keyAdd, keyMultiply, keyMoreThan:
		if val.Kind != yaml.SequenceNode || len(val.Content) != 2 {
			return nil, errorAt(val, "%s needs exactly two operands", key)
		}
		left, err := d.expr(val.Content[0], depth+1)
		if err != nil {
			return nil, err
		}
		right, err := d.expr(val.Content[1], depth+1)
		if err != nil {
			return nil, err
		}
		switch key {
		case keyAdd:
			return ast.NewAdd(left, right), nil
		case keyMultiply:
			return ast.NewMultiply(left, right), nil
		default:
			return ast.NewMoreThan(left, right), nil
		}
	}
	return nil, errorAt(n, "unknown expression node %q", key)
}

func (d *decoder) stmt(n *yaml.Node) (ast.Stmt, error) {
	if err := d.count(n, 0); err != nil {
		return nil, err
	}
	if n.Kind == yaml.ScalarNode && n.Value == keyDoNothing {
		return ast.Nothing(), nil
	}
	key, val, err := single(n)
	if err != nil {
		return nil, err
	}
	switch key {
	case keyDoNothing:
		return ast.Nothing(), nil
	case keyAssign:
		return d.assign(val)
	}
	return nil, errorAt(n, "unknown statement node %q", key)
}

func (d *decoder) assign(n *yaml.Node) (ast.Stmt, error) {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil, errorAt(n, "assign must be a mapping, found %s", n.ShortTag())
	}

	var (
		name     string
		exprNode *yaml.Node
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "name":
			var err error
			if name, err = scalarString(val); err != nil {
				return nil, err
			}
		case "expression":
			exprNode = val
		default:
			return nil, errorAt(key, "unknown assign key %q", key.Value)
		}
	}
	if name == "" {
		return nil, errorAt(n, "assign needs a name")
	}
	if exprNode == nil {
		return nil, errorAt(n, "assign needs an expression")
	}
	expr, err := d.expr(exprNode, 1)
	if err != nil {
		return nil, err
	}
	return ast.NewAssign(name, expr), nil
}

// Encode writes p as a program document.
func Encode(p *Program) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	if p.Name != "" {
		appendPair(root, "name", str(p.Name))
	}
	if p.Description != "" {
		appendPair(root, "description", str(p.Description))
	}
	if p.Environment.Len() > 0 {
		envNode := &yaml.Node{Kind: yaml.MappingNode}
		for _, b := range p.Environment.Bindings() {
			appendPair(envNode, b.Name, encodeValue(b.Value))
		}
		appendPair(root, "environment", envNode)
	}

	switch {
	case p.Statement != nil:
		stmt, err := encodeStmt(p.Statement)
		if err != nil {
			return nil, err
		}
		appendPair(root, "statement", stmt)
	case p.Expression != nil:
		expr, err := encodeExpr(p.Expression)
		if err != nil {
			return nil, err
		}
		appendPair(root, "expression", expr)
	default:
		return nil, errors.New("program has neither an expression nor a statement")
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func appendPair(m *yaml.Node, key string, val *yaml.Node) {
	m.Content = append(m.Content, str(key), val)
}

func wrap(key string, val *yaml.Node) *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}
	appendPair(m, key, val)
	return m
}

func encodeValue(v ast.Value) *yaml.Node {
	switch n := v.(type) {
	case *ast.Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(n.Value, 10)}
	case *ast.Boolean:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(n.Value)}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func encodeExpr(e ast.Expr) (*yaml.Node, error) {
	switch n := e.(type) {
	case *ast.Number:
		return wrap(keyNumber, encodeValue(n)), nil
	case *ast.Boolean:
		return wrap(keyBoolean, encodeValue(n)), nil
	case *ast.Variable:
		return wrap(keyVariable, str(n.Name)), nil
	case *ast.Add, *ast.Multiply, *ast.MoreThan:
		left, right, _, _ := ast.Operands(e)
		l, err := encodeExpr(left)
		if err != nil {
			return nil, err
		}
		r, err := encodeExpr(right)
		if err != nil {
			return nil, err
		}
		key := keyAdd
		switch e.(type) {
		case *ast.Multiply:
			key = keyMultiply
		case *ast.MoreThan:
			key = keyMoreThan
		}
		seq := &yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{l, r}}
		m := &yaml.Node{Kind: yaml.MappingNode}
		appendPair(m, key, seq)
		return m, nil
	}
	return nil, fmt.Errorf("cannot encode expression node %T", e)
}

func encodeStmt(s ast.Stmt) (*yaml.Node, error) {
	switch n := s.(type) {
	case *ast.DoNothing:
		return str(keyDoNothing), nil
	case *ast.Assign:
		expr, err := encodeExpr(n.Expression)
		if err != nil {
			return nil, err
		}
		body := &yaml.Node{Kind: yaml.MappingNode}
		appendPair(body, "name", str(n.Name))
		appendPair(body, "expression", expr)
		m := &yaml.Node{Kind: yaml.MappingNode}
		appendPair(m, keyAssign, body)
		return m, nil
	}
	return nil, fmt.Errorf("cannot encode statement node %T", s)
}
