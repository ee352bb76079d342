// Package convention implements configuration-driven enforcement: named
// templates instantiated with positional arguments, and conventions
// (sequences of query/filter/pipe/action commands) run against the store.
package convention

import (
	"github.com/jra3/tdb/internal/expr"
	"github.com/jra3/tdb/internal/pipeline"
)

// Command is one query/filter/pipe/actions unit, as authored in a
// config file before its strings are expanded and compiled.
type Command struct {
	Query   string     `yaml:"query"`
	Filter  string     `yaml:"filter"`
	Pipe    string     `yaml:"pipe"`
	Actions [][]string `yaml:"actions"`
}

// CompiledCommand is a Command with its expressions parsed and its
// actions decoded, ready to drive a pipeline.
type CompiledCommand struct {
	Pipeline pipeline.Pipeline
	Actions  []compiled
}

// Configure expands every string field of c against exp, compiles the
// three expressions, and parses each action token list.
func (c Command) Configure(exp *expr.Expansions) (*CompiledCommand, error) {
	query, err := compileExpr(exp, c.Query)
	if err != nil {
		return nil, err
	}
	filter, err := compileExpr(exp, c.Filter)
	if err != nil {
		return nil, err
	}
	pipe, err := expandOptional(exp, c.Pipe)
	if err != nil {
		return nil, err
	}

	cc := &CompiledCommand{Pipeline: pipeline.Pipeline{Query: query, Filter: filter, Pipe: pipe}}
	for _, tokens := range c.Actions {
		expanded := make([]string, len(tokens))
		for i, tok := range tokens {
			v, err := exp.Expand(tok)
			if err != nil {
				return nil, err
			}
			expanded[i] = v
		}
		act, err := parseAction(expanded)
		if err != nil {
			return nil, err
		}
		cc.Actions = append(cc.Actions, act)
	}
	return cc, nil
}

// Forcings is the union of a compiled command's action forcings plus
// whatever its own filter/pipe already demand.
func (c *CompiledCommand) Forcings() pipeline.Forcings {
	f := pipeline.DeriveForcings(c.Pipeline)
	for _, a := range c.Actions {
		f |= a.forcings()
	}
	return pipeline.Normalize(f)
}

func compileExpr(exp *expr.Expansions, src string) (*expr.Ast, error) {
	if src == "" {
		return nil, nil
	}
	expanded, err := exp.Expand(src)
	if err != nil {
		return nil, err
	}
	tokens, err := expr.Tokenize(expanded)
	if err != nil {
		return nil, err
	}
	return expr.Parse(tokens)
}

func expandOptional(exp *expr.Expansions, src string) (*string, error) {
	if src == "" {
		return nil, nil
	}
	expanded, err := exp.Expand(src)
	if err != nil {
		return nil, err
	}
	return &expanded, nil
}
