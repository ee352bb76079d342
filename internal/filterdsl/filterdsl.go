// Package filterdsl implements the filter-side instantiation of the
// generic boolean evaluator: a per-file predicate evaluated over a
// queryview.FileView, with regex, comparison, and shell leaves.
package filterdsl

import (
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/jra3/tdb/internal/errs"
	"github.com/jra3/tdb/internal/eval"
	"github.com/jra3/tdb/internal/expr"
	"github.com/jra3/tdb/internal/queryview"
	"github.com/jra3/tdb/internal/shellquote"
)

// Ctx holds the regex and comparison caches for one evaluation. Plain
// maps suffice: evaluation is single-threaded per request.
type Ctx struct {
	regexCache map[string]*regexp.Regexp
	cmpCache   map[string]*expr.Comparison
}

// NewCtx returns an empty evaluation context.
func NewCtx() *Ctx {
	return &Ctx{
		regexCache: make(map[string]*regexp.Regexp),
		cmpCache:   make(map[string]*expr.Comparison),
	}
}

func (c *Ctx) regex(text string) (*regexp.Regexp, error) {
	if re, ok := c.regexCache[text]; ok {
		return re, nil
	}
	re, err := regexp.Compile(text)
	if err != nil {
		return nil, errs.New("filterdsl.regex", errs.KindInvalidIdentifier, err)
	}
	c.regexCache[text] = re
	return re, nil
}

func (c *Ctx) comparison(text string) (*expr.Comparison, error) {
	if cmp, ok := c.cmpCache[text]; ok {
		return cmp, nil
	}
	cmp, err := expr.CompileComparison(text)
	if err != nil {
		return nil, err
	}
	c.cmpCache[text] = cmp
	return cmp, nil
}

func leaf(ctx *Ctx, mod expr.Modifier, payload string, view *queryview.FileView) (bool, error) {
	switch mod {
	case expr.ModPredicate:
		ns := expr.Canonicalize(payload)
		re, err := ctx.regex(ns.TagSpace)
		if err != nil {
			return false, err
		}
		switch ns.Reserved {
		case expr.ReservedPath:
			return re.MatchString(view.Path()), nil
		case expr.ReservedTag, expr.ReservedTdb:
			for _, tg := range view.Tags() {
				if re.MatchString(tg.Name) {
					return true, nil
				}
			}
			return false, nil
		}
		return false, errs.New("filterdsl.leaf", errs.KindInvalidNamespace, nil)

	case expr.ModComparison:
		cmp, err := ctx.comparison(payload)
		if err != nil {
			return false, err
		}
		return cmp.Eval(view.Variables())

	case expr.ModShell:
		shellCtx := context.Background()
		if err := SpawnLimiter.Wait(shellCtx); err != nil {
			return false, err
		}
		cmdline := strings.ReplaceAll(payload, "{}", shellquote.Quote(view.Path()))
		cmd := exec.CommandContext(shellCtx, "sh", "-c", cmdline)
		err := cmd.Run()
		return err == nil, nil
	}
	return false, errs.New("filterdsl.leaf", errs.KindInvalidModifier, nil)
}

func not(_ *Ctx, child bool) (bool, error) { return !child, nil }
func and(_ *Ctx, l, r bool) (bool, error)  { return l && r, nil }
func or(_ *Ctx, l, r bool) (bool, error)   { return l || r, nil }

var evaluator = &eval.Evaluator[Ctx, *queryview.FileView, bool]{
	Leaf: leaf,
	Not:  not,
	And:  and,
	Or:   or,
}

// Match evaluates ast against a file view. A nil ast matches every file.
func Match(ctx *Ctx, ast *expr.Ast, view *queryview.FileView) (bool, error) {
	if ast == nil {
		return true, nil
	}
	return evaluator.Evaluate(ast, ctx, view)
}
