// Package eval implements the generic boolean evaluator shared by both
// query DSL instantiations (store-side and filter-side).
package eval

import "github.com/jra3/tdb/internal/expr"

// Leaf resolves a single Expr leaf node into Out, given the shared
// context and the per-evaluation input.
type Leaf[Ctx any, In any, Out any] func(ctx *Ctx, mod expr.Modifier, payload string, in In) (Out, error)

// Unary combines the result of a negated subtree.
type Unary[Ctx any, Out any] func(ctx *Ctx, child Out) (Out, error)

// Binary combines the results of two subtrees (And/Or).
type Binary[Ctx any, Out any] func(ctx *Ctx, left Out, right Out) (Out, error)

// Evaluator walks an Ast, dispatching to caller-supplied callbacks. Both
// children of a binary node are always evaluated (no short-circuit);
// callers wanting short-circuit behavior must shape the Ast to achieve it.
type Evaluator[Ctx any, In any, Out any] struct {
	Leaf Leaf[Ctx, In, Out]
	Not  Unary[Ctx, Out]
	And  Binary[Ctx, Out]
	Or   Binary[Ctx, Out]
}

// Evaluate walks ast postorder, threading ctx through every callback.
func (e *Evaluator[Ctx, In, Out]) Evaluate(ast *expr.Ast, ctx *Ctx, in In) (Out, error) {
	var zero Out
	if ast == nil {
		return zero, nil
	}
	switch ast.Kind {
	case expr.KindExpr:
		return e.Leaf(ctx, ast.Modifier, ast.Payload, in)
	case expr.KindNot:
		child, err := e.Evaluate(ast.Left, ctx, in)
		if err != nil {
			return zero, err
		}
		return e.Not(ctx, child)
	case expr.KindAnd:
		left, err := e.Evaluate(ast.Left, ctx, in)
		if err != nil {
			return zero, err
		}
		right, err := e.Evaluate(ast.Right, ctx, in)
		if err != nil {
			return zero, err
		}
		return e.And(ctx, left, right)
	case expr.KindOr:
		left, err := e.Evaluate(ast.Left, ctx, in)
		if err != nil {
			return zero, err
		}
		right, err := e.Evaluate(ast.Right, ctx, in)
		if err != nil {
			return zero, err
		}
		return e.Or(ctx, left, right)
	}
	return zero, nil
}
