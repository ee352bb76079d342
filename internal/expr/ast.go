package expr

// Kind discriminates the variants of an Ast node.
type Kind int

const (
	KindExpr Kind = iota
	KindNot
	KindAnd
	KindOr
)

// Ast is the boolean expression tree: a leaf Expr(modifier, payload), or
// an operator node over one or two children.
type Ast struct {
	Kind     Kind
	Modifier Modifier
	Payload  string
	Left     *Ast
	Right    *Ast
}

// Expr builds a leaf node.
func Expr(mod Modifier, payload string) *Ast {
	return &Ast{Kind: KindExpr, Modifier: mod, Payload: payload}
}

// Not builds a negation node.
func Not(child *Ast) *Ast {
	return &Ast{Kind: KindNot, Left: child}
}

// And builds a conjunction node.
func And(l, r *Ast) *Ast {
	return &Ast{Kind: KindAnd, Left: l, Right: r}
}

// Or builds a disjunction node.
func Or(l, r *Ast) *Ast {
	return &Ast{Kind: KindOr, Left: l, Right: r}
}
