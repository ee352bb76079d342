package expr

import "github.com/jra3/tdb/internal/errs"

// Parse consumes a token sequence into an Ast. A zero-length token
// sequence is a valid empty expression and returns (nil, nil); callers
// that require a non-empty expression surface errs.KindEmptyExpression
// themselves (e.g. when compiling a DSL).
func Parse(tokens []Token) (*Ast, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	pos := 0
	ast, err := parseExpr(tokens, &pos, false)
	if err != nil {
		return nil, err
	}
	if pos != len(tokens) {
		return nil, errs.New("parser", errs.KindUnexpectedChar, nil)
	}
	return ast, nil
}

// parseExpr parses a left operand, then folds in a trailing binary
// operator (if any) by recursing for its right-hand side, producing a
// right-associative tree for chains of the same or mixed operators.
func parseExpr(tokens []Token, pos *int, inBlock bool) (*Ast, error) {
	left, err := parsePrimary(tokens, pos)
	if err != nil {
		return nil, err
	}

	if *pos >= len(tokens) {
		if inBlock {
			return nil, errs.New("parser", errs.KindUnexpectedEOF, nil)
		}
		return left, nil
	}

	switch tokens[*pos].Kind {
	case TokBlockClose:
		if !inBlock {
			return nil, errs.New("parser", errs.KindUnexpectedChar, nil)
		}
		*pos++
		return left, nil
	case TokAnd:
		*pos++
		right, err := parseExpr(tokens, pos, inBlock)
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, errs.New("parser", errs.KindUnexpectedEOF, nil)
		}
		return And(left, right), nil
	case TokOr:
		*pos++
		right, err := parseExpr(tokens, pos, inBlock)
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, errs.New("parser", errs.KindUnexpectedEOF, nil)
		}
		return Or(left, right), nil
	default:
		return nil, errs.New("parser", errs.KindUnexpectedChar, nil)
	}
}

// parsePrimary parses a single value: a leaf expression, a negation of
// one, or a parenthesized block.
func parsePrimary(tokens []Token, pos *int) (*Ast, error) {
	if *pos >= len(tokens) {
		return nil, errs.New("parser", errs.KindUnexpectedEOF, nil)
	}
	tok := tokens[*pos]
	switch tok.Kind {
	case TokExpr:
		*pos++
		return Expr(tok.Modifier, tok.Payload), nil
	case TokNot:
		*pos++
		operand, err := parsePrimary(tokens, pos)
		if err != nil {
			return nil, err
		}
		return Not(operand), nil
	case TokBlockOpen:
		*pos++
		if *pos < len(tokens) && tokens[*pos].Kind == TokBlockClose {
			return nil, errs.New("parser", errs.KindUnexpectedEOF, nil)
		}
		inner, err := parseExpr(tokens, pos, true)
		if err != nil {
			return nil, err
		}
		return inner, nil
	case TokAnd, TokOr:
		return nil, errs.New("parser", errs.KindMissingValue, nil)
	default:
		return nil, errs.New("parser", errs.KindUnexpectedChar, nil)
	}
}
