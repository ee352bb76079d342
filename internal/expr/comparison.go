package expr

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jra3/tdb/internal/errs"
)

// CompareOp is a comparison operator in the `var OP number` sub-language.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNe
	OpLe
	OpGe
	OpLt
	OpGt
)

var comparisonRe = regexp.MustCompile(`^([A-Za-z0-9._-]+)\s*(<=|>=|==|!=|<|>)\s*(\d+)$`)

// Comparison is a compiled `var OP number` expression.
type Comparison struct {
	LHS string
	Op  CompareOp
	RHS uint64
}

// CompileComparison parses the comparison sub-language: `<var> (<=|>=|==|!=|<|>) <number>`.
func CompileComparison(src string) (*Comparison, error) {
	m := comparisonRe.FindStringSubmatch(strings.TrimSpace(src))
	if m == nil {
		return nil, errs.New("comparison.Compile", errs.KindFailedCapture, nil)
	}
	n, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return nil, errs.New("comparison.Compile", errs.KindFailedCapture, err)
	}
	op, err := parseOp(m[2])
	if err != nil {
		return nil, err
	}
	return &Comparison{LHS: m[1], Op: op, RHS: n}, nil
}

func parseOp(s string) (CompareOp, error) {
	switch s {
	case "==":
		return OpEq, nil
	case "!=":
		return OpNe, nil
	case "<=":
		return OpLe, nil
	case ">=":
		return OpGe, nil
	case "<":
		return OpLt, nil
	case ">":
		return OpGt, nil
	}
	return 0, errs.New("comparison.Compile", errs.KindUnknownOperator, nil)
}

// Eval evaluates the comparison against a variable binding map.
func (c *Comparison) Eval(vars map[string]uint64) (bool, error) {
	v, ok := vars[c.LHS]
	if !ok {
		return false, errs.New("comparison.Eval", errs.KindUnknownVariable, nil)
	}
	switch c.Op {
	case OpEq:
		return v == c.RHS, nil
	case OpNe:
		return v != c.RHS, nil
	case OpLe:
		return v <= c.RHS, nil
	case OpGe:
		return v >= c.RHS, nil
	case OpLt:
		return v < c.RHS, nil
	case OpGt:
		return v > c.RHS, nil
	}
	return false, errs.New("comparison.Eval", errs.KindUnknownOperator, nil)
}
