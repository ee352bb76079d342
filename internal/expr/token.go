// Package expr implements the boolery expression language: tokenizer,
// parser, AST, macro expansion, the comparison sub-language, and tag
// namespace canonicalization.
package expr

import (
	"strings"

	"github.com/jra3/tdb/internal/errs"
)

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	TokBlockOpen TokenKind = iota
	TokBlockClose
	TokNot
	TokAnd
	TokOr
	TokExpr
)

// Modifier is the leading character of an Expr token's `modifier[payload]`
// form: '=' (predicate), '?' (comparison), '$' (shell).
type Modifier byte

const (
	ModPredicate   Modifier = '='
	ModComparison  Modifier = '?'
	ModShell       Modifier = '$'
)

// Token is one lexical unit produced by Tokenize.
type Token struct {
	Kind     TokenKind
	Modifier Modifier
	Payload  string
}

// Tokenize lexes a source expression into a token sequence.
func Tokenize(src string) ([]Token, error) {
	runes := []rune(src)
	var toks []Token
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, Token{Kind: TokBlockOpen})
			i++
		case c == ')':
			toks = append(toks, Token{Kind: TokBlockClose})
			i++
		case c == '!':
			toks = append(toks, Token{Kind: TokNot})
			i++
		case c == '&':
			toks = append(toks, Token{Kind: TokAnd})
			i++
		case c == '|':
			toks = append(toks, Token{Kind: TokOr})
			i++
		case c == '=' || c == '?' || c == '$':
			mod := Modifier(c)
			i++
			payload, next, err := readPayload(runes, i)
			if err != nil {
				return nil, err
			}
			i = next
			toks = append(toks, Token{Kind: TokExpr, Modifier: mod, Payload: payload})
		case c == '[':
			// Shorthand: a bare '[' means '=['.
			payload, next, err := readPayload(runes, i)
			if err != nil {
				return nil, err
			}
			i = next
			toks = append(toks, Token{Kind: TokExpr, Modifier: ModPredicate, Payload: payload})
		default:
			return nil, errs.New("tokenizer", errs.KindInvalidCharacter, nil)
		}
	}
	return toks, nil
}

// readPayload expects the next non-space rune at or after i to be '[',
// and reads until the first unescaped ']'. Backslash escapes both the
// delimiter and itself; the escape character is removed from the output.
func readPayload(runes []rune, i int) (payload string, next int, err error) {
	for i < len(runes) && (runes[i] == ' ' || runes[i] == '\t') {
		i++
	}
	if i >= len(runes) {
		return "", i, errs.New("tokenizer", errs.KindUnexpectedChar, nil)
	}
	if runes[i] != '[' {
		return "", i, errs.New("tokenizer", errs.KindUnexpectedChar, nil)
	}
	i++

	var sb strings.Builder
	for {
		if i >= len(runes) {
			return "", i, errs.New("tokenizer", errs.KindUnclosedDelimiter, nil)
		}
		c := runes[i]
		switch c {
		case '\\':
			i++
			if i >= len(runes) {
				return "", i, errs.New("tokenizer", errs.KindUnclosedDelimiter, nil)
			}
			sb.WriteRune(runes[i])
			i++
		case ']':
			return sb.String(), i + 1, nil
		default:
			sb.WriteRune(c)
			i++
		}
	}
}
