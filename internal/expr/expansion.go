package expr

import (
	"regexp"
	"strings"

	"github.com/jra3/tdb/internal/errs"
)

const defaultRecursionLimit = 128

// Expansions holds a macro dictionary plus the delimiter/wrapper
// configuration used to expand `{{name}}`-style references in strings.
//
// Substitution is a single textual splice, not a re-wrap: a replacement
// value is only re-scanned for further macros if it happens to contain
// its own `{{...}}` text (i.e. nesting is authored into the dictionary
// value, not synthesized by Expand). This mirrors the grounded
// reference semantics exactly (check_recursive_expansion): a -> "a{{b}}",
// b -> "b{{c}}", c -> "c" expands {{a}} to "abc".
type Expansions struct {
	Table           map[string]string
	Open            string
	Close           string
	WrapOpen        string
	WrapClose       string
	RecursionLimit  int
}

// New returns an Expansions using the default "{{"/"}}" delimiter, no
// wrapper, and the default recursion limit.
func New(table map[string]string) *Expansions {
	if table == nil {
		table = map[string]string{}
	}
	return &Expansions{
		Table: table,
		Open:  "{{",
		Close: "}}",
	}
}

func (e *Expansions) limit() int {
	if e.RecursionLimit > 0 {
		return e.RecursionLimit
	}
	return defaultRecursionLimit
}

func (e *Expansions) pattern() *regexp.Regexp {
	open, close := e.Open, e.Close
	if open == "" {
		open = "{{"
	}
	if close == "" {
		close = "}}"
	}
	closeChar := close[len(close)-1:]
	return regexp.MustCompile(regexp.QuoteMeta(open) + "[^" + regexp.QuoteMeta(closeChar) + "]*" + regexp.QuoteMeta(close))
}

func validIdentifier(id string) bool {
	if len(id) == 0 {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}

// Expand repeatedly splices in the replacement for the first matched
// `{{name}}`-shaped substring until none remain, failing if the
// recursion budget is exhausted, a name fails identifier validation, or
// a name has no dictionary entry.
func (e *Expansions) Expand(s string) (string, error) {
	re := e.pattern()
	budget := e.limit()

	for {
		loc := re.FindStringIndex(s)
		if loc == nil {
			return s, nil
		}
		if budget <= 0 {
			return "", errs.New("expansion.Expand", errs.KindRecursionLimit, nil)
		}
		budget--

		matched := s[loc[0]:loc[1]]
		inner := matched[len(e.Open) : len(matched)-len(e.Close)]
		name := strings.TrimSpace(inner)
		if !validIdentifier(name) {
			return "", errs.New("expansion.Expand", errs.KindInvalidIdentifier, nil)
		}
		val, ok := e.Table[name]
		if !ok {
			return "", errs.New("expansion.Expand", errs.KindUnknownExpansion, nil)
		}
		s = s[:loc[0]] + e.WrapOpen + val + e.WrapClose + s[loc[1]:]
	}
}
