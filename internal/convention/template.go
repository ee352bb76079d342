package convention

import (
	"github.com/jra3/tdb/internal/errs"
	"github.com/jra3/tdb/internal/expr"
)

// Template is a named, parameterized group of Commands, instantiated
// with positional arguments at the call site (a convention's
// `instances` entry).
type Template struct {
	Parameters []string  `yaml:"parameters"`
	Commands   []Command `yaml:"commands"`
}

// Instantiate binds t's parameters to args positionally, folds the
// bindings into dictionary (the config's base expansion table), and
// compiles every body Command in that scope.
func (t Template) Instantiate(args []string, dictionary map[string]string) ([]*CompiledCommand, error) {
	if len(args) != len(t.Parameters) {
		return nil, errs.New("convention.Template.Instantiate", errs.KindArgument, nil)
	}

	table := make(map[string]string, len(dictionary)+len(t.Parameters))
	for k, v := range dictionary {
		table[k] = v
	}
	for i, name := range t.Parameters {
		table[name] = args[i]
	}
	exp := expr.New(table)

	out := make([]*CompiledCommand, 0, len(t.Commands))
	for _, cmd := range t.Commands {
		cc, err := cmd.Configure(exp)
		if err != nil {
			return nil, err
		}
		out = append(out, cc)
	}
	return out, nil
}
