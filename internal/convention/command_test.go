package convention

import (
	"testing"

	"github.com/jra3/tdb/internal/expr"
	"github.com/jra3/tdb/internal/pipeline"
)

func TestCommandConfigureCompilesExpressions(t *testing.T) {
	cmd := Command{
		Query:   "[tag::work]",
		Filter:  "[path::/home]",
		Actions: [][]string{{"emit"}},
	}
	cc, err := cmd.Configure(expr.New(nil))
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if cc.Pipeline.Query == nil {
		t.Error("expected a compiled query")
	}
	if cc.Pipeline.Filter == nil {
		t.Error("expected a compiled filter")
	}
}

func TestCommandConfigureExpandsDictionary(t *testing.T) {
	cmd := Command{Query: "[tag::{{area}}]"}
	cc, err := cmd.Configure(expr.New(map[string]string{"area": "finance"}))
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if cc.Pipeline.Query == nil || cc.Pipeline.Query.Payload != "tag::finance" {
		t.Fatalf("expected the payload to be expanded, got %+v", cc.Pipeline.Query)
	}
}

func TestCompiledCommandForcingsUnionsActions(t *testing.T) {
	cmd := Command{Query: "[tag::work]", Actions: [][]string{{"emit"}}}
	cc, err := cmd.Configure(expr.New(nil))
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if !cc.Forcings().Has(pipeline.Mapped) {
		t.Errorf("expected emit to force Mapped, got %v", cc.Forcings())
	}
}
