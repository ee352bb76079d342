package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewWritesJSONToNonTTY(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)
	log.Info("hello", "key", "value")

	out := buf.String()
	if !strings.Contains(out, `"msg":"hello"`) {
		t.Errorf("expected JSON-handled output, got %q", out)
	}
}

func TestComponentAddsAttribute(t *testing.T) {
	var buf bytes.Buffer
	log := Component(New(&buf, false), "update")
	log.Info("scanning")

	out := buf.String()
	if !strings.Contains(out, `"component":"update"`) {
		t.Errorf("expected component attribute in output, got %q", out)
	}
}

func TestRunIDIsUnique(t *testing.T) {
	a, b := RunID(), RunID()
	if a == b {
		t.Error("expected distinct run ids")
	}
}
