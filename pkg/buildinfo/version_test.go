package buildinfo

import (
	"strings"
	"testing"
)

func TestResolved(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	if got := Resolved(); got != "v1.2.3" {
		t.Errorf("Resolved = %q", got)
	}
	if !strings.Contains(String(), "version: v1.2.3") {
		t.Errorf("String = %q", String())
	}
	if !strings.Contains(Template(), "v1.2.3") {
		t.Errorf("Template = %q", Template())
	}
}
