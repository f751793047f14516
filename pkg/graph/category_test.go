package graph

import "testing"

func TestLookupCategory(t *testing.T) {
	tests := []struct {
		name         string
		wantLabel    string
		wantPriority int
		wantStandard bool
	}{
		{"model", "Model / DB", 0, true},
		{"entity", "Entity", 0, false},
		{"service", "Service", 1, true},
		{"controller", "Controller", 4, true},
		{"external", "External", 9, true},
		{"infrastructure", "Infrastructure", 7, false},
		{"gateway", "Gateway", DefaultPriority, false},
		{"", "", DefaultPriority, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := LookupCategory(tt.name)
			if c.Name != tt.name {
				t.Errorf("Name = %q, want %q", c.Name, tt.name)
			}
			if c.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", c.Label, tt.wantLabel)
			}
			if c.Priority != tt.wantPriority {
				t.Errorf("Priority = %d, want %d", c.Priority, tt.wantPriority)
			}
			if c.Standard != tt.wantStandard {
				t.Errorf("Standard = %v, want %v", c.Standard, tt.wantStandard)
			}
		})
	}
}

func TestLookupCategory_FallbackStyle(t *testing.T) {
	if got := LookupCategory("queue").Style; got != FallbackStyle {
		t.Errorf("Style = %+v, want fallback", got)
	}
	if got := LookupCategory("controller").Style.Border; got != "#3b82f6" {
		t.Errorf("controller border = %q", got)
	}
}

func TestStandardCategoriesAreInTable(t *testing.T) {
	for _, name := range StandardCategories {
		if !LookupCategory(name).Standard {
			t.Errorf("%q not marked standard", name)
		}
	}
}

func TestCategoryPriority_CoreBeforeEdge(t *testing.T) {
	order := []string{"model", "service", "dto", "port", "controller", "adapter", "database", "infrastructure", "job", "external"}
	for i := 1; i < len(order); i++ {
		if CategoryPriority(order[i-1]) >= CategoryPriority(order[i]) {
			t.Errorf("priority(%s) should be below priority(%s)", order[i-1], order[i])
		}
	}
}
