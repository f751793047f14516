package graph

import (
	"unicode"
	"unicode/utf8"
)

// Style holds the colours used to draw a node of a given category.
type Style struct {
	Background string `json:"bg"`
	Border     string `json:"border"`
	Text       string `json:"text"`
}

// Category is the resolved presentation and placement record for a node
// category. Obtain one with [LookupCategory]; unknown names resolve to a
// fallback record rather than an error.
type Category struct {
	Name     string
	Label    string
	Priority int // ring index order in concentric layouts; lower is closer to the centre
	Style    Style
	Standard bool
}

// DefaultPriority is the ring priority of categories missing from the table.
// It places them alongside controllers.
const DefaultPriority = 4

// FallbackStyle colours unknown categories.
var FallbackStyle = Style{Background: "#f5f5f4", Border: "#a8a29e", Text: "#44403c"}

var categories = map[string]Category{
	"model":          {Label: "Model / DB", Priority: 0, Style: Style{"#fee2e2", "#ef4444", "#991b1b"}, Standard: true},
	"entity":         {Label: "Entity", Priority: 0, Style: Style{"#fee2e2", "#ef4444", "#991b1b"}},
	"service":        {Label: "Service", Priority: 1, Style: Style{"#dcfce7", "#22c55e", "#166534"}, Standard: true},
	"dto":            {Label: "DTO", Priority: 2, Style: Style{"#cffafe", "#06b6d4", "#155e75"}, Standard: true},
	"port":           {Label: "Port", Priority: 3, Style: Style{"#ede9fe", "#8b5cf6", "#5b21b6"}, Standard: true},
	"controller":     {Label: "Controller", Priority: 4, Style: Style{"#dbeafe", "#3b82f6", "#1e40af"}, Standard: true},
	"adapter":        {Label: "Adapter", Priority: 5, Style: Style{"#ffedd5", "#f97316", "#9a3412"}, Standard: true},
	"database":       {Label: "Database", Priority: 6, Style: FallbackStyle},
	"infrastructure": {Label: "Infrastructure", Priority: 7, Style: FallbackStyle},
	"job":            {Label: "Job", Priority: 8, Style: Style{"#fef9c3", "#eab308", "#854d0e"}, Standard: true},
	"external":       {Label: "External", Priority: 9, Style: Style{"#f3f4f6", "#6b7280", "#374151"}, Standard: true},
}

// StandardCategories lists the eight built-in categories in legend order.
var StandardCategories = []string{
	"controller", "service", "port", "adapter", "model", "external", "job", "dto",
}

// LookupCategory resolves a category name. Unknown or empty names get the
// fallback style, [DefaultPriority] and a capitalised label.
func LookupCategory(name string) Category {
	if c, ok := categories[name]; ok {
		c.Name = name
		return c
	}
	return Category{
		Name:     name,
		Label:    capitalize(name),
		Priority: DefaultPriority,
		Style:    FallbackStyle,
	}
}

// CategoryPriority is shorthand for LookupCategory(name).Priority.
func CategoryPriority(name string) int {
	return LookupCategory(name).Priority
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
