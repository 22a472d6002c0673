package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		row      map[string]string
		expected string
	}{
		{
			name:     "single placeholder",
			template: "Hello {{name}}",
			row:      map[string]string{"name": "World"},
			expected: "Hello World",
		},
		{
			name:     "missing key left verbatim",
			template: "Hello {{name}}",
			row:      map[string]string{},
			expected: "Hello {{name}}",
		},
		{
			name:     "unused keys ignored",
			template: "Hello {{name}}",
			row:      map[string]string{"name": "World", "city": "Berlin"},
			expected: "Hello World",
		},
		{
			name:     "repeated placeholder",
			template: "{{x}} and {{x}} again",
			row:      map[string]string{"x": "one"},
			expected: "one and one again",
		},
		{
			name:     "multiple keys",
			template: "{{greeting}}, {{name}}!",
			row:      map[string]string{"greeting": "Hi", "name": "Ada"},
			expected: "Hi, Ada!",
		},
		{
			name:     "key with regex metacharacters stays literal",
			template: "value: {{a.b}} raw: {{ab}}",
			row:      map[string]string{"a.b": "dotted"},
			expected: "value: dotted raw: {{ab}}",
		},
		{
			name:     "key that is a substring of another placeholder",
			template: "{{user}} vs {{username}}",
			row:      map[string]string{"user": "u1", "username": "u2"},
			expected: "u1 vs u2",
		},
		{
			name:     "empty template",
			template: "",
			row:      map[string]string{"name": "World"},
			expected: "",
		},
		{
			name:     "no placeholders",
			template: "static text",
			row:      map[string]string{"name": "World"},
			expected: "static text",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Render(test.template, test.row))
		})
	}
}

func TestRenderIdempotent(t *testing.T) {
	row := map[string]string{"name": "World", "city": "Berlin"}
	once := Render("{{name}} from {{city}}", row)
	assert.Equal(t, once, Render(once, row))
}

func TestVariables(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected []string
	}{
		{"none", "plain text", nil},
		{"one", "Hello {{name}}", []string{"name"}},
		{"ordered distinct", "{{b}} {{a}} {{b}}", []string{"b", "a"}},
		{"dotted name", "{{a.b}}", []string{"a.b"}},
		{"unterminated ignored", "{{open", nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Variables(test.template))
		})
	}
}
