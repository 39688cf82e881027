package htmlsanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"plain text", "Simmer for 20 minutes", "Simmer for 20 minutes"},
		{"safe markup preserved", "<p><strong>Bold</strong> and <em>italic</em></p>", "<p><strong>Bold</strong> and <em>italic</em></p>"},
		{"script removed", "<p>Hello</p><script>alert('xss')</script>", "<p>Hello</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestSanitizeStripsEventHandlers(t *testing.T) {
	out := Sanitize(`<button onclick="alert('xss')">Click</button>`)
	assert.NotContains(t, out, "onclick")
}

func TestSanitizeStripsJavascriptHref(t *testing.T) {
	out := Sanitize(`<a href="javascript:alert('xss')">Click</a>`)
	assert.NotContains(t, out, "javascript:")
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Carbonara", PlainText("<b>Carbonara</b>"))
	assert.Equal(t, "Hello", PlainText("<script>x()</script>Hello"))
}
