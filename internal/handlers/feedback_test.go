package handlers

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredTemplates(t *testing.T) {
	t.Run("unwraps a parsed template set", func(t *testing.T) {
		parsed := template.Must(template.New("x").Parse("ok"))

		tmpl, ok := storedTemplates(parsed)
		require.True(t, ok)
		assert.Same(t, parsed, tmpl)
	})

	t.Run("missing store entry does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			_, ok := storedTemplates(nil)
			assert.False(t, ok)
		})
	})

	t.Run("mistyped store entry is rejected", func(t *testing.T) {
		_, ok := storedTemplates("not a template")
		assert.False(t, ok)

		var nilTmpl *template.Template
		_, ok = storedTemplates(nilTmpl)
		assert.False(t, ok)
	})
}
