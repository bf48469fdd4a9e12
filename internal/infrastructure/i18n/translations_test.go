package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslator_LoadsEmbeddedCatalogs(t *testing.T) {
	tr := NewTranslator("ru")

	ru := tr.T("ru", "create.ask_title", nil)
	require.NotEqual(t, "create.ask_title", ru, "russian catalog should resolve the key")

	en := tr.T("en", "create.ask_title", nil)
	require.NotEqual(t, "create.ask_title", en)
	assert.NotEqual(t, ru, en)
}

func TestTranslator_TemplateData(t *testing.T) {
	tr := NewTranslator("ru")
	msg := tr.T("en", "create.ask_start", map[string]any{"Layout": "02.01.2006, 15:04"})
	assert.Contains(t, msg, "02.01.2006, 15:04")
}

func TestTranslator_FallsBackToDefaultLocale(t *testing.T) {
	tr := NewTranslator("ru")
	msg := tr.T("de", "edit.saved", nil)
	assert.NotEqual(t, "edit.saved", msg)
}

func TestTranslator_UnknownKeyReturnsKey(t *testing.T) {
	tr := NewTranslator("ru")
	assert.Equal(t, "no.such_key", tr.T("ru", "no.such_key", nil))
	assert.Equal(t, "", tr.T("ru", "", nil))
}
