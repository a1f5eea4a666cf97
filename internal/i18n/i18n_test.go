package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslations(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Item not found", T("en", KeyItemNotFound))
	assert.Equal(t, "找不到項目", T("zh_TW", KeyItemNotFound))
	assert.Equal(t, "Invalid input", T("en", KeyValidationInvalid, "input"))

	// unknown language falls back to English, unknown key to the key itself
	assert.Equal(t, "Item not found", T("fr", KeyItemNotFound))
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))

	assert.ElementsMatch(t, []string{"en", "zh_TW"}, GetSupportedLanguages())
}

func TestLocalesShareKeys(t *testing.T) {
	require.NoError(t, Initialize())

	en := instance.translations["en"]
	for _, lang := range GetSupportedLanguages() {
		other := instance.translations[lang]
		for key := range en {
			assert.Contains(t, other, key, "%s is missing %s", lang, key)
		}
		assert.Len(t, other, len(en), lang)
	}
}
