package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRuntime(t *testing.T) {
	for _, lang := range Languages() {
		t.Run(lang.ID, func(t *testing.T) {
			rt, ok := ServiceRuntime(lang.ID)
			require.True(t, ok)
			assert.Equal(t, lang.Runtime.Version, rt.Version)
			if lang.ID == "javascript" {
				assert.Equal(t, "nodejs", rt.Language)
			} else {
				assert.Equal(t, lang.Runtime.Language, rt.Language)
			}
		})
	}

	_, ok := ServiceRuntime("cobol")
	assert.False(t, ok)
}

func TestServiceRuntimeDoesNotMutateRegistry(t *testing.T) {
	_, ok := ServiceRuntime("javascript")
	require.True(t, ok)

	lang, ok := LookupLanguage("javascript")
	require.True(t, ok)
	assert.Equal(t, "javascript", lang.Runtime.Language)
}

func TestLanguagesSortedAndDefaultRegistered(t *testing.T) {
	langs := Languages()
	require.NotEmpty(t, langs)
	for i := 1; i < len(langs); i++ {
		assert.Less(t, langs[i-1].ID, langs[i].ID)
	}
	_, ok := LookupLanguage(DefaultLanguage)
	assert.True(t, ok)
}

func TestThemes(t *testing.T) {
	th, ok := LookupTheme(DefaultTheme)
	require.True(t, ok)
	assert.Equal(t, "VS Dark", th.Label)

	list := Themes()
	list[0].Label = "mutated"
	th, _ = LookupTheme(list[0].ID)
	assert.NotEqual(t, "mutated", th.Label)

	_, ok = LookupTheme("nope")
	assert.False(t, ok)
}
