package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranslator(t *testing.T) {
	tr, err := NewTranslator()
	require.NoError(t, err)

	langs := tr.Languages()
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "es")
	assert.Contains(t, langs, "tr")
}

func TestCatalogFor(t *testing.T) {
	tr, err := NewTranslator()
	require.NoError(t, err)

	t.Run("unknown language falls back to the default catalog", func(t *testing.T) {
		assert.Equal(t, tr.CatalogFor("en"), tr.CatalogFor("xx"))
	})

	t.Run("returns a copy callers cannot poison", func(t *testing.T) {
		first := tr.CatalogFor("en")
		key := ""
		for k := range first {
			key = k
			break
		}
		require.NotEmpty(t, key)

		first[key] = "tampered"
		assert.NotEqual(t, "tampered", tr.CatalogFor("en")[key])
	})
}

func TestT(t *testing.T) {
	tr, err := NewTranslator()
	require.NoError(t, err)

	t.Run("resolves a key in the requested language", func(t *testing.T) {
		assert.NotEmpty(t, tr.T("es", "payment.completed"))
		assert.NotEqual(t, tr.T("en", "payment.completed"), tr.T("es", "payment.completed"))
	})

	t.Run("missing language falls back to the default", func(t *testing.T) {
		assert.Equal(t, tr.T("en", "payment.completed"), tr.T("xx", "payment.completed"))
	})

	t.Run("unknown key falls back to the key itself", func(t *testing.T) {
		assert.Equal(t, "no.such.key", tr.T("en", "no.such.key"))
	})
}
