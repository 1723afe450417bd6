package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT(t *testing.T) {
	require.NoError(t, Init())

	assert.Equal(t, "Garment not found", T("en", "garment_not_found"))
	assert.Equal(t, "Prenda no encontrada", T("es", "garment_not_found"))
	assert.Equal(t, "Garment not found", T("fr", "garment_not_found"))
	assert.Equal(t, "no_such_message", T("es", "no_such_message"))
}
