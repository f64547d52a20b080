package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, err := Generate("secret", "U1", "ADMIN", "stocktrace", 5)
	require.NoError(t, err)

	userID, role, err := Parse("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "U1", userID)
	assert.Equal(t, "ADMIN", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := Generate("secret", "U1", "STAFF", "stocktrace", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("secret", "U1", "STAFF", "stocktrace", -1)
	require.NoError(t, err)

	_, _, err = Parse("secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "U1", "STAFF", "stocktrace", 5)
	assert.Error(t, err)
}
