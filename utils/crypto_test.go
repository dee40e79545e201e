package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentEncryptionRoundTrip(t *testing.T) {
	t.Setenv("DOCUMENT_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	enc, err := EncryptDocument("123.456.789-00")
	require.NoError(t, err)
	assert.NotContains(t, enc, "123.456.789-00")

	plain, err := DecryptDocument(enc)
	require.NoError(t, err)
	assert.Equal(t, "123.456.789-00", plain)
}

func TestDecryptDocumentRejectsTampered(t *testing.T) {
	t.Setenv("DOCUMENT_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")

	enc, err := EncryptDocument("12.345.678/0001-99")
	require.NoError(t, err)

	_, err = DecryptDocument("AAAA" + enc[4:])
	assert.Error(t, err)
}

func TestEncryptDocumentRequiresKey(t *testing.T) {
	t.Setenv("DOCUMENT_ENCRYPTION_KEY", "short")

	_, err := EncryptDocument("123.456.789-00")
	assert.Error(t, err)
}
