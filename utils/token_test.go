package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/oficinaplus/workshop-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullPayload() models.SharePayload {
	return models.SharePayload{
		Version:     ShareTokenVersion,
		Kind:        models.ShareKindFull,
		OrderID:     "OS-1001",
		WorkshopID:  "T1",
		ClientName:  "João",
		Plate:       "ABC-1234",
		Description: "Revisão completa",
		Items: []models.ShareItem{
			{Kind: models.ItemKindPart, Description: "Filtro", Quantity: 2, UnitPrice: 25.00},
		},
		Total:     50.00,
		CreatedAt: "01/09/2026",
	}
}

func TestShareTokenRoundTrip(t *testing.T) {
	payload := fullPayload()

	token, err := EncodeShareToken(payload)
	require.NoError(t, err)

	decoded, err := DecodeShareToken(token)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestShareTokenRoundTripUnicode(t *testing.T) {
	payload := fullPayload()
	payload.ClientName = "José Conceição"
	payload.Description = "Troca de óleo — motor 1.6 日本語 🚗"
	payload.Items[0].Description = "Correia dentada (reforçada)"

	token, err := EncodeShareToken(payload)
	require.NoError(t, err)

	decoded, err := DecodeShareToken(token)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestShareTokenRoundTripZeroItems(t *testing.T) {
	payload := fullPayload()
	payload.Items = nil
	payload.Total = 0

	token, err := EncodeShareToken(payload)
	require.NoError(t, err)

	decoded, err := DecodeShareToken(token)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestShareTokenRoundTripManyPhotos(t *testing.T) {
	payload := fullPayload()
	for i := 0; i < 30; i++ {
		payload.Photos = append(payload.Photos, models.SharePhoto{
			URL:         "https://cdn.oficinaplus.com.br/photos/os-1001-" + strings.Repeat("x", i) + ".jpg",
			Observation: "Arranhão no para-choque",
		})
	}

	token, err := EncodeShareToken(payload)
	require.NoError(t, err)

	decoded, err := DecodeShareToken(token)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestShareTokenRefVariant(t *testing.T) {
	payload := models.SharePayload{
		Version:    ShareTokenVersion,
		Kind:       models.ShareKindRef,
		OrderID:    "OS-1001",
		WorkshopID: "T1",
	}

	token, err := EncodeShareToken(payload)
	require.NoError(t, err)

	decoded, err := DecodeShareToken(token)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)

	// Ref tokens should stay URL-short.
	assert.Less(t, len(token), 100)
}

// The codec is a pure carrier: a total that disagrees with the line
// items still round-trips untouched.
func TestShareTokenDoesNotValidateTotal(t *testing.T) {
	payload := fullPayload()
	payload.Total = 999.99

	token, err := EncodeShareToken(payload)
	require.NoError(t, err)

	decoded, err := DecodeShareToken(token)
	require.NoError(t, err)
	assert.Equal(t, 999.99, decoded.Total)
}

func TestDecodeShareTokenTampered(t *testing.T) {
	token, err := EncodeShareToken(fullPayload())
	require.NoError(t, err)

	// Flip one character at every position; decode must never hand back
	// a silently-wrong record without erroring or changing content.
	for i := 0; i < len(token); i++ {
		flip := byte('A')
		if token[i] == 'A' {
			flip = 'B'
		}
		tampered := token[:i] + string(flip) + token[i+1:]
		if tampered == token {
			continue
		}

		decoded, err := DecodeShareToken(tampered)
		if err == nil {
			// A one-byte flip inside a JSON string can survive decoding;
			// it must surface as different content, never a panic.
			assert.NotEqual(t, fullPayload(), decoded, "position %d", i)
		} else {
			assert.True(t, errors.Is(err, ErrTokenMalformed) || errors.Is(err, ErrTokenSchema),
				"position %d: unexpected error %v", i, err)
		}
	}
}

func TestDecodeShareTokenMalformed(t *testing.T) {
	cases := []string{
		"",
		"!!!not-base64!!!",
		"????",
		"aGVsbG8gd29ybGQ", // valid base64, not JSON
	}

	for _, tc := range cases {
		_, err := DecodeShareToken(tc)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", tc)
	}
}

func TestDecodeShareTokenWrongVersion(t *testing.T) {
	payload := fullPayload()
	token, err := EncodeShareToken(payload)
	require.NoError(t, err)

	// Re-encode with a future version the codec does not know.
	decoded, err := DecodeShareToken(token)
	require.NoError(t, err)
	decoded.Version = ShareTokenVersion + 1

	raw := encodeRaw(t, decoded)
	_, err = DecodeShareToken(raw)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestDecodeShareTokenSchemaMismatch(t *testing.T) {
	missingID := fullPayload()
	missingID.OrderID = ""
	_, err := DecodeShareToken(encodeRaw(t, missingID))
	assert.ErrorIs(t, err, ErrTokenSchema)

	badKind := fullPayload()
	badKind.Kind = "x"
	_, err = DecodeShareToken(encodeRaw(t, badKind))
	assert.ErrorIs(t, err, ErrTokenSchema)

	refNoWorkshop := models.SharePayload{
		Version: ShareTokenVersion,
		Kind:    models.ShareKindRef,
		OrderID: "OS-1001",
	}
	_, err = DecodeShareToken(encodeRaw(t, refNoWorkshop))
	assert.ErrorIs(t, err, ErrTokenSchema)
}

// encodeRaw bypasses EncodeShareToken's version stamping so tests can
// craft payloads the encoder would normalize.
func encodeRaw(t *testing.T, payload models.SharePayload) string {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(data)
}
