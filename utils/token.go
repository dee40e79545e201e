package utils

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oficinaplus/workshop-api/models"
)

// Current token payload schema version. Bump when SharePayload changes
// shape; DecodeShareToken rejects versions it does not know.
const ShareTokenVersion = 1

var (
	// ErrTokenMalformed means the token is not valid base64url/JSON or
	// carries an unknown schema version.
	ErrTokenMalformed = errors.New("share token malformed")
	// ErrTokenSchema means the token decoded but required fields are missing.
	ErrTokenSchema = errors.New("share token missing required fields")
)

// EncodeShareToken serializes a share payload into a URL-safe token.
// The payload is marshaled as compact JSON (Go strings are UTF-8, so
// accented client names and descriptions survive intact) and wrapped in
// unpadded base64url. The codec is a pure carrier: it never validates
// the business total against the line items and never carries secrets.
func EncodeShareToken(payload models.SharePayload) (string, error) {
	payload.Version = ShareTokenVersion

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal share payload: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeShareToken reverses EncodeShareToken. Every failure path returns
// a typed error; it never panics on hostile input.
func DecodeShareToken(token string) (models.SharePayload, error) {
	var payload models.SharePayload

	// Strict mode rejects non-zero padding bits, so a flipped trailing
	// character cannot alias to the same payload.
	data, err := base64.RawURLEncoding.Strict().DecodeString(token)
	if err != nil {
		return payload, ErrTokenMalformed
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, ErrTokenMalformed
	}

	if payload.Version != ShareTokenVersion {
		return payload, ErrTokenMalformed
	}

	if err := validateSharePayload(payload); err != nil {
		return models.SharePayload{}, err
	}

	return payload, nil
}

func validateSharePayload(p models.SharePayload) error {
	if p.OrderID == "" {
		return ErrTokenSchema
	}
	switch p.Kind {
	case models.ShareKindFull:
		if p.ClientName == "" {
			return ErrTokenSchema
		}
	case models.ShareKindRef:
		// A ref token is useless without the owning workshop.
		if p.WorkshopID == "" {
			return ErrTokenSchema
		}
	default:
		return ErrTokenSchema
	}
	return nil
}
