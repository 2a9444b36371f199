package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

type tokenPayload struct {
	Offset int `json:"offset"`
}

// EncodeToken serialises the list offset into a base64 URL-safe page token.
func EncodeToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	data, _ := json.Marshal(tokenPayload{Offset: offset})
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeToken parses a page token produced by EncodeToken back into an offset.
func DecodeToken(token string) (int, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPageToken, err)
	}
	var payload tokenPayload
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPageToken, err)
	}
	if payload.Offset < 0 {
		return 0, fmt.Errorf("%w: negative offset", ErrInvalidPageToken)
	}
	return payload.Offset, nil
}
