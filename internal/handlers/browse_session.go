package handlers

import (
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/lowkey-merch/storefront/internal/platform/auth"
)

// BrowseSessionHeader carries the anonymous browsing-session id. Every visitor
// has one, authenticated or not; it keys the per-session view state.
const BrowseSessionHeader = "X-Session-Id"

const maxBrowseSessionIDLength = 64

// BrowseSessionMiddleware reads the browsing-session id from the request header,
// minting a fresh one when absent or malformed, and echoes it on the response so
// clients can persist it.
func BrowseSessionMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := normaliseBrowseSessionID(r.Header.Get(BrowseSessionHeader))
			if sessionID == "" {
				sessionID = ulid.Make().String()
			}

			w.Header().Set(BrowseSessionHeader, sessionID)
			ctx := auth.WithBrowseSession(r.Context(), sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func normaliseBrowseSessionID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxBrowseSessionIDLength {
		return ""
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-', r == '_':
		default:
			return ""
		}
	}
	return id
}
