package observability

import "unicode"

const defaultFieldLimit = 256

// sanitizeString strips control characters (newlines and tabs excepted) and
// caps the rune count so request-derived values cannot inject log lines.
func sanitizeString(value string, limit int) string {
	if limit <= 0 {
		limit = defaultFieldLimit
	}

	cleaned := make([]rune, 0, len(value))
	for _, r := range value {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		cleaned = append(cleaned, r)
	}
	if len(cleaned) > limit {
		cleaned = cleaned[:limit]
	}
	return string(cleaned)
}

// SanitizeRoute bounds a route pattern before it becomes a log field or
// metric attribute. An empty route is reported as "/".
func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return sanitizeString(route, 180)
}

// SanitizeMethod bounds an HTTP method string.
func SanitizeMethod(method string) string {
	return sanitizeString(method, 10)
}

// SanitizeUserID bounds user and session identifiers so logs carry at most
// an opaque short token.
func SanitizeUserID(uid string) string {
	if len(uid) == 0 {
		return ""
	}
	return sanitizeString(uid, 64)
}
