package textutil

import "strings"

// NormalizeStringMap returns a copy of values with keys and values trimmed.
// Entries whose key trims to empty are dropped; an empty result is nil so
// callers can treat "nothing to send" uniformly. Payment provider metadata
// passes through here before leaving the process.
func NormalizeStringMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
