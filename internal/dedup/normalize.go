package dedup

import "strings"

var trackingParamPrefixes = []string{"utm_"}

var trackingParamKeys = map[string]struct{}{
	"fbclid": {},
	"gclid":  {},
	"ref":    {},
}

// NormalizeURL reduces a URL to its duplicate-identity form: tracking
// query parameters removed, lowercased, "www." and trailing slash
// stripped. It is a pure string transform so malformed URLs degrade to
// a best-effort key instead of erroring, and it is idempotent.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	base := trimmed
	query := ""
	if q := strings.IndexByte(trimmed, '?'); q >= 0 {
		base = trimmed[:q]
		query = trimmed[q+1:]
	}

	if query != "" {
		kept := make([]string, 0, 4)
		for _, param := range strings.Split(query, "&") {
			if param == "" || isTrackingParam(param) {
				continue
			}
			kept = append(kept, param)
		}
		if len(kept) > 0 {
			base = base + "?" + strings.Join(kept, "&")
		}
	}

	normalized := strings.ToLower(base)
	normalized = strings.TrimSuffix(normalized, "?")
	normalized = strings.TrimSuffix(normalized, "&")
	normalized = strings.Replace(normalized, "://www.", "://", 1)
	normalized = strings.TrimRight(normalized, "/")

	return normalized
}

func isTrackingParam(param string) bool {
	key := param
	if eq := strings.IndexByte(param, '='); eq >= 0 {
		key = param[:eq]
	}
	key = strings.ToLower(key)

	for _, prefix := range trackingParamPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	_, ok := trackingParamKeys[key]
	return ok
}
