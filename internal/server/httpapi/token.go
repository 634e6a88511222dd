package httpapi

import (
	"net/http"
	"strings"
)

// extractToken looks for the access token in the Authorization bearer
// header, then the session cookie, then the token query parameter.
func extractToken(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token)
		}
	}

	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value
		}
	}

	return r.URL.Query().Get("token")
}
