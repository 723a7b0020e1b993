package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const usernameKey ctxKey = "username"

// UsernameFromContext returns the caller's username label.
func UsernameFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(usernameKey)
	name, ok := v.(string)
	return name, ok
}

// RequireUsername reads the freeform X-Username header into the request
// context. The value is an unchecked identity label used for record
// ownership and attribution, not a security boundary.
func RequireUsername(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.Header.Get("X-Username"))
		if name == "" {
			http.Error(w, "username required", http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, name)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
