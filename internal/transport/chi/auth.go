package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"

	gen "github.com/kailas-cloud/memedex/internal/transport/generated"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// AuthKeys lists accepted bearer tokens. ReadOnly tokens may search and read
// records but not create, patch or delete them.
type AuthKeys struct {
	ReadWrite []string
	ReadOnly  []string
}

type access int

const (
	accessNone access = iota
	accessRead
	accessWrite
)

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If no keys are configured, authentication is disabled (pass-through).
func BearerAuthMiddleware(keys AuthKeys) func(http.Handler) http.Handler {
	readWrite := nonEmpty(keys.ReadWrite)
	readOnly := nonEmpty(keys.ReadOnly)

	return func(next http.Handler) http.Handler {
		if len(readWrite) == 0 && len(readOnly) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, _ := strings.Cut(r.Header.Get("Authorization"), " ")
			if !strings.EqualFold(scheme, "Bearer") || token == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="memedex"`)
				writeError(w, http.StatusUnauthorized, gen.ErrorResponseCodeUnauthorized,
					"authorization header must use Bearer scheme")
				return
			}

			granted := accessNone
			switch {
			case matchAny(readWrite, token):
				granted = accessWrite
			case matchAny(readOnly, token):
				granted = accessRead
			}

			switch {
			case granted == accessNone:
				w.Header().Set("WWW-Authenticate", `Bearer realm="memedex", error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, gen.ErrorResponseCodeUnauthorized, "invalid api key")
			case granted == accessRead && !isReadMethod(r.Method):
				writeError(w, http.StatusForbidden, gen.ErrorResponseCodeForbidden, "api key is read-only")
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func nonEmpty(keys []string) [][]byte {
	out := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, []byte(k))
		}
	}
	return out
}

// matchAny compares token against every key in constant time per key.
func matchAny(keys [][]byte, token string) bool {
	t := []byte(token)
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, t)
	}
	return found == 1
}

func isReadMethod(m string) bool {
	return m == http.MethodGet || m == http.MethodHead || m == http.MethodOptions
}
