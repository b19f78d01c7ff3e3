package chi

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"
)

type authClientKey struct{}

// authenticatedClient returns the identity of the API key that
// BearerAuthMiddleware accepted for this request.
func authenticatedClient(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(authClientKey{}).(string)
	return id, ok && id != ""
}

// publicPaths bypass authentication so health checks and scrapers need no key.
var publicPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// BearerAuthMiddleware requires one of apiKeys as a Bearer token on chat routes.
// Empty keys are ignored; with no keys left, authentication is off.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	var digests [][sha256.Size]byte
	for _, k := range apiKeys {
		if k != "" {
			digests = append(digests, sha256.Sum256([]byte(k)))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(digests) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			switch {
			case !ok && r.Header.Get("Authorization") == "":
				unauthorized(w, "missing authorization header")
			case !ok:
				unauthorized(w, "authorization header must use Bearer scheme")
			case !knownKey(digests, token):
				unauthorized(w, "invalid api key")
			default:
				ctx := context.WithValue(r.Context(), authClientKey{}, keyID(token))
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// knownKey compares digests in constant time so response timing leaks nothing about the keys.
func knownKey(digests [][sha256.Size]byte, token string) bool {
	got := sha256.Sum256([]byte(token))
	match := 0
	for i := range digests {
		match |= subtle.ConstantTimeCompare(got[:], digests[i][:])
	}
	return match == 1
}

// keyID is a short digest prefix, so raw keys never sit in limiter state.
func keyID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="archsearch"`)
	writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, msg)
}

// bearerToken extracts a non-empty token; the scheme is case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
