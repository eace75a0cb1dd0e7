package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/DanielSedell02/AI-spr-kapp/internal/core/auth"
)

type contextKey struct{ name string }

var userIDKey = &contextKey{"user_id"}

// UserIDFromContext returns the authenticated user id placed in the request
// context by Authenticator.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// Authenticator gates API routes: a missing, invalid or expired bearer token
// terminates the request with a 401 JSON body before any handler runs.
func Authenticator(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "Authentication required")
				return
			}

			userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// publicPages don't require a session cookie.
var publicPages = map[string]bool{
	"/":       true,
	"/signin": true,
	"/signup": true,
	"/about":  true,
}

// PageGate protects non-public page paths served from the web directory:
// requests without a valid "token" cookie are redirected to the signin page
// with the original path in the "from" parameter, and a stale cookie is
// cleared.
func PageGate(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPages[r.URL.Path] || hasExtension(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie("token")
			if err != nil || cookie.Value == "" {
				redirectToSignin(w, r, false)
				return
			}
			if _, err := tokens.Verify(cookie.Value); err != nil {
				redirectToSignin(w, r, true)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func redirectToSignin(w http.ResponseWriter, r *http.Request, clearCookie bool) {
	if clearCookie {
		http.SetCookie(w, &http.Cookie{
			Name:   "token",
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
	}
	target := "/signin?from=" + url.QueryEscape(r.URL.Path)
	http.Redirect(w, r, target, http.StatusFound)
}

// hasExtension reports whether the path looks like a static asset
// (stylesheet, script, image) rather than a page route.
func hasExtension(path string) bool {
	idx := strings.LastIndexByte(path, '/')
	return strings.ContainsRune(path[idx+1:], '.')
}
