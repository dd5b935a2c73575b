package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/voe-labs/ideahub-backend/internal/domain"
	"github.com/voe-labs/ideahub-backend/pkg/ctxutil"
)

// tokenVerifier turns a bearer token into an actor.
type tokenVerifier interface {
	Verify(token string) (domain.Actor, error)
}

// Auth returns middleware that requires a valid Bearer token and stores
// the resulting actor in the request context. Missing or invalid
// credentials end the request with 401.
func Auth(verifier tokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			actor, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxutil.WithActor(r.Context(), actor)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
		"error": map[string]string{
			"kind":    "unauthorized",
			"message": message,
		},
	})
}
