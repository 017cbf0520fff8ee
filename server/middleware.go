package server

import (
	"context"
	"net/http"
	"strings"

	"chat-wire/domain"
)

type contextKey string

const identityKey contextKey = "identity"

// bearerToken extracts the credential from the standard
// "Authorization: Bearer <token>" header, falling back to the "token"
// query parameter for websocket clients that cannot set headers.
func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// requireAuth validates the bearer credential and injects the resolved
// identity into the request context for downstream handlers.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "authorization token is missing")
			return
		}

		identity, err := s.identity.Authenticate(token)
		if err != nil {
			writeErrorMessage(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next(w, r.WithContext(ctx))
	}
}

func identityFrom(ctx context.Context) (domain.UserIdentity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.UserIdentity)
	return identity, ok
}
