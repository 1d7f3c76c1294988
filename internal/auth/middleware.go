package auth

import (
	"net/http"
	"strconv"

	"github.com/framil09/prefeitura--sub000/internal/transport"
)

// Middleware authenticates admin requests and threads the resolved
// identity into the request context.
type Middleware struct {
	*transport.BaseHandler
	verifier *TokenVerifier
	repo     IdentityRepository
}

func NewMiddleware(base *transport.BaseHandler, verifier *TokenVerifier, repo IdentityRepository) *Middleware {
	return &Middleware{
		BaseHandler: base,
		verifier:    verifier,
		repo:        repo,
	}
}

func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.ExtractTokenFromHeader(r)
		if token == "" {
			m.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.Logger.Warn("token verification failed", "error", err)
			m.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		userID, err := strconv.ParseInt(claims.UserID, 10, 64)
		if err != nil {
			m.Logger.Warn("malformed user id in token claims", "value", claims.UserID)
			m.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		identity, err := m.repo.GetIdentity(r.Context(), userID)
		if err != nil {
			m.Logger.Error("failed to resolve identity", "user_id", userID, "error", err)
			m.WriteError(w, http.StatusUnauthorized, "user not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), *identity)))
	})
}
