package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/lxlismy7-source/springboot-assigment/internal/token"
)

type contextKey struct{}

var subjectKey contextKey

// Subject returns the verified token subject stored by AuthMiddleware.
func Subject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

// AuthMiddleware verifies the bearer token on every request and stores the
// token subject in the request context. Handlers pass the subject explicitly
// into services; nothing below the handler layer reads the request context.
func AuthMiddleware(tokens *token.Manager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, "Authorization header missing")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				writeUnauthorized(w, "Invalid token format")
				return
			}

			subject, err := tokens.Verify(tokenString)
			if err != nil {
				writeUnauthorized(w, verifyErrorMessage(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, subject)))
		})
	}
}

func verifyErrorMessage(err error) string {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return "Token expired"
	case errors.Is(err, token.ErrTokenMalformed):
		return "Malformed token"
	default:
		return "Invalid token"
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
