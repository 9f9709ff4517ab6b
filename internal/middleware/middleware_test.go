package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lxlismy7-source/springboot-assigment/internal/token"
)

func protected(t *testing.T, tokens *token.Manager) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := Subject(r.Context())
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(subject))
	})
	return AuthMiddleware(tokens)(next)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	tokenString, err := tokens.Issue("alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rr := httptest.NewRecorder()

	protected(t, tokens).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "alice", rr.Body.String())
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	rr := httptest.NewRecorder()

	protected(t, tokens).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.JSONEq(t, `{"error":"Authorization header missing"}`, rr.Body.String())
}

func TestAuthMiddleware_MissingBearerPrefix(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	tokenString, err := tokens.Issue("alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("Authorization", tokenString)
	rr := httptest.NewRecorder()

	protected(t, tokens).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.JSONEq(t, `{"error":"Invalid token format"}`, rr.Body.String())
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	expired := token.NewManager([]byte("test-secret"), -time.Hour)
	tokenString, err := expired.Issue("alice")
	require.NoError(t, err)

	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rr := httptest.NewRecorder()

	protected(t, tokens).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.JSONEq(t, `{"error":"Token expired"}`, rr.Body.String())
}

func TestAuthMiddleware_MalformedToken(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr := httptest.NewRecorder()

	protected(t, tokens).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.JSONEq(t, `{"error":"Malformed token"}`, rr.Body.String())
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	other := token.NewManager([]byte("other-secret"), time.Hour)
	tokenString, err := other.Issue("alice")
	require.NoError(t, err)

	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	rr := httptest.NewRecorder()

	protected(t, tokens).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.JSONEq(t, `{"error":"Invalid token"}`, rr.Body.String())
}
