package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lxlismy7-source/springboot-assigment/internal/models"
	"github.com/lxlismy7-source/springboot-assigment/internal/token"
)

type stubUserStore struct {
	createFn func(ctx context.Context, user *models.User) error
	existsFn func(ctx context.Context, username string) (bool, error)
	findFn   func(ctx context.Context, username string) (*models.User, error)
}

func (s stubUserStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s stubUserStore) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.existsFn(ctx, username)
}

func (s stubUserStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findFn(ctx, username)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testTokens() *token.Manager {
	return token.NewManager([]byte("test-secret"), time.Hour)
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := NewAuthService(stubUserStore{}, testTokens(), nil, testLogger())

	_, err := svc.Signup(context.Background(), " ", "", "")

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "Username is required", validationErr.Fields["username"])
	require.Equal(t, "Password is required", validationErr.Fields["password"])
	require.Equal(t, "Full name is required", validationErr.Fields["fullName"])
}

func TestAuthService_Signup_UsernameTaken(t *testing.T) {
	svc := NewAuthService(stubUserStore{
		existsFn: func(ctx context.Context, username string) (bool, error) {
			require.Equal(t, "alice", username)
			return true, nil
		},
	}, testTokens(), nil, testLogger())

	// The duplicate wins regardless of differing password or full name.
	_, err := svc.Signup(context.Background(), "alice", "pw2", "Other Name")
	require.ErrorIs(t, err, models.ErrUsernameTaken)
}

func TestAuthService_Signup_DuplicateRace(t *testing.T) {
	// The exists check passes but the insert hits the unique constraint.
	svc := NewAuthService(stubUserStore{
		existsFn: func(ctx context.Context, username string) (bool, error) { return false, nil },
		createFn: func(ctx context.Context, user *models.User) error { return models.ErrUsernameTaken },
	}, testTokens(), nil, testLogger())

	_, err := svc.Signup(context.Background(), "alice", "pw1", "Alice A")
	require.ErrorIs(t, err, models.ErrUsernameTaken)
}

func TestAuthService_Signup_Success(t *testing.T) {
	var saved *models.User
	svc := NewAuthService(stubUserStore{
		existsFn: func(ctx context.Context, username string) (bool, error) { return false, nil },
		createFn: func(ctx context.Context, user *models.User) error {
			user.ID = 1
			saved = user
			return nil
		},
	}, testTokens(), nil, testLogger())

	user, err := svc.Signup(context.Background(), "alice", "pw1", "Alice A")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "Alice A", user.FullName)

	// The stored hash must verify against the plaintext and never equal it.
	require.NotEqual(t, "pw1", saved.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("pw1")))
}

func TestAuthService_Signup_NotifierFailureIsIgnored(t *testing.T) {
	svc := NewAuthService(stubUserStore{
		existsFn: func(ctx context.Context, username string) (bool, error) { return false, nil },
		createFn: func(ctx context.Context, user *models.User) error { return nil },
	}, testTokens(), notifierFunc(func(username, fullName string) error {
		return errors.New("smtp down")
	}), testLogger())

	_, err := svc.Signup(context.Background(), "alice", "pw1", "Alice A")
	require.NoError(t, err)
}

type notifierFunc func(username, fullName string) error

func (f notifierFunc) SendSignupNotification(username, fullName string) error {
	return f(username, fullName)
}

func TestAuthService_Login_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	require.NoError(t, err)

	tokens := testTokens()
	svc := NewAuthService(stubUserStore{
		findFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: 1, Username: "alice", PasswordHash: string(hash)}, nil
		},
	}, tokens, nil, testLogger())

	tokenString, err := svc.Login(context.Background(), "alice", "pw1")
	require.NoError(t, err)

	subject, err := tokens.Verify(tokenString)
	require.NoError(t, err)
	require.Equal(t, "alice", subject)
}

func TestAuthService_Login_IdenticalErrorForBothCauses(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	require.NoError(t, err)

	// wrong password
	svc := NewAuthService(stubUserStore{
		findFn: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: 1, Username: "alice", PasswordHash: string(hash)}, nil
		},
	}, testTokens(), nil, testLogger())
	_, wrongPassErr := svc.Login(context.Background(), "alice", "nope")

	// unknown username
	svc = NewAuthService(stubUserStore{
		findFn: func(ctx context.Context, username string) (*models.User, error) {
			return nil, models.ErrUserNotFound
		},
	}, testTokens(), nil, testLogger())
	_, unknownUserErr := svc.Login(context.Background(), "bob", "pw1")

	require.ErrorIs(t, wrongPassErr, models.ErrInvalidCredentials)
	require.ErrorIs(t, unknownUserErr, models.ErrInvalidCredentials)
	require.Equal(t, wrongPassErr, unknownUserErr)
}

func TestAuthService_Login_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	svc := NewAuthService(stubUserStore{
		findFn: func(ctx context.Context, username string) (*models.User, error) {
			return nil, boom
		},
	}, testTokens(), nil, testLogger())

	_, err := svc.Login(context.Background(), "alice", "pw1")
	require.ErrorIs(t, err, boom)
}
