package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/lxlismy7-source/springboot-assigment/internal/models"
	"github.com/lxlismy7-source/springboot-assigment/internal/token"
)

// UserStore is the persistence surface AuthService depends on.
// An interface allows unit-testing the service without a real database.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserExistsByUsername(ctx context.Context, username string) (bool, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// SignupNotifier sends a best-effort notification when a user registers.
type SignupNotifier interface {
	SendSignupNotification(username, fullName string) error
}

// AuthService handles signup and login
type AuthService struct {
	users    UserStore
	tokens   *token.Manager
	notifier SignupNotifier
	log      *logrus.Logger
}

// NewAuthService initializes a new auth service. notifier may be nil when
// no SMTP notification target is configured.
func NewAuthService(users UserStore, tokens *token.Manager, notifier SignupNotifier, log *logrus.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, notifier: notifier, log: log}
}

// Signup registers a new user with a hashed password. No token is issued on
// signup; login is a separate step.
func (s *AuthService) Signup(ctx context.Context, username, password, fullName string) (*models.User, error) {
	if err := validateSignup(username, password, fullName); err != nil {
		return nil, err
	}

	exists, err := s.users.UserExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		FullName:     fullName,
		PasswordHash: string(hashedPassword),
	}

	// The store's uniqueness constraint settles concurrent signups with the
	// same username; the exists check above only gives a friendlier fast path.
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Username)

	if s.notifier != nil {
		if err := s.notifier.SendSignupNotification(user.Username, user.FullName); err != nil {
			s.log.Warnf("Failed to send signup notification for %s: %v", user.Username, err)
		}
	}

	return user, nil
}

// Login authenticates a user and returns a signed bearer token. Unknown
// username and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindUserByUsername(ctx, username)
	if errors.Is(err, models.ErrUserNotFound) {
		return "", models.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	tokenString, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Username)
	return tokenString, nil
}

func validateSignup(username, password, fullName string) error {
	fields := map[string]string{}
	if strings.TrimSpace(username) == "" {
		fields["username"] = "Username is required"
	}
	if strings.TrimSpace(password) == "" {
		fields["password"] = "Password is required"
	}
	if strings.TrimSpace(fullName) == "" {
		fields["fullName"] = "Full name is required"
	}
	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}
	return nil
}
