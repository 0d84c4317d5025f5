// Package auth is the identity provider: it issues bearer tokens for
// anonymous and registered users and resolves them on incoming requests.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"gamecatalog/backend/internal/identity"
	"gamecatalog/backend/internal/models"
	"gamecatalog/backend/internal/store"
	"gamecatalog/backend/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountExists      = errors.New("nickname or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownUser        = errors.New("authenticated user not found")
)

// UserStore is the user persistence the service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByLogin(ctx context.Context, login string) (*models.User, error)
}

// Session is a freshly issued token and the user it belongs to.
type Session struct {
	Token string
	User  *models.User
}

// Registration holds the fields of a new password account.
type Registration struct {
	Nickname string
	Email    string
	Password string
}

// Service signs callers in.
type Service struct {
	users  UserStore
	secret string
	ttl    time.Duration
}

func NewService(users UserStore, secret string, ttl time.Duration) *Service {
	return &Service{users: users, secret: secret, ttl: ttl}
}

// SignInAnonymous creates a credential-less user and returns a token for it.
func (s *Service) SignInAnonymous(ctx context.Context) (*Session, error) {
	user := &models.User{IsAnonymous: true}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	logrus.WithField("user_id", user.ID).Debug("Anonymous user created")
	return s.issue(user)
}

// Register creates a password account.
func (s *Service) Register(ctx context.Context, in Registration) (*Session, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	nickname := strings.TrimSpace(in.Nickname)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	hash := string(hashedPassword)
	user := &models.User{
		Nickname:     &nickname,
		Email:        &email,
		PasswordHash: &hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			return nil, ErrAccountExists
		}
		return nil, err
	}

	logrus.WithField("user_id", user.ID).Info("User registered")
	return s.issue(user)
}

// Login authenticates by nickname or email and password.
func (s *Service) Login(ctx context.Context, login, password string) (*Session, error) {
	login = strings.TrimSpace(login)
	user, err := s.users.FindByLogin(ctx, login)
	if errors.Is(err, store.ErrNotFound) && strings.Contains(login, "@") {
		user, err = s.users.FindByLogin(ctx, strings.ToLower(login))
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// Me loads the caller's user record.
func (s *Service) Me(ctx context.Context, caller *identity.Caller) (*models.User, error) {
	if caller == nil {
		return nil, ErrUnknownUser
	}
	user, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) issue(user *models.User) (*Session, error) {
	token, err := jwt.GenerateToken(user.ID, user.IsAnonymous, s.secret, s.ttl)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}
