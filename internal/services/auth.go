package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sbilibin2017/smart-todo/internal/logger"
	"github.com/sbilibin2017/smart-todo/internal/models"
	"github.com/sbilibin2017/smart-todo/internal/repositories"
)

//go:generate mockgen -source=auth.go -destination=mock_auth_test.go -package=services

// AccessTokenTTL is the lifetime of tokens issued at login.
const AccessTokenTTL = 30 * time.Minute

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

// dummyPassword is hashed once and compared against when the login username is unknown.
const dummyPassword = "smart-todo-unknown-user"

// UserReader defines read-only operations for identities.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// UserWriter defines write operations for identities.
type UserWriter interface {
	Create(ctx context.Context, username, passwordHash string) (*models.UserDB, error)
}

// UserCache remembers usernames that were recently resolved to an existing identity.
type UserCache interface {
	Exists(ctx context.Context, username string) (bool, error)
	Remember(ctx context.Context, username string) error
}

// PasswordHasher defines one-way credential hashing.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Tokener issues and verifies access tokens.
type Tokener interface {
	Issue(ctx context.Context, subject string, ttl time.Duration) (string, error)
	Verify(ctx context.Context, token string) (string, error)
}

// AuthService handles registration, login and token authentication.
type AuthService struct {
	reader UserReader
	writer UserWriter
	cache  UserCache
	hasher PasswordHasher
	tokens Tokener

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService instance. cache may be nil.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	cache UserCache,
	hasher PasswordHasher,
	tokens Tokener,
) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		cache:  cache,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new identity. It does not log the user in.
func (svc *AuthService) Register(ctx context.Context, username, password string) error {
	hashedPassword, err := svc.hasher.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if _, err := svc.writer.Create(ctx, username, hashedPassword); err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			logger.Log.Infow("user already exists", "username", username)
			return ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return err
	}

	return nil
}

// Login verifies credentials and returns an access token valid for AccessTokenTTL.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	var (
		user *models.UserDB
		err  error
	)
	if strings.ContainsRune(username, 0) {
		// Registration rejects NUL, and PostgreSQL cannot compare against it.
		err = repositories.ErrNotFound
	} else {
		user, err = svc.reader.GetByUsername(ctx, username)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			svc.hasher.Verify(password, svc.unknownUserHash())
			logger.Log.Infow("login failed", "username", username)
			return "", ErrInvalidCredentials
		}
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}

	if !svc.hasher.Verify(password, user.PasswordHash) {
		logger.Log.Infow("login failed", "username", username)
		return "", ErrInvalidCredentials
	}

	token, err := svc.tokens.Issue(ctx, user.Username, AccessTokenTTL)
	if err != nil {
		logger.Log.Errorw("failed to issue token", "err", err)
		return "", err
	}

	return token, nil
}

// unknownUserHash returns a real hash so that logins for unknown users
// pay the same hashing cost as wrong passwords.
func (svc *AuthService) unknownUserHash() string {
	svc.dummyOnce.Do(func() {
		hash, err := svc.hasher.Hash(dummyPassword)
		if err != nil {
			logger.Log.Errorw("failed to hash dummy password", "err", err)
			return
		}
		svc.dummyHash = hash
	})
	return svc.dummyHash
}

// Authenticate resolves a bearer token into an existing identity.
// Any token failure, or a subject that no longer exists, yields ErrUnauthorized.
func (svc *AuthService) Authenticate(ctx context.Context, token string) (*models.UserDB, error) {
	username, err := svc.tokens.Verify(ctx, token)
	if err != nil {
		logger.Log.Infow("token rejected", "err", err)
		return nil, ErrUnauthorized
	}

	if svc.cache != nil {
		ok, err := svc.cache.Exists(ctx, username)
		if err != nil {
			logger.Log.Warnw("user cache lookup failed", "username", username, "err", err)
		} else if ok {
			return &models.UserDB{Username: username}, nil
		}
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.Log.Infow("token subject no longer exists", "username", username)
			return nil, ErrUnauthorized
		}
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}

	if svc.cache != nil {
		if err := svc.cache.Remember(ctx, username); err != nil {
			logger.Log.Warnw("failed to cache user", "username", username, "err", err)
		}
	}

	return user, nil
}
