// Package service contains application services behind the HTTP handlers.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/dspetrov/trackdesk/internal/crypto"
	"github.com/dspetrov/trackdesk/internal/errs"
	"github.com/dspetrov/trackdesk/internal/limiter"
	"github.com/dspetrov/trackdesk/internal/model"
	"github.com/dspetrov/trackdesk/internal/repository"
)

const minPasswordLen = 6

// AuthService defines registration, authentication and token resolution.
type AuthService interface {
	// Register creates a new account and issues a session for it.
	Register(ctx context.Context, email, password string) (model.Session, error)
	// LoginWithIP applies rate-limiting and authenticates the account.
	LoginWithIP(ctx context.Context, email, password, ip string) (model.Session, error)
	// Identity resolves a bearer token to its principal.
	Identity(ctx context.Context, token string) (model.Identity, error)
}

type AuthServiceImpl struct {
	accounts  repository.AccountRepository
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(accounts repository.AccountRepository, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{accounts: accounts, signKey: signKey, accessTTL: accessTTL, lim: lim}
}

// Register creates an account with a per-account salt and returns a
// fresh session. The application profile row is inserted separately by
// the client after sign-up.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string) (model.Session, error) {
	if err := validateCredentials(email, password); err != nil {
		return model.Session{}, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.Session{}, err
	}
	salt, err := pkgcrypto.NewSalt()
	if err != nil {
		return model.Session{}, err
	}
	a := &model.Account{
		ID:        id,
		Email:     strings.ToLower(email),
		PwdHash:   pkgcrypto.HashPassword([]byte(password), salt),
		SaltAuth:  salt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return model.Session{}, err
	}
	return s.issueSession(a)
}

// LoginWithIP authenticates with rate limiting keyed by (email, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, email, password, ip string) (model.Session, error) {
	email = strings.ToLower(email)
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Session{}, err
	}
	if !allowed {
		return model.Session{}, errs.ErrRateLimited
	}

	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), a.SaltAuth, a.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Session{}, errs.ErrRateLimited
		}
		// Lookup failures and wrong passwords are indistinguishable to
		// the caller.
		return model.Session{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, email, ipHash)

	return s.issueSession(a)
}

// Identity parses and verifies a bearer token, then loads its account.
func (s *AuthServiceImpl) Identity(ctx context.Context, token string) (model.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signKey, nil
	})
	if err != nil || !parsed.Valid {
		return model.Identity{}, errs.ErrUnauthorized
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return model.Identity{}, errs.ErrUnauthorized
	}
	id, err := uuid.FromString(sub)
	if err != nil {
		return model.Identity{}, errs.ErrUnauthorized
	}
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return model.Identity{}, errs.ErrUnauthorized
	}
	return a.Identity(), nil
}

// issueSession creates a signed HS256 JWT for the account.
func (s *AuthServiceImpl) issueSession(a *model.Account) (model.Session, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   a.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
	if err != nil {
		return model.Session{}, err
	}
	return model.Session{AccessToken: signed, ExpiresAt: exp, Identity: a.Identity()}, nil
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email: %w", errs.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return fmt.Errorf("password shorter than %d characters: %w", minPasswordLen, errs.ErrValidation)
	}
	return nil
}
