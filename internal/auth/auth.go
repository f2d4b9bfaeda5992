// Package auth implements sign-up, sign-in and session handling on top of a
// store.UserStore, using bcrypt password hashes and signed JWT session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"pennywise/internal/cache"
	"pennywise/internal/core"
	"pennywise/internal/store"
)

const (
	minPasswordLen = 6
	// bcrypt only hashes the first 72 bytes and refuses longer input.
	maxPasswordLen = 72
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrUnauthenticated    = errors.New("not authenticated")
)

// Provider is the authentication collaborator used by the HTTP layer.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (core.User, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (core.User, error)
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      core.User
}

type Options struct {
	Secret   string
	TokenTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// Local is a Provider that keeps users in the configured store.
type Local struct {
	users   store.UserStore
	secret  []byte
	ttl     time.Duration
	cost    int
	revoked *revocations
	now     func() time.Time
}

var _ Provider = (*Local)(nil)

func NewLocal(users store.UserStore, opts Options) (*Local, error) {
	if users == nil {
		return nil, errors.New("auth: user store is nil")
	}
	if opts.Secret == "" {
		return nil, errors.New("auth: secret is empty")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	l := &Local{
		users:  users,
		secret: []byte(opts.Secret),
		ttl:    opts.TokenTTL,
		cost:   opts.BcryptCost,
		now:    time.Now,
	}
	l.revoked = newRevocations(func() time.Time { return l.now() })
	return l, nil
}

// Revocations exposes the signed-out token set for periodic cleanup.
func (l *Local) Revocations() cache.Cleaner { return l.revoked }

func (l *Local) SignUp(ctx context.Context, email, password string) (core.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return core.User{}, err
	}
	if len(password) < minPasswordLen {
		return core.User{}, ErrWeakPassword
	}
	if len(password) > maxPasswordLen {
		return core.User{}, ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := l.users.CreateUser(ctx, core.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    l.now().UTC(),
	})
	if err != nil {
		return core.User{}, err
	}
	return u, nil
}

func (l *Local) SignIn(ctx context.Context, email, password string) (Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	u, err := l.users.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	token, claims, err := GenerateToken(l.secret, u, l.now(), l.ttl)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: u}, nil
}

// SignOut revokes the token until it would have expired.
func (l *Local) SignOut(_ context.Context, token string) error {
	claims, err := ParseToken(l.secret, token, l.now())
	if err != nil {
		return ErrUnauthenticated
	}
	l.revoked.Add(claims.ID, claims.ExpiresAt.Time)
	return nil
}

func (l *Local) CurrentUser(ctx context.Context, token string) (core.User, error) {
	if token == "" {
		return core.User{}, ErrUnauthenticated
	}
	claims, err := ParseToken(l.secret, token, l.now())
	if err != nil {
		return core.User{}, ErrUnauthenticated
	}
	if l.revoked.Revoked(claims.ID) {
		return core.User{}, ErrUnauthenticated
	}
	u, err := l.users.UserByID(ctx, claims.UserID)
	if errors.Is(err, store.ErrUserNotFound) {
		return core.User{}, ErrUnauthenticated
	}
	if err != nil {
		return core.User{}, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
