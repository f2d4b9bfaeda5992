package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pennywise/internal/core"
	"pennywise/internal/store"
	"pennywise/internal/store/memory"
)

func newProvider(t *testing.T) *Local {
	t.Helper()
	p, err := NewLocal(memory.New(), Options{Secret: "test-secret", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return p
}

func TestSignUpSignInCurrentUser(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()

	u, err := p.SignUp(ctx, " Asha@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	_, err = p.SignUp(ctx, "asha@example.com", "another")
	assert.ErrorIs(t, err, store.ErrUserExists)

	sess, err := p.SignIn(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, u.ID, sess.User.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)

	cur, err := p.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, cur.ID)
}

func TestSignUpValidation(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()
	_, err := p.SignUp(ctx, "not-an-email", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = p.SignUp(ctx, "", "secret1")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	_, err = p.SignUp(ctx, "a@b.com", "12345")
	assert.ErrorIs(t, err, ErrWeakPassword)
	_, err = p.SignUp(ctx, "a@b.com", strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = p.SignUp(ctx, "a@b.com", strings.Repeat("a", 72))
	assert.NoError(t, err)
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()
	_, err := p.SignUp(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "asha@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = p.SignIn(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOutRevokesToken(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()
	_, err := p.SignUp(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)
	sess, err := p.SignIn(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, p.SignOut(ctx, sess.Token))
	_, err = p.CurrentUser(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.ErrorIs(t, p.SignOut(ctx, "garbage"), ErrUnauthenticated)
}

func TestSignOutSurvivesManyOtherSignOuts(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()
	_, err := p.SignUp(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)
	_, err = p.SignUp(ctx, "ravi@example.com", "secret2")
	require.NoError(t, err)

	sess, err := p.SignIn(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx, sess.Token))

	for i := 0; i < 50; i++ {
		other, err := p.SignIn(ctx, "ravi@example.com", "secret2")
		require.NoError(t, err)
		require.NoError(t, p.SignOut(ctx, other.Token))
	}

	_, err = p.CurrentUser(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 51, p.revoked.Size())
}

func TestCurrentUserRejectsExpiredAndForeignTokens(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()
	u, err := p.SignUp(ctx, "asha@example.com", "secret1")
	require.NoError(t, err)

	expired, _, err := GenerateToken([]byte("test-secret"), u, time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	_, err = p.CurrentUser(ctx, expired)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	foreign, _, err := GenerateToken([]byte("other-secret"), u, time.Now(), time.Hour)
	require.NoError(t, err)
	_, err = p.CurrentUser(ctx, foreign)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	ghost, _, err := GenerateToken([]byte("test-secret"), core.User{ID: "ghost"}, time.Now(), time.Hour)
	require.NoError(t, err)
	_, err = p.CurrentUser(ctx, ghost)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = p.CurrentUser(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestNewLocalRequiresSecret(t *testing.T) {
	_, err := NewLocal(memory.New(), Options{})
	assert.Error(t, err)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", TokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", TokenFromRequest(r))

	ctx := WithUser(context.Background(), core.User{ID: "u1"})
	u, ok := UserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "u1", u.ID)
}
