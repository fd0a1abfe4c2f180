package middleware

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"partshub-backend/internal/shared"
	"partshub-backend/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeStore is a map-backed appconfig.Store.
type fakeStore struct {
	values map[string]string
}

func (s *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *fakeStore) GetBool(ctx context.Context, key string) (bool, error) {
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	switch v {
	case "true", "1", "yes", "on":
		return true, nil
	}
	return false, nil
}

func (s *fakeStore) Set(_ context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

const prefix = shared.AuthPrefixImportAPI

func newResolver(values map[string]string) *AuthResolver {
	if values == nil {
		values = map[string]string{}
	}
	return NewAuthResolver(&fakeStore{values: values}, jwt.NewManager("test-secret"))
}

func basicHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestAuthDisabled(t *testing.T) {
	r := newResolver(map[string]string{
		prefix + "_enabled": "false",
	})
	ctx := context.Background()

	t.Run("anonymous passes", func(t *testing.T) {
		id, err := r.Authenticate(ctx, "", prefix)
		require.NoError(t, err)
		assert.False(t, id.Authenticated)
		assert.Empty(t, id.UserID)
	})

	t.Run("missing flag reads as disabled", func(t *testing.T) {
		id, err := newResolver(nil).Authenticate(ctx, "", prefix)
		require.NoError(t, err)
		assert.False(t, id.Authenticated)
	})

	t.Run("valid bearer still yields identity", func(t *testing.T) {
		token, err := jwt.NewManager("test-secret").GenerateToken("user-42", "u@example.com", "admin", time.Hour)
		require.NoError(t, err)

		id, err := r.Authenticate(ctx, "Bearer "+token, prefix)
		require.NoError(t, err)
		assert.True(t, id.Authenticated)
		assert.Equal(t, "user-42", id.UserID)
	})

	t.Run("garbage bearer passes as anonymous", func(t *testing.T) {
		id, err := r.Authenticate(ctx, "Bearer not-a-token", prefix)
		require.NoError(t, err)
		assert.False(t, id.Authenticated)
	})
}

func TestAuthRequiredBasic(t *testing.T) {
	r := newResolver(map[string]string{
		prefix + "_enabled":  "true",
		prefix + "_username": "importer",
		prefix + "_password": "s3cret",
	})
	ctx := context.Background()

	t.Run("correct credentials", func(t *testing.T) {
		id, err := r.Authenticate(ctx, basicHeader("importer", "s3cret"), prefix)
		require.NoError(t, err)
		assert.True(t, id.Authenticated)
		assert.Empty(t, id.UserID)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := r.Authenticate(ctx, "", prefix)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("wrong password gets a generic message", func(t *testing.T) {
		_, err := r.Authenticate(ctx, basicHeader("importer", "wrong"), prefix)
		require.ErrorIs(t, err, ErrUnauthenticated)
		assert.Contains(t, err.Error(), "invalid credentials")
		assert.NotContains(t, err.Error(), "password")
	})

	t.Run("wrong username is indistinguishable", func(t *testing.T) {
		_, userErr := r.Authenticate(ctx, basicHeader("intruder", "s3cret"), prefix)
		_, passErr := r.Authenticate(ctx, basicHeader("importer", "wrong"), prefix)
		require.ErrorIs(t, userErr, ErrUnauthenticated)
		require.ErrorIs(t, passErr, ErrUnauthenticated)
		assert.Equal(t, userErr.Error(), passErr.Error())
	})

	t.Run("malformed base64", func(t *testing.T) {
		_, err := r.Authenticate(ctx, "Basic %%%", prefix)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unknown scheme", func(t *testing.T) {
		_, err := r.Authenticate(ctx, "Digest abc", prefix)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestAuthRequiredBcryptPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	r := newResolver(map[string]string{
		prefix + "_enabled":  "true",
		prefix + "_username": "importer",
		prefix + "_password": string(hash),
	})
	ctx := context.Background()

	id, err := r.Authenticate(ctx, basicHeader("importer", "s3cret"), prefix)
	require.NoError(t, err)
	assert.True(t, id.Authenticated)

	_, err = r.Authenticate(ctx, basicHeader("importer", "wrong"), prefix)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthRequiredUnconfiguredCredentials(t *testing.T) {
	// Enabled but username/password never set: reject everything.
	r := newResolver(map[string]string{
		prefix + "_enabled": "true",
	})

	_, err := r.Authenticate(context.Background(), basicHeader("anyone", "anything"), prefix)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthRequiredBearer(t *testing.T) {
	r := newResolver(map[string]string{
		prefix + "_enabled": "true",
	})
	ctx := context.Background()

	t.Run("valid token", func(t *testing.T) {
		token, err := jwt.NewManager("test-secret").GenerateToken("user-7", "u@example.com", "user", time.Hour)
		require.NoError(t, err)

		id, err := r.Authenticate(ctx, "Bearer "+token, prefix)
		require.NoError(t, err)
		assert.True(t, id.Authenticated)
		assert.Equal(t, "user-7", id.UserID)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token, err := jwt.NewManager("other-secret").GenerateToken("user-7", "u@example.com", "user", time.Hour)
		require.NoError(t, err)

		_, err = r.Authenticate(ctx, "Bearer "+token, prefix)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}
