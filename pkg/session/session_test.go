package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func makeToken(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(exp.Add(-24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	// Any key works: the session never verifies signatures.
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unknown-to-client"))
	require.NoError(t, err)
	return signed
}

func clockAt(ts *time.Time) Option {
	return WithClock(func() time.Time { return *ts })
}

func TestSession_LoginAndDerive(t *testing.T) {
	now := t0
	s := New(&MemoryStore{}, clockAt(&now))

	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, DefaultRole, s.Role())

	require.NoError(t, s.Login(makeToken(t, "u1", "admin", t0.Add(24*time.Hour))))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "admin", s.Role())
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "u1", s.SubjectID())
	assert.True(t, s.ExpiresAt().Equal(t0.Add(24*time.Hour)))
}

func TestSession_ExpiryIsLocal(t *testing.T) {
	now := t0
	s := New(&MemoryStore{}, clockAt(&now))
	require.NoError(t, s.Login(makeToken(t, "u1", "user", t0.Add(time.Hour))))

	now = t0.Add(time.Hour - time.Second)
	assert.True(t, s.IsAuthenticated())

	now = t0.Add(time.Hour)
	assert.False(t, s.IsAuthenticated())
	// The token is still held, only its status changed.
	assert.NotEmpty(t, s.Token())
}

func TestSession_RoleDefaultsToUser(t *testing.T) {
	s := New(&MemoryStore{}, clockAt(&t0))
	require.NoError(t, s.Login(makeToken(t, "u1", "", t0.Add(time.Hour))))
	assert.Equal(t, "user", s.Role())
	assert.False(t, s.IsAdmin())
}

func TestSession_LoginRejectsGarbage(t *testing.T) {
	store := &MemoryStore{}
	s := New(store)

	err := s.Login("definitely-not-a-jwt")
	assert.ErrorIs(t, err, ErrUndecodable)
	stored, _ := store.Load()
	assert.Empty(t, stored)
}

func TestSession_HydrateRestoresToken(t *testing.T) {
	store := &MemoryStore{}
	token := makeToken(t, "u1", "user", t0.Add(time.Hour))
	require.NoError(t, store.Save(token+"\n"))

	s := New(store, clockAt(&t0))
	require.NoError(t, s.Hydrate())
	assert.Equal(t, token, s.Token())
	assert.True(t, s.IsAuthenticated())
}

func TestSession_HydrateDropsCorruptToken(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.Save("garbage"))

	s := New(store)
	require.NoError(t, s.Hydrate())
	assert.Empty(t, s.Token())
	assert.False(t, s.IsAuthenticated())

	stored, _ := store.Load()
	assert.Empty(t, stored)
}

func TestSession_LogoutClearsAndNotifies(t *testing.T) {
	store := &MemoryStore{}
	notified := 0
	s := New(store, clockAt(&t0), WithOnLogout(func() { notified++ }))
	require.NoError(t, s.Login(makeToken(t, "u1", "admin", t0.Add(time.Hour))))

	require.NoError(t, s.Logout())
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, DefaultRole, s.Role())
	assert.Empty(t, s.SubjectID())
	assert.Equal(t, 1, notified)

	stored, _ := store.Load()
	assert.Empty(t, stored)
}

func TestSession_Context(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := New(&MemoryStore{})
	got, ok := FromContext(NewContext(context.Background(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")
	store := NewFileStore(path)

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_TightensExistingFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	require.NoError(t, os.Chmod(path, 0o644))

	require.NoError(t, NewFileStore(path).Save("abc"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/custom-session")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-session", p)
}
