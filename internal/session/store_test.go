package session

import (
	"path/filepath"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// exerciseStore runs the shared get/set/clear contract against a store
func exerciseStore(t *testing.T, store Store) {
	t.Helper()

	_, ok, err := store.Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should not hold a token")

	require.NoError(t, store.Set(TokenKey, "T1"))
	require.NoError(t, store.Set(DisplayNameKey, "Ana"))

	state, err := Load(store)
	require.NoError(t, err)
	assert.Equal(t, State{Token: "T1", DisplayName: "Ana"}, state)
	assert.True(t, state.Authenticated())

	require.NoError(t, store.Set(TokenKey, "T2"))
	token, ok, err := store.Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T2", token)

	require.NoError(t, store.Clear())
	state, err = Load(store)
	require.NoError(t, err)
	assert.Equal(t, State{}, state)
	assert.False(t, state.Authenticated())

	// Clearing an empty store is a no-op
	require.NoError(t, store.Clear())

	assert.ErrorIs(t, store.Set("theme", "dark"), ErrUnknownKey)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryBackend(t *testing.T) {
	exerciseStore(t, NewMemoryBackend().Scope("s1"))
}

func TestMemoryBackend_ScopesAreLazy(t *testing.T) {
	backend := NewMemoryBackend()

	for _, id := range []string{"a", "b", "c"} {
		_, ok, err := backend.Scope(id).Get(TokenKey)
		require.NoError(t, err)
		assert.False(t, ok)
		require.NoError(t, backend.Scope(id).Clear())
	}
	assert.Equal(t, 0, backend.Len())

	store := backend.Scope("a")
	require.NoError(t, store.Set(TokenKey, "TA"))
	assert.Equal(t, 1, backend.Len())

	require.NoError(t, store.Clear())
	assert.Equal(t, 0, backend.Len())
}

func TestMemoryBackend_ScopesAreIsolated(t *testing.T) {
	backend := NewMemoryBackend()

	require.NoError(t, backend.Scope("a").Set(TokenKey, "TA"))

	_, ok, err := backend.Scope("b").Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	token, ok, err := backend.Scope("a").Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "TA", token)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.yaml")
	exerciseStore(t, NewFileStore(path))
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")

	require.NoError(t, NewFileStore(path).Set(TokenKey, "T1"))

	token, ok, err := NewFileStore(path).Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T1", token)
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	exerciseStore(t, NewKeyringStore("auth.example.com"))
}

func TestGormBackend(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "portald.sqlite"), zerolog.Nop())
	require.NoError(t, err)

	backend, err := NewGormBackend(db)
	require.NoError(t, err)
	defer backend.Close()

	exerciseStore(t, backend.Scope("01HZX3J6Q8K4M2N5P7R9S1T3V5"))

	require.NoError(t, backend.Scope("a").Set(TokenKey, "TA"))
	_, ok, err := backend.Scope("b").Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBackend(t *testing.T) {
	db, mock := redismock.NewClientMock()
	backend := NewRedisBackendFromClient(db)
	store := backend.Scope("abc")

	mock.ExpectHGet("portald:session:abc", TokenKey).RedisNil()
	mock.ExpectHSet("portald:session:abc", TokenKey, "T1").SetVal(1)
	mock.ExpectHGet("portald:session:abc", TokenKey).SetVal("T1")
	mock.ExpectDel("portald:session:abc").SetVal(1)

	_, ok, err := store.Get(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(TokenKey, "T1"))

	token, ok, err := store.Get(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T1", token)

	require.NoError(t, store.Clear())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBackend_ReadError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisBackendFromClient(db).Scope("abc")

	mock.ExpectHGet("portald:session:abc", TokenKey).SetErr(assert.AnError)

	_, _, err := store.Get(TokenKey)
	assert.ErrorIs(t, err, assert.AnError)
}
