package redisstore

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(client, "test"), mr
}

func TestStore_PutAndGet(t *testing.T) {
	store, mr := newTestStore(t)

	require.NoError(t, store.Put("tasks", []byte(`[{"id":"t1"}]`)))

	got, ok, err := store.Get("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"id":"t1"}]`, string(got))

	raw, err := mr.Get("test:tasks")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"t1"}]`, raw, "values are namespaced")
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	got, ok, err := store.Get("activeSprint")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestStore_PutRejectsInvalidJSON(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Error(t, store.Put("tasks", []byte(`{`)))
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Put("activeSprint", []byte(`"s1"`)))
	require.NoError(t, store.Delete("activeSprint"))
	_, ok, err := store.Get("activeSprint")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.Delete("activeSprint"), "deleting a missing key is fine")
}

func TestStore_Initialize(t *testing.T) {
	store, _ := newTestStore(t)

	assert.False(t, store.IsInitialized())

	created, err := store.Initialize()
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, store.IsInitialized())

	created, err = store.Initialize()
	require.NoError(t, err)
	assert.False(t, created)
}

func TestStore_ServerDown(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	_, _, err := store.Get("tasks")
	assert.Error(t, err)
	assert.False(t, store.IsInitialized())
}

func TestDial(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store, err := Dial(context.Background(), mr.Addr(), 0, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Put("sprints", []byte(`[]`)))
	assert.True(t, mr.Exists("taskflow:sprints"))
}

func TestDial_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = Dial(context.Background(), addr, 0, "x")
	assert.Error(t, err)
}
