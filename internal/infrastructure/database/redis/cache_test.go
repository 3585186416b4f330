package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/MolParse/pkg/errors"
)

type cachedGraph struct {
	SMILES string `json:"smiles"`
	Atoms  int    `json:"atoms"`
}

func newMockCache(t *testing.T) (Cache, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	client := NewClientFromBackend(db, logging.NewNopLogger())
	// Zero TTL option keeps expectations deterministic (no jitter).
	return NewCache(client, logging.NewNopLogger(), WithPrefix("test:"), WithDefaultTTL(0)), mock
}

func TestCacheGetHit(t *testing.T) {
	cache, mock := newMockCache(t)

	want := cachedGraph{SMILES: "CCO", Atoms: 3}
	data, _ := json.Marshal(want)
	mock.ExpectGet("test:parse:abc").SetVal(string(data))

	var got cachedGraph
	require.NoError(t, cache.Get(context.Background(), "parse:abc", &got))
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheGetMiss(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectGet("test:parse:missing").RedisNil()

	var got cachedGraph
	err := cache.Get(context.Background(), "parse:missing", &got)
	assert.True(t, apperrors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSet(t *testing.T) {
	cache, mock := newMockCache(t)

	val := cachedGraph{SMILES: "CCO", Atoms: 3}
	data, _ := json.Marshal(val)
	mock.ExpectSet("test:parse:abc", data, 0).SetVal("OK")

	require.NoError(t, cache.Set(context.Background(), "parse:abc", val, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheDelete(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectDel("test:a", "test:b").SetVal(2)

	require.NoError(t, cache.Delete(context.Background(), "a", "b"))
	assert.NoError(t, mock.ExpectationsWereMet())

	// No keys is a no-op without touching the backend.
	require.NoError(t, cache.Delete(context.Background()))
}

func TestCacheExists(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectExists("test:k").SetVal(1)

	ok, err := cache.Exists(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetOrSetLoadsOnMiss(t *testing.T) {
	cache, mock := newMockCache(t)

	loaded := cachedGraph{SMILES: "c1ccccc1", Atoms: 6}
	data, _ := json.Marshal(loaded)
	mock.ExpectGet("test:parse:benzene").RedisNil()
	mock.ExpectSet("test:parse:benzene", data, 0).SetVal("OK")

	calls := 0
	var got cachedGraph
	err := cache.GetOrSet(context.Background(), "parse:benzene", &got, 0,
		func(ctx context.Context) (interface{}, error) {
			calls++
			return loaded, nil
		})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, loaded, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrSetSkipsLoaderOnHit(t *testing.T) {
	cache, mock := newMockCache(t)

	cached := cachedGraph{SMILES: "CCO", Atoms: 3}
	data, _ := json.Marshal(cached)
	mock.ExpectGet("test:parse:hit").SetVal(string(data))

	var got cachedGraph
	err := cache.GetOrSet(context.Background(), "parse:hit", &got, 0,
		func(ctx context.Context) (interface{}, error) {
			t.Fatal("loader must not run on a hit")
			return nil, nil
		})
	require.NoError(t, err)
	assert.Equal(t, cached, got)
}

func TestGetOrSetPropagatesLoaderError(t *testing.T) {
	cache, mock := newMockCache(t)
	mock.ExpectGet("test:parse:fail").RedisNil()

	wantErr := errors.New("backend down")
	var got cachedGraph
	err := cache.GetOrSet(context.Background(), "parse:fail", &got, 0,
		func(ctx context.Context) (interface{}, error) {
			return nil, wantErr
		})
	assert.ErrorIs(t, err, wantErr)
}

func TestGetOrSetServesValueWhenFillFails(t *testing.T) {
	cache, mock := newMockCache(t)

	loaded := cachedGraph{SMILES: "CCO", Atoms: 3}
	data, _ := json.Marshal(loaded)
	mock.ExpectGet("test:parse:fillfail").RedisNil()
	mock.ExpectSet("test:parse:fillfail", data, 0).SetErr(errors.New("write refused"))

	var got cachedGraph
	err := cache.GetOrSet(context.Background(), "parse:fillfail", &got, 0,
		func(ctx context.Context) (interface{}, error) {
			return loaded, nil
		})
	require.NoError(t, err)
	assert.Equal(t, loaded, got)
}

func TestClientClosedFailsFast(t *testing.T) {
	db, _ := redismock.NewClientMock()
	client := NewClientFromBackend(db, logging.NewNopLogger())
	require.NoError(t, client.Close())
	// Close is idempotent.
	require.NoError(t, client.Close())

	err := client.Get(context.Background(), "k").Err()
	assert.ErrorIs(t, err, ErrClientClosed)
	assert.ErrorIs(t, client.Ping(context.Background()), ErrClientClosed)
	assert.Error(t, client.Set(context.Background(), "k", "v", time.Second).Err())
}
