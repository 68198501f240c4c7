package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	found, err := GetJSON(ctx, "post:1", &cachedPost{})
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "post:1", cachedPost{ID: 1, Content: "hello"}, time.Minute))

	var got cachedPost
	found, err = GetJSON(ctx, "post:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", got.Content)
}

func TestGetSetJSON_NilClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	found, err := GetJSON(ctx, "post:1", &cachedPost{})
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, "post:1", cachedPost{ID: 1}, time.Minute))
}

func TestAside(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			fetches++
			dest.ID = 7
			dest.Content = "from db"
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, Aside(ctx, "post:7", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "from db", first.Content)

	// Second call is served from the cache.
	var second cachedPost
	require.NoError(t, Aside(ctx, "post:7", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "from db", second.Content)
}

func TestAside_FetchErrorNotCached(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	wantErr := errors.New("db down")
	var dest cachedPost
	err := Aside(ctx, "post:9", &dest, time.Minute, func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)

	found, err := GetJSON(ctx, "post:9", &dest)
	require.NoError(t, err)
	assert.False(t, found, "failed fetch must not populate the cache")
}

func TestInvalidate(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PostKey(3), cachedPost{ID: 3}, time.Minute))
	require.NoError(t, SetJSON(ctx, ProfileKey(5), cachedPost{ID: 5}, time.Minute))
	require.NoError(t, SetJSON(ctx, FeedKey(), []cachedPost{{ID: 3}}, time.Minute))

	InvalidatePost(ctx, 3)
	InvalidateProfile(ctx, 5)
	InvalidateFeed(ctx)

	assert.False(t, mr.Exists(PostKey(3)))
	assert.False(t, mr.Exists(ProfileKey(5)))
	assert.False(t, mr.Exists(FeedKey()))
}

func TestKeyPrefix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "post", keyPrefix("post:42"))
	assert.Equal(t, "feed", keyPrefix("feed:first"))
	assert.Equal(t, "plain", keyPrefix("plain"))
}
