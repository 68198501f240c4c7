package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix = "profile:%d"
	PostKeyPrefix    = "post:%d"
	FeedKeyPrefix    = "feed:first"
)

const (
	ProfileTTL = 5 * time.Minute
	PostTTL    = 30 * time.Minute
	FeedTTL    = 30 * time.Second
)

func ProfileKey(profileID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, profileID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// FeedKey is the key for the canonical default-limit first page of the
// feed. Only that exact page is cached; authenticated viewers get
// per-viewer liked flags re-applied on top of the cached rows.
func FeedKey() string {
	return FeedKeyPrefix
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProfile(ctx context.Context, profileID uint) {
	Invalidate(ctx, ProfileKey(profileID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedKey())
}
