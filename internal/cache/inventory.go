package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix    = "user:%d"
	profileKeyPrefix = "profile:%s"
)

const (
	// UserTTL bounds how stale a cached user row may be.
	UserTTL = 5 * time.Minute
	// ProfileTTL bounds how stale a cached public profile may be.
	ProfileTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func ProfileKey(userName string) string {
	return fmt.Sprintf(profileKeyPrefix, userName)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint, userName string) {
	Invalidate(ctx, UserKey(userID))
	if userName != "" {
		Invalidate(ctx, ProfileKey(userName))
	}
}
