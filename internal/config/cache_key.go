package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey holds the JTI of the account's only valid token.
func (r *CacheKeyStruct) UserSessionKey(userID uint64) string {
	return fmt.Sprintf("session:%d", userID)
}

// DashboardSummaryKey caches the admin dashboard counters.
func (r *CacheKeyStruct) DashboardSummaryKey() string {
	return "dashboard:summary"
}

// AdminEventsChannel is the Redis PubSub channel carrying mutation events.
func (r *CacheKeyStruct) AdminEventsChannel() string {
	return "events:admin"
}

var CacheKey = NewCacheKeyStruct()
