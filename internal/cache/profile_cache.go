package cache

import (
	"fmt"
	"time"

	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/mentorhub/mentorhub-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
)

const (
	cacheName        = "profiles"
	profileKeyPrefix = "profile:user:"
	cleanupInterval  = time.Minute
)

// ProfileCache is a read-through TTL cache in front of the profile store.
// Writes to a profile invalidate its entry, so a stale read lasts at most
// one TTL after an external change.
type ProfileCache struct {
	cache    *gocache.Cache
	disabled bool
}

// NewProfileCache creates a profile cache with the given TTL in seconds.
// A disabled cache misses on every lookup.
func NewProfileCache(ttlSeconds int, disabled bool) *ProfileCache {
	ttl := time.Duration(ttlSeconds) * time.Second

	return &ProfileCache{
		cache:    gocache.New(ttl, cleanupInterval),
		disabled: disabled,
	}
}

func profileKey(userID int64) string {
	return fmt.Sprintf("%s%d", profileKeyPrefix, userID)
}

// Get returns the cached profile for the user, if present
func (pc *ProfileCache) Get(userID int64) (*models.Profile, bool) {
	if pc.disabled {
		return nil, false
	}

	value, found := pc.cache.Get(profileKey(userID))
	if !found {
		metrics.CacheMisses.WithLabelValues(cacheName).Inc()
		return nil, false
	}

	profile, ok := value.(*models.Profile)
	if !ok {
		metrics.CacheMisses.WithLabelValues(cacheName).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(cacheName).Inc()
	return profile, true
}

// Set stores the profile under its owner's key
func (pc *ProfileCache) Set(profile *models.Profile) {
	if pc.disabled || profile == nil {
		return
	}
	pc.cache.SetDefault(profileKey(profile.UserID), profile)
}

// Invalidate drops the cached profile for the user
func (pc *ProfileCache) Invalidate(userID int64) {
	if pc.disabled {
		return
	}
	pc.cache.Delete(profileKey(userID))
}

// Flush drops every cached entry
func (pc *ProfileCache) Flush() {
	if pc.disabled {
		return
	}
	pc.cache.Flush()
}

// ItemCount returns the number of cached entries, expired included
func (pc *ProfileCache) ItemCount() int {
	return pc.cache.ItemCount()
}
