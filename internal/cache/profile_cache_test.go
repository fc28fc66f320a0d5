package cache

import (
	"testing"

	"github.com/mentorhub/mentorhub-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func cachedProfile(userID int64) *models.Profile {
	return &models.Profile{
		ID:     userID * 100,
		UserID: userID,
		Role:   models.RoleMentor,
		Email:  "mentor@example.com",
	}
}

func TestProfileCache_SetAndGet(t *testing.T) {
	pc := NewProfileCache(60, false)

	profile := cachedProfile(1)
	pc.Set(profile)

	got, found := pc.Get(1)
	assert.True(t, found)
	assert.Equal(t, profile, got)
}

func TestProfileCache_MissForUnknownUser(t *testing.T) {
	pc := NewProfileCache(60, false)

	got, found := pc.Get(99)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestProfileCache_Invalidate(t *testing.T) {
	pc := NewProfileCache(60, false)

	pc.Set(cachedProfile(1))
	pc.Invalidate(1)

	_, found := pc.Get(1)
	assert.False(t, found)
}

func TestProfileCache_Disabled(t *testing.T) {
	pc := NewProfileCache(60, true)

	pc.Set(cachedProfile(1))

	_, found := pc.Get(1)
	assert.False(t, found)
	assert.Equal(t, 0, pc.ItemCount())

	// Invalidation is a no-op on a disabled cache too
	pc.Invalidate(1)
	pc.Flush()
	assert.Equal(t, 0, pc.ItemCount())
}

func TestProfileCache_Flush(t *testing.T) {
	pc := NewProfileCache(60, false)

	pc.Set(cachedProfile(1))
	pc.Set(cachedProfile(2))
	assert.Equal(t, 2, pc.ItemCount())

	pc.Flush()
	assert.Equal(t, 0, pc.ItemCount())
}
