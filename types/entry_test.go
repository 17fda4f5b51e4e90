package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tiercache/types"
)

func TestEntryValidity(t *testing.T) {
	now := time.Now()
	ent := types.NewEntry("v", time.Second, now)

	assert.True(t, ent.Valid(now))
	assert.True(t, ent.Valid(now.Add(999*time.Millisecond)))
	assert.False(t, ent.Valid(now.Add(time.Second)), "entry expires exactly at CreatedAt+TTL")
	assert.False(t, ent.Valid(now.Add(time.Hour)))
}

func TestEntryZeroTTLNeverValid(t *testing.T) {
	now := time.Now()
	ent := types.NewEntry(42, 0, now)

	assert.False(t, ent.Valid(now))
	assert.False(t, ent.Valid(now.Add(time.Nanosecond)))
}

func TestEntryTouch(t *testing.T) {
	now := time.Now()
	ent := types.NewEntry("v", time.Minute, now)

	assert.Equal(t, uint64(0), ent.AccessCount)
	assert.Equal(t, now, ent.LastAccessed)

	later := now.Add(10 * time.Second)
	ent.Touch(later)
	ent.Touch(later.Add(time.Second))

	assert.Equal(t, uint64(2), ent.AccessCount)
	assert.Equal(t, later.Add(time.Second), ent.LastAccessed)
	assert.Equal(t, now, ent.CreatedAt, "touch must not move the creation time")
}
