package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/matchengine/internal/models"
)

func TestKeyEmptyPrefixes(t *testing.T) {
	assert.Equal(t, "all_industries", Key(nil))
	assert.Equal(t, "all_industries", Key([]string{}))
}

func TestKeySortsAndJoins(t *testing.T) {
	assert.Equal(t, "CCC_ITC", Key([]string{"ITC", "CCC"}))
}

func TestGetSetRoundTrip(t *testing.T) {
	c := New(time.Hour)
	resumes := []models.Resume{{ID: "r1"}, {ID: "r2"}}

	_, ok := c.Get("itc")
	assert.False(t, ok, "expected miss before Set")

	c.Set("itc", resumes)
	got, ok := c.Get("itc")
	require.True(t, ok)
	assert.Equal(t, resumes, got)
}

func TestGetExpires(t *testing.T) {
	c := New(time.Millisecond)
	c.Set("itc", []models.Resume{{ID: "r1"}})
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("itc")
	assert.False(t, ok, "expected entry to be evicted after ttl")
	assert.Equal(t, 0, c.Len())
}

func TestClear(t *testing.T) {
	c := New(time.Hour)
	c.Set("a", []models.Resume{{ID: "r1"}})
	c.Set("b", []models.Resume{{ID: "r2"}})
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
}
