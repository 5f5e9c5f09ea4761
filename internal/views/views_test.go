package views

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevalidateChangesETag(t *testing.T) {
	registry := NewRegistry("e1")

	before := registry.ETag(Admin, "admin-1")
	assert.Equal(t, before, registry.ETag(Admin, "admin-1"))

	registry.Revalidate(Admin, Dashboard("owner-1"))

	assert.NotEqual(t, before, registry.ETag(Admin, "admin-1"))
	assert.Equal(t, uint64(1), registry.Generation(Dashboard("owner-1")))
	assert.Equal(t, uint64(0), registry.Generation(Leaderboard))
}

func TestETagIsPerViewer(t *testing.T) {
	registry := NewRegistry("e1")
	assert.NotEqual(t, registry.ETag(Leaderboard, "a"), registry.ETag(Leaderboard, "b"))
	assert.NotEqual(t, NewRegistry("e1").ETag(Admin, ""), NewRegistry("e2").ETag(Admin, ""))
}

func TestMatch(t *testing.T) {
	etag := `W/"e1-admin-x-0"`
	assert.True(t, Match(etag, etag))
	assert.True(t, Match(`W/"other", `+etag, etag))
	assert.True(t, Match("*", etag))
	assert.False(t, Match("", etag))
	assert.False(t, Match(`W/"e1-admin-x-1"`, etag))
}

func TestRevalidateConcurrent(t *testing.T) {
	registry := NewRegistry("e1")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			registry.Revalidate(Leaderboard)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(50), registry.Generation(Leaderboard))
}
