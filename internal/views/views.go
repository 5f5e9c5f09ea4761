// Package views tracks when rendered pages go stale. Handlers tag responses
// with an ETag derived from a per-view generation, and mutations bump the
// generation so the next conditional request renders fresh data.
package views

import (
	"fmt"
	"strings"
	"sync"
)

const (
	Admin       = "admin"
	Leaderboard = "leaderboard"
)

func Dashboard(userID string) string {
	return "dashboard:" + userID
}

// Revalidator marks views stale.
type Revalidator interface {
	Revalidate(keys ...string)
}

type Registry struct {
	mu          sync.Mutex
	epoch       string
	generations map[string]uint64
}

// NewRegistry starts a registry. The epoch keeps ETags from a previous
// process from matching after a restart.
func NewRegistry(epoch string) *Registry {
	return &Registry{
		epoch:       epoch,
		generations: make(map[string]uint64),
	}
}

func (r *Registry) Revalidate(keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, key := range keys {
		r.generations[key]++
	}
}

func (r *Registry) Generation(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.generations[key]
}

// ETag is the weak validator for key as seen by viewer. Pages that differ per
// viewer must pass a viewer so two users never share a validator.
func (r *Registry) ETag(key, viewer string) string {
	return fmt.Sprintf(`W/"%s-%s-%s-%d"`, r.epoch, sanitize(key), sanitize(viewer), r.Generation(key))
}

// Match reports whether an If-None-Match header value still matches etag.
func Match(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}

	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || candidate == etag {
			return true
		}
	}

	return false
}

func sanitize(s string) string {
	return strings.NewReplacer(`"`, "", ",", "", " ", "").Replace(s)
}
