package utils

import (
	"fmt"
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ViewTracker remembers which (question, viewer) pairs were already counted
// within the dedup window. The domain core only takes a precomputed
// count-this-view flag; this is the HTTP layer's source for it. Eviction under
// memory pressure just means an occasional extra count, which is acceptable
// for a view counter.
type ViewTracker struct {
	lruCache *lru.Cache[string, time.Time]
	window   time.Duration
}

// NewViewTracker creates a tracker holding up to size entries, each valid for
// the given window.
func NewViewTracker(size int, window time.Duration) *ViewTracker {
	l, err := lru.New[string, time.Time](size)
	if err != nil {
		log.Fatalf("Failed to create view cache: %v", err)
	}
	return &ViewTracker{lruCache: l, window: window}
}

// ShouldCount reports whether this viewer's hit on the question should bump
// the view counter, and marks the pair as seen when it should.
func (t *ViewTracker) ShouldCount(questionID uint, viewerKey string) bool {
	if viewerKey == "" {
		return false
	}
	key := fmt.Sprintf("view:%d:%s", questionID, viewerKey)
	if expiresAt, ok := t.lruCache.Get(key); ok && time.Now().Before(expiresAt) {
		return false
	}
	t.lruCache.Add(key, time.Now().Add(t.window))
	return true
}
