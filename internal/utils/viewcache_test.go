package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestViewTrackerDeduplicates(t *testing.T) {
	tracker := NewViewTracker(10, time.Hour)

	assert.True(t, tracker.ShouldCount(1, "user:1"))
	assert.False(t, tracker.ShouldCount(1, "user:1"))

	// Different viewer and different question both count.
	assert.True(t, tracker.ShouldCount(1, "user:2"))
	assert.True(t, tracker.ShouldCount(2, "user:1"))

	// An empty key never counts.
	assert.False(t, tracker.ShouldCount(1, ""))
}

func TestViewTrackerWindowExpiry(t *testing.T) {
	tracker := NewViewTracker(10, time.Nanosecond)

	assert.True(t, tracker.ShouldCount(1, "user:1"))
	time.Sleep(time.Millisecond)
	assert.True(t, tracker.ShouldCount(1, "user:1"))
}
