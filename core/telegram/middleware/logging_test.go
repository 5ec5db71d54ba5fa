package middleware

import (
	"testing"
	"time"
)

func TestSeenUpdatesDeduplicates(t *testing.T) {
	s := &seenUpdates{ttl: time.Second, ids: make(map[int]time.Time)}
	now := time.Now()
	if !s.first(7, now) {
		t.Fatal("first sighting should report true")
	}
	if s.first(7, now.Add(100*time.Millisecond)) {
		t.Fatal("repeat within ttl should report false")
	}
	if !s.first(7, now.Add(2*time.Second)) {
		t.Fatal("entry should expire after ttl")
	}
}
