package cache

import (
	"testing"
	"time"
)

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be cached")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("a = %v, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("tab", "greenhill students")
	now = now.Add(30 * time.Second)
	if _, ok := c.Get("tab"); !ok {
		t.Fatal("entry should still be fresh")
	}
	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("tab"); ok {
		t.Fatal("entry should have expired")
	}
	if c.Size() != 0 {
		t.Errorf("expired entry not removed, Size = %d", c.Size())
	}
}

func TestLRUCacheDelete(t *testing.T) {
	c := NewLRUCache[bool](4, time.Hour)
	c.Set("x", true)
	c.Delete("x")
	c.Delete("missing")
	if _, ok := c.Get("x"); ok {
		t.Error("x should be gone")
	}
}
