package disk

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cache"), ttl)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSetAndGet(t *testing.T) {
	c := newTestCache(t, time.Hour)

	c.Set("title_tt0372784", []byte(`{"Title":"Batman Begins"}`))

	data, ok := c.Get("title_tt0372784")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != `{"Title":"Batman Begins"}` {
		t.Errorf("unexpected payload: %s", data)
	}

	_, ok = c.Get("title_tt9999999")
	if ok {
		t.Error("expected cache miss for unknown key")
	}
}

func TestSetOverwrites(t *testing.T) {
	c := newTestCache(t, time.Hour)

	c.Set("s_batman_p1", []byte(`{"totalResults":"23"}`))
	c.Set("s_batman_p1", []byte(`{"totalResults":"24"}`))

	data, ok := c.Get("s_batman_p1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != `{"totalResults":"24"}` {
		t.Errorf("expected last write to win, got %s", data)
	}
}

func TestTTLExpiration(t *testing.T) {
	c := newTestCache(t, time.Hour)

	c.Set("discover_star", []byte(`{"Search":[]}`))

	// Age the entry past the TTL.
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(c.path("discover_star"), old, old); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("discover_star"); ok {
		t.Error("expected cache miss after TTL expiration")
	}
}

func TestCorruptEntryIsMiss(t *testing.T) {
	c := newTestCache(t, time.Hour)

	if err := os.WriteFile(c.path("title_ttbad"), []byte("{truncated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get("title_ttbad"); ok {
		t.Error("expected cache miss for unparseable entry")
	}
}

func TestSetDropsInvalidJSON(t *testing.T) {
	c := newTestCache(t, time.Hour)

	c.Set("s_bad", []byte("not json"))

	if _, err := os.Stat(c.path("s_bad")); !os.IsNotExist(err) {
		t.Error("invalid JSON should not be written")
	}
}

func TestKeyEncoding(t *testing.T) {
	c := newTestCache(t, time.Hour)

	// Keys with separators must not alias or escape the cache dir.
	c.Set("s_star wars/iv_p1", []byte(`{"a":1}`))
	c.Set("s_star wars_iv_p1", []byte(`{"b":2}`))

	name := filepath.Base(c.path("s_star wars/iv_p1"))
	if name != url.QueryEscape("s_star wars/iv_p1")+".json" {
		t.Errorf("unexpected filename: %s", name)
	}

	a, _ := c.Get("s_star wars/iv_p1")
	b, _ := c.Get("s_star wars_iv_p1")
	if string(a) == string(b) {
		t.Error("distinct keys must not alias")
	}
}

func TestStats(t *testing.T) {
	c := newTestCache(t, time.Hour)

	c.Set("k1", []byte(`{}`))
	c.Get("k1") // hit
	c.Get("k2") // miss

	stats, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", stats.Entries)
	}
	if stats.Hits != 1 {
		t.Errorf("expected 1 hit, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
}

func TestClear(t *testing.T) {
	c := newTestCache(t, time.Hour)

	c.Set("k1", []byte(`{}`))
	c.Set("k2", []byte(`{}`))

	if err := c.Clear(false); err != nil {
		t.Fatal(err)
	}
	stats, _ := c.Stats()
	if stats.Entries != 0 {
		t.Errorf("expected 0 entries after clear, got %d", stats.Entries)
	}
}

func TestClearExpiredOnly(t *testing.T) {
	c := newTestCache(t, time.Hour)

	c.Set("fresh", []byte(`{}`))
	c.Set("stale", []byte(`{}`))
	old := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(c.path("stale"), old, old); err != nil {
		t.Fatal(err)
	}

	if err := c.Clear(true); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("fresh"); !ok {
		t.Error("fresh entry should survive an expired-only clear")
	}
	if _, err := os.Stat(c.path("stale")); !os.IsNotExist(err) {
		t.Error("stale entry should be removed")
	}
}
