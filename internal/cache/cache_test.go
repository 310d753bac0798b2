package cache

import (
	"path/filepath"
	"testing"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache()

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("k", []byte("v"))
	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if string(got) != "v" {
		t.Errorf("expected v, got %q", got)
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit / 1 miss, got %d / %d", hits, misses)
	}
}

func TestMemoryCache_DeleteClear(t *testing.T) {
	c := NewMemoryCache()
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be deleted")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", c.Len())
	}
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	c.Set("k", []byte("v"))
	if _, ok := c.Get("k"); ok {
		t.Error("Nop cache should never hit")
	}
}

func TestKey_NormalizesPath(t *testing.T) {
	if Key("cm.csv") != Key("./cm.csv") {
		t.Error("expected relative spellings of one path to share a key")
	}
	if Key(filepath.Join("a", "..", "cm.csv")) != Key("cm.csv") {
		t.Error("expected cleaned path to share a key")
	}
	if Key("cm.csv") == Key("other.csv") {
		t.Error("expected different files to have different keys")
	}
}
