package cache

import (
	"testing"
	"time"

	"github.com/rapidbounce/staypress/models"
)

func TestGetSet(t *testing.T) {
	c := New(10)
	resp := &models.GenerateResponse{Status: models.StatusSuccess}

	key := Key("https://www.booking.com/hotel/gr/example.en-gb.html", "en")
	c.Set(key, resp)

	got, hit := c.Get(key, 60_000)
	if !hit {
		t.Fatal("expected cache hit")
	}
	if got != resp {
		t.Error("cached response does not match stored response")
	}
}

func TestGet_ZeroMaxAgeSkipsLookup(t *testing.T) {
	c := New(10)
	key := Key("k", "en")
	c.Set(key, &models.GenerateResponse{})

	if _, hit := c.Get(key, 0); hit {
		t.Error("maxAge 0 must bypass the cache")
	}
}

func TestGet_ExpiredEntryMisses(t *testing.T) {
	c := New(10)
	key := Key("k", "en")
	c.Set(key, &models.GenerateResponse{})
	c.store[key].createdAt = time.Now().Add(-time.Hour)

	if _, hit := c.Get(key, 1000); hit {
		t.Error("entry older than maxAge must miss")
	}
}

func TestSet_CapacityEviction(t *testing.T) {
	c := New(2)
	c.Set(Key("a", "en"), &models.GenerateResponse{})
	c.Set(Key("b", "en"), &models.GenerateResponse{})
	c.Set(Key("c", "en"), &models.GenerateResponse{})

	if len(c.store) > 2 {
		t.Errorf("store size %d exceeds capacity 2", len(c.store))
	}
}

func TestKey_DistinguishesLanguage(t *testing.T) {
	if Key("same", "en") == Key("same", "el") {
		t.Error("keys for different languages must differ")
	}
}
