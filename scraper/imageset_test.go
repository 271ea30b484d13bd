package scraper

import (
	"reflect"
	"testing"
)

func TestImageSet_DedupPreservesFirstSeenOrder(t *testing.T) {
	set := newImageSet(50)

	inputs := []string{"a.jpg", "b.jpg", "a.jpg", "c.jpg", "b.jpg", "a.jpg"}
	for _, u := range inputs {
		set.Add(u)
	}

	want := []string{"a.jpg", "b.jpg", "c.jpg"}
	if !reflect.DeepEqual(set.URLs(), want) {
		t.Errorf("URLs() = %v, want %v", set.URLs(), want)
	}
}

func TestImageSet_ExactStringDedupOnly(t *testing.T) {
	set := newImageSet(10)

	// Dedup is byte-identical only: no URL normalization.
	set.Add("https://cdn/img.jpg")
	set.Add("https://cdn/img.jpg?x=1")
	set.Add("HTTPS://cdn/img.jpg")

	if set.Len() != 3 {
		t.Errorf("expected 3 distinct entries, got %d: %v", set.Len(), set.URLs())
	}
}

func TestImageSet_BoundNeverExceeded(t *testing.T) {
	set := newImageSet(3)

	urls := []string{"1", "2", "3", "4", "5", "1", "6"}
	for _, u := range urls {
		set.Add(u)
	}

	if set.Len() != 3 {
		t.Errorf("bound 3 exceeded: got %d entries", set.Len())
	}
	want := []string{"1", "2", "3"}
	if !reflect.DeepEqual(set.URLs(), want) {
		t.Errorf("URLs() = %v, want %v", set.URLs(), want)
	}
}

func TestImageSet_EmptyStringIgnored(t *testing.T) {
	set := newImageSet(10)
	if set.Add("") {
		t.Error("Add(\"\") returned true")
	}
	if set.Len() != 0 {
		t.Errorf("empty string was stored: %v", set.URLs())
	}
}

func TestImageSet_AddReportsInsertion(t *testing.T) {
	set := newImageSet(2)

	if !set.Add("a") {
		t.Error("first Add(a) should insert")
	}
	if set.Add("a") {
		t.Error("duplicate Add(a) should not insert")
	}
	if !set.Add("b") {
		t.Error("Add(b) should insert")
	}
	if set.Add("c") {
		t.Error("Add(c) beyond bound should not insert")
	}
}

func TestImageSet_URLsNeverNil(t *testing.T) {
	if newImageSet(5).URLs() == nil {
		t.Error("URLs() returned nil for empty set")
	}
}
