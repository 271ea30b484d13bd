package models

import (
	"encoding/json"
	"testing"
)

func TestNewListingError_Shape(t *testing.T) {
	in := "https://www.booking.com/hotel/gr/doesnotexist.html"
	canon := "https://www.booking.com/hotel/gr/doesnotexist.html"
	r := NewListingError(in, &canon, "navigation to listing page failed")

	if r.Status != StatusError {
		t.Errorf("Status = %q, want error", r.Status)
	}
	if r.BookingURL == nil || *r.BookingURL != in {
		t.Errorf("BookingURL = %v, want input URL", r.BookingURL)
	}
	if r.ImageURLs == nil || len(r.ImageURLs) != 0 {
		t.Errorf("ImageURLs = %v, want empty non-nil slice", r.ImageURLs)
	}
	if r.Description != DescriptionNotFound {
		t.Errorf("Description = %q, want sentinel", r.Description)
	}
	if r.Message == "" {
		t.Error("error result must carry a message")
	}
}

func TestListingResult_JSONContract(t *testing.T) {
	r := NewListingError("not-a-url", nil, "missing host")

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Every required key is present even on the fatal path.
	for _, key := range []string{"status", "hotel_name", "description", "image_urls", "booking_url", "booking_url_canon"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("required key %q missing from document", key)
		}
	}

	if doc["booking_url_canon"] != nil {
		t.Errorf("booking_url_canon = %v, want null", doc["booking_url_canon"])
	}
	if _, ok := doc["image_urls"].([]any); !ok {
		t.Errorf("image_urls is %T, want array", doc["image_urls"])
	}
}

func TestListingResult_NoTargetURLSerializesNull(t *testing.T) {
	r := NewListingError("", nil, "url argument is required")

	raw, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v, ok := doc["booking_url"]; !ok || v != nil {
		t.Errorf("booking_url = %v, want null when the invocation had no target", v)
	}
}

func TestNormalize_FillsDefaults(t *testing.T) {
	r := &ListingResult{}
	r.Normalize()

	if r.Status != StatusError {
		t.Errorf("empty status normalized to %q", r.Status)
	}
	if r.Description != DescriptionNotFound {
		t.Errorf("empty description normalized to %q", r.Description)
	}
	if r.ImageURLs == nil {
		t.Error("nil ImageURLs not normalized to empty slice")
	}
}

func TestNormalize_KeepsPopulatedFields(t *testing.T) {
	r := NewListingResult("https://www.booking.com/hotel/gr/x.html", nil)
	r.ImageURLs = []string{"a.jpg"}
	r.Description = "A fine hotel."
	r.Normalize()

	if r.Status != StatusSuccess || len(r.ImageURLs) != 1 || r.Description != "A fine hotel." {
		t.Errorf("Normalize altered populated fields: %+v", r)
	}
}
