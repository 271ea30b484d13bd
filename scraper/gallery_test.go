package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/rapidbounce/staypress/models"
)

func TestParseGalleryTotal(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    int
		wantErr bool
	}{
		{"plain", "7 / 7", 7, false},
		{"first of many", "1 / 43", 43, false},
		{"no spaces", "3/12", 12, false},
		{"extra whitespace", "  2 /  150 ", 150, false},
		{"missing separator", "42", 0, true},
		{"empty", "", 0, true},
		{"zero total", "0 / 0", 0, true},
		{"garbage", "photos", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGalleryTotal(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseGalleryTotal(%q) error = %v, wantErr %v", tt.text, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseGalleryTotal(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestRunStep_RecordsDegradationAndContinues(t *testing.T) {
	result := models.NewListingResult("https://www.booking.com/hotel/gr/x.html", nil)

	ran := false
	runStep(result, "first", func() error { return errTest })
	runStep(result, "second", func() error {
		ran = true
		return nil
	})

	if !ran {
		t.Error("step after a degraded step did not run")
	}
	if len(result.DegradedSteps) != 1 || result.DegradedSteps[0] != "first" {
		t.Errorf("DegradedSteps = %v, want [first]", result.DegradedSteps)
	}
	if result.Status != models.StatusSuccess {
		t.Errorf("degraded step changed status to %q", result.Status)
	}
}

var errTest = context.DeadlineExceeded

func TestSettle_HonorsContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	settle(ctx, 5*time.Second)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("settle ignored canceled context, took %v", elapsed)
	}
}

func TestSettle_ZeroDuration(t *testing.T) {
	start := time.Now()
	settle(context.Background(), 0)
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("settle(0) waited %v", elapsed)
	}
}

func TestCategorizeError(t *testing.T) {
	if e := categorizeError(context.DeadlineExceeded, "x"); e.Code != models.ErrCodeTimeout {
		t.Errorf("deadline exceeded mapped to %q", e.Code)
	}
	if e := categorizeError(context.Canceled, "x"); e.Code != models.ErrCodeTimeout {
		t.Errorf("canceled mapped to %q", e.Code)
	}
	if e := categorizeError(errPlain, "x"); e.Code != models.ErrCodeNavigation {
		t.Errorf("plain error mapped to %q", e.Code)
	}
}

var errPlain = &models.ScrapeError{Code: "X", Message: "boom"}

func TestEnsureDeadline_CallerDeadlineWins(t *testing.T) {
	parent, cancel := context.WithTimeout(context.Background(), 300*time.Second)
	defer cancel()

	ctx, cancel2 := ensureDeadline(parent, 180*time.Second)
	defer cancel2()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	// The 300s caller deadline must survive; a 180s default would cut it.
	if remaining := time.Until(deadline); remaining < 200*time.Second {
		t.Errorf("caller deadline shortened to %v remaining", remaining)
	}
}

func TestEnsureDeadline_AppliesDefaultWhenUnbounded(t *testing.T) {
	ctx, cancel := ensureDeadline(context.Background(), 180*time.Second)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected the default deadline to be applied")
	}
	if remaining := time.Until(deadline); remaining > 180*time.Second || remaining < 170*time.Second {
		t.Errorf("default deadline off: %v remaining", remaining)
	}
}

func TestAcceptLanguage(t *testing.T) {
	if got := acceptLanguage("el"); got != "el-GR,el;q=0.9,en;q=0.5" {
		t.Errorf("acceptLanguage(el) = %q", got)
	}
	if got := acceptLanguage("EL"); got != "el-GR,el;q=0.9,en;q=0.5" {
		t.Errorf("acceptLanguage(EL) = %q", got)
	}
	if got := acceptLanguage("en"); got != "en-GB,en;q=0.9" {
		t.Errorf("acceptLanguage(en) = %q", got)
	}
	if got := acceptLanguage(""); got != "en-GB,en;q=0.9" {
		t.Errorf("acceptLanguage(empty) = %q", got)
	}
}
