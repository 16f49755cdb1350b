package browser

import (
	"log/slog"
	"testing"
	"time"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if !opts.Headless {
		t.Error("Expected headless to be true by default")
	}

	if opts.Timeout != 30*time.Second {
		t.Errorf("Expected timeout to be 30s, got %v", opts.Timeout)
	}

	if opts.SlowMo != 0 {
		t.Errorf("Expected no slow motion by default, got %v", opts.SlowMo)
	}

	if opts.ViewportWidth != 1920 || opts.ViewportHeight != 1080 {
		t.Errorf("Expected viewport to be 1920x1080, got %dx%d", opts.ViewportWidth, opts.ViewportHeight)
	}

	if opts.Locale != "en-US" {
		t.Errorf("Expected locale to be en-US, got %s", opts.Locale)
	}
}

func TestMilliseconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want float64
	}{
		{20 * time.Second, 20000},
		{1500 * time.Millisecond, 1500},
		{0, 0},
	}

	for _, tt := range tests {
		got := Milliseconds(tt.in)
		if got == nil || *got != tt.want {
			t.Errorf("Milliseconds(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCloseWithoutResources(t *testing.T) {
	b := &Browser{logger: slog.Default()}

	if err := b.Close(); err != nil {
		t.Errorf("Expected nil error closing an empty browser, got %v", err)
	}
}
