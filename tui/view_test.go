package tui

import (
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{0, "0:00"},
		{30 * time.Second, "0:30"},
		{90 * time.Second, "1:30"},
		{time.Hour, "1:00:00"},
		{time.Hour + 23*time.Minute + 45*time.Second, "1:23:45"},
		{-time.Second, "-"},
	}

	for _, tc := range tests {
		result := formatDuration(tc.input)
		if result != tc.expected {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

func TestFormatSpeed(t *testing.T) {
	tests := []struct {
		raw      string
		speed    string
		expected string
	}{
		{"N/A", "", "N/A"},
		{"N/A", "1.5x", "N/A"},
		{"", "", "-"},
		{"1.5x", "0x", "-"},
		{"1.5x", "1.5x", "1.5x"},
	}

	for _, tc := range tests {
		result := formatSpeed(tc.raw, tc.speed)
		if result != tc.expected {
			t.Errorf("formatSpeed(%q, %q) = %q, want %q", tc.raw, tc.speed, result, tc.expected)
		}
	}
}

func TestFormatBitrateDisplay(t *testing.T) {
	tests := []struct {
		raw      string
		bitrate  string
		expected string
	}{
		{"N/A", "", "N/A"},
		{"", "N/A", "N/A"},
		{"", "", "-"},
		{"1234kbits/s", "1234kbits/s", "1234kbits/s"},
	}

	for _, tc := range tests {
		result := formatBitrateDisplay(tc.raw, tc.bitrate)
		if result != tc.expected {
			t.Errorf("formatBitrateDisplay(%q, %q) = %q, want %q", tc.raw, tc.bitrate, result, tc.expected)
		}
	}
}

func TestFormatETADisplay(t *testing.T) {
	tests := []struct {
		eta       time.Duration
		available bool
		expected  string
	}{
		{0, false, "-"},
		{time.Minute, false, "-"},
		{-time.Second, true, "-"},
		{90 * time.Second, true, "1:30"},
	}

	for _, tc := range tests {
		result := formatETADisplay(tc.eta, tc.available)
		if result != tc.expected {
			t.Errorf("formatETADisplay(%v, %v) = %q, want %q", tc.eta, tc.available, result, tc.expected)
		}
	}
}

func TestFormatPercentage(t *testing.T) {
	tests := []struct {
		pct           float64
		totalFrames   int64
		totalDuration time.Duration
		expected      string
	}{
		{50, 0, 0, "..."}, // No total known yet.
		{-5, 1000, 0, "0.0%"},
		{0, 1000, 0, "0.0%"},
		{50.25, 1000, 0, "50.2%"},
		{99.95, 1000, 0, "99.9%"},
		{150, 1000, 0, "99.9%"},
		{42, 0, time.Hour, "42.0%"},
	}

	for _, tc := range tests {
		result := formatPercentage(tc.pct, tc.totalFrames, tc.totalDuration)
		if result != tc.expected {
			t.Errorf("formatPercentage(%f, %d, %v) = %q, want %q",
				tc.pct, tc.totalFrames, tc.totalDuration, result, tc.expected)
		}
	}
}

func TestFormatSizeDisplay(t *testing.T) {
	tests := []struct {
		size     int64
		expected string
	}{
		{0, "-"},
		{-1, "-"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
	}

	for _, tc := range tests {
		result := formatSizeDisplay(tc.size)
		if result != tc.expected {
			t.Errorf("formatSizeDisplay(%d) = %q, want %q", tc.size, result, tc.expected)
		}
	}
}

func TestGetPercentageStyle(t *testing.T) {
	low := getPercentageStyle(10)
	mid := getPercentageStyle(50)
	high := getPercentageStyle(90)

	if low.GetForeground() == high.GetForeground() {
		t.Error("low and high percentage styles should differ")
	}
	if mid.GetForeground() == high.GetForeground() {
		t.Error("mid and high percentage styles should differ")
	}
}

func TestTruncatePath(t *testing.T) {
	short := "/tmp/video.mkv"
	if got := truncatePath(short, 60); got != short {
		t.Errorf("truncatePath should not modify short paths, got %q", got)
	}

	long := "/very/long/path/to/some/deeply/nested/directory/with/a/video/file.mkv"
	got := truncatePath(long, 40)
	if len(got) > 45 {
		t.Errorf("truncated path too long: %d chars", len(got))
	}
	if !strings.Contains(got, "...") {
		t.Errorf("truncated path missing ellipsis: %q", got)
	}
	if !strings.HasSuffix(got, "file.mkv") {
		t.Errorf("truncated path should keep the file name: %q", got)
	}
}

func TestOnOff(t *testing.T) {
	if onOff(true) != "on" || onOff(false) != "off" {
		t.Error("onOff mapping wrong")
	}
}

func TestOrDefault(t *testing.T) {
	if orDefault("", "x") != "x" {
		t.Error(`orDefault("") should return the default`)
	}
	if orDefault("a", "x") != "a" {
		t.Error("orDefault should keep non-empty values")
	}
}
