package encoder

import (
	"math"
	"testing"
	"testing/quick"
	"time"
)

// Property: for any percentage value, clampPercentage returns a value
// in [0, 100].
func TestClampPercentage_Property(t *testing.T) {
	f := func(pct float64) bool {
		if math.IsNaN(pct) || math.IsInf(pct, 0) {
			return true
		}
		result := clampPercentage(pct)
		return result >= 0 && result <= 100
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 1000}); err != nil {
		t.Error(err)
	}
}

func TestClampPercentage_EdgeCases(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{-100, 0},
		{-1, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{101, 100},
		{1000, 100},
	}

	for _, tc := range tests {
		result := clampPercentage(tc.input)
		if result != tc.expected {
			t.Errorf("clampPercentage(%f) = %f, want %f", tc.input, result, tc.expected)
		}
	}
}

func TestParseFrameRate_EdgeCases(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"24", 24.0},
		{"23.976", 23.976},
		{"24/1", 24.0},
		{"24000/1001", 24000.0 / 1001.0},
		{"0/1", 0.0},
		{"24/0", 0.0}, // Division by zero protection.
		{"invalid", 0.0},
		{"", 0.0},
	}

	for _, tc := range tests {
		result := parseFrameRate(tc.input)
		if math.Abs(result-tc.expected) > 0.001 {
			t.Errorf("parseFrameRate(%q) = %f, want %f", tc.input, result, tc.expected)
		}
	}
}

// parseSpeed returns ok=true with speed=0 for "N/A" so the caller can
// distinguish "ffmpeg hasn't measured yet" from a parse failure.
func TestParseSpeed_NA(t *testing.T) {
	for _, line := range []string{"speed=N/A", "speed=   N/A"} {
		speed, raw, ok := parseSpeed(line)
		if !ok {
			t.Errorf("parseSpeed should return ok=true for %q", line)
		}
		if raw != "N/A" {
			t.Errorf("parseSpeed raw = %q for %q, want N/A", raw, line)
		}
		if speed != 0 {
			t.Errorf("parseSpeed speed = %f for N/A, want 0", speed)
		}
	}
}

func TestParseSpeed(t *testing.T) {
	tests := []struct {
		line     string
		expected float64
		raw      string
	}{
		{"speed=1x", 1.0, "1x"},
		{"speed=1.5x", 1.5, "1.5x"},
		{"speed=0.5x", 0.5, "0.5x"},
		{"speed=2.34x", 2.34, "2.34x"},
		{"speed=  1.5x", 1.5, "1.5x"},
	}

	for _, tc := range tests {
		speed, raw, ok := parseSpeed(tc.line)
		if !ok {
			t.Errorf("parseSpeed failed for %q", tc.line)
			continue
		}
		if math.Abs(speed-tc.expected) > 0.001 {
			t.Errorf("parseSpeed(%q) = %f, want %f", tc.line, speed, tc.expected)
		}
		if raw != tc.raw {
			t.Errorf("parseSpeed(%q) raw = %q, want %q", tc.line, raw, tc.raw)
		}
	}
}

func TestParseBitrate(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"bitrate=1234kbits/s", "1234kbits/s"},
		{"bitrate=1.2Mbits/s", "1.2Mbits/s"},
		{"bitrate=N/A", "N/A"},
		{"bitrate=  5000kbits/s", "5000kbits/s"},
	}

	for _, tc := range tests {
		got, ok := parseBitrate(tc.line)
		if !ok {
			t.Errorf("parseBitrate failed for %q", tc.line)
			continue
		}
		if got != tc.want {
			t.Errorf("parseBitrate(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}

func TestParseOutTime(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"00:00:01.000000", 1_000_000},
		{"00:01:23.456789", 83_456_789},
		{"01:00:00.000000", 3600_000_000},
		{"00:00:05", 5_000_000},
		{"00:00:05.5", 5_500_000},
		{"N/A", -1},
		{"", -1},
		{"garbage", -1},
	}

	for _, tc := range tests {
		result := parseOutTime(tc.input)
		if result != tc.expected {
			t.Errorf("parseOutTime(%q) = %d, want %d", tc.input, result, tc.expected)
		}
	}
}

func TestParseDurationLine(t *testing.T) {
	d, ok := parseDurationLine("  Duration: 01:30:45.50, start: 0.000000, bitrate: 5000 kb/s")
	if !ok {
		t.Fatal("parseDurationLine did not match")
	}
	want := time.Hour + 30*time.Minute + 45*time.Second + 500*time.Millisecond
	if d != want {
		t.Errorf("parseDurationLine = %v, want %v", d, want)
	}

	if _, ok := parseDurationLine("frame=  100 fps= 24"); ok {
		t.Error("parseDurationLine matched a non-duration line")
	}
}

// Property: negative parsed values never pass validation.
func TestProgressValidate_Property(t *testing.T) {
	f := func(frame, fps, size int64) bool {
		p := Progress{
			Frame:     frame,
			FPS:       float64(fps),
			TotalSize: size,
		}
		valid := p.validate()
		if frame < 0 || fps < 0 || size < 0 {
			return !valid
		}
		return valid
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 1000}); err != nil {
		t.Error(err)
	}
}
