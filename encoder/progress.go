package encoder

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Progress is a snapshot of a running ffmpeg conversion, built from the
// key=value batches ffmpeg writes on stdout with -progress pipe:1.
type Progress struct {
	Frame      int64
	FPS        float64
	Bitrate    string
	TotalSize  int64
	OutTimeUs  int64
	Speed      string
	Percentage float64

	TotalFrames   int64
	TotalDuration time.Duration
	ETA           time.Duration

	SpeedRaw       string    // Raw speed string from ffmpeg (may be "N/A").
	BitrateRaw     string    // Raw bitrate string from ffmpeg.
	ETAAvailable   bool      // Whether ETA can be calculated.
	StartTime      time.Time // When the conversion started.
	LastValidFPS   float64   // Last known good encode FPS.
	LastValidSpeed float64   // Last known good speed multiplier.
	FrameEstimated bool      // TotalFrames is estimated, not from the container.
	SourceFPS      float64   // Source frame rate used for estimation.
}

func (p *Progress) validate() bool {
	return p.Frame >= 0 && p.FPS >= 0 && p.TotalSize >= 0 && p.TotalFrames >= 0
}

func clampPercentage(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

var speedRe = regexp.MustCompile(`speed=\s*([\d.]+x|N/A)\s*$`)

// parseSpeed extracts the speed multiplier from an ffmpeg stderr line.
// Returns (speed, raw string, ok). Speed is 0 for "N/A".
func parseSpeed(line string) (float64, string, bool) {
	m := speedRe.FindStringSubmatch(line)
	if len(m) < 2 {
		return 0, "", false
	}
	raw := m[1]
	if raw == "N/A" {
		return 0, raw, true
	}
	speed, err := strconv.ParseFloat(strings.TrimSuffix(raw, "x"), 64)
	if err != nil {
		return 0, raw, false
	}
	return speed, raw, true
}

var bitrateRe = regexp.MustCompile(`bitrate=\s*([\d.]+\s*[kKmMgG]?bits?/s|N/A)\s*$`)

// parseBitrate extracts the bitrate string from an ffmpeg stderr line.
func parseBitrate(line string) (string, bool) {
	m := bitrateRe.FindStringSubmatch(line)
	if len(m) < 2 {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// parseFrameRate handles fractional formats like "24000/1001" as well
// as plain decimals like "23.976".
func parseFrameRate(fpsStr string) float64 {
	fpsStr = strings.TrimSpace(fpsStr)
	if fpsStr == "" {
		return 0
	}
	if strings.Contains(fpsStr, "/") {
		parts := strings.Split(fpsStr, "/")
		if len(parts) == 2 {
			num, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			den, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if err1 == nil && err2 == nil && den > 0 {
				return num / den
			}
		}
		return 0
	}
	fps, _ := strconv.ParseFloat(fpsStr, 64)
	return fps
}

var durationRe = regexp.MustCompile(`Duration: (\d{2}):(\d{2}):(\d{2})\.(\d{2})`)

// parseDurationLine extracts the source duration from ffmpeg's stderr
// "Duration: HH:MM:SS.cc" banner line.
func parseDurationLine(line string) (time.Duration, bool) {
	m := durationRe.FindStringSubmatch(line)
	if len(m) < 5 {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	cs, _ := strconv.Atoi(m[4])

	return time.Duration(h)*time.Hour +
		time.Duration(min)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(cs*10)*time.Millisecond, true
}

// parseOutTime parses ffmpeg's out_time format "HH:MM:SS.microseconds"
// into microseconds, returning -1 when unparseable.
func parseOutTime(timeStr string) int64 {
	timeStr = strings.TrimSpace(timeStr)
	if timeStr == "" || timeStr == "N/A" {
		return -1
	}

	parts := strings.Split(timeStr, ":")
	if len(parts) != 3 {
		return -1
	}

	hours, err1 := strconv.ParseInt(parts[0], 10, 64)
	mins, err2 := strconv.ParseInt(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return -1
	}

	secParts := strings.Split(parts[2], ".")
	secs, err3 := strconv.ParseInt(secParts[0], 10, 64)
	if err3 != nil {
		return -1
	}

	var micros int64
	if len(secParts) > 1 {
		usStr := secParts[1]
		for len(usStr) < 6 {
			usStr += "0"
		}
		micros, _ = strconv.ParseInt(usStr[:6], 10, 64)
	}

	return hours*3600*1e6 + mins*60*1e6 + secs*1e6 + micros
}
