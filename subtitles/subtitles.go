// Package subtitles discovers sidecar .srt files next to an input video
// and classifies them from their filename parts.
package subtitles

import (
	"os"
	"path/filepath"
	"strings"
)

// Sidecar is one external .srt file that will become an extra ffmpeg
// input. InputOrdinal is its 1-based position in the command's input
// list (input 0 is the video file).
type Sidecar struct {
	InputOrdinal int
	Path         string
	Codec        string // Always "srt".
	Language     string
	Forced       bool
	SDH          bool
	Title        string
}

// Discover lists the input's directory for .srt files whose name
// contains the input's base name, and classifies each. Results are
// sorted by filename so input ordinals are stable across runs.
func Discover(inputPath string) ([]Sidecar, error) {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".srt") && strings.Contains(name, base) {
			names = append(names, name)
		}
	}
	// os.ReadDir returns names sorted already; keep that order.

	sidecars := make([]Sidecar, 0, len(names))
	for i, name := range names {
		sc := Classify(name, base)
		sc.InputOrdinal = i + 1
		sc.Path = filepath.Join(dir, name)
		sidecars = append(sidecars, sc)
	}
	return sidecars, nil
}

// Classify derives language, forced and SDH flags, and a display title
// from the dotted filename parts that follow the video's base name.
// Recognized parts: "en"/"eng" (language), "forced", "sdh". Anything
// else contributes nothing. With no recognized parts the sidecar is
// assumed to be plain English.
func Classify(filename, base string) Sidecar {
	sc := Sidecar{
		Codec:    "srt",
		Language: "eng",
	}

	rest := filename
	if idx := strings.Index(filename, base); idx >= 0 {
		rest = filename[idx+len(base):]
	}
	parts := strings.Split(strings.ToLower(rest), ".")

	var titleParts []string
	for _, part := range parts {
		switch part {
		case "en", "eng":
			sc.Language = "eng"
			titleParts = append(titleParts, "English")
		case "forced":
			sc.Forced = true
			titleParts = append(titleParts, "Forced")
		case "sdh":
			sc.SDH = true
			titleParts = append(titleParts, "SDH")
		}
	}

	if len(titleParts) > 0 {
		sc.Title = strings.Join(titleParts, " ")
	} else {
		sc.Title = "English"
	}
	return sc
}
