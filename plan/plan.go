// Package plan turns probed stream layouts and conversion options into
// a concrete ffmpeg invocation: which streams to keep, what to call
// them, and the full argument list.
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vidconv/config"
	"vidconv/probe"
	"vidconv/subtitles"
)

// OutStream is one stream selected for the output file, with its
// derived codec, label, and disposition.
type OutStream struct {
	SourceIndex int // Absolute stream index in the input file.
	Codec       string
	Resolution  string // Video only.
	Language    string
	Channels    int // Audio only.
	Title       string
	Forced      bool
	SDH         bool
}

// Plan is the complete conversion decision for one input file.
type Plan struct {
	Options config.Options

	InputPath  string
	OutputPath string
	// Counter is the numeric suffix applied to OutputPath to avoid a
	// collision; 0 means the plain <base>.<container> name was free.
	Counter int

	Video    []OutStream
	Audio    []OutStream
	Subtitle []OutStream
	Sidecars []subtitles.Sidecar
}

// New builds a plan from the probe result, discovered sidecars, and
// options. The exists func decides output-name collisions; pass
// FileExists outside tests.
func New(inputPath string, res *probe.Result, sidecars []subtitles.Sidecar, opts config.Options, exists func(string) bool) *Plan {
	p := &Plan{
		Options:   opts,
		InputPath: inputPath,
	}
	p.OutputPath, p.Counter = outputName(inputPath, opts.Container, exists)

	if opts.Subtitles {
		p.Sidecars = sidecars
	}

	for _, s := range res.Video {
		p.Video = append(p.Video, planVideo(s, opts))
	}
	for i, s := range res.Audio {
		if out, ok := planAudio(s, i == 0, opts); ok {
			p.Audio = append(p.Audio, out)
		}
	}
	if opts.Subtitles {
		for _, s := range res.Subtitle {
			if out, ok := planSubtitle(s); ok {
				p.Subtitle = append(p.Subtitle, out)
			}
		}
	}
	return p
}

// FileExists is the collision check used outside tests.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// outputName derives <base>.<container>, inserting .1, .2, ... before
// the extension until the name is free.
func outputName(inputPath string, container config.Container, exists func(string) bool) (string, int) {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	out := fmt.Sprintf("%s.%s", base, container)
	counter := 0
	for exists(out) {
		counter++
		out = fmt.Sprintf("%s.%d.%s", base, counter, container)
	}
	return out, counter
}

// normalizeLanguage applies the language defaulting the selection rules
// run on: missing and "und" both count as English.
func normalizeLanguage(lang string) string {
	if lang == "" || lang == "und" {
		return "eng"
	}
	return lang
}

// deriveLabel builds the output title: the language (spelled out for
// English), then "Forced" and "SDH" when the disposition or the source
// title claims them.
func deriveLabel(s probe.Stream) (label string, forced, sdh bool) {
	lang := normalizeLanguage(s.Language)

	parts := []string{lang}
	if lang == "eng" {
		parts[0] = "English"
	}

	lowTitle := strings.ToLower(s.Title)
	forced = s.Forced || strings.Contains(lowTitle, "forced")
	sdh = s.HearingImpaired || strings.Contains(lowTitle, "sdh")

	if forced {
		parts = append(parts, "Forced")
	}
	if sdh {
		parts = append(parts, "SDH")
	}
	return strings.Join(parts, " "), forced, sdh
}

func planVideo(s probe.Stream, opts config.Options) OutStream {
	codec := string(opts.VideoCodec)
	if opts.VideoCodec == config.VideoCopy {
		codec = s.Codec
	}
	resolution := s.Resolution()
	if opts.RescaleTo720 {
		resolution = "-2x720"
	}
	return OutStream{
		SourceIndex: s.Index,
		Codec:       codec,
		Resolution:  resolution,
		Title:       "N/A",
	}
}

// planAudio keeps the first audio stream and any English one.
func planAudio(s probe.Stream, first bool, opts config.Options) (OutStream, bool) {
	lang := normalizeLanguage(s.Language)
	if !first && lang != "eng" {
		return OutStream{}, false
	}

	codec := string(opts.AudioCodec)
	if opts.AudioCodec == config.AudioCopy {
		codec = s.Codec
	}
	label, _, _ := deriveLabel(s)
	return OutStream{
		SourceIndex: s.Index,
		Codec:       codec,
		Language:    lang,
		Channels:    s.Channels,
		Title:       label,
	}, true
}

// planSubtitle keeps English (or untagged) subtitle streams, promoting
// forced/SDH hints found in the source title into real flags.
func planSubtitle(s probe.Stream) (OutStream, bool) {
	lang := normalizeLanguage(s.Language)
	if lang != "eng" {
		return OutStream{}, false
	}

	label, forced, sdh := deriveLabel(s)
	return OutStream{
		SourceIndex: s.Index,
		Codec:       s.Codec,
		Language:    lang,
		Title:       label,
		Forced:      forced,
		SDH:         sdh,
	}, true
}

// NumberedOutput reports whether the output carries a collision suffix,
// and the plain name it should be renamed to after the source is
// deleted.
func (p *Plan) NumberedOutput() (target string, numbered bool) {
	if p.Counter == 0 {
		return "", false
	}
	base := strings.TrimSuffix(p.InputPath, filepath.Ext(p.InputPath))
	return fmt.Sprintf("%s.%s", base, p.Options.Container), true
}
