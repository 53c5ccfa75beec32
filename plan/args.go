package plan

import (
	"fmt"
	"strconv"

	"vidconv/config"
)

// Args assembles the complete ffmpeg argument list (without the leading
// "ffmpeg"). The ordering mirrors what ffmpeg expects: inputs first,
// then maps, codec settings, filters, per-stream metadata and
// dispositions, and finally the output path.
func (p *Plan) Args() []string {
	args := make([]string, 0, 64)
	args = append(args, "-i", p.InputPath)

	// Each sidecar becomes its own srt-demuxed input.
	for _, sc := range p.Sidecars {
		args = append(args, "-f", "srt", "-i", sc.Path)
	}

	// Strip container metadata and chapters; stream metadata is set
	// explicitly below.
	args = append(args, "-map_metadata", "-1", "-map_chapters", "-1")

	for _, s := range p.Video {
		args = append(args, "-map", fmt.Sprintf("0:%d", s.SourceIndex))
	}
	for _, s := range p.Audio {
		args = append(args, "-map", fmt.Sprintf("0:%d", s.SourceIndex))
	}
	for _, s := range p.Subtitle {
		args = append(args, "-map", fmt.Sprintf("0:%d", s.SourceIndex))
	}
	for _, sc := range p.Sidecars {
		args = append(args, "-map", fmt.Sprintf("%d:0", sc.InputOrdinal))
	}

	args = p.appendVideoCodec(args)
	args = p.appendAudioCodec(args)

	if p.Options.Subtitles {
		args = append(args, "-c:s", "mov_text")
	}

	args = p.appendAudioMetadata(args)
	args = p.appendSubtitleMetadata(args)

	return append(args, p.OutputPath)
}

func (p *Plan) appendVideoCodec(args []string) []string {
	switch p.Options.VideoCodec {
	case config.VideoCopy:
		args = append(args, "-c:v", "copy")
	case config.VideoAVC:
		args = append(args,
			"-c:v", "libx264",
			"-profile:v", "high",
			"-preset", "slow",
			"-crf", strconv.Itoa(p.Options.CRF),
		)
	case config.VideoHEVC:
		args = append(args,
			"-c:v", "libx265",
			"-preset", "slow",
			"-crf", strconv.Itoa(p.Options.CRF),
			"-tag:v", "hvc1",
		)
	}
	if p.Options.RescaleTo720 {
		args = append(args, "-vf", "scale=-2:720")
	}
	return args
}

func (p *Plan) appendAudioCodec(args []string) []string {
	switch p.Options.AudioCodec {
	case config.AudioCopy:
		args = append(args, "-c:a", "copy")
	default:
		args = append(args, "-c:a", string(p.Options.AudioCodec))
	}
	if p.Options.AudioStereo {
		args = append(args, "-ac", "2")
	}
	return args
}

// appendAudioMetadata tags each mapped audio stream with its language
// and derived title, addressed by output audio ordinal.
func (p *Plan) appendAudioMetadata(args []string) []string {
	for i, s := range p.Audio {
		if s.Language != "" {
			args = append(args, fmt.Sprintf("-metadata:s:a:%d", i), "language="+s.Language)
		}
		if s.Title != "" {
			args = append(args, fmt.Sprintf("-metadata:s:a:%d", i), "title="+s.Title)
		}
	}
	return args
}

// appendSubtitleMetadata tags embedded subtitle streams and sidecar
// inputs alike; sidecars continue the subtitle ordinal sequence after
// the embedded streams.
func (p *Plan) appendSubtitleMetadata(args []string) []string {
	if !p.Options.Subtitles {
		return args
	}

	for i, s := range p.Subtitle {
		args = appendSubtitleStreamMeta(args, i, s.Language, s.Title, s.Forced, s.SDH)
	}

	start := len(p.Subtitle)
	for j, sc := range p.Sidecars {
		args = appendSubtitleStreamMeta(args, start+j, sc.Language, sc.Title, sc.Forced, sc.SDH)
	}
	return args
}

func appendSubtitleStreamMeta(args []string, ordinal int, lang, title string, forced, sdh bool) []string {
	disposition := ""
	if forced {
		disposition += "+forced"
	}
	if sdh {
		disposition += "+hearing_impaired"
	}

	if lang != "" {
		args = append(args, fmt.Sprintf("-metadata:s:s:%d", ordinal), "language="+lang)
	}
	if title != "" && title != "N/A" {
		args = append(args, fmt.Sprintf("-metadata:s:s:%d", ordinal), "title="+title)
	}
	if disposition != "" {
		args = append(args, fmt.Sprintf("-disposition:s:%d", ordinal), disposition)
	}
	return args
}
