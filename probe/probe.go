// Package probe inspects a media file's stream layout with a single
// ffprobe JSON call.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

const probeTimeout = 30 * time.Second

// Probe runs ffprobe against path and returns the parsed stream layout.
func Probe(ctx context.Context, path string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_streams",
		"-of", "json",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}
	return ParseStreams(out)
}

// ParseStreams converts raw ffprobe JSON into a Result. Exported so
// tests run against canned output without an ffprobe binary.
func ParseStreams(data []byte) (*Result, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("could not retrieve stream information: %w", err)
	}
	if raw.Streams == nil {
		return nil, fmt.Errorf("could not retrieve stream information: no streams section")
	}

	res := &Result{}
	for i := range raw.Streams {
		s := convertStream(&raw.Streams[i])
		switch s.Type {
		case StreamVideo:
			res.Video = append(res.Video, s)
		case StreamAudio:
			res.Audio = append(res.Audio, s)
		case StreamSubtitle:
			res.Subtitle = append(res.Subtitle, s)
		}
	}
	return res, nil
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	Channels    int               `json:"channels"`
	Disposition map[string]int    `json:"disposition"`
	Tags        map[string]string `json:"tags"`
}

func convertStream(s *ffprobeStream) Stream {
	t := StreamOther
	switch s.CodecType {
	case "video":
		t = StreamVideo
	case "audio":
		t = StreamAudio
	case "subtitle":
		t = StreamSubtitle
	}

	return Stream{
		Index:           s.Index,
		Type:            t,
		Codec:           orUnknown(s.CodecName),
		Width:           s.Width,
		Height:          s.Height,
		Channels:        s.Channels,
		Language:        s.Tags["language"],
		Title:           s.Tags["title"],
		Default:         s.Disposition["default"] == 1,
		Forced:          s.Disposition["forced"] == 1,
		HearingImpaired: s.Disposition["hearing_impaired"] == 1,
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
