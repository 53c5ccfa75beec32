package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vidconv/config"
	"vidconv/probe"
	"vidconv/subtitles"
)

func neverExists(string) bool { return false }

func defaultOptions(t *testing.T) config.Options {
	t.Helper()
	opts := config.Defaults()
	require.NoError(t, opts.Validate())
	return opts
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name     string
		existing map[string]bool
		wantPath string
		wantN    int
	}{
		{
			name:     "no collision",
			existing: nil,
			wantPath: "/media/Movie.mp4",
			wantN:    0,
		},
		{
			name:     "one collision",
			existing: map[string]bool{"/media/Movie.mp4": true},
			wantPath: "/media/Movie.1.mp4",
			wantN:    1,
		},
		{
			name: "two collisions",
			existing: map[string]bool{
				"/media/Movie.mp4":   true,
				"/media/Movie.1.mp4": true,
			},
			wantPath: "/media/Movie.2.mp4",
			wantN:    2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exists := func(p string) bool { return tc.existing[p] }
			path, n := outputName("/media/Movie.mkv", config.ContainerMP4, exists)
			require.Equal(t, tc.wantPath, path)
			require.Equal(t, tc.wantN, n)
		})
	}
}

func TestNormalizeLanguage(t *testing.T) {
	require.Equal(t, "eng", normalizeLanguage(""))
	require.Equal(t, "eng", normalizeLanguage("und"))
	require.Equal(t, "eng", normalizeLanguage("eng"))
	require.Equal(t, "fre", normalizeLanguage("fre"))
}

func TestDeriveLabel(t *testing.T) {
	tests := []struct {
		name       string
		stream     probe.Stream
		wantLabel  string
		wantForced bool
		wantSDH    bool
	}{
		{
			name:      "plain english",
			stream:    probe.Stream{Language: "eng"},
			wantLabel: "English",
		},
		{
			name:      "untagged defaults to english",
			stream:    probe.Stream{},
			wantLabel: "English",
		},
		{
			name:       "forced disposition",
			stream:     probe.Stream{Language: "eng", Forced: true},
			wantLabel:  "English Forced",
			wantForced: true,
		},
		{
			name:      "sdh from title",
			stream:    probe.Stream{Language: "eng", Title: "English (SDH)"},
			wantLabel: "English SDH",
			wantSDH:   true,
		},
		{
			name:       "forced from title and sdh from disposition",
			stream:     probe.Stream{Language: "eng", Title: "forced track", HearingImpaired: true},
			wantLabel:  "English Forced SDH",
			wantForced: true,
			wantSDH:    true,
		},
		{
			name:      "non-english keeps the tag",
			stream:    probe.Stream{Language: "fre"},
			wantLabel: "fre",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			label, forced, sdh := deriveLabel(tc.stream)
			require.Equal(t, tc.wantLabel, label)
			require.Equal(t, tc.wantForced, forced)
			require.Equal(t, tc.wantSDH, sdh)
		})
	}
}

func TestAudioSelection(t *testing.T) {
	res := &probe.Result{
		Video: []probe.Stream{{Index: 0, Type: probe.StreamVideo, Codec: "h264", Width: 1920, Height: 1080}},
		Audio: []probe.Stream{
			{Index: 1, Type: probe.StreamAudio, Codec: "dts", Language: "fre", Channels: 6},
			{Index: 2, Type: probe.StreamAudio, Codec: "aac", Language: "eng", Channels: 2},
			{Index: 3, Type: probe.StreamAudio, Codec: "ac3", Language: "ger", Channels: 6},
			{Index: 4, Type: probe.StreamAudio, Codec: "aac", Language: "und", Channels: 2},
		},
	}

	p := New("/media/Movie.mkv", res, nil, defaultOptions(t), neverExists)

	// First stream always kept, then English and untagged ones.
	require.Len(t, p.Audio, 3)
	require.Equal(t, 1, p.Audio[0].SourceIndex)
	require.Equal(t, 2, p.Audio[1].SourceIndex)
	require.Equal(t, 4, p.Audio[2].SourceIndex)
	require.Equal(t, "eng", p.Audio[2].Language)
}

func TestSubtitleSelection(t *testing.T) {
	res := &probe.Result{
		Subtitle: []probe.Stream{
			{Index: 2, Type: probe.StreamSubtitle, Codec: "subrip", Language: "eng"},
			{Index: 3, Type: probe.StreamSubtitle, Codec: "subrip", Language: "fre"},
			{Index: 4, Type: probe.StreamSubtitle, Codec: "subrip"},
		},
	}

	p := New("/media/Movie.mkv", res, nil, defaultOptions(t), neverExists)
	require.Len(t, p.Subtitle, 2)
	require.Equal(t, 2, p.Subtitle[0].SourceIndex)
	require.Equal(t, 4, p.Subtitle[1].SourceIndex)
}

func TestSubtitlesDisabled(t *testing.T) {
	res := &probe.Result{
		Subtitle: []probe.Stream{{Index: 2, Type: probe.StreamSubtitle, Codec: "subrip", Language: "eng"}},
	}
	sidecars := []subtitles.Sidecar{{InputOrdinal: 1, Path: "/media/Movie.en.srt", Language: "eng", Title: "English"}}

	opts := defaultOptions(t)
	opts.Subtitles = false

	p := New("/media/Movie.mkv", res, sidecars, opts, neverExists)
	require.Empty(t, p.Subtitle)
	require.Empty(t, p.Sidecars)
	require.NotContains(t, p.Args(), "-c:s")
}

func TestVideoCopyKeepsSourceCodec(t *testing.T) {
	res := &probe.Result{
		Video: []probe.Stream{{Index: 0, Type: probe.StreamVideo, Codec: "h264", Width: 1280, Height: 720}},
	}

	opts := defaultOptions(t)
	opts.VideoCodec = config.VideoCopy

	p := New("/media/Movie.mkv", res, nil, opts, neverExists)
	require.Equal(t, "h264", p.Video[0].Codec)
	require.Equal(t, "1280x720", p.Video[0].Resolution)
}

func TestRescaleResolution(t *testing.T) {
	res := &probe.Result{
		Video: []probe.Stream{{Index: 0, Type: probe.StreamVideo, Codec: "h264", Width: 1920, Height: 1080}},
	}

	opts := defaultOptions(t)
	opts.RescaleTo720 = true

	p := New("/media/Movie.mkv", res, nil, opts, neverExists)
	require.Equal(t, "-2x720", p.Video[0].Resolution)
	require.Contains(t, p.Args(), "scale=-2:720")
}

func TestArgsComplete(t *testing.T) {
	res := &probe.Result{
		Video: []probe.Stream{
			{Index: 0, Type: probe.StreamVideo, Codec: "h264", Width: 1920, Height: 1080},
		},
		Audio: []probe.Stream{
			{Index: 1, Type: probe.StreamAudio, Codec: "aac", Language: "eng", Channels: 6},
			{Index: 2, Type: probe.StreamAudio, Codec: "ac3", Language: "fre", Channels: 6},
		},
		Subtitle: []probe.Stream{
			{Index: 3, Type: probe.StreamSubtitle, Codec: "subrip", Language: "eng", Title: "English SDH"},
			{Index: 4, Type: probe.StreamSubtitle, Codec: "subrip", Language: "fre"},
		},
	}
	sidecars := []subtitles.Sidecar{
		{
			InputOrdinal: 1,
			Path:         "/media/Movie.en.forced.srt",
			Codec:        "srt",
			Language:     "eng",
			Forced:       true,
			Title:        "English Forced",
		},
	}

	p := New("/media/Movie.mkv", res, sidecars, defaultOptions(t), neverExists)

	want := []string{
		"-i", "/media/Movie.mkv",
		"-f", "srt", "-i", "/media/Movie.en.forced.srt",
		"-map_metadata", "-1",
		"-map_chapters", "-1",
		"-map", "0:0",
		"-map", "0:1",
		"-map", "0:3",
		"-map", "1:0",
		"-c:v", "libx265",
		"-preset", "slow",
		"-crf", "24",
		"-tag:v", "hvc1",
		"-c:a", "eac3",
		"-c:s", "mov_text",
		"-metadata:s:a:0", "language=eng",
		"-metadata:s:a:0", "title=English",
		"-metadata:s:s:0", "language=eng",
		"-metadata:s:s:0", "title=English SDH",
		"-disposition:s:0", "+hearing_impaired",
		"-metadata:s:s:1", "language=eng",
		"-metadata:s:s:1", "title=English Forced",
		"-disposition:s:1", "+forced",
		"/media/Movie.mp4",
	}
	require.Equal(t, want, p.Args())
}

func TestArgsAVCStereo(t *testing.T) {
	res := &probe.Result{
		Video: []probe.Stream{{Index: 0, Type: probe.StreamVideo, Codec: "h264", Width: 1920, Height: 1080}},
		Audio: []probe.Stream{{Index: 1, Type: probe.StreamAudio, Codec: "dts", Language: "eng", Channels: 6}},
	}

	opts := defaultOptions(t)
	opts.VideoCodec = config.VideoAVC
	opts.CRF = config.CRFUnset
	require.NoError(t, opts.Validate())
	opts.AudioCodec = config.AudioAAC
	opts.AudioStereo = true

	args := New("/media/Movie.mkv", res, nil, opts, neverExists).Args()

	require.Contains(t, args, "libx264")
	require.Contains(t, args, "high")
	require.Subset(t, args, []string{"-crf", "20"})
	require.Subset(t, args, []string{"-c:a", "aac", "-ac", "2"})
	require.NotContains(t, args, "hvc1")
}

func TestNumberedOutput(t *testing.T) {
	res := &probe.Result{}

	p := New("/media/Movie.mkv", res, nil, defaultOptions(t), neverExists)
	_, numbered := p.NumberedOutput()
	require.False(t, numbered)

	exists := map[string]bool{"/media/Movie.mp4": true}
	p = New("/media/Movie.mkv", res, nil, defaultOptions(t), func(path string) bool { return exists[path] })
	require.Equal(t, "/media/Movie.1.mp4", p.OutputPath)

	target, numbered := p.NumberedOutput()
	require.True(t, numbered)
	require.Equal(t, "/media/Movie.mp4", target)
}
