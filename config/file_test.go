package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vidconv.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
container: mkv
video_codec: avc
audio_codec: aac
crf: 18
subtitles: false
rescale_to_720: true
audio_to_stereo: true
`)
	t.Setenv("VIDCONV_CONFIG", path)

	opts := Defaults()
	if err := LoadFile(&opts); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if opts.Container != ContainerMKV {
		t.Errorf("container = %q, want mkv", opts.Container)
	}
	if opts.VideoCodec != VideoAVC {
		t.Errorf("video codec = %q, want avc", opts.VideoCodec)
	}
	if opts.AudioCodec != AudioAAC {
		t.Errorf("audio codec = %q, want aac", opts.AudioCodec)
	}
	if opts.CRF != 18 {
		t.Errorf("crf = %d, want 18", opts.CRF)
	}
	if opts.Subtitles {
		t.Error("subtitles should be disabled by the file")
	}
	if !opts.RescaleTo720 || !opts.AudioStereo {
		t.Error("rescale and stereo should be enabled by the file")
	}
}

func TestLoadFilePartial(t *testing.T) {
	path := writeConfig(t, "container: mkv\n")
	t.Setenv("VIDCONV_CONFIG", path)

	opts := Defaults()
	if err := LoadFile(&opts); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	// Only the keys present in the file override the defaults.
	if opts.Container != ContainerMKV {
		t.Errorf("container = %q, want mkv", opts.Container)
	}
	if opts.VideoCodec != VideoHEVC {
		t.Errorf("video codec = %q, want the hevc default", opts.VideoCodec)
	}
	if !opts.Subtitles {
		t.Error("subtitles default should survive a partial file")
	}
}

func TestLoadFileMissing(t *testing.T) {
	t.Setenv("VIDCONV_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	opts := Defaults()
	if err := LoadFile(&opts); err != nil {
		t.Errorf("a missing config file should not be an error, got %v", err)
	}
}

func TestLoadFileInvalidValue(t *testing.T) {
	path := writeConfig(t, "video_codec: vp9\n")
	t.Setenv("VIDCONV_CONFIG", path)

	opts := Defaults()
	if err := LoadFile(&opts); err == nil {
		t.Error("LoadFile should reject an unknown video codec")
	}
}
