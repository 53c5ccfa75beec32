package config

import (
	"fmt"
	"strings"
)

// Container is the output container format.
type Container string

const (
	ContainerMP4 Container = "mp4" // Default; subtitles become mov_text.
	ContainerMKV Container = "mkv"
)

// VideoCodec selects the output video codec.
type VideoCodec string

const (
	VideoCopy VideoCodec = "copy"
	VideoAVC  VideoCodec = "avc"  // H.264 via libx264.
	VideoHEVC VideoCodec = "hevc" // H.265 via libx265 (default).
)

// AudioCodec selects the output audio codec.
type AudioCodec string

const (
	AudioCopy AudioCodec = "copy"
	AudioAAC  AudioCodec = "aac"
	AudioAC3  AudioCodec = "ac3"
	AudioEAC3 AudioCodec = "eac3" // Default.
)

// CRF bounds accepted by libx264/libx265.
const (
	CRFMin = 0
	CRFMax = 51
)

// CRFUnset marks a CRF the user did not supply; Validate substitutes the
// per-codec default.
const CRFUnset = -1

// Default CRF values when the user supplies none. 17-28 is the sane
// range; these sit at the quality end of it.
const (
	DefaultCRFAVC  = 20
	DefaultCRFHEVC = 24
)

// Options holds everything the batch converter and the wizard need to
// build a conversion. Populated from defaults, an optional config file,
// and CLI flags, in that order.
type Options struct {
	Container    Container
	VideoCodec   VideoCodec
	CRF          int
	RescaleTo720 bool
	AudioCodec   AudioCodec
	AudioStereo  bool
	Subtitles    bool
	Delete       bool
	NoPrompt     bool
	Verbose      bool
}

// Defaults returns the built-in option set: mp4/hevc/eac3 with subtitles
// included and the CRF left for Validate to resolve.
func Defaults() Options {
	return Options{
		Container:  ContainerMP4,
		VideoCodec: VideoHEVC,
		CRF:        CRFUnset,
		AudioCodec: AudioEAC3,
		Subtitles:  true,
	}
}

// Validate checks enum fields and the CRF range, and resolves an unset
// CRF to the codec default. CRF is irrelevant when copying video.
func (o *Options) Validate() error {
	switch o.Container {
	case ContainerMP4, ContainerMKV:
	default:
		return fmt.Errorf("invalid container %q (use 'mp4' or 'mkv')", o.Container)
	}

	switch o.VideoCodec {
	case VideoCopy, VideoAVC, VideoHEVC:
	default:
		return fmt.Errorf("invalid video codec %q (use 'copy', 'avc' or 'hevc')", o.VideoCodec)
	}

	switch o.AudioCodec {
	case AudioCopy, AudioAAC, AudioAC3, AudioEAC3:
	default:
		return fmt.Errorf("invalid audio codec %q (use 'copy', 'aac', 'ac3' or 'eac3')", o.AudioCodec)
	}

	if o.CRF == CRFUnset {
		switch o.VideoCodec {
		case VideoAVC:
			o.CRF = DefaultCRFAVC
		case VideoHEVC:
			o.CRF = DefaultCRFHEVC
		default:
			o.CRF = 0
		}
		return nil
	}

	if o.CRF < CRFMin || o.CRF > CRFMax {
		return fmt.Errorf("CRF value must be between %d and %d, but got %d", CRFMin, CRFMax, o.CRF)
	}
	return nil
}

// ParseContainer normalizes a user-supplied container name.
func ParseContainer(s string) (Container, error) {
	c := Container(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case ContainerMP4, ContainerMKV:
		return c, nil
	}
	return "", fmt.Errorf("invalid container %q (use 'mp4' or 'mkv')", s)
}

// ParseVideoCodec normalizes a user-supplied video codec name.
func ParseVideoCodec(s string) (VideoCodec, error) {
	v := VideoCodec(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case VideoCopy, VideoAVC, VideoHEVC:
		return v, nil
	}
	return "", fmt.Errorf("invalid video codec %q (use 'copy', 'avc' or 'hevc')", s)
}

// ParseAudioCodec normalizes a user-supplied audio codec name.
func ParseAudioCodec(s string) (AudioCodec, error) {
	a := AudioCodec(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case AudioCopy, AudioAC3, AudioAAC, AudioEAC3:
		return a, nil
	}
	return "", fmt.Errorf("invalid audio codec %q (use 'copy', 'aac', 'ac3' or 'eac3')", s)
}
