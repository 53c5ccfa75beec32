package probe

import "strconv"

// StreamType classifies a stream by its ffprobe codec_type.
type StreamType string

const (
	StreamVideo    StreamType = "video"
	StreamAudio    StreamType = "audio"
	StreamSubtitle StreamType = "subtitle"
	StreamOther    StreamType = "other" // data, attachments, anything else
)

// Stream is one track of the probed container, with the fields the
// planner cares about already flattened out of ffprobe's tags and
// disposition maps.
type Stream struct {
	Index    int
	Type     StreamType
	Codec    string
	Width    int
	Height   int
	Channels int

	// Tag-derived fields. Language keeps ffprobe's raw value ("und"
	// normalization happens in the planner, which needs both forms).
	Language string
	Title    string

	// Disposition flags.
	Default         bool
	Forced          bool
	HearingImpaired bool
}

// Resolution returns "WxH" for video streams with known dimensions,
// "N/A" otherwise.
func (s Stream) Resolution() string {
	if s.Type != StreamVideo || s.Width <= 0 || s.Height <= 0 {
		return "N/A"
	}
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}

// Result groups the probed streams by type, preserving container order
// within each bucket.
type Result struct {
	Video    []Stream
	Audio    []Stream
	Subtitle []Stream
}
