// Package display prints the batch converter's stream tables and
// command preview. This is product output, not logging, so it writes
// plain stdout with light coloring.
package display

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"vidconv/plan"
	"vidconv/probe"
	"vidconv/subtitles"
)

var (
	header  = color.New(color.FgCyan, color.Bold)
	section = color.New(color.FgWhite, color.Bold)
)

// PrintInput shows the probed stream layout of the source file.
func PrintInput(path string, res *probe.Result) {
	fmt.Println()
	size := ""
	if info, err := os.Stat(path); err == nil {
		size = " (" + humanize.IBytes(uint64(info.Size())) + ")"
	}
	header.Printf("Input file:  ")
	fmt.Printf("%s%s\n", path, size)

	section.Println("  Video:")
	for _, s := range res.Video {
		printFields(
			"index", itoa(s.Index),
			"codec", s.Codec,
			"resolution", s.Resolution(),
			"title", s.Title,
		)
	}
	section.Println("  Audio:")
	for _, s := range res.Audio {
		printFields(
			"index", itoa(s.Index),
			"codec", s.Codec,
			"language", orNA(s.Language),
			"channels", itoa(s.Channels),
			"title", s.Title,
		)
	}
	section.Println("  Subtitles:")
	for _, s := range res.Subtitle {
		printFields(
			"index", itoa(s.Index),
			"codec", s.Codec,
			"language", orNA(s.Language),
			"default", boolFlag(s.Default),
			"forced", boolFlag(s.Forced),
			"sdh", boolFlag(s.HearingImpaired),
			"title", s.Title,
		)
	}
}

// PrintSidecars shows the discovered subtitle files.
func PrintSidecars(sidecars []subtitles.Sidecar) {
	if len(sidecars) == 0 {
		return
	}
	fmt.Println()
	header.Println("Subtitle file:")
	section.Println("  Subtitles:")
	for _, sc := range sidecars {
		printFields(
			"index", itoa(sc.InputOrdinal),
			"codec", sc.Codec,
			"language", sc.Language,
			"forced", boolFlag(sc.Forced),
			"sdh", boolFlag(sc.SDH),
			"filename", sc.Path,
		)
	}
}

// PrintOutput shows the planned output layout, with sidecar streams
// numbered after the container's own streams.
func PrintOutput(p *plan.Plan) {
	fmt.Println()
	header.Printf("Output file: ")
	fmt.Println(p.OutputPath)

	section.Println("  Video:")
	for _, s := range p.Video {
		printFields(
			"index", itoa(s.SourceIndex),
			"codec", s.Codec,
			"resolution", s.Resolution,
			"title", s.Title,
		)
	}
	section.Println("  Audio:")
	for _, s := range p.Audio {
		printFields(
			"index", itoa(s.SourceIndex),
			"codec", s.Codec,
			"language", s.Language,
			"channels", itoa(s.Channels),
			"title", s.Title,
		)
	}
	if !p.Options.Subtitles {
		return
	}
	section.Println("  Subtitles:")
	for _, s := range p.Subtitle {
		printFields(
			"index", itoa(s.SourceIndex),
			"codec", s.Codec,
			"language", s.Language,
			"forced", boolFlag(s.Forced),
			"sdh", boolFlag(s.SDH),
			"title", s.Title,
		)
	}
	next := len(p.Video) + len(p.Audio) + len(p.Subtitle)
	for i, sc := range p.Sidecars {
		printFields(
			"index", itoa(next+i),
			"codec", sc.Codec,
			"language", sc.Language,
			"forced", boolFlag(sc.Forced),
			"sdh", boolFlag(sc.SDH),
			"title", sc.Title,
		)
	}
}

// PrintCommand shows the assembled ffmpeg invocation.
func PrintCommand(args []string) {
	fmt.Println()
	header.Println("The command will be:")
	fmt.Println("ffmpeg " + strings.Join(args, " "))
	fmt.Println()
}

func printFields(kv ...string) {
	pairs := make([]string, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, kv[i]+": "+kv[i+1])
	}
	fmt.Println("    " + strings.Join(pairs, ", "))
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func itoa(n int) string { return strconv.Itoa(n) }
