// Command vidwizard is the interactive conversion wizard: probe the
// input, review and adjust the plan in a terminal UI, then convert with
// live progress.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"vidconv/config"
	"vidconv/probe"
	"vidconv/subtitles"
	"vidconv/tui"
)

func main() {
	flag.Usage = func() {
		fmt.Println("Usage: vidwizard <video-file>")
		fmt.Println()
		fmt.Println("Opens an interactive wizard to build and run an ffmpeg conversion.")
		fmt.Println()
		fmt.Println("Keys:")
		fmt.Println("  V/A/C      cycle video codec, audio codec, container")
		fmt.Println("  R/2/S      toggle 720p rescale, stereo downmix, subtitles")
		fmt.Println("  Enter      start the conversion")
		fmt.Println("  L          toggle ffmpeg log pane")
		fmt.Println("  Q          quit")
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}
	inputPath := args[0]

	if info, err := os.Stat(inputPath); err != nil || info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: cannot read file %q\n", inputPath)
		os.Exit(1)
	}

	res, err := probe.Probe(context.Background(), inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sidecars, err := subtitles.Discover(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := config.Defaults()
	if err := config.LoadFile(&opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	model := tui.NewModel(inputPath, res, sidecars, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
