package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"vidconv/config"
	"vidconv/display"
	"vidconv/encoder"
	"vidconv/plan"
	"vidconv/probe"
	"vidconv/subtitles"
)

var (
	flagContainer  string
	flagVideoCodec string
	flagRescale    bool
	flagCRF        int
	flagAudioCodec string
	flagStereo     bool
	flagNoSubs     bool
	flagDelete     bool
	flagNoPrompt   bool
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "vidconv <input>",
	Short: "A wrapper for ffmpeg to simplify video conversion",
	Long: `Vidconv inspects a video file with ffprobe, selects streams and nearby
.srt subtitle files by fixed heuristics, and builds the matching ffmpeg
command. It shows the input and output stream layout and the full
command before running anything.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	RunE:          run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&flagContainer, "container", "f", "mp4", "output container format (mp4 or mkv)")
	f.StringVarP(&flagVideoCodec, "video-codec", "v", "hevc", "output video codec (copy, avc or hevc)")
	f.BoolVarP(&flagRescale, "rescale-to-720", "r", false, "rescale video to 720p")
	f.IntVarP(&flagCRF, "crf-value", "c", config.CRFUnset, "CRF value, 0-51 (default: 20 for avc, 24 for hevc)")
	f.StringVarP(&flagAudioCodec, "audio-codec", "a", "eac3", "output audio codec (copy, aac, ac3 or eac3)")
	f.BoolVarP(&flagStereo, "audio-to-stereo", "2", false, "convert audio to stereo")
	f.BoolVarP(&flagNoSubs, "no-subtitles", "s", false, "ignore subtitles (included by default)")
	f.BoolVarP(&flagDelete, "delete", "d", false, "delete the input file after conversion")
	f.BoolVarP(&flagNoPrompt, "no-prompt", "y", false, "don't ask for confirmation before executing")
	f.BoolVar(&flagVerbose, "verbose", false, "print extra information")
}

// buildOptions layers defaults, the optional config file, and CLI flags.
func buildOptions(cmd *cobra.Command) (config.Options, error) {
	opts := config.Defaults()
	if err := config.LoadFile(&opts); err != nil {
		return opts, fmt.Errorf("config file: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("container") {
		c, err := config.ParseContainer(flagContainer)
		if err != nil {
			return opts, err
		}
		opts.Container = c
	}
	if flags.Changed("video-codec") {
		v, err := config.ParseVideoCodec(flagVideoCodec)
		if err != nil {
			return opts, err
		}
		opts.VideoCodec = v
	}
	if flags.Changed("audio-codec") {
		a, err := config.ParseAudioCodec(flagAudioCodec)
		if err != nil {
			return opts, err
		}
		opts.AudioCodec = a
	}
	if flags.Changed("crf-value") {
		opts.CRF = flagCRF
	}
	if flags.Changed("rescale-to-720") {
		opts.RescaleTo720 = flagRescale
	}
	if flags.Changed("audio-to-stereo") {
		opts.AudioStereo = flagStereo
	}
	if flagNoSubs {
		opts.Subtitles = false
	}
	opts.Delete = flagDelete
	opts.NoPrompt = flagNoPrompt
	opts.Verbose = flagVerbose

	err := opts.Validate()
	return opts, err
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func run(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	log := newLogger(opts.Verbose)

	inputPath := args[0]
	if info, statErr := os.Stat(inputPath); statErr != nil || info.IsDir() {
		return fmt.Errorf("cannot read file %q", inputPath)
	}

	ctx := context.Background()

	log.Debug().Str("input", inputPath).Msg("probing streams")
	res, err := probe.Probe(ctx, inputPath)
	if err != nil {
		return err
	}

	sidecars, err := subtitles.Discover(inputPath)
	if err != nil {
		return fmt.Errorf("scan subtitle files: %w", err)
	}
	log.Debug().Int("sidecars", len(sidecars)).Msg("subtitle files discovered")

	p := plan.New(inputPath, res, sidecars, opts, plan.FileExists)
	ffArgs := p.Args()

	display.PrintInput(inputPath, res)
	if opts.Subtitles {
		display.PrintSidecars(p.Sidecars)
	}
	display.PrintOutput(p)
	display.PrintCommand(ffArgs)

	if opts.Delete {
		fmt.Println("The input file(s) will be deleted after conversion.")
		fmt.Println()
	}

	if !opts.NoPrompt {
		if !confirm() {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := encoder.Run(ctx, p); err != nil {
		return err
	}

	if opts.Delete {
		if err := encoder.Cleanup(p, log); err != nil {
			return err
		}
	}
	return nil
}

// confirm blocks for one line of operator input; anything but "y"
// (case-insensitive) aborts.
func confirm() bool {
	fmt.Print("Proceed? [Y] to continue, any other key to terminate: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.ToLower(strings.TrimSpace(line)) == "y"
}
