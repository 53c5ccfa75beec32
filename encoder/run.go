package encoder

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog"

	"vidconv/plan"
)

// Run executes the plan's ffmpeg command synchronously with ffmpeg's
// own output going straight to the terminal. This is the batch path;
// the wizard uses Encoder/Start instead.
func Run(ctx context.Context, p *plan.Plan) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", p.Args()...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg command failed: %w", err)
	}
	return nil
}

// Cleanup removes the source file and the consumed sidecar subtitles,
// and renames a collision-numbered output back to the plain
// <base>.<container> name. Only called after a successful conversion
// when the delete option is set.
func Cleanup(p *plan.Plan, log zerolog.Logger) error {
	if info, err := os.Stat(p.InputPath); err == nil && !info.IsDir() {
		log.Info().Str("path", p.InputPath).Msg("deleting input")
		fmt.Printf("Deleting:  %s\n", p.InputPath)
		if err := os.Remove(p.InputPath); err != nil {
			return fmt.Errorf("delete input: %w", err)
		}
	}

	if target, numbered := p.NumberedOutput(); numbered {
		log.Info().Str("from", p.OutputPath).Str("to", target).Msg("renaming output")
		fmt.Printf("Renaming:  %s -> %s\n", p.OutputPath, target)
		if err := os.Rename(p.OutputPath, target); err != nil {
			return fmt.Errorf("rename output: %w", err)
		}
	}

	for _, sc := range p.Sidecars {
		if info, err := os.Stat(sc.Path); err != nil || info.IsDir() {
			continue
		}
		log.Info().Str("path", sc.Path).Msg("deleting subtitle")
		fmt.Printf("Deleting:  %s\n", sc.Path)
		if err := os.Remove(sc.Path); err != nil {
			return fmt.Errorf("delete subtitle: %w", err)
		}
	}
	return nil
}
