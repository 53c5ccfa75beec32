// Package encoder runs the assembled ffmpeg command, either
// synchronously for the batch converter or asynchronously with live
// progress parsing for the wizard.
package encoder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"vidconv/plan"
)

const maxLogLines = 100

// Encoder drives one ffmpeg conversion for the wizard, keeping a
// mutex-guarded Progress snapshot and a bounded stderr log.
type Encoder struct {
	Plan *plan.Plan

	Progress Progress
	LogLines []string
	Done     bool
	Error    error

	cmd *exec.Cmd
	mu  sync.Mutex // Protects Progress, LogLines, Done, Error.
}

// New wraps a plan in an Encoder.
func New(p *plan.Plan) *Encoder {
	return &Encoder{
		Plan:     p,
		LogLines: make([]string, 0),
	}
}

// ProbeTotalFrames asks ffprobe for the source frame rate and total
// frame count, falling back to a duration-based estimate when the
// container does not carry nb_frames.
func (e *Encoder) ProbeTotalFrames() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fpsCmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate,avg_frame_rate",
		"-of", "csv=p=0",
		e.Plan.InputPath,
	)
	fpsOutput, _ := fpsCmd.Output()
	fpsParts := strings.Split(strings.TrimSpace(string(fpsOutput)), ",")

	var sourceFPS float64
	if len(fpsParts) >= 1 {
		sourceFPS = parseFrameRate(fpsParts[0])
		if sourceFPS <= 0 && len(fpsParts) >= 2 {
			sourceFPS = parseFrameRate(fpsParts[1])
		}
	}

	e.mu.Lock()
	if sourceFPS > 0 {
		e.Progress.SourceFPS = sourceFPS
	} else {
		e.Progress.SourceFPS = 24.0 // Fallback assumption.
	}
	e.mu.Unlock()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=nb_frames",
		"-of", "csv=p=0",
		e.Plan.InputPath,
	)
	if output, err := cmd.Output(); err == nil {
		frames, _ := strconv.ParseInt(strings.TrimSpace(string(output)), 10, 64)
		if frames > 0 {
			e.mu.Lock()
			e.Progress.TotalFrames = frames
			e.Progress.FrameEstimated = false
			e.mu.Unlock()
			return nil
		}
	}

	return e.estimateFramesFromDuration()
}

func (e *Encoder) estimateFramesFromDuration() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		e.Plan.InputPath,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil || duration <= 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.Progress.TotalDuration = time.Duration(duration * float64(time.Second))
	if e.Progress.SourceFPS > 0 && e.Progress.SourceFPS < 1000 {
		estimated := int64(duration * e.Progress.SourceFPS)
		if estimated > 0 {
			e.Progress.TotalFrames = estimated
			e.Progress.FrameEstimated = true
		}
	}
	return nil
}

// Start launches ffmpeg with progress reporting on stdout and returns
// immediately; the conversion state is read through GetState.
func (e *Encoder) Start() error {
	// -progress pipe:1 goes in front of the plan's argument list so the
	// stdout stream carries only key=value batches.
	args := append([]string{"-hide_banner", "-progress", "pipe:1"}, e.Plan.Args()...)
	e.cmd = exec.Command("ffmpeg", args...)

	e.addLog(fmt.Sprintf("Converting: %s", e.Plan.InputPath))
	e.addLog(fmt.Sprintf("Output: %s", e.Plan.OutputPath))
	e.addLog("Command: ffmpeg " + strings.Join(args, " "))

	e.mu.Lock()
	e.Progress.StartTime = time.Now()
	e.mu.Unlock()

	stdout, err := e.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	stderr, err := e.cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to get stderr pipe: %w", err)
	}

	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	go e.parseProgress(stdout)
	go e.captureStderr(stderr)

	go func() {
		err := e.cmd.Wait()
		e.mu.Lock()
		if err != nil {
			e.Error = fmt.Errorf("ffmpeg: %w", err)
			e.LogLines = append(e.LogLines, fmt.Sprintf("Conversion error: %v", err))
		} else {
			e.finalizeProgressLocked()
			e.LogLines = append(e.LogLines, "Conversion completed.")
		}
		e.Done = true
		e.mu.Unlock()
	}()

	return nil
}

// Stop terminates a running conversion.
func (e *Encoder) Stop() {
	if e.cmd != nil && e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
}

// GetState returns a thread-safe snapshot of the conversion state.
func (e *Encoder) GetState() (Progress, []string, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logs := make([]string, len(e.LogLines))
	copy(logs, e.LogLines)
	return e.Progress, logs, e.Done, e.Error
}

// finalizeProgressLocked pins the snapshot at completion; the frame we
// reached is by definition the total.
func (e *Encoder) finalizeProgressLocked() {
	if e.Progress.Frame > 0 {
		e.Progress.TotalFrames = e.Progress.Frame
		e.Progress.FrameEstimated = false
	}
	e.Progress.Percentage = 100
	e.Progress.ETA = 0
	e.Progress.ETAAvailable = false
}

// progressUpdate accumulates one key=value batch before it is applied
// atomically at the "progress=" marker.
type progressUpdate struct {
	frame      int64
	frameSet   bool
	fps        float64
	fpsSet     bool
	bitrate    string
	bitrateSet bool
	size       int64
	sizeSet    bool
	outTimeUs  int64
	outTimeSet bool
	speed      float64
	speedRaw   string
	speedSet   bool
}

// parseProgress reads ffmpeg's -progress output: key=value lines with
// "progress=continue" or "progress=end" as batch markers.
func (e *Encoder) parseProgress(r io.Reader) {
	scanner := bufio.NewScanner(r)
	// 64KB default can be exceeded by some ffmpeg metadata lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var batch progressUpdate
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "progress=") {
			e.applyBatch(batch)
			if line == "progress=end" {
				e.mu.Lock()
				e.finalizeProgressLocked()
				e.mu.Unlock()
			}
			batch = progressUpdate{}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "frame":
			if frame, err := strconv.ParseInt(value, 10, 64); err == nil && frame >= 0 {
				batch.frame, batch.frameSet = frame, true
			}
		case "fps":
			if fps, err := strconv.ParseFloat(value, 64); err == nil && fps >= 0 {
				batch.fps, batch.fpsSet = fps, true
			}
		case "bitrate":
			batch.bitrate, batch.bitrateSet = value, true
		case "total_size":
			if size, err := strconv.ParseInt(value, 10, 64); err == nil && size >= 0 {
				batch.size, batch.sizeSet = size, true
			}
		case "out_time_us":
			if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
				batch.outTimeUs, batch.outTimeSet = us, true
			}
		case "out_time_ms":
			if ms, err := strconv.ParseInt(value, 10, 64); err == nil && ms >= 0 {
				batch.outTimeUs, batch.outTimeSet = ms*1000, true
			}
		case "out_time":
			if us := parseOutTime(value); us >= 0 {
				batch.outTimeUs, batch.outTimeSet = us, true
			}
		case "speed":
			batch.speedRaw = value
			if value == "N/A" {
				batch.speedSet = true
			} else if speed, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64); err == nil && speed >= 0 {
				batch.speed, batch.speedSet = speed, true
			}
		}
	}

	if err := scanner.Err(); err != nil {
		e.addLog(fmt.Sprintf("Progress reader error: %v", err))
	}
	if batch.frameSet || batch.fpsSet || batch.sizeSet {
		e.applyBatch(batch)
	}
}

func (e *Encoder) applyBatch(batch progressUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if batch.frameSet {
		e.Progress.Frame = batch.frame
		// Container metadata can undercount; never show frame > total.
		if batch.frame > e.Progress.TotalFrames && e.Progress.TotalFrames > 0 {
			e.Progress.TotalFrames = batch.frame
			e.Progress.FrameEstimated = true
		}
	}
	if batch.fpsSet {
		e.Progress.FPS = batch.fps
		if batch.fps > 0 {
			e.Progress.LastValidFPS = batch.fps
		}
	}
	if batch.bitrateSet {
		e.Progress.BitrateRaw = batch.bitrate
		if batch.bitrate == "" {
			e.Progress.Bitrate = "N/A"
		} else {
			e.Progress.Bitrate = batch.bitrate
		}
	}
	if batch.sizeSet {
		e.Progress.TotalSize = batch.size
	}
	if batch.outTimeSet {
		e.Progress.OutTimeUs = batch.outTimeUs
	}
	if batch.speedSet {
		e.Progress.SpeedRaw = batch.speedRaw
		e.Progress.Speed = batch.speedRaw
		if batch.speedRaw != "N/A" && batch.speed > 0 {
			e.Progress.LastValidSpeed = batch.speed
		}
	}

	e.calculatePercentageLocked()
	e.calculateETALocked()
}

// calculatePercentageLocked prefers the time-based percentage when the
// frame count is estimated or the two measures disagree badly.
func (e *Encoder) calculatePercentageLocked() {
	var framePct, timePct float64
	hasFramePct := e.Progress.TotalFrames > 0 && e.Progress.Frame > 0
	if hasFramePct {
		framePct = float64(e.Progress.Frame) / float64(e.Progress.TotalFrames) * 100
	}
	hasTimePct := e.Progress.TotalDuration > 0 && e.Progress.OutTimeUs > 0
	if hasTimePct {
		timePct = float64(e.Progress.OutTimeUs) / float64(e.Progress.TotalDuration.Microseconds()) * 100
	}

	switch {
	case hasFramePct && hasTimePct:
		diff := framePct - timePct
		if diff < 0 {
			diff = -diff
		}
		if diff > 10 || e.Progress.FrameEstimated {
			e.Progress.Percentage = clampPercentage(timePct)
		} else {
			e.Progress.Percentage = clampPercentage(framePct)
		}
	case hasTimePct:
		e.Progress.Percentage = clampPercentage(timePct)
	case hasFramePct:
		e.Progress.Percentage = clampPercentage(framePct)
	default:
		e.Progress.Percentage = 0
	}
}

// calculateETALocked derives the remaining time, preferring ffmpeg's
// speed multiplier, then encode FPS, then elapsed-time extrapolation.
// Early values are suppressed while the encoder warms up.
func (e *Encoder) calculateETALocked() {
	if !e.Progress.StartTime.IsZero() && time.Since(e.Progress.StartTime) < 5*time.Second {
		e.Progress.ETAAvailable = false
		e.Progress.ETA = -1
		return
	}

	var newETA time.Duration
	calculated := false

	if e.Progress.LastValidSpeed > 0 && e.Progress.TotalDuration > 0 && e.Progress.OutTimeUs > 0 {
		remainingUs := e.Progress.TotalDuration.Microseconds() - e.Progress.OutTimeUs
		if remainingUs > 0 {
			newETA = time.Duration(int64(float64(remainingUs)/e.Progress.LastValidSpeed)) * time.Microsecond
			calculated = true
		}
	}

	if !calculated && !e.Progress.FrameEstimated {
		fps := e.Progress.LastValidFPS
		if fps > 0 && e.Progress.TotalFrames > 0 && e.Progress.Frame > 0 {
			remaining := e.Progress.TotalFrames - e.Progress.Frame
			if remaining > 0 {
				newETA = time.Duration(float64(remaining) / fps * float64(time.Second))
				calculated = true
			}
		}
	}

	if !calculated && e.Progress.Percentage > 2 && !e.Progress.StartTime.IsZero() {
		elapsed := time.Since(e.Progress.StartTime)
		if elapsed > 10*time.Second {
			remainingPct := 100 - e.Progress.Percentage
			if remainingPct > 0 {
				newETA = time.Duration(float64(elapsed) * remainingPct / e.Progress.Percentage)
				calculated = true
			}
		}
	}

	if !calculated {
		e.Progress.ETAAvailable = false
		e.Progress.ETA = -1
		return
	}

	// Smooth against the previous value so the display doesn't jump.
	if e.Progress.ETAAvailable && e.Progress.ETA > 0 {
		old := e.Progress.ETA
		diff := float64(newETA - old)
		if diff < 0 {
			diff = -diff
		}
		if diff > float64(old)*0.5 {
			e.Progress.ETA = time.Duration(float64(newETA)*0.2 + float64(old)*0.8)
		} else {
			e.Progress.ETA = time.Duration(float64(newETA)*0.3 + float64(old)*0.7)
		}
	} else {
		e.Progress.ETA = newETA
	}
	e.Progress.ETAAvailable = true
}

// captureStderr collects ffmpeg stderr into the log ring, also mining
// it for the source duration when ffprobe didn't yield one.
func (e *Encoder) captureStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Text()

		e.mu.Lock()
		if e.Progress.TotalDuration == 0 {
			if d, ok := parseDurationLine(line); ok {
				e.Progress.TotalDuration = d
				if e.Progress.SourceFPS > 0 && (e.Progress.TotalFrames == 0 || e.Progress.FrameEstimated) {
					e.Progress.TotalFrames = int64(d.Seconds() * e.Progress.SourceFPS)
					e.Progress.FrameEstimated = true
				}
			}
		}

		if line != "" &&
			!strings.HasPrefix(line, "frame=") &&
			!strings.HasPrefix(line, "size=") &&
			!strings.HasPrefix(line, "fps=") {
			e.LogLines = append(e.LogLines, line)
			if len(e.LogLines) > maxLogLines {
				e.LogLines = e.LogLines[len(e.LogLines)-maxLogLines:]
			}
		}
		e.mu.Unlock()
	}
}

func (e *Encoder) addLog(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.LogLines = append(e.LogLines, line)
	if len(e.LogLines) > maxLogLines {
		e.LogLines = e.LogLines[len(e.LogLines)-maxLogLines:]
	}
}
