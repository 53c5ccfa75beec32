package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"vidconv/encoder"
)

// Color palette - modern, readable
var (
	colorPrimary   = lipgloss.Color("#7C3AED") // Violet
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan
	colorSuccess   = lipgloss.Color("#10B981") // Emerald
	colorError     = lipgloss.Color("#EF4444") // Red
	colorWarning   = lipgloss.Color("#F59E0B") // Amber
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorText      = lipgloss.Color("#F9FAFB") // White
	colorTextDim   = lipgloss.Color("#9CA3AF") // Light gray
	colorBorder    = lipgloss.Color("#374151") // Dark gray
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Background(colorPrimary).
			Padding(0, 2).
			MarginBottom(1)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorSecondary).
				Bold(true).
				MarginTop(1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2).
			MarginTop(1)

	paneTitleStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	statsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			MarginTop(1)

	statLabelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(10)

	statValueStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	statUnitStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	filePathStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginTop(1)

	percentLowStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	percentMidStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	percentHighStyle = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)
)

// View renders the wizard.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" Video Conversion Wizard ") + "\n")

	switch m.State {
	case StateReview:
		b.WriteString(m.renderReviewView())
	case StateEncoding:
		b.WriteString(m.renderEncodingView())
	case StateDone:
		b.WriteString(m.renderDoneView())
	case StateError:
		b.WriteString(m.renderErrorView())
	}

	var help string
	if m.State == StateReview {
		help = helpStyle.Render("  [V] Video codec  [A] Audio codec  [C] Container  [R] 720p  [2] Stereo  [S] Subtitles  •  [Enter] Convert  [Q] Quit")
	} else {
		help = helpStyle.Render("  [L] Toggle logs  •  [Q] Quit")
	}
	b.WriteString("\n" + help + "\n")

	return b.String()
}

// renderReviewView shows the input layout and the planned output side
// by side, with the current option values.
func (m Model) renderReviewView() string {
	var in strings.Builder
	in.WriteString(paneTitleStyle.Render("Input") + "\n\n")
	in.WriteString(filePathStyle.Render(m.InputPath) + "\n\n")
	for _, s := range m.Streams.Video {
		in.WriteString(fmt.Sprintf("Stream #%d : video, %s, %s\n", s.Index, s.Codec, s.Resolution()))
	}
	for _, s := range m.Streams.Audio {
		in.WriteString(fmt.Sprintf("Stream #%d : audio, %s, %s\n", s.Index, s.Codec, orDefault(s.Language, "und")))
	}
	for _, s := range m.Streams.Subtitle {
		in.WriteString(fmt.Sprintf("Stream #%d : subtitle, %s, %s\n", s.Index, s.Codec, orDefault(s.Language, "und")))
	}
	if len(m.Sidecars) == 0 {
		in.WriteString("\nSrt : no srt files present\n")
	}
	for _, sc := range m.Sidecars {
		in.WriteString(fmt.Sprintf("\nSrt #%d : %s (%s)", sc.InputOrdinal, sc.Path, sc.Title))
	}

	var out strings.Builder
	out.WriteString(paneTitleStyle.Render("Output") + "\n\n")
	out.WriteString(filePathStyle.Render(m.Plan.OutputPath) + "\n\n")
	ordinal := 0
	for _, s := range m.Plan.Video {
		out.WriteString(fmt.Sprintf("Stream #%d : video, %s, %s\n", ordinal, s.Codec, s.Resolution))
		ordinal++
	}
	for _, s := range m.Plan.Audio {
		out.WriteString(fmt.Sprintf("Stream #%d : audio, %s, %s\n", ordinal, s.Codec, s.Title))
		ordinal++
	}
	for _, s := range m.Plan.Subtitle {
		out.WriteString(fmt.Sprintf("Stream #%d : subtitle, %s, %s\n", ordinal, s.Codec, s.Title))
		ordinal++
	}
	for _, sc := range m.Plan.Sidecars {
		out.WriteString(fmt.Sprintf("Stream #%d : subtitle, mov_text, %s\n", ordinal, sc.Title))
		ordinal++
	}

	opts := m.Options
	optLine := fmt.Sprintf(
		"container: %s   video: %s (crf %d)   audio: %s   720p: %s   stereo: %s   subtitles: %s",
		opts.Container, opts.VideoCodec, opts.CRF, opts.AudioCodec,
		onOff(opts.RescaleTo720), onOff(opts.AudioStereo), onOff(opts.Subtitles),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		paneStyle.Render(in.String()),
		paneStyle.Render(out.String()),
	)
	return panes + "\n" + paneStyle.Render(paneTitleStyle.Render("Options")+"\n\n"+optLine)
}

func (m Model) renderEncodingView() string {
	var b strings.Builder

	if m.Encoder == nil {
		return "\n" + statValueStyle.Render("  Starting ffmpeg...") + "\n"
	}

	prog := m.CurrentProgress
	hasProgressData := prog.Frame > 0 || prog.OutTimeUs > 0

	b.WriteString("\n")

	percentage := prog.Percentage / 100
	if percentage > 1 {
		percentage = 1
	}
	if percentage < 0 {
		percentage = 0
	}
	if !hasProgressData && percentage == 0 {
		percentage = 0.01 // Show a sliver so the bar reads as alive.
	}

	progressBar := m.Progress.ViewAs(percentage)

	var pctStr string
	if !hasProgressData {
		pctStr = "..."
	} else {
		pctStr = formatPercentage(prog.Percentage, prog.TotalFrames, prog.TotalDuration)
	}
	pctStyled := getPercentageStyle(prog.Percentage).Render(pctStr)

	b.WriteString("  " + progressBar + "  " + pctStyled + "\n")

	elapsed := time.Since(m.StartTime).Round(time.Second)
	b.WriteString(statsBoxStyle.Render(m.buildStatsGrid(prog, elapsed)))
	b.WriteString("\n")

	files := statLabelStyle.Render("Input") + filePathStyle.Render(truncatePath(m.InputPath, m.maxPathLen())) + "\n" +
		statLabelStyle.Render("Output") + filePathStyle.Render(truncatePath(m.Plan.OutputPath, m.maxPathLen()))
	b.WriteString(paneStyle.Render(files))

	if m.ShowLogs {
		b.WriteString("\n")
		b.WriteString(sectionHeaderStyle.Render("  ffmpeg Output") + "\n")
		b.WriteString(logBoxStyle.Render(m.LogViewport.View()))
	}

	return b.String()
}

func (m Model) buildStatsGrid(prog encoder.Progress, elapsed time.Duration) string {
	var lines []string

	var frameVal, frameTotal, fpsVal string
	if prog.Frame > 0 {
		frameVal = fmt.Sprintf("%d", prog.Frame)
	} else {
		frameVal = "-"
	}
	if prog.TotalFrames > 0 {
		frameTotal = fmt.Sprintf("/ %d", prog.TotalFrames)
		if prog.FrameEstimated {
			frameTotal += " ~" // Estimate marker.
		}
	} else {
		frameTotal = "/ -"
	}
	if prog.FPS > 0 {
		fpsVal = fmt.Sprintf("%.1f", prog.FPS)
	} else if prog.LastValidFPS > 0 {
		fpsVal = fmt.Sprintf("%.1f", prog.LastValidFPS)
	} else {
		fpsVal = "-"
	}

	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
		statLabelStyle.Render("Frame"),
		statValueStyle.Render(frameVal),
		statUnitStyle.Render(" "+frameTotal),
		lipgloss.NewStyle().Width(6).Render(""),
		statLabelStyle.Render("FPS"),
		statValueStyle.Render(fpsVal),
	))

	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
		statLabelStyle.Render("Speed"),
		statValueStyle.Render(formatSpeed(prog.SpeedRaw, prog.Speed)),
		lipgloss.NewStyle().Width(12).Render(""),
		statLabelStyle.Render("Bitrate"),
		statValueStyle.Render(formatBitrateDisplay(prog.BitrateRaw, prog.Bitrate)),
	))

	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
		statLabelStyle.Render("Size"),
		statValueStyle.Render(formatSizeDisplay(prog.TotalSize)),
		lipgloss.NewStyle().Width(12).Render(""),
		statLabelStyle.Render("ETA"),
		statValueStyle.Render(formatETADisplay(prog.ETA, prog.ETAAvailable)),
	))

	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
		statLabelStyle.Render("Elapsed"),
		statValueStyle.Render(formatDuration(elapsed)),
	))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderDoneView() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(successStyle.Render("  ✓ Conversion Complete") + "\n")

	elapsed := time.Since(m.StartTime).Round(time.Second)
	var lines []string
	lines = append(lines,
		statLabelStyle.Render("Output")+filePathStyle.Render(m.Plan.OutputPath))
	lines = append(lines,
		statLabelStyle.Render("Time")+statValueStyle.Render(formatDuration(elapsed)))
	if m.CurrentProgress.TotalSize > 0 {
		lines = append(lines,
			statLabelStyle.Render("Size")+statValueStyle.Render(humanize.IBytes(uint64(m.CurrentProgress.TotalSize))))
	}

	b.WriteString(statsBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	return b.String()
}

func (m Model) renderErrorView() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(errorStyle.Render("  ✗ Conversion Failed") + "\n\n")

	errBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorError).
		Padding(0, 2).
		Foreground(colorError).
		Render(m.ErrorMessage)
	b.WriteString(errBox + "\n")

	if m.ShowLogs && m.LogViewport.TotalLineCount() > 0 {
		b.WriteString("\n")
		b.WriteString(sectionHeaderStyle.Render("  ffmpeg Output") + "\n")
		b.WriteString(logBoxStyle.Render(m.LogViewport.View()))
	}

	return b.String()
}

// --- Display formatters ---

func formatSpeed(raw string, speed string) string {
	if raw == "N/A" {
		return "N/A"
	}
	if speed == "" || speed == "0x" {
		return "-"
	}
	return speed
}

func formatBitrateDisplay(raw string, bitrate string) string {
	if raw == "N/A" || bitrate == "N/A" {
		return "N/A"
	}
	if bitrate == "" {
		return "-"
	}
	return bitrate
}

func formatETADisplay(eta time.Duration, available bool) string {
	if !available || eta < 0 {
		return "-"
	}
	return formatDuration(eta)
}

// formatPercentage caps the display at 99.9% so 100% only appears on
// the done screen.
func formatPercentage(pct float64, totalFrames int64, totalDuration time.Duration) string {
	if totalFrames == 0 && totalDuration == 0 {
		return "..."
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 99.9 {
		pct = 99.9
	}
	return fmt.Sprintf("%.1f%%", pct)
}

func getPercentageStyle(pct float64) lipgloss.Style {
	if pct < 33 {
		return percentLowStyle
	} else if pct < 66 {
		return percentMidStyle
	}
	return percentHighStyle
}

func formatSizeDisplay(size int64) string {
	if size <= 0 {
		return "-"
	}
	return humanize.IBytes(uint64(size))
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		return "-"
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	min := d / time.Minute
	d -= min * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, min, s)
	}
	return fmt.Sprintf("%d:%02d", min, s)
}

func (m Model) maxPathLen() int {
	maxLen := m.Width - 16
	if maxLen < 20 {
		return 60
	}
	return maxLen
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen < 20 {
		return path[:maxLen-3] + "..."
	}
	half := (maxLen - 5) / 2
	return path[:half] + " ... " + path[len(path)-half:]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
