// Package tui implements the interactive conversion wizard.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"vidconv/config"
	"vidconv/encoder"
	"vidconv/plan"
	"vidconv/probe"
	"vidconv/subtitles"
)

// State is the wizard's current screen.
type State int

const (
	StateReview State = iota
	StateEncoding
	StateDone
	StateError
)

// ConverterStartedMsg is sent when ffmpeg has been launched.
type ConverterStartedMsg struct {
	Encoder *encoder.Encoder
}

// ConverterErrorMsg is sent when probing or launching failed.
type ConverterErrorMsg struct {
	Err error
}

// TickMsg drives the periodic progress refresh.
type TickMsg time.Time

// Model is the Bubble Tea model for the wizard.
type Model struct {
	InputPath string
	Streams   *probe.Result
	Sidecars  []subtitles.Sidecar
	Options   config.Options
	Plan      *plan.Plan

	Encoder         *encoder.Encoder
	State           State
	Progress        progress.Model
	LogViewport     viewport.Model
	ShowLogs        bool
	Width           int
	Height          int
	StartTime       time.Time
	ErrorMessage    string
	CurrentProgress encoder.Progress // Local safe copy.
}

// NewModel builds the wizard over an already-probed input.
func NewModel(inputPath string, streams *probe.Result, sidecars []subtitles.Sidecar, opts config.Options) Model {
	prog := progress.New(
		progress.WithGradient("#7C3AED", "#10B981"),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	vp := viewport.New(80, 12)
	vp.SetContent("")

	m := Model{
		InputPath:   inputPath,
		Streams:     streams,
		Sidecars:    sidecars,
		Options:     opts,
		State:       StateReview,
		Progress:    prog,
		LogViewport: vp,
	}
	m.rebuildPlan()
	return m
}

// rebuildPlan recomputes the conversion plan after an option change.
func (m *Model) rebuildPlan() {
	m.Plan = plan.New(m.InputPath, m.Streams, m.Sidecars, m.Options, plan.FileExists)
}

// Init enters the alt screen; the review pane waits for input.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m *Model) startConversion() tea.Cmd {
	p := m.Plan
	return func() tea.Msg {
		enc := encoder.New(p)
		if err := enc.ProbeTotalFrames(); err != nil {
			return ConverterErrorMsg{Err: err}
		}
		if err := enc.Start(); err != nil {
			return ConverterErrorMsg{Err: err}
		}
		return ConverterStartedMsg{Encoder: enc}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update handles messages and key bindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Progress.Width = msg.Width - 20
		m.LogViewport.Width = msg.Width - 4
		logHeight := msg.Height - 20
		if logHeight < 0 {
			logHeight = 0
		}
		m.LogViewport.Height = logHeight

	case ConverterStartedMsg:
		m.Encoder = msg.Encoder
		m.State = StateEncoding
		m.StartTime = time.Now()
		cmds = append(cmds, tickCmd())

	case ConverterErrorMsg:
		m.State = StateError
		m.ErrorMessage = msg.Err.Error()
		return m, nil

	case TickMsg:
		if m.Encoder != nil {
			prog, logs, done, err := m.Encoder.GetState()
			m.CurrentProgress = prog

			if len(logs) > 0 {
				m.LogViewport.SetContent(strings.Join(logs, "\n"))
				m.LogViewport.GotoBottom()
			}

			if done {
				if err != nil {
					m.State = StateError
					m.ErrorMessage = err.Error()
				} else {
					m.State = StateDone
				}
				return m, nil
			}
			cmds = append(cmds, tickCmd())
		}

	case error:
		m.State = StateError
		m.ErrorMessage = msg.Error()
		return m, nil
	}

	if m.ShowLogs {
		var cmd tea.Cmd
		m.LogViewport, cmd = m.LogViewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey dispatches key presses. Option-cycling keys only work on
// the review screen; the plan is rebuilt after each change.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.Encoder != nil {
			m.Encoder.Stop()
		}
		return tea.Quit, true
	case "l":
		m.ShowLogs = !m.ShowLogs
		return nil, true
	}

	if m.State != StateReview {
		return nil, false
	}

	switch msg.String() {
	case "enter":
		return m.startConversion(), true
	case "v":
		m.Options.VideoCodec = nextVideoCodec(m.Options.VideoCodec)
		m.Options.CRF = config.CRFUnset
		_ = m.Options.Validate() // Re-resolves the per-codec CRF default.
	case "a":
		m.Options.AudioCodec = nextAudioCodec(m.Options.AudioCodec)
	case "c":
		if m.Options.Container == config.ContainerMP4 {
			m.Options.Container = config.ContainerMKV
		} else {
			m.Options.Container = config.ContainerMP4
		}
	case "r":
		m.Options.RescaleTo720 = !m.Options.RescaleTo720
	case "2":
		m.Options.AudioStereo = !m.Options.AudioStereo
	case "s":
		m.Options.Subtitles = !m.Options.Subtitles
	default:
		return nil, false
	}

	m.rebuildPlan()
	return nil, true
}

func nextVideoCodec(v config.VideoCodec) config.VideoCodec {
	switch v {
	case config.VideoHEVC:
		return config.VideoAVC
	case config.VideoAVC:
		return config.VideoCopy
	default:
		return config.VideoHEVC
	}
}

func nextAudioCodec(a config.AudioCodec) config.AudioCodec {
	switch a {
	case config.AudioEAC3:
		return config.AudioAC3
	case config.AudioAC3:
		return config.AudioAAC
	case config.AudioAAC:
		return config.AudioCopy
	default:
		return config.AudioEAC3
	}
}
