// Package tui implements the terminal user interface
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oisee/grainbox/pkg/audio"
	"github.com/oisee/grainbox/pkg/control"
	"github.com/oisee/grainbox/pkg/score"
	"github.com/oisee/grainbox/pkg/synth"
)

// Pot step sizes for the arrow keys.
const (
	FineStep   = 8
	CoarseStep = 64
)

// Model is the main TUI model
type Model struct {
	Engine *audio.Engine
	Panel  *control.Panel

	// Score played by the sequencer key, from a step song or a MIDI file
	Events []control.Timed
	End    int64

	// View state
	Width    int
	Height   int
	ShowHelp bool

	// Keyboard state
	Octave   int
	Velocity uint8
	Held     int8
	Pot      int

	// Sequencer
	Playing bool
	stop    context.CancelFunc

	// Last published voice state
	Snap audio.Snapshot

	// Status message
	StatusMsg string
}

// NewModel creates a new TUI model. events and end are the score the
// sequencer key plays; end is the tick playback runs to.
func NewModel(engine *audio.Engine, panel *control.Panel, events []control.Timed, end int64) Model {
	return Model{
		Engine:   engine,
		Panel:    panel,
		Events:   events,
		End:      end,
		Octave:   4,
		Velocity: 100,
		Held:     score.Empty,
		Pot:      control.PotSync,
		Width:    80,
		Height:   24,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	m.post(m.Panel.Events()...)
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
	)
}

// tickMsg is sent periodically for meter updates
type tickMsg struct{}

// playDoneMsg reports the end of sequencer playback
type playDoneMsg struct{ err error }

func tickCmd() tea.Cmd {
	return tea.Tick(16_666_666, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case tickMsg:
		m.Snap = m.Engine.Snapshot()
		return m, tickCmd()

	case playDoneMsg:
		m.Playing = false
		m.stop = nil
		m.post(control.ControlChange(synth.CCAllNoteOff, 0))
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.StatusMsg = msg.err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		if m.stop != nil {
			m.stop()
		}
		return m, tea.Quit

	case "f1":
		m.ShowHelp = !m.ShowHelp

	// Sequencer
	case " ":
		if m.Playing {
			m.stop()
			return m, nil
		}
		cmd := m.play()
		return m, cmd

	// Pots
	case "tab":
		m.Pot = (m.Pot + 1) % control.NumPots

	case "shift+tab":
		m.Pot = (m.Pot + control.NumPots - 1) % control.NumPots

	case "left":
		m.turn(-FineStep)

	case "right":
		m.turn(FineStep)

	case "shift+left", "pgdown":
		m.turn(-CoarseStep)

	case "shift+right", "pgup":
		m.turn(CoarseStep)

	case "f2":
		m.Panel.Mapping = (m.Panel.Mapping + 1) % 3
		m.post(m.Panel.Events()...)
		if m.StatusMsg == "" {
			m.StatusMsg = "mapping: " + m.Panel.Mapping.String()
		}

	// Velocity
	case "up":
		m.Velocity = uint8(min(int(m.Velocity)+8, synth.PitchMax))

	case "down":
		m.Velocity = uint8(max(int(m.Velocity)-8, 1))

	// Octave
	case "*":
		if m.Octave < 9 {
			m.Octave++
		}

	case "/":
		if m.Octave > 0 {
			m.Octave--
		}

	case ".":
		if m.Held >= 0 {
			m.post(control.NoteOff(uint8(m.Held)))
			m.Held = score.Empty
		}

	default:
		if note := keyToNote(msg.String(), m.Octave); note >= 0 {
			m.Held = note
			m.post(control.NoteOn(uint8(note), m.Velocity))
		}
	}

	return m, nil
}

func (m *Model) turn(delta int) {
	m.Panel.Turn(m.Pot, delta)
	m.post(m.Panel.Events()...)
}

func (m *Model) play() tea.Cmd {
	if len(m.Events) == 0 {
		m.StatusMsg = "nothing to play"
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.Playing = true
	m.stop = cancel
	events, end, post := m.Events, m.End, m.Engine.Post
	return func() tea.Msg {
		return playDoneMsg{err: score.PlayEvents(ctx, events, end, post, nil)}
	}
}

// post queues events on the engine. A full queue shows up in the status line.
func (m *Model) post(events ...control.Event) {
	for _, ev := range events {
		if err := m.Engine.Post(ev); err != nil {
			m.StatusMsg = err.Error()
			return
		}
	}
	m.StatusMsg = ""
}

// keyToNote converts keyboard key to MIDI note
func keyToNote(key string, octave int) int8 {
	// Piano-style keyboard layout:
	// Lower row: Z S X D C V G B H N J M (white + black keys)
	// Upper row: Q 2 W 3 E R 5 T 6 Y 7 U
	notes := map[string]int{
		// Lower octave
		"z": 0, "s": 1, "x": 2, "d": 3, "c": 4, "v": 5,
		"g": 6, "b": 7, "h": 8, "n": 9, "j": 10, "m": 11,
		// Upper octave
		"q": 12, "2": 13, "w": 14, "3": 15, "e": 16, "r": 17,
		"5": 18, "t": 19, "6": 20, "y": 21, "7": 22, "u": 23,
		"i": 24, "9": 25, "o": 26, "0": 27, "p": 28,
	}

	if n, ok := notes[key]; ok {
		if p := (octave+1)*12 + n; p <= synth.PitchMax {
			return int8(p)
		}
	}
	return -1
}

// View implements tea.Model
func (m Model) View() string {
	if m.ShowHelp {
		return m.helpView()
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.potsView())
	b.WriteString("\n")
	b.WriteString(m.metersView())
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m Model) headerView() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("14")).
		Render("GRAINBOX")

	gate := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("CLOSED")
	if m.Snap.Gate == synth.Open {
		gate = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("OPEN")
	}

	led := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("○")
	if m.Snap.LED {
		led = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("●")
	}

	seq := ""
	if m.Playing {
		seq = " │ " + lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render("SEQ")
	}

	info := fmt.Sprintf(" │ %s %s Vel:%3d │ Oct:%d KeyVel:%3d │ %s │ %s%s",
		gate, score.NoteToString(int8(m.Snap.Note)), m.Snap.Velocity,
		m.Octave, m.Velocity, m.Panel.Mapping, led, seq)

	return title + info
}

func (m Model) potsView() string {
	var lines []string
	for i := 0; i < control.NumPots; i++ {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		cursor := " "
		if i == m.Pot {
			style = style.Foreground(lipgloss.Color("11")).Bold(true)
			cursor = ">"
		}
		v := int(m.Panel.Pots[i])
		line := fmt.Sprintf("%s %-13s %s %4d", cursor, control.PotName(i), bar(v, synth.ControlMax, 32), v)
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) metersView() string {
	s := m.Snap
	meter := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	rows := []string{
		fmt.Sprintf("  master        %s %3d", meter.Render(bar(int(s.Master), 127, 32)), s.Master),
		fmt.Sprintf("  grain1        %s %3d", meter.Render(bar(int(s.Grains[0]), 255, 32)), s.Grains[0]),
		fmt.Sprintf("  grain2        %s %3d", meter.Render(bar(int(s.Grains[1]), 255, 32)), s.Grains[1]),
		fmt.Sprintf("  output        %s %3d", meter.Render(bar(int(s.Output), 255, 32)), s.Output),
		fmt.Sprintf("  sync %5d/%5d  grain %5d/%5d  decay %d/%d  ticks %d  overruns %d",
			s.SyncInc[0], s.SyncInc[1], s.GrainInc[0], s.GrainInc[1],
			s.GrainDecay[0], s.GrainDecay[1], s.Ticks, s.Overruns),
	}
	return strings.Join(rows, "\n")
}

// bar draws v out of full as a fixed-width gauge.
func bar(v, full, width int) string {
	n := 0
	if full > 0 {
		n = min(max(v, 0), full) * width / full
	}
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

func (m Model) footerView() string {
	keys := " [Tab]Pot [←→]Turn [F2]Mapping [Space]Seq [*/]Oct [↑↓]Vel [.]Off [F1]Help [Esc]Quit"
	out := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(keys)
	if m.StatusMsg != "" {
		out += "\n " + lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(m.StatusMsg)
	}
	return out
}

func (m Model) helpView() string {
	help := `
╔══════════════════════════════════════════════════════════════════╗
║                       GRAINBOX HELP                              ║
╠══════════════════════════════════════════════════════════════════╣
║ NOTES (piano keyboard)                                           ║
║   Z S X D C V G B H N J M  - Lower octave (C to B)              ║
║   Q 2 W 3 E R 5 T 6 Y 7 U  - Upper octave                       ║
║   * /       Octave up/down                                       ║
║   ↑ ↓       Key velocity                                         ║
║   .         Release held note                                    ║
║                                                                  ║
║ POTS                                                             ║
║   Tab       Next pot                                             ║
║   ← →       Turn fine                                            ║
║   PgUp/Dn   Turn coarse                                          ║
║   F2        Sync mapping (smooth/chromatic/pentatonic)           ║
║                                                                  ║
║ SEQUENCER                                                        ║
║   Space     Play/Stop the loaded sequence                        ║
║                                                                  ║
║                              [F1] Close help                     ║
╚══════════════════════════════════════════════════════════════════╝
`
	return lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Render(help)
}
