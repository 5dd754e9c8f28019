// Package score implements tracker-style step patterns that compile to timed
// control events for the synth.
package score

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/oisee/grainbox/pkg/control"
	"github.com/oisee/grainbox/pkg/synth"
)

// Special pitch values.
const (
	Empty int8 = -1 // no change
	Off   int8 = -2 // release the held key
)

var ErrBadNote = errors.New("bad note")

// Effect sets one controller on the row it appears in.
type Effect struct {
	Controller uint8
	Value      uint8
}

// Step is a single row of a pattern.
type Step struct {
	Pitch    int8    // 0-127, Empty or Off
	Velocity uint8   // 0 = song default
	Effect   *Effect // optional control change
}

// Pattern holds one pattern of steps.
type Pattern struct {
	Steps []Step
}

// NewPattern creates an empty pattern of the given length.
func NewPattern(rows int) *Pattern {
	p := &Pattern{Steps: make([]Step, rows)}
	for i := range p.Steps {
		p.Steps[i].Pitch = Empty
	}
	return p
}

// Song is a list of patterns played in Order.
type Song struct {
	Title       string
	Tempo       int   // BPM
	RowsPerBeat int   // rows per quarter note
	Velocity    uint8 // default note velocity
	Patterns    []*Pattern
	Order       []uint8
}

// NewSong creates an empty song with one 16-row pattern.
func NewSong() *Song {
	return &Song{
		Title:       "Untitled",
		Tempo:       120,
		RowsPerBeat: 4,
		Velocity:    100,
		Patterns:    []*Pattern{NewPattern(16)},
		Order:       []uint8{0},
	}
}

// RowTicks returns the scheduler ticks per row.
func (s *Song) RowTicks() int64 {
	return int64(synth.SampleRate) * 60 / int64(s.Tempo*s.RowsPerBeat)
}

// Rows returns the total number of rows in play order.
func (s *Song) Rows() int {
	n := 0
	for _, idx := range s.Order {
		if int(idx) < len(s.Patterns) {
			n += len(s.Patterns[idx].Steps)
		}
	}
	return n
}

// Length returns the ticks taken by one pass through Order.
func (s *Song) Length() int64 {
	return int64(s.Rows()) * s.RowTicks()
}

// Events compiles the song into timed events, repeating it loops times.
func (s *Song) Events(loops int) []control.Timed {
	var events []control.Timed
	rowTicks := s.RowTicks()
	row := int64(0)
	held := Empty
	for l := 0; l < loops; l++ {
		for _, idx := range s.Order {
			if int(idx) >= len(s.Patterns) {
				continue
			}
			for _, st := range s.Patterns[idx].Steps {
				tick := row * rowTicks
				if st.Effect != nil {
					events = append(events, control.Timed{Tick: tick,
						Event: control.ControlChange(st.Effect.Controller, st.Effect.Value)})
				}
				switch {
				case st.Pitch == Off && held >= 0:
					events = append(events, control.Timed{Tick: tick, Event: control.NoteOff(uint8(held))})
					held = Empty
				case st.Pitch >= 0:
					vel := st.Velocity
					if vel == 0 {
						vel = s.Velocity
					}
					events = append(events, control.Timed{Tick: tick, Event: control.NoteOn(uint8(st.Pitch), vel)})
					held = st.Pitch
				}
				row++
			}
		}
	}
	return events
}

var noteNames = []string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// NoteToString converts a pitch to a note name. Middle C (60) is C-4;
// pitches below C-0 have no name.
func NoteToString(pitch int8) string {
	switch {
	case pitch == Off:
		return "OFF"
	case pitch < 12:
		return "---"
	}
	octave := int(pitch)/12 - 1
	return noteNames[int(pitch)%12] + strconv.Itoa(octave)
}

// StringToNote converts a note name to a pitch.
func StringToNote(s string) (int8, error) {
	switch s {
	case "---", "...":
		return Empty, nil
	case "OFF":
		return Off, nil
	}
	if len(s) != 3 || s[2] < '0' || s[2] > '9' {
		return Empty, fmt.Errorf("%w: %q", ErrBadNote, s)
	}
	for i, n := range noteNames {
		if strings.EqualFold(n, s[:2]) {
			pitch := (int(s[2]-'0')+1)*12 + i
			if pitch > synth.PitchMax {
				break
			}
			return int8(pitch), nil
		}
	}
	return Empty, fmt.Errorf("%w: %q", ErrBadNote, s)
}

// ParsePattern reads whitespace separated rows. A row is a note name,
// "---" or "OFF", optionally followed by "/velocity" and ",ccN=V", for
// example "A-4/90,cc16=72".
func ParsePattern(text string) (*Pattern, error) {
	fields := strings.Fields(text)
	p := &Pattern{Steps: make([]Step, 0, len(fields))}
	for i, f := range fields {
		st, err := parseStep(f)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		p.Steps = append(p.Steps, st)
	}
	return p, nil
}

func parseStep(f string) (Step, error) {
	var st Step
	note, fx, hasFx := strings.Cut(f, ",")
	if hasFx {
		ctl, val, ok := strings.Cut(strings.TrimPrefix(strings.ToLower(fx), "cc"), "=")
		c, err1 := strconv.ParseUint(ctl, 10, 7)
		v, err2 := strconv.ParseUint(val, 10, 7)
		if !ok || err1 != nil || err2 != nil {
			return st, fmt.Errorf("%w: effect %q", ErrBadNote, fx)
		}
		st.Effect = &Effect{Controller: uint8(c), Value: uint8(v)}
	}
	name, vel, hasVel := strings.Cut(note, "/")
	if hasVel {
		v, err := strconv.ParseUint(vel, 10, 7)
		if err != nil {
			return st, fmt.Errorf("%w: velocity %q", ErrBadNote, vel)
		}
		st.Velocity = uint8(v)
	}
	pitch, err := StringToNote(name)
	if err != nil {
		return st, err
	}
	st.Pitch = pitch
	return st, nil
}

// Demo returns the built-in sequence.
func Demo() *Song {
	s := NewSong()
	s.Title = "Demo"
	pat := s.Patterns[0]
	pat.Steps[0] = Step{Pitch: 57, Effect: &Effect{Controller: synth.CCModWheel, Value: 64}} // A-3
	pat.Steps[4] = Step{Pitch: 60}                                                           // C-4
	pat.Steps[8] = Step{Pitch: 64, Effect: &Effect{Controller: synth.CCGrain0, Value: 84}}   // E-4
	pat.Steps[12] = Step{Pitch: 69}                                                          // A-4
	pat.Steps[15] = Step{Pitch: Off}
	return s
}
