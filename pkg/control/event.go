// Package control turns note-control input (MIDI messages, MIDI files, live
// ports and the analogue pot panel) into Events that mutate a synth.Voice.
//
// Events are plain values. Producers hand them to whoever owns the voice,
// which applies them between ticks; nothing in this package touches a voice
// concurrently with its scheduler.
package control

import (
	"fmt"

	"github.com/oisee/grainbox/pkg/synth"
)

// Kind identifies what an Event does to a voice.
type Kind uint8

const (
	KindNoteOn Kind = iota
	KindNoteOff
	KindControlChange
	KindPitchBend
	KindSyncInc
	KindGrainInc
	KindGrainDecay
)

var kindNames = []string{
	KindNoteOn:        "note-on",
	KindNoteOff:       "note-off",
	KindControlChange: "control-change",
	KindPitchBend:     "pitch-bend",
	KindSyncInc:       "sync-inc",
	KindGrainInc:      "grain-inc",
	KindGrainDecay:    "grain-decay",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Event is one control change for a voice.
//
// Field use by kind:
//
//	note-on         Data1 key, Data2 velocity
//	note-off        Data1 key
//	control-change  Data1 controller, Data2 value
//	pitch-bend      Value 0..16383
//	sync-inc        Index sync clock, Value increment
//	grain-inc       Index grain, Value increment
//	grain-decay     Index grain, Data1 decay shift
type Event struct {
	Kind  Kind
	Index uint8
	Data1 uint8
	Data2 uint8
	Value uint16
}

// Timed is an Event stamped with the scheduler tick it applies before.
type Timed struct {
	Tick  int64
	Event Event
}

// NoteOn presses key at velocity; velocity 0 releases it.
func NoteOn(key, velocity uint8) Event {
	return Event{Kind: KindNoteOn, Data1: key, Data2: velocity}
}

// NoteOff releases key if it is the one held.
func NoteOff(key uint8) Event {
	return Event{Kind: KindNoteOff, Data1: key}
}

// ControlChange sets a controller understood by synth.Voice.ControlChange.
func ControlChange(controller, value uint8) Event {
	return Event{Kind: KindControlChange, Data1: controller, Data2: value}
}

// PitchBend offsets both sync phases by a 14-bit value.
func PitchBend(value uint16) Event {
	return Event{Kind: KindPitchBend, Value: value & 0x3FFF}
}

// SyncInc sets the increment of sync clock i.
func SyncInc(i int, inc uint16) Event {
	return Event{Kind: KindSyncInc, Index: uint8(i), Value: inc}
}

// GrainInc sets the pitch increment of grain i.
func GrainInc(i int, inc uint16) Event {
	return Event{Kind: KindGrainInc, Index: uint8(i), Value: inc}
}

// GrainDecay sets the envelope decay shift of grain i.
func GrainDecay(i int, decay uint8) Event {
	return Event{Kind: KindGrainDecay, Index: uint8(i), Data1: decay}
}

// Apply performs the event on v through the voice's setter API.
func (e Event) Apply(v *synth.Voice) {
	switch e.Kind {
	case KindNoteOn:
		v.NoteOn(e.Data1, e.Data2)
	case KindNoteOff:
		v.NoteOff(e.Data1)
	case KindControlChange:
		v.ControlChange(e.Data1, e.Data2)
	case KindPitchBend:
		v.PitchBend(e.Value)
	case KindSyncInc:
		v.SetSyncInc(int(e.Index), e.Value)
	case KindGrainInc:
		v.SetGrainInc(int(e.Index), e.Value)
	case KindGrainDecay:
		v.SetGrainDecay(int(e.Index), e.Data1)
	}
}

func (e Event) String() string {
	switch e.Kind {
	case KindNoteOn:
		return fmt.Sprintf("%v key=%d vel=%d", e.Kind, e.Data1, e.Data2)
	case KindNoteOff:
		return fmt.Sprintf("%v key=%d", e.Kind, e.Data1)
	case KindControlChange:
		return fmt.Sprintf("%v cc=%d val=%d", e.Kind, e.Data1, e.Data2)
	case KindPitchBend:
		return fmt.Sprintf("%v val=%d", e.Kind, e.Value)
	case KindGrainDecay:
		return fmt.Sprintf("%v[%d] decay=%d", e.Kind, e.Index, e.Data1)
	default:
		return fmt.Sprintf("%v[%d] inc=%d", e.Kind, e.Index, e.Value)
	}
}
