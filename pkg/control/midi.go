package control

import (
	"gitlab.com/gomidi/midi/v2"
)

// Omni accepts messages on every MIDI channel.
const Omni = 0

// Decoder maps channel voice messages onto Events.
type Decoder struct {
	// Channel is the 1-based MIDI channel to accept. The zero value is Omni.
	Channel int
}

// Decode converts msg. It reports false for messages the voice has no use
// for (other channels, system messages, aftertouch, program change).
func (d Decoder) Decode(msg midi.Message) (Event, bool) {
	var ch, key, vel, cc, val uint8
	var rel int16
	var abs uint16

	switch {
	case msg.GetNoteOn(&ch, &key, &vel):
		// Velocity 0 stays a note-on; the voice treats it as a release.
		return d.accept(ch, NoteOn(key, vel))
	case msg.GetNoteOff(&ch, &key, &vel):
		return d.accept(ch, NoteOff(key))
	case msg.GetControlChange(&ch, &cc, &val):
		return d.accept(ch, ControlChange(cc, val))
	case msg.GetPitchBend(&ch, &rel, &abs):
		return d.accept(ch, PitchBend(abs))
	}
	return Event{}, false
}

func (d Decoder) accept(ch uint8, e Event) (Event, bool) {
	if d.Channel != Omni && int(ch)+1 != d.Channel {
		return Event{}, false
	}
	return e, true
}
