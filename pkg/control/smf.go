package control

import (
	"fmt"
	"io"
	"slices"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/oisee/grainbox/pkg/synth"
)

// LoadSMF reads a Standard MIDI File and returns its voice events stamped
// with scheduler ticks, in playback order. Tempo changes are honoured by the
// reader; meta and unmapped messages are dropped.
func LoadSMF(r io.Reader, dec Decoder) ([]Timed, error) {
	var events []Timed
	rd := smf.ReadTracksFrom(r)
	rd.Do(func(ev smf.TrackEvent) {
		if ev.Message.IsMeta() {
			return
		}
		e, ok := dec.Decode(midi.Message(ev.Message))
		if !ok {
			return
		}
		events = append(events, Timed{Tick: MicrosToTicks(ev.AbsMicroSeconds), Event: e})
	})
	if err := rd.Error(); err != nil {
		return nil, fmt.Errorf("read midi file: %w", err)
	}

	slices.SortStableFunc(events, func(a, b Timed) int {
		switch {
		case a.Tick < b.Tick:
			return -1
		case a.Tick > b.Tick:
			return 1
		}
		return 0
	})
	return events, nil
}

// MicrosToTicks converts a time offset to scheduler ticks, rounding down.
func MicrosToTicks(us int64) int64 {
	return us * synth.SampleRate / 1_000_000
}
