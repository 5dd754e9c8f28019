package control

import (
	"bytes"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/oisee/grainbox/pkg/synth"
)

func TestDecoder_ChannelVoiceMessages(t *testing.T) {
	tests := []struct {
		name string
		msg  midi.Message
		want Event
	}{
		{"note-on", midi.NoteOn(0, 69, 127), NoteOn(69, 127)},
		{"note-off", midi.NoteOff(0, 69), NoteOff(69)},
		{"control change", midi.ControlChange(0, 16, 60), ControlChange(16, 60)},
		{"pitch bend centre", midi.Pitchbend(0, 0), PitchBend(8192)},
		{"pitch bend max", midi.Pitchbend(0, 8191), PitchBend(16383)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Decoder{}.Decode(tc.msg)
			if !ok {
				t.Fatalf("expected %v to decode", tc.msg)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestDecoder_VelocityZeroReleases(t *testing.T) {
	e, ok := Decoder{}.Decode(midi.NoteOn(0, 69, 0))
	if !ok {
		t.Fatalf("expected a velocity 0 note-on to decode")
	}
	v := synth.NewVoice()
	v.NoteOn(69, 100)
	e.Apply(v)
	if v.Note.Gate != synth.Closed {
		t.Errorf("expected %v to close the gate", e)
	}
}

func TestDecoder_IgnoresUnmapped(t *testing.T) {
	for _, msg := range []midi.Message{
		midi.ProgramChange(0, 5),
		midi.AfterTouch(0, 40),
		midi.PolyAfterTouch(0, 60, 10),
	} {
		if e, ok := (Decoder{}).Decode(msg); ok {
			t.Errorf("expected %v to be ignored, got %v", msg, e)
		}
	}
}

func TestDecoder_ChannelFilter(t *testing.T) {
	dec := Decoder{Channel: 2}
	if _, ok := dec.Decode(midi.NoteOn(0, 60, 100)); ok {
		t.Errorf("channel 2 decoder accepted a channel 1 message")
	}
	if _, ok := dec.Decode(midi.NoteOn(1, 60, 100)); !ok {
		t.Errorf("channel 2 decoder rejected a channel 2 message")
	}
	if _, ok := (Decoder{Channel: Omni}).Decode(midi.NoteOn(15, 60, 100)); !ok {
		t.Errorf("omni decoder rejected channel 16")
	}
}

func TestLoadSMF(t *testing.T) {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, midi.NoteOn(0, 69, 100))
	tr.Add(480, midi.ControlChange(0, 1, 64))
	tr.Add(480, midi.NoteOff(0, 69))
	tr.Add(0, midi.ProgramChange(0, 3))
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)
	if err := s.Add(tr); err != nil {
		t.Fatalf("add track: %v", err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("write smf: %v", err)
	}

	events, err := LoadSMF(&buf, Decoder{})
	if err != nil {
		t.Fatalf("LoadSMF: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 voice events, got %d: %v", len(events), events)
	}

	// 960 ticks at 120 bpm is half a second.
	want := []Timed{
		{Tick: 0, Event: NoteOn(69, 100)},
		{Tick: MicrosToTicks(250_000), Event: ControlChange(1, 64)},
		{Tick: MicrosToTicks(500_000), Event: NoteOff(69)},
	}
	for i := range want {
		if events[i].Event != want[i].Event {
			t.Errorf("event %d: expected %v, got %v", i, want[i].Event, events[i].Event)
		}
		if d := events[i].Tick - want[i].Tick; d < -1 || d > 1 {
			t.Errorf("event %d: expected tick %d, got %d", i, want[i].Tick, events[i].Tick)
		}
	}
}

func TestLoadSMF_RejectsGarbage(t *testing.T) {
	if _, err := LoadSMF(bytes.NewReader([]byte("not a midi file")), Decoder{}); err == nil {
		t.Errorf("expected an error for a non-SMF stream")
	}
}

func TestMicrosToTicks(t *testing.T) {
	if got := MicrosToTicks(1_000_000); got != 31250 {
		t.Errorf("expected 31250 ticks per second, got %d", got)
	}
	if got := MicrosToTicks(32); got != 1 {
		t.Errorf("expected one tick per 32 µs, got %d", got)
	}
}
