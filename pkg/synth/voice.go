package synth

// Master envelope shape applied on note-on. The release only runs while the
// gate is closed.
const (
	ReleaseDecay   = 1
	ReleaseDivider = 4
)

// DefaultSyncOffsets are the semitones subtracted from the played key for
// the two sync clocks.
var DefaultSyncOffsets = [2]uint8{24, 17}

// DefaultGrainPitches tune the grain oscillators before any CC16/CC17 arrives.
var DefaultGrainPitches = [2]uint8{72, 79}

// Controller numbers understood by ControlChange.
const (
	CCModWheel   = 1
	CCGrain0     = 16
	CCGrain1     = 17
	CCSync0      = 18
	CCSync1      = 19
	CCAllNoteOff = 123
)

// Voice is the playable unit: one key, a master release envelope, two sync
// clocks and the two grains they retrigger.
//
// Control methods (NoteOn, NoteOff, ControlChange, PitchBend, Set*) only
// write parameters. Tick is the only method that advances audio state. The
// two sides must not run concurrently; see audio.Engine for the queue that
// serialises them.
type Voice struct {
	Note   Note
	Env    Envelope
	Sync   [2]Phase
	Grains [2]Grain

	// Offsets are subtracted from the key number to tune Sync[0] and Sync[1].
	Offsets [2]uint8

	// LED toggles every time grain 0 retriggers.
	LED bool
}

// NewVoice returns a silent voice with default grain tuning and decay.
func NewVoice() *Voice {
	v := &Voice{Offsets: DefaultSyncOffsets}
	for i := range v.Grains {
		v.Grains[i].Phase.SetInc(Chromatic(DefaultGrainPitches[i]))
		v.Grains[i].Env.Reset(0, DefaultGrainDecay, DefaultGrainDivider)
	}
	return v
}

// NoteOn starts or retunes the voice. Velocity 0 releases the held key, the
// running-status convention for note-off.
func (v *Voice) NoteOn(number, velocity uint8) {
	if velocity == 0 {
		v.NoteOff(number)
		return
	}
	v.Note = Note{Gate: Open, Number: number, Velocity: velocity}
	v.Env.Reset(uint16(velocity)<<8, ReleaseDecay, ReleaseDivider)

	// Both clocks are written back to back so the scheduler sees at most
	// one tick with a half-retuned pair.
	inc0 := Chromatic(number - v.Offsets[0])
	inc1 := Chromatic(number - v.Offsets[1])
	v.Sync[0].SetInc(inc0)
	v.Sync[1].SetInc(inc1)
}

// NoteOff closes the gate if number is the held key. Other keys are ignored.
func (v *Voice) NoteOff(number uint8) {
	if v.Note.Number == number {
		v.Note.Gate = Closed
	}
}

// ControlChange maps controllers onto grain and sync parameters. Unknown
// controllers are ignored.
func (v *Voice) ControlChange(controller, value uint8) {
	switch controller {
	case CCModWheel:
		v.Grains[0].Env.Decay = value >> 3
		v.Grains[1].Env.Decay = value >> 4
	case CCGrain0:
		v.Grains[0].Phase.SetInc(Chromatic(value))
	case CCGrain1:
		v.Grains[1].Phase.SetInc(Chromatic(value))
	case CCSync0:
		v.Sync[0].SetInc(Chromatic(value))
	case CCSync1:
		v.Sync[1].SetInc(Chromatic(value))
	case CCAllNoteOff:
		v.Note.Gate = Closed
	}
}

// PitchBend offsets both sync positions by a 14-bit bend value.
func (v *Voice) PitchBend(value uint16) {
	value &= 0x3FFF
	v.Sync[0].Modulate(value)
	v.Sync[1].Modulate(value)
}

// SetSyncInc sets the retrigger rate of grain i.
func (v *Voice) SetSyncInc(i int, inc uint16) {
	v.Sync[i&1].SetInc(inc)
}

// SetGrainInc sets the oscillator rate of grain i.
func (v *Voice) SetGrainInc(i int, inc uint16) {
	v.Grains[i&1].Phase.SetInc(inc)
}

// SetGrainDecay sets the decay shift of grain i; it applies from the next Reset onward
// as well as to the burst already sounding.
func (v *Voice) SetGrainDecay(i int, decay uint8) {
	v.Grains[i&1].Env.Decay = decay
}
