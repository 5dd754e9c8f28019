package synth

// Envelope is an exponential decay generator.
//
// Every Divider ticks the amplitude loses Amp>>Decay, so a larger Decay
// means a slower decay and Divider stretches it further without touching the
// sample rate. Amp never underflows: Amp>>Decay is at most Amp.
type Envelope struct {
	Amp     uint16
	Decay   uint8
	Divider uint8
	counter uint8
}

// Reset reinitialises all envelope fields, including the divider phase.
func (e *Envelope) Reset(amp uint16, decay, divider uint8) {
	e.Amp = amp
	e.Decay = decay
	e.Divider = divider
	e.counter = 0
}

// Tick advances the clock divider and applies one decay step when it expires.
// A Divider of 0 or 1 decays on every tick.
func (e *Envelope) Tick() {
	e.counter++
	if e.counter < e.Divider {
		return
	}
	e.counter = 0
	e.Amp -= e.Amp >> e.Decay
}

// Value returns the high byte of the amplitude, the form the mixer multiplies by.
func (e *Envelope) Value() uint8 {
	return uint8(e.Amp >> 8)
}
