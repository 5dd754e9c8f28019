package synth

// Grain amplitude and decay defaults.
const (
	GrainFullScale      = 0xFFFF
	DefaultGrainDecay   = 4
	DefaultGrainDivider = 8

	// MaxGrainSample is the largest value Sample can return: a full triangle
	// (255) times the top six envelope bits (63).
	MaxGrainSample = 255 * 63
)

// Grain is one oscillator burst: a phase accumulator read as a triangle wave
// and an envelope that fades it out. A grain never retriggers itself.
type Grain struct {
	Phase Phase
	Env   Envelope
}

// Reset restarts the burst: phase back to zero, amplitude back to full scale.
// Decay and Divider are left as configured.
func (g *Grain) Reset() {
	g.Phase.Pos = 0
	g.Env.Amp = GrainFullScale
	g.Env.counter = 0
}

// AdvancePhase moves the grain oscillator on by one tick.
func (g *Grain) AdvancePhase() {
	g.Phase.Advance()
}

// Sample returns the grain's contribution, 0..MaxGrainSample.
func (g *Grain) Sample() uint16 {
	return uint16(Triangle(g.Phase.Pos)) * uint16(g.Env.Value()>>2)
}

// TickEnvelope advances the grain envelope by one tick.
func (g *Grain) TickEnvelope() {
	g.Env.Tick()
}

// Triangle folds a 16-bit phase into an 8-bit triangle: bits 7..14 ramp up
// during the first half cycle and are inverted during the second.
func Triangle(pos uint16) uint8 {
	v := uint8(pos >> 7)
	if pos&0x8000 != 0 {
		v = ^v
	}
	return v
}
