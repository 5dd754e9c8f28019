// Package synth implements the granular sample engine: fixed-point phase
// accumulators, shift-based decay envelopes, two-grain voices and the
// per-tick scheduler that produces one 8-bit PWM sample per call.
package synth

// Phase is a 16-bit free-running phase accumulator.
// Pos wraps modulo 2^16; a wrap marks one elapsed cycle.
type Phase struct {
	Pos uint16
	Inc uint16
}

// Advance adds Inc to Pos and reports whether the position wrapped.
func (p *Phase) Advance() bool {
	prev := p.Pos
	p.Pos += p.Inc
	return p.Pos < prev
}

// SetInc replaces the increment. It takes effect on the next Advance.
func (p *Phase) SetInc(inc uint16) {
	p.Inc = inc
}

// Modulate offsets the position without touching the increment (pitch bend).
func (p *Phase) Modulate(delta uint16) {
	p.Pos += delta
}
