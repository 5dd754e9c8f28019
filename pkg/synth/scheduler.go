package synth

// Tick runs one sample period and returns the PWM compare value.
// It never allocates and has no error path.
func (v *Voice) Tick() uint8 {
	if v.Sync[0].Advance() {
		v.Grains[0].Reset()
		v.LED = !v.LED
	}
	if v.Sync[1].Advance() {
		v.Grains[1].Reset()
	}

	v.Grains[0].AdvancePhase()
	v.Grains[1].AdvancePhase()

	mix := v.Grains[0].Sample() + v.Grains[1].Sample()

	v.Grains[0].TickEnvelope()
	v.Grains[1].TickEnvelope()

	// Held notes sustain; the release only runs with the gate closed.
	if v.Note.Gate == Closed {
		v.Env.Tick()
	}

	return Amplify(Center(mix), v.Env.Value())
}

// Render fills dst with consecutive ticks.
func (v *Voice) Render(dst []uint8) {
	for i := range dst {
		dst[i] = v.Tick()
	}
}
