package synth

import "testing"

func TestGrain_ResetFromAnyState(t *testing.T) {
	states := []Grain{
		{},
		{Phase: Phase{Pos: 0xFFFF, Inc: 5}, Env: Envelope{Amp: 1, Decay: 9, Divider: 3, counter: 2}},
		{Phase: Phase{Pos: 12345, Inc: 0}, Env: Envelope{Amp: 0xFFFF, Decay: 0, Divider: 0}},
	}
	for i, g := range states {
		decay, divider, inc := g.Env.Decay, g.Env.Divider, g.Phase.Inc
		g.Reset()
		if g.Phase.Pos != 0 {
			t.Errorf("state %d: expected position 0, got %d", i, g.Phase.Pos)
		}
		if g.Env.Amp != GrainFullScale {
			t.Errorf("state %d: expected amplitude 0x%04X, got 0x%04X", i, GrainFullScale, g.Env.Amp)
		}
		if g.Env.Decay != decay || g.Env.Divider != divider || g.Phase.Inc != inc {
			t.Errorf("state %d: Reset must keep configured decay/divider/increment", i)
		}
	}
}

func TestTriangle(t *testing.T) {
	tests := []struct {
		pos  uint16
		want uint8
	}{
		{0x0000, 0},
		{0x0080, 1},
		{0x4000, 128},
		{0x7F80, 255},
		{0x8000, 255},
		{0xC000, 127},
		{0xFF80, 0},
		{0xFFFF, 0},
	}
	for _, tc := range tests {
		if got := Triangle(tc.pos); got != tc.want {
			t.Errorf("Triangle(0x%04X): expected %d, got %d", tc.pos, tc.want, got)
		}
	}
}

func TestGrain_SampleScalesWithEnvelope(t *testing.T) {
	g := Grain{Phase: Phase{Pos: 0x7F80}}
	g.Env.Amp = GrainFullScale
	if got := g.Sample(); got != MaxGrainSample {
		t.Errorf("expected peak sample %d, got %d", MaxGrainSample, got)
	}

	g.Env.Amp = 0x3FFF
	if got, want := g.Sample(), uint16(255*15); got != want {
		t.Errorf("expected %d at quarter amplitude, got %d", want, got)
	}

	g.Env.Amp = 0
	if got := g.Sample(); got != 0 {
		t.Errorf("expected silence at zero amplitude, got %d", got)
	}
}

func TestGrain_AdvanceAndEnvelopeAreIndependent(t *testing.T) {
	var g Grain
	g.Phase.SetInc(300)
	g.Env.Reset(0, 2, 1)
	g.Reset()

	g.AdvancePhase()
	if g.Env.Amp != GrainFullScale {
		t.Errorf("AdvancePhase must not decay the envelope")
	}
	g.TickEnvelope()
	if g.Phase.Pos != 300 {
		t.Errorf("TickEnvelope must not move the phase, got %d", g.Phase.Pos)
	}
	if want := uint16(GrainFullScale - GrainFullScale>>2); g.Env.Amp != want {
		t.Errorf("expected amplitude %d, got %d", want, g.Env.Amp)
	}
}
