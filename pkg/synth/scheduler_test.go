package synth

import "testing"

func TestTick_SilentVoiceSitsAtMidScale(t *testing.T) {
	v := NewVoice()
	for i := 0; i < 2000; i++ {
		if out := v.Tick(); out != 127 && out != 128 {
			t.Fatalf("tick %d: expected mid-scale output, got %d", i, out)
		}
	}
}

// TestTick_ReleaseAfterNoteOff plays a key, releases it and checks the
// master envelope decays while the grains keep retriggering.
func TestTick_ReleaseAfterNoteOff(t *testing.T) {
	v := NewVoice()
	v.NoteOn(69, 127)

	for i := 0; i < 1000; i++ {
		v.Tick()
	}
	if v.Env.Amp != 32512 {
		t.Fatalf("expected the master envelope to hold while the gate is open, got %d", v.Env.Amp)
	}

	v.NoteOff(69)
	if v.Note.Gate != Closed {
		t.Fatalf("expected gate CLOSED after note-off")
	}

	prev := v.Env.Amp
	led := v.LED
	retriggers := 0
	for i := 0; i < 4000; i++ {
		v.Tick()
		if v.Env.Amp > prev {
			t.Fatalf("tick %d: master amplitude rose from %d to %d", i, prev, v.Env.Amp)
		}
		prev = v.Env.Amp
		if v.LED != led {
			retriggers++
			led = v.LED
		}
	}
	if v.Env.Value() != 0 {
		t.Errorf("expected the release to reach silence, amplitude %d", v.Env.Amp)
	}
	// 4000 ticks at increment 231 wrap the sync clock 14 times.
	if retriggers < 14 {
		t.Errorf("expected grain 0 to keep retriggering after release, got %d", retriggers)
	}
}

func TestTick_SyncOverflowResetsGrain(t *testing.T) {
	v := NewVoice()
	v.Sync[0] = Phase{Pos: 65000, Inc: 1000}
	v.Grains[0].Phase.Pos = 40000
	v.Grains[0].Env.Amp = 10

	v.Tick()

	// Reset zeroes the phase before this tick's advance.
	if want := v.Grains[0].Phase.Inc; v.Grains[0].Phase.Pos != want {
		t.Errorf("expected grain 0 phase %d after reset and one advance, got %d", want, v.Grains[0].Phase.Pos)
	}
	if v.Grains[0].Env.Amp < 0xF000 {
		t.Errorf("expected grain 0 amplitude near full scale, got 0x%04X", v.Grains[0].Env.Amp)
	}
	if v.Grains[1].Env.Amp != 0 {
		t.Errorf("grain 1 retriggered without its sync overflowing")
	}
	if !v.LED {
		t.Errorf("expected the retrigger indicator to toggle")
	}
}

// TestMix_Bound walks every phase position at full grain amplitude.
func TestMix_Bound(t *testing.T) {
	var g0, g1 Grain
	for pos := 0; pos <= 0xFFFF; pos++ {
		g0.Phase.Pos = uint16(pos)
		g1.Phase.Pos = uint16(0xFFFF - pos)
		g0.Env.Amp, g1.Env.Amp = GrainFullScale, GrainFullScale

		wide := uint32(g0.Sample()) + uint32(g1.Sample())
		if wide > MaxMix {
			t.Fatalf("pos %d: mix %d exceeds MaxMix %d", pos, wide, MaxMix)
		}
		if got, want := int(Center(uint16(wide))), int(wide>>7)-128; got != want {
			t.Fatalf("pos %d: Center wrapped, expected %d, got %d", pos, want, got)
		}
	}
	if Center(MaxMix) != 123 {
		t.Errorf("expected Center(MaxMix) = 123, got %d", Center(MaxMix))
	}
}

// TestAmplify_Exhaustive checks the shift form against the wide formula for
// the whole contract domain.
func TestAmplify_Exhaustive(t *testing.T) {
	for s := -128; s <= 127; s++ {
		for vol := 0; vol <= 127; vol++ {
			wide := 2 * s * (vol + 1)
			if wide < -32768 || wide > 32767 {
				t.Fatalf("s=%d vol=%d: intermediate %d leaves int16", s, vol, wide)
			}
			want := uint8((wide >> 8) + 128)
			if got := Amplify(int8(s), uint8(vol)); got != want {
				t.Fatalf("Amplify(%d, %d): expected %d, got %d", s, vol, want, got)
			}
		}
	}
}

func TestAmplify_Corners(t *testing.T) {
	tests := []struct {
		s    int8
		vol  uint8
		want uint8
	}{
		{-128, 127, 0},
		{127, 127, 255},
		{0, 127, 128},
		{0, 0, 128},
		{-1, 0, 127},
	}
	for _, tc := range tests {
		if got := Amplify(tc.s, tc.vol); got != tc.want {
			t.Errorf("Amplify(%d, %d): expected %d, got %d", tc.s, tc.vol, tc.want, got)
		}
	}
}

func TestRender_MatchesTick(t *testing.T) {
	a, b := NewVoice(), NewVoice()
	a.NoteOn(57, 110)
	b.NoteOn(57, 110)

	buf := make([]uint8, 4096)
	a.Render(buf)
	for i, got := range buf {
		if want := b.Tick(); got != want {
			t.Fatalf("sample %d: Render gave %d, Tick gave %d", i, got, want)
		}
	}
}

func TestTick_HeldNoteMakesSound(t *testing.T) {
	v := NewVoice()
	v.NoteOn(69, 127)

	lo, hi := uint8(255), uint8(0)
	for i := 0; i < SampleRate/10; i++ {
		out := v.Tick()
		lo = min(lo, out)
		hi = max(hi, out)
	}
	if hi-lo < 64 {
		t.Errorf("expected an audible swing, got range %d..%d", lo, hi)
	}
}

func BenchmarkTick(b *testing.B) {
	v := NewVoice()
	v.NoteOn(69, 127)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Tick()
	}
}
