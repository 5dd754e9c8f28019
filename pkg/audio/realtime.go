package audio

import (
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/oisee/grainbox/pkg/synth"
)

// RealtimeOutput streams the engine to the sound card. The PWM bytes go out
// untouched as unsigned 8-bit mono at the scheduler rate.
type RealtimeOutput struct {
	engine    *Engine
	otoCtx    *oto.Context
	otoPlayer *oto.Player
	running   atomic.Bool
}

// NewRealtimeOutput opens the audio device and starts pulling from engine.
func NewRealtimeOutput(engine *Engine) (*RealtimeOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   synth.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatUnsignedInt8,
		BufferSize:   50 * time.Millisecond,
	}

	otoCtx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	rt := &RealtimeOutput{
		engine: engine,
		otoCtx: otoCtx,
	}
	rt.running.Store(true)

	rt.otoPlayer = otoCtx.NewPlayer(&pwmStream{rt: rt})
	rt.otoPlayer.SetBufferSize(DefaultBlockSize * 4)
	rt.otoPlayer.Play()

	return rt, nil
}

// Close stops the audio output.
func (rt *RealtimeOutput) Close() {
	rt.running.Store(false)
	if rt.otoPlayer != nil {
		rt.otoPlayer.Close()
	}
}

// pwmStream implements io.Reader for oto, at most one block per call.
type pwmStream struct {
	rt *RealtimeOutput
}

func (s *pwmStream) Read(buf []byte) (int, error) {
	if len(buf) > DefaultBlockSize {
		buf = buf[:DefaultBlockSize]
	}
	if !s.rt.running.Load() {
		// Mid-scale is silence for unsigned 8-bit.
		for i := range buf {
			buf[i] = 128
		}
		return len(buf), nil
	}
	s.rt.engine.GenerateSamples(buf)
	return len(buf), nil
}
