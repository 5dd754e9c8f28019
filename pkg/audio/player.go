// Package audio hosts the synth: it plays the role of the timer interrupt,
// running the voice scheduler once per output byte, and feeds the result to
// WAV files or the sound card.
package audio

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oisee/grainbox/pkg/control"
	"github.com/oisee/grainbox/pkg/synth"
)

// Defaults for the control queue and realtime block size.
const (
	DefaultQueueSize = 256
	DefaultBlockSize = 512
)

// TickPeriod is the duration of one scheduler tick.
const TickPeriod = time.Second / synth.SampleRate

// ErrQueueFull is returned by Post when the audio side has fallen behind.
var ErrQueueFull = errors.New("control queue full")

// Snapshot is a read-only view of the voice published after every block.
type Snapshot struct {
	Gate       synth.Gate
	Note       uint8
	Velocity   uint8
	Master     uint8
	Grains     [2]uint8
	SyncInc    [2]uint16
	GrainInc   [2]uint16
	GrainDecay [2]uint8
	LED        bool
	Output     uint8
	Ticks      uint64
	Overruns   uint64
}

// Engine owns one voice. Control producers Post events from any goroutine;
// the audio goroutine drains them at the start of each block, so the voice
// only ever sees parameter writes between ticks.
type Engine struct {
	voice  *synth.Voice
	events chan control.Event
	snap   atomic.Pointer[Snapshot]

	ticks    uint64
	overruns atomic.Uint64
	logger   *slog.Logger

	mu sync.Mutex // serialises block renders; never held by Post
}

// NewEngine creates an engine around a fresh voice.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		voice:  synth.NewVoice(),
		events: make(chan control.Event, DefaultQueueSize),
		logger: logger,
	}
	e.publish(0)
	return e
}

// Post queues a control event without blocking.
func (e *Engine) Post(ev control.Event) error {
	select {
	case e.events <- ev:
		return nil
	default:
		e.logger.Debug("dropped control event", "event", ev.String())
		return ErrQueueFull
	}
}

// drain applies every queued event. Caller holds mu.
func (e *Engine) drain() {
	for {
		select {
		case ev := <-e.events:
			ev.Apply(e.voice)
		default:
			return
		}
	}
}

// GenerateSamples fills buf with PWM values, one tick per byte.
func (e *Engine) GenerateSamples(buf []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	e.drain()
	e.voice.Render(buf)
	e.ticks += uint64(len(buf))

	var last uint8
	if len(buf) > 0 {
		last = buf[len(buf)-1]
	}
	e.publish(last)

	if elapsed := time.Since(start); elapsed > time.Duration(len(buf))*TickPeriod {
		n := e.overruns.Add(1)
		e.logger.Debug("block overran its deadline", "samples", len(buf), "elapsed", elapsed, "overruns", n)
	}
}

// Render plays timed events offline and returns n samples. Event ticks are
// relative to the start of this call; events at or past n are not applied.
func (e *Engine) Render(events []control.Timed, n int) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.drain()
	out := make([]byte, n)
	next := 0
	for pos := 0; pos < n; {
		for next < len(events) && events[next].Tick <= int64(pos) {
			events[next].Event.Apply(e.voice)
			next++
		}
		end := n
		if next < len(events) && events[next].Tick < int64(n) {
			end = int(events[next].Tick)
		}
		e.voice.Render(out[pos:end])
		pos = end
	}
	e.ticks += uint64(n)

	var last uint8
	if n > 0 {
		last = out[n-1]
	}
	e.publish(last)
	return out
}

// Snapshot returns the state published after the most recent block.
func (e *Engine) Snapshot() Snapshot {
	return *e.snap.Load()
}

func (e *Engine) publish(last uint8) {
	v := e.voice
	e.snap.Store(&Snapshot{
		Gate:       v.Note.Gate,
		Note:       v.Note.Number,
		Velocity:   v.Note.Velocity,
		Master:     v.Env.Value(),
		Grains:     [2]uint8{v.Grains[0].Env.Value(), v.Grains[1].Env.Value()},
		SyncInc:    [2]uint16{v.Sync[0].Inc, v.Sync[1].Inc},
		GrainInc:   [2]uint16{v.Grains[0].Phase.Inc, v.Grains[1].Phase.Inc},
		GrainDecay: [2]uint8{v.Grains[0].Env.Decay, v.Grains[1].Env.Decay},
		LED:        v.LED,
		Output:     last,
		Ticks:      e.ticks,
		Overruns:   e.overruns.Load(),
	})
}
