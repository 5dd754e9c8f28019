package score

import (
	"context"
	"log/slog"
	"time"

	"github.com/oisee/grainbox/pkg/control"
	"github.com/oisee/grainbox/pkg/synth"
)

// TickTime converts a scheduler tick count to wall-clock time.
func TickTime(tick int64) time.Duration {
	return time.Duration(tick) * time.Second / synth.SampleRate
}

// Play posts the song's events in real time until it ends or ctx is done.
func Play(ctx context.Context, s *Song, loops int, post func(control.Event) error, logger *slog.Logger) error {
	return PlayEvents(ctx, s.Events(loops), s.Length()*int64(loops), post, logger)
}

// PlayEvents posts timed events at their wall-clock offsets, then waits for
// the end tick. Events the sink refuses are logged and dropped.
func PlayEvents(ctx context.Context, events []control.Timed, end int64, post func(control.Event) error, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	wait := func(tick int64) error {
		d := time.Until(start.Add(TickTime(tick)))
		if d <= 0 {
			return ctx.Err()
		}
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			return nil
		}
	}

	for _, ev := range events {
		if err := wait(ev.Tick); err != nil {
			return err
		}
		if err := post(ev.Event); err != nil {
			logger.Warn("dropped sequence event", "event", ev.Event, "err", err)
		}
	}
	return wait(end)
}
