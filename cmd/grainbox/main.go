package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/oisee/grainbox/pkg/audio"
	"github.com/oisee/grainbox/pkg/control"
	"github.com/oisee/grainbox/pkg/score"
	"github.com/oisee/grainbox/pkg/synth"
	"github.com/oisee/grainbox/pkg/tui"
)

type config struct {
	render    string
	midiFile  string
	seq       string
	seconds   float64
	tempo     int
	port      string
	listPorts bool
	channel   int
	mapping   string
	verbose   bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.render, "render", "", "Render to a WAV file instead of playing")
	flag.StringVar(&cfg.midiFile, "midi", "", "Standard MIDI file to play")
	flag.StringVar(&cfg.seq, "seq", "", "Step sequence (\"A-4 --- OFF\") or a file holding one")
	flag.Float64Var(&cfg.seconds, "seconds", 0, "Render length in seconds (0 = score length plus one second)")
	flag.IntVar(&cfg.tempo, "tempo", 120, "Step sequence tempo in BPM")
	flag.StringVar(&cfg.port, "port", "", "MIDI input port name (empty = none)")
	flag.BoolVar(&cfg.listPorts, "ports", false, "List MIDI input ports and exit")
	flag.IntVar(&cfg.channel, "channel", control.Omni, "MIDI channel 1-16 (0 = omni)")
	flag.StringVar(&cfg.mapping, "mapping", "smooth", "Sync pot mapping: smooth, chromatic or pentatonic")
	flag.BoolVar(&cfg.verbose, "v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) error {
	if cfg.listPorts {
		names, err := control.Ports()
		if err != nil {
			return err
		}
		for i, n := range names {
			fmt.Printf("%d: %s\n", i, n)
		}
		return nil
	}

	if cfg.channel < 0 || cfg.channel > 16 {
		return fmt.Errorf("channel %d out of range", cfg.channel)
	}
	mapping, err := control.ParseMapping(cfg.mapping)
	if err != nil {
		return err
	}
	dec := control.Decoder{Channel: cfg.channel}

	events, end, err := loadScore(cfg, dec)
	if err != nil {
		return err
	}

	engine := audio.NewEngine(logger)

	if cfg.render != "" {
		n := int(cfg.seconds * synth.SampleRate)
		if n <= 0 {
			n = int(end) + synth.SampleRate
		}
		samples := engine.Render(events, n)
		if err := audio.ExportWAVFile(cfg.render, samples); err != nil {
			return err
		}
		logger.Info("rendered", "file", cfg.render, "samples", len(samples), "events", len(events))
		return nil
	}

	rt, err := audio.NewRealtimeOutput(engine)
	if err != nil {
		return fmt.Errorf("open audio: %w", err)
	}
	defer rt.Close()
	logger.Debug("audio started", "rate", synth.SampleRate, "block", audio.DefaultBlockSize)

	if cfg.port != "" {
		p, err := control.Listen(cfg.port, dec, func(ev control.Event) {
			if err := engine.Post(ev); err != nil {
				logger.Warn("dropped midi event", "event", ev, "err", err)
			}
		}, logger)
		if err != nil {
			return err
		}
		defer p.Close()
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		model := tui.NewModel(engine, control.NewPanel(mapping), events, end)
		_, err := tea.NewProgram(model).Run()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.port != "" && cfg.midiFile == "" && cfg.seq == "" {
		<-ctx.Done()
		return nil
	}
	err = score.PlayEvents(ctx, events, end+synth.SampleRate, engine.Post, logger)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// loadScore returns the timed events of the MIDI file, step sequence or demo
// with the tick playback runs to.
func loadScore(cfg config, dec control.Decoder) ([]control.Timed, int64, error) {
	if cfg.midiFile != "" {
		f, err := os.Open(cfg.midiFile)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		events, err := control.LoadSMF(f, dec)
		if err != nil {
			return nil, 0, fmt.Errorf("load %s: %w", cfg.midiFile, err)
		}
		var end int64
		if len(events) > 0 {
			end = events[len(events)-1].Tick
		}
		return events, end, nil
	}

	song := score.Demo()
	if cfg.seq != "" {
		text := cfg.seq
		if data, err := os.ReadFile(cfg.seq); err == nil {
			text = string(data)
		}
		pat, err := score.ParsePattern(stripComments(text))
		if err != nil {
			return nil, 0, err
		}
		song = score.NewSong()
		song.Title = "Sequence"
		song.Patterns = []*score.Pattern{pat}
	}
	if cfg.tempo <= 0 {
		return nil, 0, fmt.Errorf("tempo %d out of range", cfg.tempo)
	}
	song.Tempo = cfg.tempo
	return song.Events(1), song.Length(), nil
}

// stripComments drops everything after '#' on each line.
func stripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if before, _, ok := strings.Cut(l, "#"); ok {
			lines[i] = before
		}
	}
	return strings.Join(lines, "\n")
}
