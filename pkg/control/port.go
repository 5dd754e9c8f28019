package control

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

var (
	ErrNoPorts      = errors.New("no midi input ports")
	ErrPortNotFound = errors.New("midi input port not found")
)

// Port is an open live MIDI input.
type Port struct {
	Name string

	drv  *rtmididrv.Driver
	in   drivers.In
	stop func()
}

// Ports lists the names of the available MIDI inputs.
func Ports() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("open midi driver: %w", err)
	}
	defer drv.Close()

	ins, err := drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("list midi inputs: %w", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names, nil
}

// pickPort returns the index of the port matching name: an exact match wins,
// then the first case-insensitive substring match. An empty name picks the
// first port.
func pickPort(names []string, name string) (int, error) {
	if len(names) == 0 {
		return -1, ErrNoPorts
	}
	if name == "" {
		return 0, nil
	}
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	lower := strings.ToLower(name)
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), lower) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q (have %s)", ErrPortNotFound, name, strings.Join(names, ", "))
}

// Listen opens the named input and delivers every decoded event to sink from
// the driver's goroutine. sink must not block.
func Listen(name string, dec Decoder, sink func(Event), logger *slog.Logger) (*Port, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("open midi driver: %w", err)
	}
	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("list midi inputs: %w", err)
	}
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	idx, err := pickPort(names, name)
	if err != nil {
		drv.Close()
		return nil, err
	}

	in := ins[idx]
	if err := in.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("open %q: %w", in.String(), err)
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		if e, ok := dec.Decode(msg); ok {
			sink(e)
		}
	}, midi.HandleError(func(err error) {
		logger.Warn("midi listener error", "port", in.String(), "err", err)
	}))
	if err != nil {
		in.Close()
		drv.Close()
		return nil, fmt.Errorf("listen on %q: %w", in.String(), err)
	}

	logger.Info("midi input connected", "port", in.String())
	return &Port{Name: in.String(), drv: drv, in: in, stop: stop}, nil
}

// Close stops listening and releases the port.
func (p *Port) Close() error {
	if p.stop != nil {
		p.stop()
		p.stop = nil
	}
	err := p.in.Close()
	p.drv.Close()
	return err
}
