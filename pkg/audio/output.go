package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"

	"github.com/oisee/grainbox/pkg/synth"
)

// WAVFormat is the file format of exported renders: mono, 8-bit unsigned at
// the scheduler rate, the same shape as the PWM stream.
var WAVFormat = beep.Format{
	SampleRate:  beep.SampleRate(synth.SampleRate),
	NumChannels: 1,
	Precision:   1,
}

// pwmStreamer replays PWM bytes as a beep stream.
type pwmStreamer struct {
	data []byte
	pos  int
}

func (s *pwmStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	for n < len(samples) && s.pos < len(s.data) {
		v := PWMToFloat(s.data[s.pos])
		samples[n] = [2]float64{v, v}
		s.pos++
		n++
	}
	return n, true
}

func (s *pwmStreamer) Err() error { return nil }

// PWMToFloat maps a compare value onto -1..1 with 128 as zero.
func PWMToFloat(b byte) float64 {
	return (float64(b) - 128) / 128
}

// ExportWAV writes samples as a WAV stream.
func ExportWAV(w io.WriteSeeker, samples []byte) error {
	if err := wav.Encode(w, &pwmStreamer{data: samples}, WAVFormat); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}

// ExportWAVFile writes samples to a new WAV file at path.
func ExportWAVFile(path string, samples []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportWAV(f, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
