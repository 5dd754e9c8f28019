package control

import (
	"fmt"

	"github.com/oisee/grainbox/pkg/synth"
)

// Mapping selects how the sync pot maps onto the grain repetition rate.
type Mapping uint8

const (
	Smooth     Mapping = iota // logarithmic sweep from the antilog table
	Chromatic                 // semitone steps
	Pentatonic                // D, E, G, A, B steps
)

var mappingNames = []string{"smooth", "chromatic", "pentatonic"}

func (m Mapping) String() string {
	if int(m) < len(mappingNames) {
		return mappingNames[m]
	}
	return fmt.Sprintf("mapping(%d)", m)
}

// ParseMapping accepts the names printed by Mapping.String.
func ParseMapping(s string) (Mapping, error) {
	for i, n := range mappingNames {
		if n == s {
			return Mapping(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mapping %q", s)
}

// Pot indices in analogue input order.
const (
	PotGrainFreq   = 0
	PotGrain2Decay = 1
	PotGrainDecay  = 2
	PotGrain2Freq  = 3
	PotSync        = 4
	NumPots        = 5
)

var potNames = [NumPots]string{"grain1 pitch", "grain2 decay", "grain1 decay", "grain2 pitch", "sync"}

// PotName labels a pot for display.
func PotName(pot int) string {
	return potNames[pot]
}

// Panel holds five 10-bit pot readings and turns them into voice parameters.
type Panel struct {
	Mapping Mapping
	Pots    [NumPots]uint16
}

// NewPanel returns a panel with every pot centred.
func NewPanel(m Mapping) *Panel {
	p := &Panel{Mapping: m}
	for i := range p.Pots {
		p.Pots[i] = synth.ControlMax / 2
	}
	return p
}

// Turn moves a pot by delta, clamped to 0..1023.
func (p *Panel) Turn(pot, delta int) {
	v := int(p.Pots[pot]) + delta
	p.Pots[pot] = uint16(max(0, min(synth.ControlMax, v)))
}

// SyncInc maps the sync pot through the selected mapping.
func (p *Panel) SyncInc() uint16 {
	in := p.Pots[PotSync]
	switch p.Mapping {
	case Chromatic:
		return synth.MapChromatic(in)
	case Pentatonic:
		return synth.MapPentatonic(in)
	default:
		return synth.MapPhaseInc(in) / 4
	}
}

// Events returns the full parameter set for the current readings. Both sync
// clocks follow the one sync pot. The grain 2 decay pot has twice the range
// of grain 1's; shifts of 16 and above hold the grain at full level.
func (p *Panel) Events() []Event {
	sync := p.SyncInc()
	return []Event{
		SyncInc(0, sync),
		SyncInc(1, sync),
		GrainInc(0, synth.MapPhaseInc(p.Pots[PotGrainFreq])/2),
		GrainInc(1, synth.MapPhaseInc(p.Pots[PotGrain2Freq])/2),
		GrainDecay(0, uint8(p.Pots[PotGrainDecay]>>6)),
		GrainDecay(1, uint8(p.Pots[PotGrain2Decay]>>5)),
	}
}
