package synth

import "math"

// SampleRate is the tick rate of the scheduler in Hz (a 32 µs period).
const SampleRate = 31250

// Control input ranges.
const (
	ControlMax = 1023 // 10-bit analogue reading
	PitchMax   = 127
)

// antilogTable holds one octave of halving increments for the smooth mapping.
var antilogTable = [64]uint16{
	64830, 64132, 63441, 62757, 62081, 61413, 60751, 60097, 59449, 58809, 58176, 57549, 56929, 56316, 55709, 55109,
	54515, 53928, 53347, 52773, 52204, 51642, 51085, 50535, 49991, 49452, 48920, 48393, 47871, 47356, 46846, 46341,
	45842, 45348, 44859, 44376, 43898, 43425, 42958, 42495, 42037, 41584, 41136, 40693, 40255, 39821, 39392, 38968,
	38548, 38133, 37722, 37316, 36914, 36516, 36123, 35734, 35349, 34968, 34591, 34219, 33850, 33486, 33125, 32768,
}

// pentatonicTable holds increments restricted to D, E, G, A, B.
var pentatonicTable = [54]uint16{
	0, 19, 22, 26, 29, 32, 38, 43, 51, 58, 65, 77, 86, 103, 115, 129, 154, 173, 206, 231, 259, 308, 346,
	411, 461, 518, 616, 691, 822, 923, 1036, 1232, 1383, 1644, 1845, 2071, 2463, 2765, 3288,
	3691, 4143, 4927, 5530, 6577, 7382, 8286, 9854, 11060, 13153, 14764, 16572, 19708, 22121, 26306,
}

// chromaticTable maps a MIDI pitch to its phase increment at SampleRate.
var chromaticTable [PitchMax + 1]uint16

func init() {
	for p := range chromaticTable {
		chromaticTable[p] = FreqToInc(PitchToFreq(float64(p)))
	}
}

// PitchToFreq returns the equal-tempered frequency of a MIDI pitch (A4 = 69 = 440 Hz).
func PitchToFreq(p float64) float64 {
	return math.Pow(2.0, (p-69)/12.0) * 440.0
}

// FreqToInc converts a frequency to a rounded 16-bit phase increment.
func FreqToInc(f float64) uint16 {
	return uint16(f*65536/SampleRate + 0.5)
}

// Chromatic returns the increment for a MIDI pitch. Pitches above 127 wrap
// into the table rather than faulting.
func Chromatic(p uint8) uint16 {
	return chromaticTable[p&PitchMax]
}

// ChromaticTable returns a copy of the chromatic table.
func ChromaticTable() [PitchMax + 1]uint16 {
	return chromaticTable
}

// MapPhaseInc is the smooth logarithmic mapping: the low six bits of a
// control reading index one octave of the antilog table and the remaining
// bits shift the result down by whole octaves.
func MapPhaseInc(input uint16) uint16 {
	return antilogTable[input&0x3f] >> (input >> 6)
}

// MapChromatic steps a control reading onto semitones. Higher readings select
// lower pitches.
func MapChromatic(input uint16) uint16 {
	return chromaticTable[(ControlMax-input&ControlMax)>>3]
}

// MapPentatonic steps a control reading onto the pentatonic table, scaling
// 0..1023 to indices 52..0.
func MapPentatonic(input uint16) uint16 {
	idx := uint32(ControlMax-input&ControlMax) * 53 >> 10
	return pentatonicTable[idx]
}
