package synth

// MaxMix is the largest mixed value of two grains (2 * 255 * 63 = 32130).
// It fits a uint16 with room to spare, and MaxMix>>7 = 251 fits a byte, so
// neither the sum nor Center ever wraps for in-contract grains.
const MaxMix = 2 * MaxGrainSample

// Center rescales a two-grain mix into a signed byte centred on zero.
//
// Domain: 0..65535. Bits 7..14 of mix are kept, so the result is exact for
// mix <= 32767 (which covers MaxMix) and wraps modulo 256 above that.
// Range for in-contract mixes: -128..123.
func Center(mix uint16) int8 {
	return int8(uint8(mix>>7) - 128)
}

// Amplify applies a master volume to a centred sample and re-offsets the
// result into the unsigned range of the PWM compare register.
//
// It computes s*(vol+1)/128 without division:
//
//	s*(vol+1)/128 = (2*s*vol + 2*s) / 256
//
// Domain: vol 0..127 (a velocity-scaled envelope high byte). At the corners
// 2*127*(-128) + 2*(-128) = -32768 and 2*127*127 + 2*127 = 32512, both within
// int16. vol above 127 wraps the int16 intermediate.
// Range: 0..255, with 128 as silence.
func Amplify(s int8, vol uint8) uint8 {
	x2 := int16(s) * 2
	x2 += x2 * int16(vol)
	return uint8(x2>>8) + 128
}
