package deck

import "math"

// Xoshiro256SS is the xoshiro256** generator used for the client-visible
// shuffle preview. Seeded with the same four words the engine receives, it
// reproduces bit-for-bit the permutation the engine will reveal over time.
type Xoshiro256SS struct {
	s [4]uint64
}

// NewXoshiro256SS seeds the generator from four words.
func NewXoshiro256SS(seed [4]uint64) *Xoshiro256SS {
	return &Xoshiro256SS{s: seed}
}

// Next advances the generator and returns the next 64-bit output.
func (x *Xoshiro256SS) Next() uint64 {
	result := rol64(x.s[1]*5, 7) * 9

	t := x.s[1] << 17
	x.s[2] ^= x.s[0]
	x.s[3] ^= x.s[1]
	x.s[1] ^= x.s[2]
	x.s[0] ^= x.s[3]
	x.s[2] ^= t
	x.s[3] = rol64(x.s[3], 45)

	return result
}

// Float64 returns the next output reduced to [0, 1) using the low 53 bits.
// The reduction must match the reference generator exactly or the preview
// permutation diverges from the engine's.
func (x *Xoshiro256SS) Float64() float64 {
	const mask53 = 1<<53 - 1
	return float64(x.Next()&mask53) / (1 << 53)
}

func rol64(v uint64, k uint) uint64 {
	return v<<k | v>>(64-k)
}

// Shuffle permutes codes in place with a Fisher-Yates pass from the end of
// the slice toward the front, drawing from rng.
func Shuffle(codes []uint32, rng *Xoshiro256SS) []uint32 {
	for i := len(codes) - 1; i > 0; i-- {
		j := int(math.Floor(rng.Float64() * float64(i+1)))
		codes[i], codes[j] = codes[j], codes[i]
	}
	return codes
}
