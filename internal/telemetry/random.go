package telemetry

import (
	"math"
	"math/rand"
)

// reroll returns a random replacement for a numeric value, staying in
// [1, 2*orig] and keeping the original's integer-ness. Non-numeric values
// come back unchanged. JSON numbers arrive as float64; a whole-number float
// is treated as an integer so re-serialization does not grow a fraction.
func reroll(orig any) any {
	f, ok := orig.(float64)
	if !ok {
		return orig
	}

	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		max := int64(f) * 2
		if max < 1 {
			max = 1
		}
		return rand.Int63n(max) + 1 //nolint:gosec // synthetic data, not crypto
	}

	max := f * 2
	if max <= 1 {
		max = 100
	}
	return 1 + rand.Float64()*(max-1) //nolint:gosec // synthetic data, not crypto
}
