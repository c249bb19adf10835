package stats

import "math"

// A RoundingPolicy turns a raw mean rating into its display value. The
// engine applies a single policy to every mean it aggregates; there is no
// per-call-site rounding.
type RoundingPolicy func(float64) float64

// RoundHalfStep rounds to the nearest half point (4.67 -> 4.5). This is the
// default policy.
func RoundHalfStep(v float64) float64 {
	return math.Round(v*2) / 2
}

// RoundCeil rounds up to the next whole point (4.67 -> 5.0).
func RoundCeil(v float64) float64 {
	return math.Ceil(v)
}

// PolicyByName maps a configuration string to a policy, defaulting to
// RoundHalfStep for unknown names.
func PolicyByName(name string) RoundingPolicy {
	switch name {
	case "ceil":
		return RoundCeil
	case "half-step", "":
		return RoundHalfStep
	default:
		return RoundHalfStep
	}
}
