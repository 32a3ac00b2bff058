package circuit

import "math"

// maxDwellPerturbation bounds a single draw so the hold stays positive.
const maxDwellPerturbation = math.MaxInt32

// dwellPerturbation draws the extra seconds added to a mandatory hold:
// a log-normal sample with the configured mu and sigma, rounded half to even
// and clamped to [0, maxDwellPerturbation].
func (c *Circuit) dwellPerturbation() int {
	if !c.opts.Sluggishness {
		return 0
	}
	x := math.Exp(c.opts.SluggishnessMu + c.opts.SluggishnessSigma*c.rng.NormFloat64())
	x = math.Min(math.Max(math.RoundToEven(x), 0), maxDwellPerturbation)
	return int(x)
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
