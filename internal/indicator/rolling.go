package indicator

import (
	"math"

	"github.com/moznion/go-optional"
)

// Rolling window kernels shared by the indicators. All of them map a float
// column to an equally long optional series where the first window-1
// positions are None.

func rollingMean(values []float64, window int) []optional.Option[float64] {
	out := noneSeries(len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}

		if i >= window-1 {
			out[i] = optional.Some(sum / float64(window))
		}
	}

	return out
}

// rollingStdDev computes the sample standard deviation (n-1 denominator,
// matching pandas' rolling std) over a trailing window.
func rollingStdDev(values []float64, window int) []optional.Option[float64] {
	out := noneSeries(len(values))
	if window <= 1 || len(values) < window {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		mean := 0.0
		for j := i - window + 1; j <= i; j++ {
			mean += values[j]
		}

		mean /= float64(window)

		variance := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			variance += d * d
		}

		out[i] = optional.Some(math.Sqrt(variance / float64(window-1)))
	}

	return out
}

func rollingMax(values []float64, window int) []optional.Option[float64] {
	return rollingExtreme(values, window, func(a, b float64) float64 { return math.Max(a, b) })
}

func rollingMin(values []float64, window int) []optional.Option[float64] {
	return rollingExtreme(values, window, func(a, b float64) float64 { return math.Min(a, b) })
}

func rollingExtreme(values []float64, window int, pick func(a, b float64) float64) []optional.Option[float64] {
	out := noneSeries(len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		extreme := values[i-window+1]
		for j := i - window + 2; j <= i; j++ {
			extreme = pick(extreme, values[j])
		}

		out[i] = optional.Some(extreme)
	}

	return out
}

// rollingMeanOptional averages a trailing window over an already-optional
// series; a position is defined only when the whole window is defined.
func rollingMeanOptional(values []optional.Option[float64], window int) []optional.Option[float64] {
	out := noneSeries(len(values))
	if window <= 0 || len(values) < window {
		return out
	}

	for i := window - 1; i < len(values); i++ {
		sum := 0.0
		defined := true

		for j := i - window + 1; j <= i; j++ {
			v, ok := values[j].Take()
			if ok != nil {
				defined = false

				break
			}

			sum += v
		}

		if defined {
			out[i] = optional.Some(sum / float64(window))
		}
	}

	return out
}

// emaOptional computes an exponential moving average over a series whose
// leading positions may be None. The first defined output sits one full
// window after the first defined input and is seeded with the simple average
// of that window; after the seed the recursion v*alpha + prev*(1-alpha) runs
// with alpha = 2/(window+1).
func emaOptional(values []optional.Option[float64], window int) []optional.Option[float64] {
	out := noneSeries(len(values))
	if window <= 0 {
		return out
	}

	first := firstDefined(values)
	if first < 0 || first+window > len(values) {
		return out
	}

	seed := 0.0
	for i := first; i < first+window; i++ {
		v, err := values[i].Take()
		if err != nil {
			// Defined prefix is not contiguous; nothing computable.
			return out
		}

		seed += v
	}

	seed /= float64(window)
	alpha := 2.0 / float64(window+1)

	ema := seed
	out[first+window-1] = optional.Some(ema)

	for i := first + window; i < len(values); i++ {
		v, err := values[i].Take()
		if err != nil {
			return out
		}

		ema = v*alpha + ema*(1-alpha)
		out[i] = optional.Some(ema)
	}

	return out
}

func firstDefined(values []optional.Option[float64]) int {
	for i, v := range values {
		if v.IsSome() {
			return i
		}
	}

	return -1
}

func noneSeries(length int) []optional.Option[float64] {
	out := make([]optional.Option[float64], length)
	for i := range out {
		out[i] = optional.None[float64]()
	}

	return out
}

func someSeries(values []float64) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(values))
	for i, v := range values {
		out[i] = optional.Some(v)
	}

	return out
}
