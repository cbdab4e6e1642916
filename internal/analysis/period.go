package analysis

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// ErrTooFewCycles is returned when the samples hold less than two full
// cycles, or no oscillation at all.
var ErrTooFewCycles = errors.New("analysis: fewer than two cycles sampled")

// Period estimates the dominant period of a signal sampled every dt
// seconds. The signal is Hann-windowed, the peak of its magnitude
// spectrum is located, and the peak bin is refined with a parabola
// through its neighbours.
func Period(samples []float64, dt float64) (float64, error) {
	n := len(samples)
	if n < 4 {
		return 0, fmt.Errorf("%w: need at least 4 samples, got %d", dynamo.ErrParameterBounds, n)
	}
	if !(dt > 0) {
		return 0, fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrParameterBounds, dt)
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	x := make([]float64, n)
	for i, v := range samples {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	spectrum := fft.FFTReal(x)
	mag := func(k int) float64 { return cmplx.Abs(spectrum[k]) }

	half := n / 2
	peak := 1
	for k := 2; k <= half; k++ {
		if mag(k) > mag(peak) {
			peak = k
		}
	}
	if peak < 2 || mag(peak) == 0 {
		return 0, ErrTooFewCycles
	}

	k := float64(peak)
	if peak < half {
		a, b, c := mag(peak-1), mag(peak), mag(peak+1)
		if d := a - 2*b + c; d != 0 {
			k += 0.5 * (a - c) / d
		}
	}
	return float64(n) * dt / k, nil
}
