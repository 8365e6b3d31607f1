package analysis

import (
	"errors"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrShortSignal is returned for signals too short to analyse.
var ErrShortSignal = errors.New("analysis: signal needs at least 4 samples")

// PowerSpectrum returns the amplitude of the n/2+1 non-negative frequency
// bins of signal. The mean is removed first so bin 0 does not dominate.
func PowerSpectrum(signal []float64) []float64 {
	n := len(signal)
	if n == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range signal {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range signal {
		centered[i] = v - mean
	}

	coeff := fourier.NewFFT(n).Coefficients(nil, centered)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// Frequencies returns the frequency in Hz of each PowerSpectrum bin for a
// signal of n samples taken dt apart.
func Frequencies(n int, dt float64) []float64 {
	if n == 0 || dt <= 0 {
		return nil
	}
	fft := fourier.NewFFT(n)
	out := make([]float64, n/2+1)
	for i := range out {
		out[i] = fft.Freq(i) / dt
	}
	return out
}

// DominantFrequency returns the frequency in Hz of the strongest non-zero
// bin and its amplitude.
func DominantFrequency(signal []float64, dt float64) (freq, amplitude float64, err error) {
	if len(signal) < 4 {
		return 0, 0, ErrShortSignal
	}
	if dt <= 0 {
		return 0, 0, errors.New("analysis: sample interval must be positive")
	}
	ps := PowerSpectrum(signal)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return Frequencies(len(signal), dt)[best], ps[best], nil
}
