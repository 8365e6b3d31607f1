package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(n int, freq, dt float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = 2e-7 + 1e-7*math.Sin(2*math.Pi*freq*float64(i)*dt)
	}
	return s
}

func TestDominantFrequency(t *testing.T) {
	dt := 1e-6
	// 1000 samples, 5 whole periods of 5 kHz
	f, amp, err := DominantFrequency(sine(1000, 5000, dt), dt)
	require.NoError(t, err)
	assert.InDelta(t, 5000, f, 1e-6)
	assert.InDelta(t, 1e-7*500, amp, 1e-9)
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum([]float64{3, 3, 3, 3, 3, 3, 3, 3})
	require.Len(t, ps, 5)
	for _, v := range ps {
		assert.InDelta(t, 0, v, 1e-12)
	}
	assert.Nil(t, PowerSpectrum(nil))
}

func TestFrequencies(t *testing.T) {
	f := Frequencies(8, 0.5)
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, f)
	assert.Nil(t, Frequencies(8, 0))
}

func TestDominantFrequencyErrors(t *testing.T) {
	_, _, err := DominantFrequency([]float64{1, 2}, 1)
	assert.ErrorIs(t, err, ErrShortSignal)
	_, _, err = DominantFrequency([]float64{1, 2, 3, 4}, 0)
	assert.Error(t, err)
}

func TestPhasePortrait(t *testing.T) {
	p := NewPhasePortrait([]float64{0, 1, 4, 9}, 1)
	require.NotNil(t, p)
	require.Len(t, p.Points, 4)
	assert.Equal(t, Point{0, 1}, p.Points[0])
	assert.Equal(t, Point{1, 2}, p.Points[1])
	assert.Equal(t, Point{4, 4}, p.Points[2])
	assert.Equal(t, Point{9, 5}, p.Points[3])

	assert.Nil(t, NewPhasePortrait([]float64{1}, 1))

	art := PhasePortraitToASCII(p, 20, 8)
	assert.Equal(t, 8, strings.Count(art, "\n"))
	assert.Equal(t, 4, strings.Count(art, "•"))
	assert.Empty(t, PhasePortraitToASCII(nil, 20, 8))

	xs, vs := p.Components()
	assert.Equal(t, []float64{0, 1, 4, 9}, xs)
	assert.Equal(t, []float64{1, 2, 4, 5}, vs)
}
