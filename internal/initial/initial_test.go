package initial

import (
	"math"
	"testing"

	"github.com/RomanSalimgareev/friction-problem/internal/fem"
	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
	"github.com/RomanSalimgareev/friction-problem/internal/symmetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinematic(t *testing.T) {
	v := Kinematic(symmetry.FullDOF, 0.5)
	require.Len(t, v, symmetry.FullDOF)

	initial := map[int]bool{}
	for _, idx := range symmetry.Initial {
		initial[idx] = true
	}
	for i, x := range v {
		if initial[i] {
			assert.Equal(t, 0.5, x)
		} else {
			assert.Zero(t, x)
		}
	}

	assert.Equal(t, make(linalg.Vector, 6), Kinematic(6, 0))
}

func TestStaticLoad(t *testing.T) {
	f := StaticLoad(symmetry.FullDOF, 1000)
	sum := 0.0
	for _, x := range f {
		sum += x
	}
	assert.InDelta(t, 1000, sum, 1e-12)
	assert.Equal(t, 250.0, f[15])
}

func TestDisplacements(t *testing.T) {
	k, err := fem.Stiffness(fem.DefaultElement())
	require.NoError(t, err)
	orig := k.Clone()

	x, err := Displacements(k, 1000)
	require.NoError(t, err)
	require.Len(t, x, symmetry.FullDOF)

	assert.True(t, linalg.Equal(orig, k, 0), "stiffness must not be modified")

	for _, idx := range symmetry.Initial {
		assert.Greater(t, x[idx], 0.0, "loaded DOF %d should move with the load", idx)
		assert.Less(t, x[idx], 1e-3)
	}
	for _, idx := range symmetry.Conditions {
		assert.Less(t, math.Abs(x[idx]), 1e-9, "constrained DOF %d should barely move", idx)
	}

	zero, err := Displacements(k, 0)
	require.NoError(t, err)
	assert.Zero(t, zero.MaxAbs())
}

func TestBuild(t *testing.T) {
	k, err := fem.Stiffness(fem.DefaultElement())
	require.NoError(t, err)

	s, err := Build(k, Conditions{Speed: 0.1})
	require.NoError(t, err)
	assert.Zero(t, s.Displacement.MaxAbs())
	assert.Equal(t, 0.1, s.Speed[0])
	assert.False(t, s.AccelerationNonZero())

	s, err = Build(k, Conditions{Acceleration: 2, FromStatic: true, StaticForce: 500})
	require.NoError(t, err)
	assert.True(t, s.AccelerationNonZero())
	assert.Greater(t, s.Displacement.MaxAbs(), 0.0)
}

func TestDisplacementsNotPositiveDefinite(t *testing.T) {
	k := linalg.Identity(symmetry.FullDOF)
	k.Set(0, 0, -1)
	_, err := Displacements(k, 10)
	assert.ErrorIs(t, err, linalg.ErrNotPositiveDefinite)
}
