package friction

import (
	"testing"

	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
	"github.com/RomanSalimgareev/friction-problem/internal/symmetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepInput struct {
	force linalg.Vector
	x     linalg.Vector
	v     linalg.Vector
	k     *linalg.Matrix
}

func newInput() stepInput {
	return stepInput{
		force: make(linalg.Vector, symmetry.ReducedDOF),
		x:     make(linalg.Vector, symmetry.ReducedDOF),
		v:     make(linalg.Vector, symmetry.ReducedDOF),
		k:     linalg.Identity(symmetry.ReducedDOF),
	}
}

func newModel(t *testing.T, p Params, accel bool) *Model {
	t.Helper()
	m, err := NewModel(p, accel)
	require.NoError(t, err)
	return m
}

func TestModelFreeSticksAtRest(t *testing.T) {
	in := newInput()
	m := newModel(t, DefaultParams(DryFree), false)

	d := m.Assemble(in.force, in.x, in.v, in.k, 0)
	assert.True(t, d.Stick)
	assert.Zero(t, d.Elastic)
	for _, idx := range symmetry.NormalReaction {
		assert.Equal(t, -NormalReactionFree, in.force[idx])
	}
}

func TestModelFreeSlidesWhenElasticWins(t *testing.T) {
	in := newInput()
	in.x[0] = 1
	p := DefaultParams(DryFree)
	p.RestCoefficient = 1e-4
	m := newModel(t, p, false)

	d := m.Assemble(in.force, in.x, in.v, in.k, 0)
	assert.False(t, d.Stick)
	assert.Equal(t, -1.0, d.Elastic)
	assert.Equal(t, 1.0, d.Sign)
	assert.InDelta(t, 4*1e-4*NormalReactionFree, d.Friction, 1e-12)
	assert.Zero(t, in.force[0], "elastic force is not part of the load")
	assert.InDelta(t, 1e-4*NormalReactionFree, in.force[1], 1e-12)
}

func TestModelFreeHeldByStaticFriction(t *testing.T) {
	in := newInput()
	in.x[0] = 1
	p := DefaultParams(DryFree)
	p.RestCoefficient = 0.01
	m := newModel(t, p, false)

	d := m.Assemble(in.force, in.x, in.v, in.k, 0)
	assert.True(t, d.Stick, "friction %f should hold elastic %f", d.Friction, d.Elastic)
}

func TestModelFreeNeedsTwoSlowSteps(t *testing.T) {
	in := newInput()
	m := newModel(t, DefaultParams(DryFree), false)

	in.v[0] = 1
	d := m.Assemble(in.force, in.x, in.v, in.k, 0)
	assert.False(t, d.Stick)

	in.v[0] = 0
	d = m.Assemble(in.force, in.x, in.v, in.k, 0)
	assert.False(t, d.Stick, "previous step was still moving")

	d = m.Assemble(in.force, in.x, in.v, in.k, 0)
	assert.True(t, d.Stick)
}

func TestModelInitialAccelerationPreventsFirstStick(t *testing.T) {
	in := newInput()
	m := newModel(t, DefaultParams(DryFree), true)

	assert.False(t, m.Assemble(in.force, in.x, in.v, in.k, 0).Stick)
	assert.True(t, m.Assemble(in.force, in.x, in.v, in.k, 0).Stick)
}

func TestModelDriven(t *testing.T) {
	in := newInput()
	p := DefaultParams(DryDriven)
	p.RestCoefficient = 0.3
	m := newModel(t, p, false)

	d := m.Assemble(in.force, in.x, in.v, in.k, 0)
	assert.Equal(t, 75.0, d.Drive)
	assert.Equal(t, -1.0, d.Sign)
	assert.InDelta(t, -120.0, d.Friction, 1e-12)
	assert.False(t, d.Stick, "drive of 300 beats friction of 120")
	assert.Equal(t, 75.0, in.force[0])
	assert.InDelta(t, 75-30, in.force[1], 1e-12)

	p.RestCoefficient = 1
	m = newModel(t, p, false)
	d = m.Assemble(in.force, in.x, in.v, in.k, 0)
	assert.True(t, d.Stick, "friction of 400 holds drive of 300")
}

func TestModelDrivenNeedsThreeSlowSteps(t *testing.T) {
	in := newInput()
	p := DefaultParams(DryDriven)
	p.RestCoefficient = 1
	m := newModel(t, p, false)

	in.v[0] = 1
	m.Assemble(in.force, in.x, in.v, in.k, 0)
	in.v[0] = 0
	assert.False(t, m.Assemble(in.force, in.x, in.v, in.k, 0).Stick)
	assert.False(t, m.Assemble(in.force, in.x, in.v, in.k, 0).Stick)
	assert.True(t, m.Assemble(in.force, in.x, in.v, in.k, 0).Stick)
}

func TestModelViscous(t *testing.T) {
	in := newInput()
	p := DefaultParams(Viscous)
	p.ViscousCoefficient = 50
	m := newModel(t, p, true)
	assert.Equal(t, 50.0, m.Damping())

	for i := 0; i < 3; i++ {
		d := m.Assemble(in.force, in.x, in.v, in.k, 0)
		assert.False(t, d.Stick)
	}
	for _, idx := range symmetry.Active {
		assert.Equal(t, 55.0, in.force[idx])
	}
	for _, idx := range symmetry.NormalReaction {
		assert.Zero(t, in.force[idx])
	}

	dry := newModel(t, DefaultParams(DryFree), false)
	assert.Zero(t, dry.Damping())
}

func TestModelRejectsInvalidParams(t *testing.T) {
	_, err := NewModel(Params{}, false)
	assert.Error(t, err)
}
