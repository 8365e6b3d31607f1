package fem

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultElementValid(t *testing.T) {
	if err := DefaultElement().Validate(); err != nil {
		t.Fatalf("default element invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(e *Element)
		property string
	}{
		{"soft modulus", func(e *Element) { e.ModulusElastic = 40e9 }, PropModulusElastic},
		{"incompressible", func(e *Element) { e.PoissonRatio = 0.5 }, PropPoissonRatio},
		{"zero poisson", func(e *Element) { e.PoissonRatio = 0 }, PropPoissonRatio},
		{"light", func(e *Element) { e.Density = 1000 }, PropDensity},
		{"heavy", func(e *Element) { e.Density = 20000 }, PropDensity},
		{"thin", func(e *Element) { e.Height = 1e-4 }, PropHeight},
		{"negative length", func(e *Element) { e.Length = -0.1 }, PropLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := DefaultElement()
			tt.mutate(&e)
			err := e.Validate()
			if !errors.Is(err, ErrInvalidMaterial) {
				t.Fatalf("expected ErrInvalidMaterial, got %v", err)
			}
			var pe *PropertyError
			if !errors.As(err, &pe) {
				t.Fatalf("expected PropertyError, got %T", err)
			}
			if pe.Property != tt.property {
				t.Errorf("expected property %s, got %s", tt.property, pe.Property)
			}
		})
	}
}

func TestValidatePropertyBounds(t *testing.T) {
	if err := ValidateProperty(PropDensity, MinDensity); err != nil {
		t.Errorf("lower density bound should be accepted: %v", err)
	}
	if err := ValidateProperty(PropDensity, MaxDensity); err != nil {
		t.Errorf("upper density bound should be accepted: %v", err)
	}
	if err := ValidateProperty(PropModulusElastic, MinModulusElastic); err != nil {
		t.Errorf("modulus bound should be accepted: %v", err)
	}
	if err := ValidateProperty("color", 1); err == nil {
		t.Error("expected error for unknown property")
	}
}

func TestShapeFunctionKronecker(t *testing.T) {
	for i := 0; i < Nodes; i++ {
		p := LocalCoordinates(i)
		for j := 0; j < Nodes; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if got := ShapeFunction(p, j); math.Abs(got-want) > 1e-15 {
				t.Errorf("N%d at node %d = %f, want %f", j, i, got, want)
			}
		}
	}
}

func TestShapeFunctionPartitionOfUnity(t *testing.T) {
	e := DefaultElement()
	for qi, q := range QuadraturePoints() {
		sum := 0.0
		var grad [Dimension]float64
		for n := 0; n < Nodes; n++ {
			sum += ShapeFunction(q, n)
			g := e.ShapeGradient(q, n)
			for d := range grad {
				grad[d] += g[d]
			}
		}
		if math.Abs(sum-1) > 1e-14 {
			t.Errorf("point %d: shape functions sum to %f", qi, sum)
		}
		for d, g := range grad {
			if math.Abs(g) > 1e-12 {
				t.Errorf("point %d: gradient %d sums to %e", qi, d, g)
			}
		}
	}
}

func TestQuadraturePoints(t *testing.T) {
	pts := QuadraturePoints()
	want := 1 / math.Sqrt(3)
	for _, p := range pts {
		for _, c := range p {
			if math.Abs(math.Abs(c)-want) > 1e-15 {
				t.Fatalf("unexpected quadrature coordinate %f", c)
			}
		}
	}
}

func TestElasticConstants(t *testing.T) {
	e := Element{ModulusElastic: 1, PoissonRatio: 0.25}
	d, err := ElasticConstants(e)
	if err != nil {
		t.Fatal(err)
	}
	checks := []struct {
		i, j int
		want float64
	}{
		{0, 0, 1.2}, {1, 1, 1.2}, {2, 2, 1.2},
		{0, 1, 0.4}, {1, 2, 0.4}, {2, 0, 0.4},
		{3, 3, 0.4}, {4, 4, 0.4}, {5, 5, 0.4},
		{0, 3, 0}, {3, 4, 0},
	}
	for _, c := range checks {
		if got := d.At(c.i, c.j); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("D[%d][%d] = %f, want %f", c.i, c.j, got, c.want)
		}
	}

	e.PoissonRatio = 0.5
	if _, err := ElasticConstants(e); !errors.Is(err, ErrInvalidMaterial) {
		t.Errorf("expected ErrInvalidMaterial, got %v", err)
	}
}
