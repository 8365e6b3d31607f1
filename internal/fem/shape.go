package fem

import "math"

// Local coordinates of the nodes along ksi, etta and psi.
var localCoordinates = [Dimension][Nodes]float64{
	{1, 1, -1, -1, 1, 1, -1, -1},
	{-1, 1, 1, -1, -1, 1, 1, -1},
	{-1, -1, -1, -1, 1, 1, 1, 1},
}

// Point is a position in the local coordinate system.
type Point [Dimension]float64

// LocalCoordinates returns the local position of a node.
func LocalCoordinates(node int) Point {
	return Point{localCoordinates[0][node], localCoordinates[1][node], localCoordinates[2][node]}
}

// QuadraturePoints returns the 2×2×2 Gauss points, one per node octant.
func QuadraturePoints() [Nodes]Point {
	var pts [Nodes]Point
	scale := 1 / math.Sqrt(3)
	for n := 0; n < Nodes; n++ {
		for d := 0; d < Dimension; d++ {
			pts[n][d] = scale * localCoordinates[d][n]
		}
	}
	return pts
}

// ShapeFunction evaluates the trilinear shape function of node at q.
func ShapeFunction(q Point, node int) float64 {
	v := 0.125
	for d := 0; d < Dimension; d++ {
		v *= 1 + localCoordinates[d][node]*q[d]
	}
	return v
}

// ShapeGradient returns the derivatives of the shape function of node at q
// with respect to the physical x, y and z axes.
func (e Element) ShapeGradient(q Point, node int) [Dimension]float64 {
	ksi := localCoordinates[0][node]
	etta := localCoordinates[1][node]
	psi := localCoordinates[2][node]

	fKsi := 1 + ksi*q[0]
	fEtta := 1 + etta*q[1]
	fPsi := 1 + psi*q[2]

	return [Dimension]float64{
		0.25 * ksi / e.Length * fEtta * fPsi,
		0.25 * etta / e.Width * fKsi * fPsi,
		0.25 * psi / e.Height * fKsi * fEtta,
	}
}
