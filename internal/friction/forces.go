package friction

import (
	"log/slog"
	"math"

	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
	"github.com/RomanSalimgareev/friction-problem/internal/symmetry"
)

// Eps is the speed below which the element counts as at rest.
const Eps = 1e-4

// frictionWeights distribute the friction force over symmetry.Active.
// The first active node lies on both symmetry planes and carries none;
// the last one carries the share of two wall contacts.
var frictionWeights = []float64{0, 1, 1, 2}

func activeCount() float64 { return float64(len(symmetry.Active)) }

func skipped(op string, idx, size int) {
	slog.Warn("friction: index out of range, skipped", "op", op, "index", idx, "size", size)
}

// NodeLoad splits a total drive amplitude between the active nodes.
func NodeLoad(amplitude float64) float64 { return amplitude / activeCount() }

// Drive is the drive force per node at time t.
func Drive(nodeLoad, frequency, t float64) float64 {
	return nodeLoad * math.Cos(frequency*t)
}

// AverageSpeed is the mean speed over the active DOF.
func AverageSpeed(speed linalg.Vector) float64 {
	sum := 0.0
	for _, idx := range symmetry.Active {
		if idx >= len(speed) {
			skipped("average speed", idx, len(speed))
			continue
		}
		sum += speed[idx]
	}
	return sum / activeCount()
}

// Coefficient selects the rest coefficient below Eps and the sliding one
// otherwise.
func Coefficient(rest, sliding, averageSpeed float64) float64 {
	if math.Abs(averageSpeed) < Eps {
		return rest
	}
	return sliding
}

// ElasticForce is the restoring force -Σ K_i·x over the active rows. It
// only steers the friction direction and the stick decision; the stiffness
// itself acts through the implicit coefficient matrix.
func ElasticForce(x linalg.Vector, k *linalg.Matrix) float64 {
	sum := 0.0
	for _, idx := range symmetry.Active {
		row, err := k.Row(idx)
		if err != nil || len(row) != len(x) {
			skipped("elastic force", idx, k.Rows())
			continue
		}
		d, _ := linalg.Dot(row, x)
		sum -= d
	}
	return sum
}

func signOpposing(driving, averageSpeed float64) float64 {
	rest := math.Abs(averageSpeed) <= Eps
	switch {
	case averageSpeed > Eps || (rest && driving > 0):
		return -1
	case averageSpeed < -Eps || (rest && driving < 0):
		return 1
	}
	return 0
}

// SignFree is the direction of friction without drive: against the motion,
// or against the elastic force while at rest.
func SignFree(elastic, averageSpeed float64) float64 {
	return signOpposing(elastic, averageSpeed)
}

// SignDriven is the direction of friction under a drive force of drive per
// node.
func SignDriven(elastic, averageSpeed, drive float64) float64 {
	return signOpposing(activeCount()*drive+elastic, averageSpeed)
}

// FrictionSum is the total dry friction force over the active DOF.
func FrictionSum(sign, coefficient, normalReaction float64) float64 {
	sum := 0.0
	for _, w := range frictionWeights {
		sum += w * sign * coefficient * normalReaction
	}
	return sum
}

// ApplyNormalReaction loads the wall DOF with the normal reaction.
func ApplyNormalReaction(force linalg.Vector, normalReaction float64) {
	for _, idx := range symmetry.NormalReaction {
		if idx >= len(force) {
			skipped("normal reaction", idx, len(force))
			continue
		}
		force[idx] -= normalReaction
	}
}

// ApplyDry distributes the friction sum over the active DOF.
func ApplyDry(force linalg.Vector, frictionSum float64) {
	applyActive(force, "dry friction", func(i int) float64 {
		return frictionWeights[i] * frictionSum / activeCount()
	})
}

// ApplyDriven distributes the friction sum and adds the drive force to
// every active DOF.
func ApplyDriven(force linalg.Vector, frictionSum, drive float64) {
	applyActive(force, "driven friction", func(i int) float64 {
		return frictionWeights[i]*frictionSum/activeCount() + drive
	})
}

// ApplyViscousDrive adds the drive force to every active DOF.
func ApplyViscousDrive(force linalg.Vector, drive float64) {
	applyActive(force, "viscous drive", func(int) float64 { return drive })
}

func applyActive(force linalg.Vector, op string, value func(i int) float64) {
	for i, idx := range symmetry.Active {
		if idx >= len(force) {
			skipped(op, idx, len(force))
			continue
		}
		force[idx] += value(i)
	}
}

// Resultant is the sum of the load over the active DOF.
func Resultant(force linalg.Vector) float64 {
	sum := 0.0
	for _, idx := range symmetry.Active {
		if idx >= len(force) {
			skipped("resultant", idx, len(force))
			continue
		}
		sum += force[idx]
	}
	return sum
}
