package friction

import "math"

// LowSpeed reports whether every given average speed is at rest.
func LowSpeed(averageSpeeds ...float64) bool {
	for _, v := range averageSpeeds {
		if math.Abs(v) > Eps {
			return false
		}
	}
	return true
}

// LowDriveElastic reports whether friction holds the combined drive and
// elastic force.
func LowDriveElastic(elastic, drive, friction float64) bool {
	diff := math.Abs(activeCount()*drive+elastic) - math.Abs(friction)
	return diff < 0 || math.Abs(diff) <= Eps
}

// LowDrive reports whether the drive force is held by elastic force and
// friction acting together.
func LowDrive(elastic, drive, friction, sign float64) bool {
	total := activeCount() * drive
	return math.Abs(total)-math.Abs(elastic+friction) < 0 &&
		elastic*sign >= 0 &&
		math.Abs(elastic) < math.Abs(total)
}

// LowElastic reports whether the elastic force is held by drive force and
// friction acting together.
func LowElastic(elastic, drive, friction, sign float64) bool {
	total := activeCount() * drive
	return math.Abs(elastic)-math.Abs(total+friction) < 0 &&
		drive*sign >= 0 &&
		math.Abs(total) < math.Abs(elastic)
}

// OneWay reports whether drive and elastic force point the same way.
func OneWay(elastic, drive float64) bool { return drive*elastic >= 0 }
