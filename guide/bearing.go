package guide

import "math"

// Distance calculates Euclidean distance between two points.
func Distance(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// NormalizeAngle normalizes an angle in degrees to the range [0, 360).
func NormalizeAngle(degrees float64) float64 {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	return degrees
}

// Bearing returns the compass bearing from p1 to p2 in degrees, where
// 0 = north (+y) and angles grow clockwise. A zero-length vector yields 0
// rather than NaN so degenerate segments stay stable downstream.
func Bearing(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	if dx == 0 && dy == 0 {
		return 0
	}
	return NormalizeAngle(math.Atan2(dx, dy) * 180 / math.Pi)
}

var cardinalNames = [8]string{"north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest"}

// Cardinal snaps a bearing to the nearest of the 8 compass points.
func Cardinal(bearing float64) string {
	idx := int(math.Round(NormalizeAngle(bearing)/45.0)) % 8
	return cardinalNames[idx]
}

// TurnBetween classifies the turn needed to go from a facing angle to a
// target bearing. The delta is shifted into (-180, 180]; the thresholds are
// coarse on purpose so catalog and sensor imprecision does not flip the
// spoken direction:
//
//	|d| <= 10           straight
//	 10 < d <= 100      right
//	100 < d <= 170      sharp_right
//	|d| > 170           turn_around
//	-100 <= d < -10     left
//	-170 <= d < -100    sharp_left
func TurnBetween(facing, target float64) TurnDirection {
	d := math.Mod(target-facing, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}

	switch {
	case math.Abs(d) <= 10:
		return TurnStraight
	case d > 10 && d <= 100:
		return TurnRight
	case d > 100 && d <= 170:
		return TurnSharpRight
	case d < -10 && d >= -100:
		return TurnLeft
	case d < -100 && d >= -170:
		return TurnSharpLeft
	default:
		return TurnAround
	}
}
