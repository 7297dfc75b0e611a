package simulator

import (
	"math"

	"github.com/okian/campnav/internal/domain/model"
)

// WalkPath returns n coordinates on a loop around center, starting due
// north and walking clockwise.
func WalkPath(center model.Coordinate, n int) []model.Coordinate {
	if n <= 0 {
		return nil
	}
	// Longitude degrees shrink with latitude.
	lonScale := math.Cos(center.Latitude * math.Pi / 180)
	path := make([]model.Coordinate, n)
	for i := range n {
		theta := 2 * math.Pi * float64(i) / float64(n)
		path[i] = model.Coordinate{
			Latitude:  center.Latitude + walkRadiusDegrees*math.Cos(theta),
			Longitude: center.Longitude + walkRadiusDegrees*math.Sin(theta)/lonScale,
		}
	}
	return path
}
