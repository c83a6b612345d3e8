package domain

import "math"

// Vec3 is a point in arena space. Y is the vertical axis.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HorizontalDistance returns the distance to another point ignoring the
// vertical axis. Zone containment is cylindrical, so this is the only
// distance the zone math ever needs.
func (v Vec3) HorizontalDistance(o Vec3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dz*dz)
}
