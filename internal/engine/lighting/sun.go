// Package lighting provides the light rig and environment presets for the viewer.
package lighting

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts azimuth and elevation in degrees to a unit vector pointing at the sun.
// Azimuth rotates around Y from +Z, elevation is measured from the horizon.
func SunDirection(azimuth, elevation float32) mgl32.Vec3 {
	az := mgl32.DegToRad(azimuth)
	el := mgl32.DegToRad(elevation)

	return mgl32.Vec3{
		math32.Cos(el) * math32.Sin(az),
		math32.Sin(el),
		math32.Cos(el) * math32.Cos(az),
	}
}
