package lighting

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Environment is a named ambient backdrop: a hemisphere light plus a sky gradient.
type Environment struct {
	Name string

	// Hemisphere lighting, blended by the surface normal's Y.
	Sky       mgl32.Vec3
	Ground    mgl32.Vec3
	Intensity float32

	// Dominant light direction for specular highlights.
	Sun      mgl32.Vec3
	SunColor mgl32.Vec3
}

// Neutral is used when a preset name is unknown.
const Neutral = "neutral"

func rgb(r, g, b uint8) mgl32.Vec3 {
	return mgl32.Vec3{float32(r) / 255, float32(g) / 255, float32(b) / 255}
}

var presets = map[string]Environment{
	"sunset": {
		Sky: rgb(255, 170, 120), Ground: rgb(70, 50, 60), Intensity: 0.6,
		Sun: SunDirection(250, 8), SunColor: rgb(255, 150, 90),
	},
	"dawn": {
		Sky: rgb(200, 190, 230), Ground: rgb(80, 70, 80), Intensity: 0.5,
		Sun: SunDirection(90, 5), SunColor: rgb(255, 200, 170),
	},
	"night": {
		Sky: rgb(40, 50, 90), Ground: rgb(10, 10, 20), Intensity: 0.25,
		Sun: SunDirection(30, 45), SunColor: rgb(150, 170, 255),
	},
	"warehouse": {
		Sky: rgb(230, 220, 200), Ground: rgb(90, 85, 80), Intensity: 0.55,
		Sun: SunDirection(0, 80), SunColor: rgb(255, 240, 220),
	},
	"forest": {
		Sky: rgb(170, 210, 160), Ground: rgb(50, 70, 40), Intensity: 0.5,
		Sun: SunDirection(140, 50), SunColor: rgb(230, 255, 200),
	},
	"apartment": {
		Sky: rgb(240, 225, 205), Ground: rgb(110, 95, 85), Intensity: 0.55,
		Sun: SunDirection(200, 35), SunColor: rgb(255, 235, 210),
	},
	"studio": {
		Sky: rgb(245, 245, 245), Ground: rgb(120, 120, 120), Intensity: 0.6,
		Sun: SunDirection(315, 45), SunColor: rgb(255, 255, 255),
	},
	"city": {
		Sky: rgb(190, 205, 225), Ground: rgb(80, 80, 90), Intensity: 0.55,
		Sun: SunDirection(180, 40), SunColor: rgb(250, 245, 235),
	},
	"park": {
		Sky: rgb(180, 215, 250), Ground: rgb(80, 110, 60), Intensity: 0.6,
		Sun: SunDirection(120, 60), SunColor: rgb(255, 250, 230),
	},
	"lobby": {
		Sky: rgb(235, 215, 185), Ground: rgb(100, 85, 70), Intensity: 0.55,
		Sun: SunDirection(45, 70), SunColor: rgb(255, 230, 200),
	},
	Neutral: {
		Sky: rgb(255, 255, 255), Ground: rgb(128, 128, 128), Intensity: 0.4,
		Sun: SunDirection(0, 90), SunColor: rgb(255, 255, 255),
	},
}

// LookupEnvironment returns the named preset. ok is false for unknown names,
// in which case the neutral preset is returned.
func LookupEnvironment(name string) (Environment, bool) {
	env, ok := presets[name]
	if !ok {
		env = presets[Neutral]
		env.Name = Neutral
		return env, false
	}
	env.Name = name
	return env, true
}

// EnvironmentNames returns the preset names in sorted order, excluding neutral.
func EnvironmentNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		if name != Neutral {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Ambient returns the hemisphere color for a surface normal.
func (e Environment) Ambient(normal mgl32.Vec3) mgl32.Vec3 {
	t := normal.Normalize()[1]*0.5 + 0.5
	return e.Ground.Mul(1 - t).Add(e.Sky.Mul(t)).Mul(e.Intensity)
}
