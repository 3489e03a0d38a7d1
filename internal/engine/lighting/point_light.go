package lighting

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MaxPointLights is the maximum number of point lights supported in shaders.
const MaxPointLights = 8

// AmbientLight lights every surface uniformly.
type AmbientLight struct {
	Color     mgl32.Vec3
	Intensity float32
}

// PointLight emits from a position. A Range of zero means no falloff.
type PointLight struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Range     float32
	Intensity float32
}

// NewAmbientLight returns a white ambient light.
func NewAmbientLight(intensity float32) AmbientLight {
	return AmbientLight{Color: mgl32.Vec3{1, 1, 1}, Intensity: intensity}
}

// NewPointLight returns a white point light without falloff.
func NewPointLight(position mgl32.Vec3, intensity float32) PointLight {
	return PointLight{Position: position, Color: mgl32.Vec3{1, 1, 1}, Intensity: intensity}
}

// Radiance returns color scaled by intensity.
func (l AmbientLight) Radiance() mgl32.Vec3 {
	return l.Color.Mul(l.Intensity)
}

// PointLightBuffer holds lights for GPU upload.
type PointLightBuffer struct {
	Lights []PointLight
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Count returns the number of lights.
func (b *PointLightBuffer) Count() int {
	return len(b.Lights)
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
}

// AddLight adds a point light to the buffer.
// Returns false if buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if len(b.Lights) >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	return true
}

// SetLights replaces all lights in the buffer.
// Truncates to MaxPointLights if necessary.
func (b *PointLightBuffer) SetLights(lights []PointLight) {
	b.Clear()
	count := min(len(lights), MaxPointLights)
	b.Lights = append(b.Lights, lights[:count]...)
}

// Positions returns positions as a flat float32 slice for GPU upload.
// Format: [x0, y0, z0, x1, y1, z1, ...]
func (b *PointLightBuffer) Positions() []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		copy(result[i*3:], light.Position[:])
	}
	return result
}

// Colors returns color * intensity * scale as a flat slice for GPU upload.
func (b *PointLightBuffer) Colors(scale float32) []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		c := light.Color.Mul(light.Intensity * scale)
		copy(result[i*3:], c[:])
	}
	return result
}

// Ranges returns ranges as a flat float32 slice for GPU upload.
func (b *PointLightBuffer) Ranges() []float32 {
	result := make([]float32, MaxPointLights)
	for i, light := range b.Lights {
		result[i] = light.Range
	}
	return result
}
