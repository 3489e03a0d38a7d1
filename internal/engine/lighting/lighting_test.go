package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name      string
		azimuth   float32
		elevation float32
		want      mgl32.Vec3
	}{
		{"zenith", 0, 90, mgl32.Vec3{0, 1, 0}},
		{"front horizon", 0, 0, mgl32.Vec3{0, 0, 1}},
		{"right horizon", 90, 0, mgl32.Vec3{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.azimuth, tt.elevation)
			if !got.ApproxEqualThreshold(tt.want, 1e-5) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLookupEnvironment(t *testing.T) {
	env, ok := LookupEnvironment("sunset")
	if !ok {
		t.Fatal("expected sunset preset")
	}
	if env.Name != "sunset" {
		t.Errorf("expected name sunset, got %q", env.Name)
	}

	env, ok = LookupEnvironment("moonbase")
	if ok {
		t.Error("expected unknown preset to report false")
	}
	if env.Name != Neutral {
		t.Errorf("expected neutral fallback, got %q", env.Name)
	}
}

func TestEnvironmentNames(t *testing.T) {
	names := EnvironmentNames()
	if len(names) != 10 {
		t.Errorf("expected 10 presets, got %d: %v", len(names), names)
	}
	for _, n := range names {
		if n == Neutral {
			t.Error("neutral should not be listed")
		}
	}
}

func TestHemisphereAmbient(t *testing.T) {
	env := Environment{Sky: mgl32.Vec3{1, 1, 1}, Ground: mgl32.Vec3{0, 0, 0}, Intensity: 1}

	if up := env.Ambient(mgl32.Vec3{0, 1, 0}); !up.ApproxEqual(mgl32.Vec3{1, 1, 1}) {
		t.Errorf("expected sky color facing up, got %v", up)
	}
	if down := env.Ambient(mgl32.Vec3{0, -1, 0}); !down.ApproxEqual(mgl32.Vec3{}) {
		t.Errorf("expected ground color facing down, got %v", down)
	}
}

func TestPointLightBuffer(t *testing.T) {
	b := NewPointLightBuffer()
	for i := 0; i < MaxPointLights; i++ {
		if !b.AddLight(NewPointLight(mgl32.Vec3{float32(i), 0, 0}, 1)) {
			t.Fatalf("expected light %d to fit", i)
		}
	}
	if b.AddLight(NewPointLight(mgl32.Vec3{}, 1)) {
		t.Error("expected full buffer to reject a light")
	}

	b.SetLights([]PointLight{NewPointLight(mgl32.Vec3{10, 10, 10}, 2)})
	if b.Count() != 1 {
		t.Fatalf("expected 1 light, got %d", b.Count())
	}

	pos := b.Positions()
	if len(pos) != MaxPointLights*3 || pos[0] != 10 || pos[2] != 10 {
		t.Errorf("unexpected positions %v", pos[:3])
	}
	colors := b.Colors(0.5)
	if colors[0] != 1 {
		t.Errorf("expected scaled color 1, got %v", colors[0])
	}
}
