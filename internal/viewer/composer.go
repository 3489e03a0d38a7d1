package viewer

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/objviewer/internal/config"
	"github.com/Faultbox/objviewer/internal/engine/camera"
	"github.com/Faultbox/objviewer/internal/engine/lighting"
	"github.com/Faultbox/objviewer/internal/engine/renderer"
	"github.com/Faultbox/objviewer/internal/engine/scene"
	"github.com/Faultbox/objviewer/internal/logger"
)

// CameraHandle is what the shell may do with the camera.
type CameraHandle interface {
	Reset()
	DollyIn(scale float32)
	DollyOut(scale float32)
	Position() mgl32.Vec3
}

// Scene is the composed camera, controls, light rig and environment.
type Scene struct {
	Camera      *camera.PerspectiveCamera
	Controls    *camera.OrbitControls
	Ambient     lighting.AmbientLight
	Lights      *lighting.PointLightBuffer
	Environment lighting.Environment

	baseAmbient float32
	lightScale  float32
}

// Compose builds the scene from cfg and returns it with the camera handle
// the shell uses for reset and zoom.
func Compose(cfg config.SceneConfig) (*Scene, CameraHandle) {
	pos := mgl32.Vec3(cfg.CameraPosition)
	cam := camera.NewPerspectiveCamera(pos, cfg.FOV, cfg.Near, cfg.Far)

	controls := camera.NewOrbitControls(cam)
	controls.EnableDamping = cfg.EnableDamping
	controls.DampingFactor = cfg.DampingFactor
	controls.MinDistance = cfg.MinDistance
	if cfg.MaxDistance > 0 {
		controls.MaxDistance = cfg.MaxDistance
	}

	lights := lighting.NewPointLightBuffer()
	lights.AddLight(lighting.NewPointLight(mgl32.Vec3(cfg.PointLight), cfg.PointIntensity))

	env, ok := lighting.LookupEnvironment(cfg.Environment)
	if !ok {
		logger.Warn("unknown environment preset, using neutral",
			zap.String("preset", cfg.Environment))
	}

	s := &Scene{
		Camera:      cam,
		Controls:    controls,
		Ambient:     lighting.NewAmbientLight(cfg.AmbientIntensity),
		Lights:      lights,
		Environment: env,
		baseAmbient: cfg.AmbientIntensity,
		lightScale:  1,
	}
	return s, controls
}

// ApplyIntensity scales the light rig by the viewer's light intensity.
// The default intensity reproduces the configured rig exactly.
func (s *Scene) ApplyIntensity(intensity float32) {
	factor := intensity / DefaultLightIntensity
	s.Ambient.Intensity = s.baseAmbient * factor
	s.lightScale = factor
}

// LightScale is the current point light multiplier.
func (s *Scene) LightScale() float32 {
	return s.lightScale
}

// SetViewport updates the aspect ratio and the drag-to-angle scale.
func (s *Scene) SetViewport(width, height int) {
	s.Camera.SetViewport(width, height)
	if height > 0 {
		s.Controls.ViewportHeight = float32(height)
	}
}

// Frame assembles the renderer input for root.
func (s *Scene) Frame(root *scene.Node, background mgl32.Vec4) renderer.Frame {
	return renderer.Frame{
		Root:        root,
		Camera:      s.Camera,
		Ambient:     s.Ambient,
		Lights:      s.Lights,
		LightScale:  s.lightScale,
		Environment: s.Environment,
		Background:  background,
	}
}

// Pointer is the viewport mouse input of one frame.
type Pointer struct {
	RotateX, RotateY float32 // left drag, pixels
	PanX, PanY       float32 // right or middle drag, pixels
	Wheel            float32 // positive scrolls up
}

// Handle feeds pointer input to the orbit controls.
func (s *Scene) Handle(p Pointer) {
	if p.RotateX != 0 || p.RotateY != 0 {
		s.Controls.Rotate(p.RotateX, p.RotateY)
	}
	if p.PanX != 0 || p.PanY != 0 {
		s.Controls.Pan(p.PanX, p.PanY)
	}
	if p.Wheel != 0 {
		s.Controls.Zoom(p.Wheel)
	}
}

// Update steps the controls. It reports whether the camera moved.
func (s *Scene) Update() bool {
	return s.Controls.Update()
}
