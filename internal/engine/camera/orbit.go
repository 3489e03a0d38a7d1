package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-6

// Spherical is a Y-up spherical coordinate. Phi is the polar angle from +Y,
// Theta the azimuth around Y measured from +Z.
type Spherical struct {
	Radius float32
	Phi    float32
	Theta  float32
}

// SphericalFromVector converts an offset to spherical coordinates.
func SphericalFromVector(v mgl32.Vec3) Spherical {
	r := v.Len()
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius: r,
		Theta:  math32.Atan2(v[0], v[2]),
		Phi:    math32.Acos(mgl32.Clamp(v[1]/r, -1, 1)),
	}
}

// Vector converts back to a cartesian offset.
func (s Spherical) Vector() mgl32.Vec3 {
	sinPhi := math32.Sin(s.Phi) * s.Radius
	return mgl32.Vec3{
		sinPhi * math32.Sin(s.Theta),
		math32.Cos(s.Phi) * s.Radius,
		sinPhi * math32.Cos(s.Theta),
	}
}

// OrbitControls rotates, dollies and pans a camera around a target.
// Input accumulates deltas; Update applies them once per frame. With damping
// the deltas decay by (1 - DampingFactor) per update instead of stopping.
type OrbitControls struct {
	Camera *PerspectiveCamera

	EnableDamping bool
	DampingFactor float32

	RotateSpeed float32
	ZoomSpeed   float32
	PanSpeed    float32

	MinDistance float32
	MaxDistance float32

	// Viewport height in pixels, used to convert drags to angles.
	ViewportHeight float32

	delta     Spherical
	scale     float32
	panOffset mgl32.Vec3

	homePosition mgl32.Vec3
	homeTarget   mgl32.Vec3
}

// NewOrbitControls attaches controls to cam and records its current pose as home.
func NewOrbitControls(cam *PerspectiveCamera) *OrbitControls {
	c := &OrbitControls{
		Camera:         cam,
		DampingFactor:  0.05,
		RotateSpeed:    1,
		ZoomSpeed:      1,
		PanSpeed:       1,
		MinDistance:    0,
		MaxDistance:    math32.Inf(1),
		ViewportHeight: 720,
		scale:          1,
	}
	c.SaveState()
	return c
}

// SaveState records the current camera pose as the Reset target.
func (c *OrbitControls) SaveState() {
	c.homePosition = c.Camera.Position
	c.homeTarget = c.Camera.Target
}

// Reset restores the saved pose and discards pending motion.
func (c *OrbitControls) Reset() {
	c.Camera.Position = c.homePosition
	c.Camera.Target = c.homeTarget
	c.delta = Spherical{}
	c.panOffset = mgl32.Vec3{}
	c.scale = 1
}

// Position returns the current camera position.
func (c *OrbitControls) Position() mgl32.Vec3 {
	return c.Camera.Position
}

// Target returns the orbit center.
func (c *OrbitControls) Target() mgl32.Vec3 {
	return c.Camera.Target
}

// Focus moves the orbit center to point, keeping the camera's offset from it.
func (c *OrbitControls) Focus(point mgl32.Vec3) {
	shift := point.Sub(c.Camera.Target)
	c.Camera.Target = point
	c.Camera.Position = c.Camera.Position.Add(shift)
	c.panOffset = mgl32.Vec3{}
}

// Distance returns the camera distance from the target.
func (c *OrbitControls) Distance() float32 {
	return c.Camera.Position.Sub(c.Camera.Target).Len()
}

// Rotate converts a drag in pixels into pending azimuth and polar deltas.
func (c *OrbitControls) Rotate(dx, dy float32) {
	h := c.ViewportHeight
	if h <= 0 {
		h = 1
	}
	c.RotateLeft(2 * math32.Pi * dx / h * c.RotateSpeed)
	c.RotateUp(2 * math32.Pi * dy / h * c.RotateSpeed)
}

// RotateLeft adds an azimuth delta in radians.
func (c *OrbitControls) RotateLeft(angle float32) {
	c.delta.Theta -= angle
}

// RotateUp adds a polar delta in radians.
func (c *OrbitControls) RotateUp(angle float32) {
	c.delta.Phi -= angle
}

// DollyIn moves the camera toward the target; scale is in (0,1).
func (c *OrbitControls) DollyIn(scale float32) {
	if scale <= 0 {
		return
	}
	c.scale *= scale
}

// DollyOut moves the camera away from the target; scale is in (0,1).
func (c *OrbitControls) DollyOut(scale float32) {
	if scale <= 0 {
		return
	}
	c.scale /= scale
}

// Zoom handles a scroll wheel delta; positive scrolls in.
func (c *OrbitControls) Zoom(wheel float32) {
	if wheel == 0 {
		return
	}
	step := math32.Pow(0.95, c.ZoomSpeed*math32.Abs(wheel))
	if wheel > 0 {
		c.DollyIn(step)
	} else {
		c.DollyOut(step)
	}
}

// Pan converts a drag in pixels into a target offset in the camera plane.
func (c *OrbitControls) Pan(dx, dy float32) {
	h := c.ViewportHeight
	if h <= 0 {
		h = 1
	}
	targetDistance := c.Distance() * math32.Tan(mgl32.DegToRad(c.Camera.FOV)/2)
	right, up := c.Camera.Basis()

	left := right.Mul(-2 * dx * targetDistance / h * c.PanSpeed)
	upward := up.Mul(2 * dy * targetDistance / h * c.PanSpeed)
	c.panOffset = c.panOffset.Add(left).Add(upward)
}

// Update applies pending motion to the camera. It reports whether the camera moved.
func (c *OrbitControls) Update() bool {
	cam := c.Camera
	offset := cam.Position.Sub(cam.Target)
	s := SphericalFromVector(offset)

	if c.EnableDamping {
		s.Theta += c.delta.Theta * c.DampingFactor
		s.Phi += c.delta.Phi * c.DampingFactor
	} else {
		s.Theta += c.delta.Theta
		s.Phi += c.delta.Phi
	}
	s.Phi = mgl32.Clamp(s.Phi, epsilon, math32.Pi-epsilon)
	s.Radius = mgl32.Clamp(s.Radius*c.scale, c.MinDistance, c.MaxDistance)

	if c.EnableDamping {
		cam.Target = cam.Target.Add(c.panOffset.Mul(c.DampingFactor))
	} else {
		cam.Target = cam.Target.Add(c.panOffset)
	}

	oldPosition := cam.Position
	cam.Position = cam.Target.Add(s.Vector())

	if c.EnableDamping {
		decay := 1 - c.DampingFactor
		c.delta.Theta *= decay
		c.delta.Phi *= decay
		c.panOffset = c.panOffset.Mul(decay)
	} else {
		c.delta = Spherical{}
		c.panOffset = mgl32.Vec3{}
	}
	c.scale = 1

	return cam.Position.Sub(oldPosition).Len() > epsilon
}

// Idle reports whether no motion is pending.
func (c *OrbitControls) Idle() bool {
	return math32.Abs(c.delta.Theta) < epsilon &&
		math32.Abs(c.delta.Phi) < epsilon &&
		c.panOffset.Len() < epsilon &&
		c.scale == 1
}
