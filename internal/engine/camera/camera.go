// Package camera provides a perspective camera and damped orbit controls.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PerspectiveCamera is a look-at camera with a vertical field of view in degrees.
type PerspectiveCamera struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	FOV    float32
	Aspect float32
	Near   float32
	Far    float32
}

// NewPerspectiveCamera creates a camera at position looking at the origin.
func NewPerspectiveCamera(position mgl32.Vec3, fov, near, far float32) *PerspectiveCamera {
	return &PerspectiveCamera{
		Position: position,
		Up:       mgl32.Vec3{0, 1, 0},
		FOV:      fov,
		Aspect:   1,
		Near:     near,
		Far:      far,
	}
}

// SetViewport updates the aspect ratio for a viewport size.
func (c *PerspectiveCamera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// ViewMatrix returns the view matrix for this camera.
func (c *PerspectiveCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *PerspectiveCamera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *PerspectiveCamera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// Basis returns the camera right and up vectors in world space.
func (c *PerspectiveCamera) Basis() (right, up mgl32.Vec3) {
	forward := c.Target.Sub(c.Position)
	if forward.Len() < 1e-6 {
		return mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}
	}
	forward = forward.Normalize()
	right = forward.Cross(c.Up)
	if right.Len() < 1e-6 {
		right = mgl32.Vec3{1, 0, 0}
	} else {
		right = right.Normalize()
	}
	up = right.Cross(forward).Normalize()
	return right, up
}
