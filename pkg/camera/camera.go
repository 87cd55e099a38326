// Package camera builds the homogeneous transforms between world, camera and
// image space for a yaw/pitch camera with a pinhole lens.
//
// Camera space looks down +Z with +Y pointing down the screen and +X to the
// right. World space is Y-up; heights grow along +Y.
package camera

import (
	"math"

	"github.com/taigrr/voxelscape/pkg/math3d"
)

// MinDepth is the smallest camera-space forward distance a projected point
// may have. Anything at or behind it is treated as behind the camera.
const MinDepth = 1e-6

// Extrinsics is the camera pose in world coordinates.
type Extrinsics struct {
	X, Y, Z float64

	Yaw   float64 // Rotation about world up, radians
	Pitch float64 // Rotation about camera right, radians
}

// Position returns the camera position as a vector.
func (e Extrinsics) Position() math3d.Vec3 {
	return math3d.V3(e.X, e.Y, e.Z)
}

// WithPosition returns a copy of e moved to p.
func (e Extrinsics) WithPosition(p math3d.Vec3) Extrinsics {
	e.X, e.Y, e.Z = p.X, p.Y, p.Z
	return e
}

// Intrinsics holds the lens parameters for one output resolution.
type Intrinsics struct {
	Fx, Fy float64 // Focal lengths in pixels
	Cx, Cy float64 // Principal point in pixels

	Width  int
	Height int
}

// NewIntrinsics derives square-pixel, centered intrinsics for an image of
// the given size.
func NewIntrinsics(width, height int) Intrinsics {
	return Intrinsics{
		Fx:     0.5 * float64(height),
		Fy:     0.5 * float64(height),
		Cx:     0.5 * float64(width),
		Cy:     0.5 * float64(height),
		Width:  width,
		Height: height,
	}
}

// flip is a half turn about X, written out exactly so that sin(pi) does not
// leak into the rest pose.
var flip = math3d.FromRows(
	math3d.V4(1, 0, 0, 0),
	math3d.V4(0, -1, 0, 0),
	math3d.V4(0, 0, -1, 0),
	math3d.V4(0, 0, 0, 1),
)

// WorldFromCamera returns the transform taking camera-space points into
// world space. The rotation is flip * yaw * pitch, where the flip turns the
// Y-down camera convention into the Y-up world.
func WorldFromCamera(e Extrinsics) math3d.Mat4 {
	r := flip.
		Mul(math3d.RotateY(e.Yaw)).
		Mul(math3d.RotateX(e.Pitch))
	r.SetTranslation(e.Position())
	return r
}

// CameraFromWorld returns the inverse of WorldFromCamera. It is a full
// matrix inverse, not a transpose shortcut.
//
// It panics if the pose does not produce an invertible matrix, which only
// happens for non-finite angles or positions.
func CameraFromWorld(e Extrinsics) math3d.Mat4 {
	inv, ok := WorldFromCamera(e).Inverse()
	if !ok {
		panic("camera: world-from-camera transform is singular")
	}
	return inv
}

// ImageFromCamera returns the projective transform from camera space to
// homogeneous image space:
//
//	| fx 0  cx 0 |
//	| 0  fy cy 0 |
//	| 0  0  0  1 |
//	| 0  0  1  0 |
//
// A camera point (x, y, z, 1) maps to (fx*x + cx*z, fy*y + cy*z, 1, z), so
// dividing by W gives the pixel and W/Z gives back the depth.
func ImageFromCamera(k Intrinsics) math3d.Mat4 {
	return math3d.FromRows(
		math3d.V4(k.Fx, 0, k.Cx, 0),
		math3d.V4(0, k.Fy, k.Cy, 0),
		math3d.V4(0, 0, 0, 1),
		math3d.V4(0, 0, 1, 0),
	)
}

// CameraFromImage returns the inverse of ImageFromCamera. It panics for
// zero focal lengths.
func CameraFromImage(k Intrinsics) math3d.Mat4 {
	inv, ok := ImageFromCamera(k).Inverse()
	if !ok {
		panic("camera: image-from-camera transform is singular")
	}
	return inv
}

// ImageFromWorld composes ImageFromCamera and CameraFromWorld.
func ImageFromWorld(k Intrinsics, e Extrinsics) math3d.Mat4 {
	return ImageFromCamera(k).Mul(CameraFromWorld(e))
}

// InWorld returns the camera position as a homogeneous point.
func InWorld(e Extrinsics) math3d.Vec4 {
	return math3d.Point(e.Position())
}

// Translate moves the camera by a displacement given in camera space.
// Orientation is unchanged.
func Translate(e Extrinsics, dx, dy, dz float64) Extrinsics {
	d := WorldFromCamera(e).MulVec4(math3d.V4(dx, dy, dz, 0))
	e.X += d.X
	e.Y += d.Y
	e.Z += d.Z
	return e
}

// Basis returns the world-space images of the camera's unit right and unit
// forward axes.
func Basis(e Extrinsics) (right, forward math3d.Vec3) {
	m := WorldFromCamera(e)
	right = m.MulDir(math3d.V3(1, 0, 0))
	forward = m.MulDir(math3d.V3(0, 0, 1))
	return right, forward
}

// Project maps a world point through imageFromWorld and returns its pixel
// coordinates and depth (the camera-space forward distance). ok is false for
// points at or behind the camera and for non-finite results.
func Project(imageFromWorld math3d.Mat4, p math3d.Vec3) (u, v, depth float64, ok bool) {
	h := imageFromWorld.MulVec4(math3d.Point(p))
	if !h.IsFinite() || h.W <= MinDepth || h.Z == 0 {
		return 0, 0, 0, false
	}
	u = h.X / h.W
	v = h.Y / h.W
	depth = h.W / h.Z
	if math.IsNaN(u) || math.IsInf(u, 0) || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, 0, 0, false
	}
	return u, v, depth, true
}

// Ray returns the world-space direction through pixel (u, v). The direction
// has unit forward component in camera space and is not normalized.
func Ray(k Intrinsics, e Extrinsics, u, v float64) math3d.Vec3 {
	c := CameraFromImage(k).MulVec4(math3d.V4(u, v, 1, 1))
	return WorldFromCamera(e).MulDir(c.Vec3())
}
