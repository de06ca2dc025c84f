package particlefx

import "github.com/go-gl/mathgl/mgl32"

// Color is a non-premultiplied RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the identity tint: multiplying by it changes nothing.
var ColorWhite = Color{1, 1, 1, 1}

// Mul returns the elementwise product of c and o, clamped to [0, 1].
func (c Color) Mul(o Color) Color {
	return Color{
		R: clamp01(c.R * o.R),
		G: clamp01(c.G * o.G),
		B: clamp01(c.B * o.B),
		A: clamp01(c.A * o.A),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// BlendMode selects a compositing operation for an emitter's particles.
// The core never touches a GPU blend state itself; it only carries the
// value through to EmitterRenderData for the host renderer to interpret,
// and into the render-data fingerprint (§4.11).
type BlendMode uint8

const (
	BlendAlpha BlendMode = iota
	BlendAdd
	BlendMultiply
	BlendScreen
)

// Vec3 is an alias for the math vector type used throughout the core for
// positions, velocities and directions.
type Vec3 = mgl32.Vec3

// Quat is an alias for the math quaternion type used for particle and
// emitter orientation.
type Quat = mgl32.Quat

// Mat4 is an alias for the math 4x4 matrix type used for world transforms.
type Mat4 = mgl32.Mat4

// Range is a general-purpose min/max range used by spread-bearing fields
// that are not modeled as full Property splines (e.g. per-instance
// duration/start-delay spread).
type Range struct {
	Min, Max float32
}
