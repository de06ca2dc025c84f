package particlefx

import "fmt"

// PropertySampleCount is the fixed number of linear segments a Property
// spline is baked into. Runtime sampling is O(1): pick the segment by
// truncating x*PropertySampleCount.
const PropertySampleCount = 64

// segment is one linear piece of a sampled Property: y = (x-xStart)*slope + yStart.
type segment struct {
	xStart, yStart, slope float32
}

// Property is a spline baked into PropertySampleCount fixed linear segments
// covering [0,1], plus a spread amplitude the caller scales by a signed
// factor (spawn-rate spread is drawn once per emitter instance; the other
// emitter keys draw a fresh factor per spawned particle; modifier spread
// uses each particle's SpreadFactor).
type Property struct {
	segments [PropertySampleCount]segment
	Spread   float32
}

// ControlPoint is one Hermite control point of a raw, uncompiled spline.
// X must be non-decreasing across a ControlPoint slice and lie in [0,1].
type ControlPoint struct {
	X, Y         float32
	TangentX, TangentY float32
}

// CompileProperty bakes a Hermite spline into a Property. An empty point
// list is a prototype-compile failure (§4.1); the caller (prototype.go)
// turns that into a "skip this key" warning rather than aborting the whole
// compile.
func CompileProperty(points []ControlPoint, spread float32) (Property, error) {
	if len(points) == 0 {
		return Property{}, fmt.Errorf("particlefx: property has no control points")
	}

	var prop Property
	prop.Spread = spread

	for i := 0; i < PropertySampleCount; i++ {
		x := float32(i) / float32(PropertySampleCount)
		y, slope := evalHermite(points, x)
		prop.segments[i] = segment{xStart: x, yStart: y, slope: slope}
	}
	return prop, nil
}

// evalHermite evaluates the cubic-Hermite spline defined by points at x,
// returning both the sampled value and the local slope (used as the
// segment's linear coefficient so point-to-point sampling inside the
// segment stays a single multiply-add).
func evalHermite(points []ControlPoint, x float32) (y, slope float32) {
	if len(points) == 1 {
		// Degenerate spline: linear extrapolation from the single point's tangent.
		p := points[0]
		dx := x - p.X
		return p.Y + p.TangentY*dx, p.TangentY
	}

	// Find the segment [points[i], points[i+1]] containing x.
	i := 0
	for i < len(points)-2 && x > points[i+1].X {
		i++
	}
	p0, p1 := points[i], points[i+1]

	span := p1.X - p0.X
	if span <= 0 {
		return p0.Y, 0
	}
	t := (x - p0.X) / span

	// Cubic Hermite basis functions and their derivative w.r.t. t.
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2

	m0 := p0.TangentY * span
	m1 := p1.TangentY * span

	y = h00*p0.Y + h10*m0 + h01*p1.Y + h11*m1

	dh00 := 6*t2 - 6*t
	dh10 := 3*t2 - 4*t + 1
	dh01 := -6*t2 + 6*t
	dh11 := 3*t2 - 2*t
	slope = (dh00*p0.Y + dh10*m0 + dh01*p1.Y + dh11*m1) / span

	return y, slope
}

// Sample evaluates the property at normalized time t (clamped to [0,1]
// implicitly via segment-index clamping) and returns the baseline value
// plus a spread contribution scaled by the caller-supplied signed factor
// in [-1,1].
func (p *Property) Sample(t float32, spreadFactor float32) float32 {
	idx := int(t * PropertySampleCount)
	if idx < 0 {
		idx = 0
	}
	if idx > PropertySampleCount-1 {
		idx = PropertySampleCount - 1
	}
	seg := p.segments[idx]
	v := (t-seg.xStart)*seg.slope + seg.yStart
	return v + p.Spread*spreadFactor
}

// MaxValue returns the largest sampled value across the baked segment
// table (ignoring spread), used by the prototype compiler to compute
// MaxParticleLifeTime.
func (p *Property) MaxValue() float32 {
	max := float32(0)
	for i, seg := range p.segments {
		x := float32(i+1) / float32(PropertySampleCount)
		if i == PropertySampleCount-1 {
			x = 1
		}
		v := (x-seg.xStart)*seg.slope + seg.yStart
		if i == 0 || v > max {
			max = v
		}
	}
	return max
}
