package particlefx

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// composeTransform builds a Mat4 from a rotation and translation, matching
// the 2D teacher's multiplyAffine composition pattern generalized to 3D
// via mgl32 (the teacher has no 3D transform type — see DESIGN.md).
func composeTransform(rot Quat, pos Vec3) Mat4 {
	m := rot.Mat4()
	m[12], m[13], m[14] = pos[0], pos[1], pos[2]
	return m
}

func transformPoint(m Mat4, v Vec3) Vec3 {
	r := m.Mul4x1(mgl32.Vec4{v[0], v[1], v[2], 1})
	return Vec3{r[0], r[1], r[2]}
}

func transformDir(m Mat4, v Vec3) Vec3 {
	r := m.Mul4x1(mgl32.Vec4{v[0], v[1], v[2], 0})
	return Vec3{r[0], r[1], r[2]}
}

// instanceTransform returns inst's world transform, optionally with the Z
// basis column normalized to unit length when ScaleAlongZ is false (§4.6),
// so an instance scaled non-uniformly in a 3D host doesn't stretch 2D-style
// effects along their depth axis.
func instanceTransform(inst *Instance) Mat4 {
	m := inst.WorldTransform
	if inst.ScaleAlongZ {
		return m
	}
	z := Vec3{m[8], m[9], m[10]}
	if l := z.Len(); l > 1e-9 {
		z = z.Mul(1 / l)
	}
	m[8], m[9], m[10] = z[0], z[1], z[2]
	return m
}

// spawnParticles appends count new particles to e, sampling emitter
// properties at normalized time t (§4.6).
func spawnParticles(ctx *Context, inst *Instance, proto *EmitterPrototype, e *Emitter, dt, t float32, count int) {
	localTransform := composeTransform(proto.LocalRotation, proto.LocalPosition)

	var full Mat4
	worldSpace := proto.Space == SpaceWorld
	if worldSpace {
		full = instanceTransform(inst).Mul4(localTransform)
	} else {
		full = localTransform
	}

	emitterVelocity := Vec3{}
	if e.lastPositionSet {
		if dt > 0 {
			emitterVelocity = proto.LocalPosition.Sub(e.LastPosition).Mul(1 / dt)
		}
	}

	for i := 0; i < count; i++ {
		if len(e.Particles) >= cap(e.Particles) && cap(e.Particles) > 0 {
			break
		}

		// Each emitter-key property draws its own fresh rand11() sample per
		// particle and adds it scaled by that property's Spread (§4.6,
		// original_source's SpawnParticle loop: "Apply spread per particle").
		// This is distinct from the particle's own SpreadFactor below, which
		// is a single shared sample particles carry for the rest of their
		// life (modifier spread, §4.7).
		lifeTime := sampleEmitterProp(proto, e, KeyParticleLifeTime, t, e.rand.rand11())
		size := sampleEmitterProp(proto, e, KeyParticleSize, t, e.rand.rand11())
		speed := sampleEmitterProp(proto, e, KeyParticleSpeed, t, e.rand.rand11())
		red := sampleEmitterProp(proto, e, KeyParticleRed, t, e.rand.rand11())
		green := sampleEmitterProp(proto, e, KeyParticleGreen, t, e.rand.rand11())
		blue := sampleEmitterProp(proto, e, KeyParticleBlue, t, e.rand.rand11())
		alpha := sampleEmitterProp(proto, e, KeyParticleAlpha, t, e.rand.rand11())
		rot := sampleEmitterProp(proto, e, KeyParticleRotation, t, e.rand.rand11())
		stretchX := sampleEmitterProp(proto, e, KeyParticleStretchX, t, e.rand.rand11())
		stretchY := sampleEmitterProp(proto, e, KeyParticleStretchY, t, e.rand.rand11())
		sizeX := sampleEmitterProp(proto, e, KeySizeX, t, e.rand.rand11())
		sizeY := sampleEmitterProp(proto, e, KeySizeY, t, e.rand.rand11())
		sizeZ := sampleEmitterProp(proto, e, KeySizeZ, t, e.rand.rand11())

		localPos, localDir := spawnShapeSample(&e.rand, proto.Type, sizeX, sizeY, sizeZ)

		var p Particle
		p.MaxLifeTime = lifeTime
		// TimeLeft = lifetime - dt, not the full lifetime: this particle is
		// born partway through the tick that spawns it and is not aged
		// again by ageAndRemove until the next Update call (spec.md §4.6,
		// original_source's SpawnParticle: SetTimeLeft(MaxLifeTime() - dt)).
		p.TimeLeft = lifeTime - dt
		if lifeTime > 0 {
			p.ooMaxLifeTime = 1 / lifeTime
		}
		p.SpreadFactor = e.rand.rand11()
		p.SourceSize = Vec3{size, size, size}
		p.SourceColor = Color{red, green, blue, alpha}
		p.Color = p.SourceColor
		p.Scale = Vec3{1, 1, 1}
		p.SourceStretchX = stretchX
		p.SourceStretchY = stretchY

		p.Position = transformPoint(full, localPos)
		dir := transformDir(full, localDir)

		p.Velocity = dir.Mul(speed)
		if proto.InheritVelocity != 0 {
			p.Velocity = p.Velocity.Add(emitterVelocity.Mul(proto.InheritVelocity))
		}

		switch proto.Orientation {
		case OrientationDefault:
			p.Rotation = Quat{W: 1}
		case OrientationInitialDirection:
			p.Rotation = quatFromTo(Vec3{0, 1, 0}, dir)
		case OrientationMovementDirection:
			p.Rotation = Quat{W: 1}
		}
		p.Rotation = p.Rotation.Mul(quatAroundZ(rot * math.Pi / 180))
		p.SourceRotation = p.Rotation

		e.Particles = append(e.Particles, p)
	}

	e.LastPosition = proto.LocalPosition
	e.lastPositionSet = true
}

// spawnShapeSample draws a local-space position and direction for one new
// particle according to the emitter's shape (§4.6).
func spawnShapeSample(r *rng, typ EmitterType, sizeX, sizeY, sizeZ float32) (pos, dir Vec3) {
	switch typ {
	case EmitterSphere:
		d := uniformUnitSphere(r)
		radius := float32(math.Sqrt(float64(r.rand01Open()))) * sizeX / 2
		return d.Mul(radius), d

	case EmitterCircle:
		d2 := uniformUnitCircle(r)
		radius := float32(math.Sqrt(float64(r.rand01Open()))) * sizeX / 2
		pos = Vec3{d2[0] * radius, d2[1] * radius, 0}
		dir = normalizeOrDefault(pos, Vec3{0, 1, 0})
		return pos, dir

	case EmitterCone:
		// h is sqrt-biased, not uniform: a cone's cross-sectional area grows
		// with height squared, so sampling h linearly would cluster
		// particles toward the base relative to a uniform-volume fill
		// (original_source's EMITTER_TYPE_CONE case: h = sqrtf(Rand01(seed))).
		h := float32(math.Sqrt(float64(r.rand01Open()))) * sizeY
		baseR := sizeX / 2 * (h / maxf(sizeY, 1e-9))
		d2 := uniformUnitCircle(r)
		radius := float32(math.Sqrt(float64(r.rand01Open()))) * baseR
		pos = Vec3{d2[0] * radius, h, d2[1] * radius}
		dir = normalizeOrDefault(pos, Vec3{0, 1, 0})
		return pos, dir

	case EmitterTwoDCone:
		u, v := r.rand01Open(), r.rand01Open()
		if u+v > 1 {
			u, v = 1-u, 1-v
		}
		pos = Vec3{(u - v) * sizeX / 2, (u + v) * sizeY, 0}
		dir = normalizeOrDefault(pos, Vec3{0, 1, 0})
		return pos, dir

	case EmitterBox:
		pos = Vec3{r.rand11(), r.rand11(), r.rand11()}
		for pos[0]*pos[0]+pos[1]*pos[1]+pos[2]*pos[2] == 0 {
			pos = Vec3{r.rand11(), r.rand11(), r.rand11()}
		}
		pos = Vec3{pos[0] * sizeX / 2, pos[1] * sizeY / 2, pos[2] * sizeZ / 2}
		return pos, Vec3{0, 1, 0}
	}
	return Vec3{}, Vec3{0, 1, 0}
}

func uniformUnitSphere(r *rng) Vec3 {
	u1, u2 := r.rand01Open(), r.rand01Open()
	z := 1 - 2*u1
	rad := float32(math.Sqrt(math.Max(0, float64(1-z*z))))
	phi := 2 * math.Pi * float64(u2)
	return Vec3{rad * float32(math.Cos(phi)), rad * float32(math.Sin(phi)), z}
}

func uniformUnitCircle(r *rng) [2]float32 {
	theta := 2 * math.Pi * float64(r.rand01Open())
	return [2]float32{float32(math.Cos(theta)), float32(math.Sin(theta))}
}

func normalizeOrDefault(v, def Vec3) Vec3 {
	if l := v.Len(); l > 1e-9 {
		return v.Mul(1 / l)
	}
	return def
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// sampleEmitterProp samples emitter property key at t, or returns 0 if
// the prototype has no compiled Property for that key (§4.3: unknown keys
// are skipped, never fatal).
func sampleEmitterProp(proto *EmitterPrototype, e *Emitter, key EmitterKey, t float32, spreadFactor float32) float32 {
	if !proto.hasProperty[key] {
		return 0
	}
	return proto.Properties[key].Sample(t, spreadFactor)
}

// quatAroundZ returns the quaternion rotating by angle radians around +Z.
func quatAroundZ(angle float32) Quat {
	half := angle / 2
	return Quat{W: float32(math.Cos(float64(half))), V: Vec3{0, 0, float32(math.Sin(float64(half)))}}
}

// quatFromTo returns the shortest-arc rotation taking unit vector from to
// unit vector to, falling back to identity when from==to and to a
// perpendicular-axis 180-degree rotation when from==-to.
func quatFromTo(from, to Vec3) Quat {
	from = normalizeOrDefault(from, Vec3{0, 1, 0})
	to = normalizeOrDefault(to, Vec3{0, 1, 0})
	d := from.Dot(to)
	if d > 0.999999 {
		return Quat{W: 1}
	}
	if d < -0.999999 {
		axis := from.Cross(Vec3{1, 0, 0})
		if axis.Len() < 1e-6 {
			axis = from.Cross(Vec3{0, 0, 1})
		}
		axis = normalizeOrDefault(axis, Vec3{1, 0, 0})
		return Quat{W: 0, V: axis}
	}
	axis := from.Cross(to)
	w := float32(1) + d
	q := Quat{W: w, V: axis}
	return q.Normalize()
}
