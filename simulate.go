package particlefx

import "math"

// stretchScaling is the constant named in the glossary: (1/60)*0.5,
// approximating a 180-degree shutter at 60fps for velocity-dependent
// stretch.
const stretchScaling = (1.0 / 60.0) * 0.5

// simulateEmitter evaluates per-particle properties, applies modifiers,
// integrates, then (optionally) orients from velocity, for every particle
// currently in e (§4.7 steps 2-5). Aging/pruning (§4.7 step 1) runs
// separately in updateInstance, before the state machine spawns this
// tick's new particles, so a particle born this frame isn't aged twice:
// once implicitly (its TimeLeft already accounts for dt at spawn) and
// again here (original_source's UpdateParticles ages and prunes before
// UpdateEmitterState spawns, and Simulate — this function's ancestor —
// never re-ages at all).
func simulateEmitter(proto *EmitterPrototype, e *Emitter, dt float32, emitterT float32) {
	for i := range e.Particles {
		p := &e.Particles[i]
		t := float32(1) - p.TimeLeft*p.ooMaxLifeTime
		evaluateParticleProperties(proto, p, t)
	}

	for mi := range proto.Modifiers {
		applyModifier(&proto.Modifiers[mi], e, dt, emitterT)
	}

	for i := range e.Particles {
		p := &e.Particles[i]
		integrateParticle(proto, p, dt)
	}

	if proto.Orientation == OrientationMovementDirection {
		for i := range e.Particles {
			orientFromVelocity(&e.Particles[i])
		}
	}
}

func ageAndRemove(e *Emitter, dt float32) {
	i := 0
	for i < len(e.Particles) {
		p := &e.Particles[i]
		p.TimeLeft -= dt
		if p.TimeLeft < 0 {
			last := len(e.Particles) - 1
			e.Particles[i] = e.Particles[last]
			e.Particles = e.Particles[:last]
			continue
		}
		i++
	}
}

func evaluateParticleProperties(proto *EmitterPrototype, p *Particle, t float32) {
	scale := sampleParticleProp(proto, PKeyScale, t, p.SpreadFactor, 1)
	red := sampleParticleProp(proto, PKeyRed, t, p.SpreadFactor, 1)
	green := sampleParticleProp(proto, PKeyGreen, t, p.SpreadFactor, 1)
	blue := sampleParticleProp(proto, PKeyBlue, t, p.SpreadFactor, 1)
	alpha := sampleParticleProp(proto, PKeyAlpha, t, p.SpreadFactor, 1)
	rotDeg := sampleParticleProp(proto, PKeyRotation, t, p.SpreadFactor, 0)
	stretchX := sampleParticleProp(proto, PKeyStretchX, t, p.SpreadFactor, 0)
	stretchY := sampleParticleProp(proto, PKeyStretchY, t, p.SpreadFactor, 0)

	p.Scale = Vec3{scale, scale, scale}
	p.Color = Color{
		R: clamp01(p.SourceColor.R * red),
		G: clamp01(p.SourceColor.G * green),
		B: clamp01(p.SourceColor.B * blue),
		A: clamp01(p.SourceColor.A * alpha),
	}
	p.Rotation = p.SourceRotation.Mul(quatAroundZ(rotDeg * math.Pi / 180))
	p.StretchX = p.SourceStretchX + stretchX
	p.StretchY = p.SourceStretchY + stretchY
}

func sampleParticleProp(proto *EmitterPrototype, key ParticleKey, t, spreadFactor, def float32) float32 {
	if !proto.hasParticleProp[key] {
		return def
	}
	return proto.ParticleProperties[key].Sample(t, spreadFactor)
}

// applyModifier applies one compiled modifier to every living particle in
// e (§4.7 step 3). Modifiers are a small closed set dispatched by an
// exhaustive switch rather than an interface per variant, per SPEC_FULL
// §9's "prefer tagged unions" note.
func applyModifier(mod *ModifierPrototype, e *Emitter, dt float32, emitterT float32) {
	mag := sampleModifierProp(mod, MKeyMagnitude, emitterT, 1)
	spreadMag := modifierSpread(mod, MKeyMagnitude)
	maxDist := sampleModifierProp(mod, MKeyMaxDistance, emitterT, 1)

	switch mod.Type {
	case ModifierAcceleration:
		dir := transformDir(mod.Rotation.Mat4(), Vec3{0, 1, 0})
		for i := range e.Particles {
			p := &e.Particles[i]
			m := mag + spreadMag*p.SpreadFactor
			p.Velocity = p.Velocity.Add(dir.Mul(m * dt))
		}

	case ModifierDrag:
		rotatedX := transformDir(mod.Rotation.Mat4(), Vec3{1, 0, 0})
		for i := range e.Particles {
			p := &e.Particles[i]
			var vComponent Vec3
			if mod.UseDirection {
				vComponent = rotatedX.Mul(p.Velocity.Dot(rotatedX))
			} else {
				vComponent = p.Velocity
			}
			factor := (mag + spreadMag*p.SpreadFactor) * dt
			if factor > 1 {
				factor = 1
			}
			p.Velocity = p.Velocity.Sub(vComponent.Mul(factor))
		}

	case ModifierRadial:
		maxDistSq := maxDist * maxDist
		for i := range e.Particles {
			p := &e.Particles[i]
			delta := p.Position.Sub(mod.Position)
			if delta.Dot(delta) >= maxDistSq {
				continue
			}
			dir := normalizeOrDefault(delta, normalizeOrDefault(p.Velocity, Vec3{0, 1, 0}))
			p.Velocity = p.Velocity.Add(dir.Mul(mag * dt))
		}

	case ModifierVortex:
		axis := transformDir(mod.Rotation.Mat4(), Vec3{0, 0, 1})
		fallback := transformDir(mod.Rotation.Mat4(), Vec3{-1, 0, 0})
		maxDistSq := maxDist * maxDist
		for i := range e.Particles {
			p := &e.Particles[i]
			delta := p.Position.Sub(mod.Position)
			normal := delta.Sub(axis.Mul(delta.Dot(axis)))
			if normal.Dot(normal) >= maxDistSq {
				continue
			}
			tangent := axis.Cross(normal)
			if tangent.Dot(tangent) < 1e-12 {
				tangent = fallback
			} else {
				tangent = normalizeOrDefault(tangent, fallback)
			}
			p.Velocity = p.Velocity.Add(tangent.Mul(mag * dt))
		}
	}
}

func sampleModifierProp(mod *ModifierPrototype, key ModifierKey, t, def float32) float32 {
	if !mod.hasProperty[key] {
		return def
	}
	return mod.Properties[key].Sample(t, 0)
}

func modifierSpread(mod *ModifierPrototype, key ModifierKey) float32 {
	if !mod.hasProperty[key] {
		return 0
	}
	return mod.Properties[key].Spread
}

func integrateParticle(proto *EmitterPrototype, p *Particle, dt float32) {
	p.Position = p.Position.Add(p.Velocity.Mul(dt))

	if proto.StretchWithVelocity {
		speed := p.Velocity.Len()
		p.Scale[0] *= 1 + p.StretchX*speed*stretchScaling
		p.Scale[1] *= 1 + p.StretchY*speed*stretchScaling
	} else {
		p.Scale[0] *= 1 + p.StretchX
		p.Scale[1] *= 1 + p.StretchY
	}
}

func orientFromVelocity(p *Particle) {
	if p.Velocity.Dot(p.Velocity) <= 1e-12 {
		return
	}
	dir := p.Velocity.Normalize()
	p.Rotation = p.Rotation.Mul(quatFromTo(Vec3{0, 1, 0}, dir))
}
