package particlefx

// Update advances every live instance in the context by dt seconds (§5):
// for each awake emitter, it ages and prunes existing particles, steps the
// state machine, spawns new particles (subject to both the emitter's own
// MaxParticleCount and the context-wide MaxParticles ceiling), evaluates
// properties/modifiers/integration, sorts by remaining life, and refreshes
// render data. fetchAnimation may be nil for effects with no flip-book
// animation; when non-nil it is consulted once per emitter per tick to
// resolve the emitter's AnimationID.
//
// Update performs no allocation beyond its own stack frame in steady state:
// every per-emitter buffer was sized at instance-creation time, and the
// sort stage reuses ctx.sortScratch.
func (ctx *Context) Update(dt float32, fetchAnimation FetchAnimationCallback) {
	ctx.particlesSpawnedLastUpdate = 0
	ctx.particlesAlive = 0

	for i := range ctx.slots {
		slot := &ctx.slots[i]
		if !slot.occupied {
			continue
		}
		ctx.updateInstance(&slot.inst, dt, fetchAnimation)
	}
}

func (ctx *Context) updateInstance(inst *Instance, dt float32, fetchAnimation FetchAnimationCallback) {
	inst.PlayTime += dt

	for ei := range inst.Emitters {
		proto := &inst.proto.Emitters[ei]
		e := &inst.Emitters[ei]

		// Age and prune existing particles before the state machine steps
		// and spawns this tick's new ones, matching original_source's
		// UpdateEmitter ordering (UpdateParticles, then UpdateEmitterState):
		// a particle spawned below carries TimeLeft = lifetime - dt, already
		// accounting for this tick, so it must not also go through
		// ageAndRemove this same tick (§4.6/§4.7 order).
		if e.State != StateSleeping {
			ageAndRemove(e, dt)
		}

		// stepState may cascade Spawning -> Postspawn -> Sleeping within
		// this one call (§4.5), so active reflects the emitter's state
		// after every transition this tick has produced.
		active := stepState(ctx, inst, proto, e, dt)
		t := emitterNormalizedTime(e)

		if e.State == StateSpawning {
			ctx.spawnTick(inst, proto, e, dt, t)
		}

		if active {
			simulateEmitter(proto, e, dt, t)
			sortParticles(e, &ctx.sortScratch)
		}

		ctx.resolveAnimation(proto, e, fetchAnimation)

		refreshRenderData(inst, proto, e)

		ctx.particlesAlive += len(e.Particles)
	}
}

// emitterNormalizedTime is the t = timer/duration used to evaluate every
// emitter-key property (spawn rate, modifier magnitudes, ...) this tick,
// guarded against a non-positive duration (§4.5).
func emitterNormalizedTime(e *Emitter) float32 {
	if e.Duration <= 0 {
		return 0
	}
	t := e.Timer / e.Duration
	if t > 1 {
		t = 1
	}
	return t
}

// spawnTick adds this tick's spawn-rate contribution to e's accumulator and
// spawns whole particles off it, clamped by the emitter's own capacity and
// by the context-wide particle ceiling (§4.6, §6's particle_fx.max_particle_count).
func (ctx *Context) spawnTick(inst *Instance, proto *EmitterPrototype, e *Emitter, dt float32, t float32) {
	// The base spawn-rate sample carries no spread of its own (spreadFactor
	// 0): spawn-rate spread is instead the once-per-emitter-instance value
	// drawn at creation/reset time (e.SpawnRateSpread, §4.4), matching
	// original_source's UpdateEmitterState which adds emitter->m_SpawnRateSpread
	// rather than resampling spread every tick.
	rate := sampleEmitterProp(proto, e, KeySpawnRate, t, 0) + e.SpawnRateSpread
	if rate < 0 {
		rate = 0
	}
	e.SpawnAccumulator += rate * dt

	count := int(e.SpawnAccumulator)
	if count <= 0 {
		return
	}

	if room := proto.MaxParticleCount - len(e.Particles); count > room {
		count = room
	}
	if room := ctx.maxParticles - ctx.particlesAlive - ctx.particlesSpawnedLastUpdate; count > room {
		count = room
	}
	if count <= 0 {
		return
	}

	e.SpawnAccumulator -= float32(count)
	spawnParticles(ctx, inst, proto, e, dt, t, count)
	ctx.particlesSpawnedLastUpdate += count
}

// resolveAnimation fetches this emitter's AnimationData for the current
// frame, if it declares an AnimationID and the host supplied a callback.
// A FetchError or FetchNotFound result is logged once per emitter, never
// fatal (§6.1) — only a StructSize mismatch panics, since that indicates
// the host's AnimationData layout disagrees with this core's and every
// subsequent field read would be garbage.
func (ctx *Context) resolveAnimation(proto *EmitterPrototype, e *Emitter, fetchAnimation FetchAnimationCallback) {
	if fetchAnimation == nil || proto.AnimationID == "" {
		return
	}
	anim, result := fetchAnimation(proto.TileSourceRef, proto.AnimationID)
	switch result {
	case FetchOK:
		if anim.StructSize != 0 && anim.StructSize != expectedAnimationDataStructSize {
			panic("particlefx: AnimationData struct size mismatch with host")
		}
	case FetchNotFound, FetchError:
		if !e.warnedAnimFetch {
			e.warnedAnimFetch = true
			ctx.warnf("could not fetch animation %q", proto.AnimationID)
		}
	}
}
