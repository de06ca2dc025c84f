package particlefx

// replayFixedStep is the fixed timestep Reload's replay fast-forward uses,
// matching the glossary's 60Hz assumption used elsewhere (stretchScaling).
const replayFixedStep = 1.0 / 60.0

// ReloadInstance reconciles h's emitter array with its Prototype's current
// (possibly just-recompiled) emitter count, then optionally replays the
// instance from time zero up to its previous play time (§4.12). Existing
// emitters keep their OriginalSeed and instance-sampled
// Duration/StartDelay/SpawnRateSpread; only new emitters (the prototype
// grew) are seeded fresh, the same way CreateInstance seeds them.
func (ctx *Context) ReloadInstance(h Handle, replay bool) error {
	inst, ok := ctx.lookup(h)
	if !ok {
		ctx.staleHandle("ReloadInstance")
		return ErrStaleHandle
	}

	proto := inst.proto
	prevPlayTime := inst.PlayTime

	switch {
	case len(inst.Emitters) == len(proto.Emitters):
		// no length change; existing emitters kept as-is below
	case len(inst.Emitters) < len(proto.Emitters):
		grown := make([]Emitter, len(proto.Emitters))
		copy(grown, inst.Emitters)
		idx := h.index()
		for i := len(inst.Emitters); i < len(proto.Emitters); i++ {
			ctx.instanceSeed++
			seed := hash32(uint32(i), uint32(idx), ctx.instanceSeed)
			initEmitter(&grown[i], &proto.Emitters[i], seed)
		}
		inst.Emitters = grown
	default:
		inst.Emitters = inst.Emitters[:len(proto.Emitters)]
	}

	inst.PlayTime = 0
	inst.numAwakeEmitters = 0
	for i := range inst.Emitters {
		e := &inst.Emitters[i]
		seed := e.OriginalSeed
		duration, startDelay, spread := e.Duration, e.StartDelay, e.SpawnRateSpread
		*e = Emitter{
			OriginalSeed:     seed,
			rand:             newRNG(seed),
			maxParticleCount: proto.Emitters[i].MaxParticleCount,
			Duration:         duration,
			StartDelay:       startDelay,
			SpawnRateSpread:  spread,
		}
		e.Particles = make([]Particle, 0, proto.Emitters[i].MaxParticleCount)
	}

	if !replay {
		return nil
	}

	return ctx.replayInstance(inst, proto, prevPlayTime)
}

// replayInstance fast-forwards inst from a cold start up to targetTime
// using a fixed timestep, so a reloaded looping effect reappears mid-loop
// rather than snapping back to its first frame (§4.12). For a looping
// emitter whose Duration is known, targetTime is reduced by whole loop
// periods until it is at most one period, since stepping a literal elapsed wall-clock time through a loop
// that repeats every few seconds would do unnecessary work for no visible
// difference.
func (ctx *Context) replayInstance(inst *Instance, proto *Prototype, targetTime float32) error {
	for i := range inst.Emitters {
		startEmitter(ctx, inst, &inst.Emitters[i])
	}

	clamped := targetTime
	for i := range inst.Emitters {
		e := &inst.Emitters[i]
		if proto.Emitters[i].Mode == PlayLoop && e.Duration > 0 {
			period := e.StartDelay + e.Duration
			if period > 0 {
				for clamped > period {
					clamped -= period
				}
			}
		}
	}
	if clamped > targetTime {
		clamped = targetTime
	}

	// updateInstance reads/writes the context-wide spawn counters that
	// ctx.Update normally resets once per real frame. Replay runs outside
	// that loop, so save and zero them here rather than letting a stale
	// snapshot (or a live frame's in-progress counts) clamp this instance's
	// catch-up spawns, then restore them so the next real Update call isn't
	// affected by replay's bookkeeping.
	savedAlive, savedSpawned := ctx.particlesAlive, ctx.particlesSpawnedLastUpdate
	ctx.particlesAlive, ctx.particlesSpawnedLastUpdate = 0, 0

	remaining := clamped
	for remaining > 0 {
		step := float32(replayFixedStep)
		if step > remaining {
			step = remaining
		}
		ctx.particlesSpawnedLastUpdate = 0
		ctx.updateInstance(inst, step, nil)
		remaining -= step
	}

	ctx.particlesAlive, ctx.particlesSpawnedLastUpdate = savedAlive, savedSpawned
	return nil
}
