package particlefx

// EmitterState is one state of the per-emitter state machine (§4.5).
type EmitterState uint8

const (
	StateSleeping EmitterState = iota
	StatePrespawn
	StateSpawning
	StatePostspawn
)

// RenderConstant is a name-hash-keyed shader constant carried alongside an
// emitter's render data (§6.1). It is a tagged union: exactly one of
// Vector4/Matrix4 is meaningful, selected by IsMatrix — restored from the
// source's SetRenderConstant vs SetRenderConstantM4 split rather than
// collapsed into one shape.
type RenderConstant struct {
	NameHash uint64
	IsMatrix bool
	Vector4  [4]float32
	Matrix4  Mat4
}

// Emitter is one running emitter inside an Instance (§3).
type Emitter struct {
	Particles       []Particle
	RenderConstants []RenderConstant

	State            EmitterState
	Timer            float32
	SpawnAccumulator float32

	Duration         float32
	StartDelay       float32
	SpawnRateSpread  float32

	LastPosition Vec3
	LastVelocity Vec3
	lastPositionSet bool

	OriginalSeed uint32
	rand         rng

	Retiring bool

	// rehashNeeded marks that RenderData's MixedHash/MixedHashNoMaterial are
	// stale and must be recomputed on the next refreshRenderData call.
	rehashNeeded bool

	VertexIndex int
	VertexCount int

	RenderData EmitterRenderData

	warnedOverflow   bool
	warnedAnimFetch  bool

	maxParticleCount int
}

func initEmitter(e *Emitter, proto *EmitterPrototype, seed uint32) {
	*e = Emitter{
		OriginalSeed:     seed,
		rand:             newRNG(seed),
		maxParticleCount: proto.MaxParticleCount,
	}
	e.Particles = make([]Particle, 0, proto.MaxParticleCount)
	applyInstanceSpread(e, proto)
}

// applyInstanceSpread samples this emitter's per-instance duration,
// start-delay and spawn-rate spread once, at creation/reset time (§4.4:
// "initialize each emitter's duration/delay with per-instance spread
// applied"; original_source's CreateEmitter draws exactly these three
// Rand11 samples once per emitter, and spawn_rate's spread is likewise
// drawn once and reused every spawning tick rather than resampled per
// frame — see original_source/engine/particle/src/particle.cpp's
// CreateEmitter/UpdateEmitterState).
func applyInstanceSpread(e *Emitter, proto *EmitterPrototype) {
	r := &e.rand
	e.Duration = proto.Duration + proto.DurationSpread*r.rand11()
	e.StartDelay = proto.StartDelay + proto.StartDelaySpread*r.rand11()
	e.SpawnRateSpread = 0
	if proto.hasProperty[KeySpawnRate] {
		e.SpawnRateSpread = r.rand11() * proto.Properties[KeySpawnRate].Spread
	}
}

func resetEmitter(e *Emitter, proto *EmitterPrototype) {
	wasAwake := e.State != StateSleeping
	e.Particles = e.Particles[:0]
	e.State = StateSleeping
	e.Timer = 0
	e.SpawnAccumulator = 0
	e.Retiring = false
	applyInstanceSpread(e, proto)
	_ = wasAwake
}

func startEmitter(ctx *Context, inst *Instance, e *Emitter) {
	if e.State != StateSleeping {
		return
	}
	e.State = StatePrespawn
	e.Timer = 0
	inst.numAwakeEmitters++
	fireStateChanged(ctx, inst, e)
}

func stopEmitter(ctx *Context, inst *Instance, e *Emitter) {
	if e.State == StateSpawning {
		e.State = StatePostspawn
	}
}

func fireStateChanged(ctx *Context, inst *Instance, e *Emitter) {
	if inst.onStateChanged == nil {
		return
	}
	idHash := uint64(0)
	if inst.proto != nil {
		for i := range inst.Emitters {
			if &inst.Emitters[i] == e && i < len(inst.proto.Emitters) {
				idHash = inst.proto.Emitters[i].IDHash
				break
			}
		}
	}
	inst.onStateChanged(inst.numAwakeEmitters, idHash, e.State, inst.userData)
}

// stepState advances e's state machine by dt and returns true if e should
// be simulated/sorted this tick, per §4.5's table. A Spawning-to-Postspawn
// transition cascades straight into the Postspawn emptiness check within
// this same call (via stepPostspawn), matching original_source's
// UpdateEmitterState — its sequential if-blocks, unlike a switch with one
// case per call, let a state reached mid-tick be re-examined the same
// tick rather than waiting for the next Update.
func stepState(ctx *Context, inst *Instance, proto *EmitterPrototype, e *Emitter, dt float32) bool {
	switch e.State {
	case StateSleeping:
		return false

	case StatePrespawn:
		e.Timer += dt
		if e.Timer >= e.StartDelay {
			e.Timer -= e.StartDelay
			e.State = StateSpawning
		}
		return e.State == StateSpawning

	case StateSpawning:
		e.Timer += dt
		looping := proto.Mode == PlayLoop && !e.Retiring
		// No e.Duration > 0 guard: a Duration: 0 instant-burst emitter has
		// Timer >= Duration true from the very first Spawning tick, so it
		// must transition to Postspawn immediately rather than spin in
		// Spawning forever (original_source has no such guard either).
		if e.Timer >= e.Duration {
			if looping {
				e.Timer -= e.Duration
			} else {
				e.State = StatePostspawn
			}
		}
		if e.State == StatePostspawn {
			return stepPostspawn(ctx, inst, e)
		}
		return true

	case StatePostspawn:
		return stepPostspawn(ctx, inst, e)
	}
	return false
}

// stepPostspawn settles e to Sleeping once its particles have drained,
// firing the state-change callback; otherwise e stays Postspawn and awake.
func stepPostspawn(ctx *Context, inst *Instance, e *Emitter) bool {
	if len(e.Particles) == 0 {
		e.State = StateSleeping
		inst.numAwakeEmitters--
		if inst.numAwakeEmitters < 0 {
			inst.numAwakeEmitters = 0
		}
		fireStateChanged(ctx, inst, e)
		return false
	}
	return true
}
