package particlefx

// Handle identifies one Instance: (generation<<16) | index. The zero value
// is never issued by CreateInstance (the generation counter starts at 1
// and skips 0 on wraparound), so InvalidHandle is a safe sentinel.
type Handle uint32

// InvalidHandle is returned by CreateInstance on failure and never refers
// to a live Instance.
const InvalidHandle Handle = 0

func makeHandle(generation uint16, index int) Handle {
	return Handle(uint32(generation)<<16 | uint32(uint16(index)))
}

func (h Handle) generation() uint16 { return uint16(h >> 16) }
func (h Handle) index() int         { return int(uint16(h)) }

// Stats is the context-wide introspection snapshot named in §6.1, restored
// from original_source/engine/particle/src/particle.h's Stats struct. It
// is the only introspection surface this repo provides; per DESIGN.md's
// Open Question decision, no profiler subsystem is built on top of it.
type Stats struct {
	ParticlesSpawned  int // spawned this Update call
	ParticlesAlive    int // alive across all instances, as of the last Update
	ParticlesMax      int // configured MaxParticles ceiling
}

// InstanceStats is the per-instance counterpart to Stats.
type InstanceStats struct {
	Particles int
}

// ContextConfig configures a Context at creation time. Matches the
// teacher's plain-option-struct idiom (scene.go's RunConfig,
// particle_test.go's defaultTestConfig) rather than a flags/env config
// library.
type ContextConfig struct {
	// MaxInstances bounds concurrent Instances. Zero defaults to 64.
	MaxInstances int
	// MaxParticles bounds the total particle count across every Instance
	// in this Context (§6's particle_fx.max_particle_count /
	// gui.max_particle_count). Zero defaults to 4096.
	MaxParticles int
	// Debug replaces the teacher's package-level globalDebug flag,
	// per SPEC_FULL §9's "global static state must go" note. It is kept in
	// the Context's configuration; no code path in this package reads it.
	Debug bool
	// Logger receives warnings (§7). Defaults to a no-op logger; pass
	// StderrLogger{} to match the teacher's stderr diagnostic style.
	Logger Logger
	// Seed initializes the instance-seeding counter used to diversify
	// same-frame instance creation (§4.4). Zero is a valid seed.
	Seed uint32
}

type instanceSlot struct {
	occupied   bool
	generation uint16
	inst       Instance
}

// Context is process/scene-global particle runtime state (§3): the
// instance pool, the global particle ceiling, and accumulating stats.
// Created once, torn down once; every public operation must be called
// from one goroutine (§5) — the core performs no internal locking.
type Context struct {
	cfg ContextConfig

	slots    []instanceSlot
	freeList []int

	nextGeneration uint16
	instanceSeed   uint32

	maxParticles  int
	particlesAlive int
	particlesSpawnedLastUpdate int

	// sortScratch is per-frame scratch for sortParticles, reused across
	// every emitter in every instance so steady-state Update never
	// allocates past its high-water mark (§5, §9).
	sortScratch []Particle

	// vertexOverflowCount counts VertexBufferOverflow occurrences across
	// the context, surfaced for diagnostics/tests.
	vertexOverflowCount int

	// attributeWriter/attributeStride back SetAttributeWriter (§6.1): an
	// optional hook appending attributeStride host-defined bytes after
	// every Game-object vertex's fixed fields.
	attributeWriter AttributeWriter
	attributeStride int

	logger Logger
}

// NewContext creates a Context with a fixed-capacity instance pool. The
// pool is sized here; each Instance's particle storage is sized once, when
// CreateInstance builds its emitters.
func NewContext(cfg ContextConfig) *Context {
	if cfg.MaxInstances <= 0 {
		cfg.MaxInstances = 64
	}
	if cfg.MaxParticles <= 0 {
		cfg.MaxParticles = 4096
	}
	logger := cfg.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	ctx := &Context{
		cfg:            cfg,
		slots:          make([]instanceSlot, cfg.MaxInstances),
		freeList:       make([]int, cfg.MaxInstances),
		nextGeneration: 1,
		instanceSeed:   cfg.Seed,
		maxParticles:   cfg.MaxParticles,
		logger:         logger,
	}
	for i := range ctx.freeList {
		ctx.freeList[i] = cfg.MaxInstances - 1 - i
	}
	return ctx
}

func (ctx *Context) warnf(format string, args ...any) {
	ctx.logger.Warnf(format, args...)
}

// Stats returns the context-wide snapshot as of the last Update call.
func (ctx *Context) Stats() Stats {
	return Stats{
		ParticlesSpawned: ctx.particlesSpawnedLastUpdate,
		ParticlesAlive:   ctx.particlesAlive,
		ParticlesMax:     ctx.maxParticles,
	}
}

// InstanceStats returns the per-instance particle count, or the zero value
// on a stale handle.
func (ctx *Context) InstanceStats(h Handle) InstanceStats {
	inst, ok := ctx.lookup(h)
	if !ok {
		return InstanceStats{}
	}
	n := 0
	for i := range inst.Emitters {
		n += len(inst.Emitters[i].Particles)
	}
	return InstanceStats{Particles: n}
}

// lookup resolves a Handle to its Instance (§3 invariant 1: valid iff
// generation matches AND the slot is occupied).
func (ctx *Context) lookup(h Handle) (*Instance, bool) {
	idx := h.index()
	if idx < 0 || idx >= len(ctx.slots) {
		return nil, false
	}
	slot := &ctx.slots[idx]
	if !slot.occupied || slot.generation != h.generation() {
		return nil, false
	}
	return &slot.inst, true
}

func (ctx *Context) staleHandle(op string) {
	ctx.warnf("%s: stale instance handle", op)
}
