package particlefx

import "github.com/go-gl/mathgl/mgl32"

// EmitterStateChangedFunc is the optional per-instance callback fired when
// an emitter enters Prespawn or Sleeping (§4.5), mirroring
// EmitterStateChanged from original_source/engine/particle/src/particle.h.
type EmitterStateChangedFunc func(numAwakeEmitters int, emitterIDHash uint64, newState EmitterState, userData any)

// Instance is one running effect (§3): an ordered array of Emitters with
// the same length as its Prototype's emitter array, a world transform, a
// generation number (mirrored from its slot for self-checks), and an
// accumulated play-time used by replay.
type Instance struct {
	proto *Prototype

	Emitters []Emitter

	WorldTransform Mat4
	ScaleAlongZ    bool

	// trsPosition/trsRotation/trsScale are the decomposed transform
	// components SetPosition/SetRotation/SetScale mutate independently;
	// WorldTransform is recomposed from them after each setter so it always
	// reflects the current position/rotation/scale together (§6's transform
	// setters must not clobber one another). SetTransform bypasses this and
	// writes WorldTransform directly, matching the teacher's "fast path for
	// hosts that already maintain a full Mat4" idiom — mixing SetTransform
	// with the component setters on the same instance is not supported.
	trsPosition Vec3
	trsRotation Quat
	trsScale    Vec3

	PlayTime float32

	numAwakeEmitters int

	onStateChanged EmitterStateChangedFunc
	userData       any

	generation uint16
}

// CreateInstance allocates a slot from the pool and spins up one Emitter
// per EmitterPrototype in proto (§4.4). It fails with ErrOutOfInstances if
// the pool has no free slot.
func (ctx *Context) CreateInstance(proto *Prototype, onStateChanged EmitterStateChangedFunc) (Handle, error) {
	return ctx.createInstance(proto, onStateChanged, nil)
}

// CreateInstanceWithUserData is CreateInstance plus an opaque value handed
// back to onStateChanged on every call.
func (ctx *Context) CreateInstanceWithUserData(proto *Prototype, onStateChanged EmitterStateChangedFunc, userData any) (Handle, error) {
	return ctx.createInstance(proto, onStateChanged, userData)
}

func (ctx *Context) createInstance(proto *Prototype, onStateChanged EmitterStateChangedFunc, userData any) (Handle, error) {
	if len(ctx.freeList) == 0 {
		ctx.warnf("out of instances (see particle_fx.max_count)")
		return InvalidHandle, ErrOutOfInstances
	}
	idx := ctx.freeList[len(ctx.freeList)-1]
	ctx.freeList = ctx.freeList[:len(ctx.freeList)-1]

	gen := ctx.nextGeneration
	ctx.nextGeneration++
	if ctx.nextGeneration == 0 {
		ctx.nextGeneration = 1 // skip zero on wraparound
	}

	slot := &ctx.slots[idx]
	slot.occupied = true
	slot.generation = gen

	inst := &slot.inst
	*inst = Instance{
		proto:          proto,
		WorldTransform: Mat4Ident(),
		onStateChanged: onStateChanged,
		userData:       userData,
		generation:     gen,
		trsRotation:    mgl32.QuatIdent(),
		trsScale:       Vec3{1, 1, 1},
	}
	inst.Emitters = make([]Emitter, len(proto.Emitters))
	for i := range proto.Emitters {
		ctx.instanceSeed++
		seed := hash32(uint32(i), uint32(idx), ctx.instanceSeed)
		initEmitter(&inst.Emitters[i], &proto.Emitters[i], seed)
	}

	return makeHandle(gen, idx), nil
}

// DestroyInstance releases the slot backing h. It is idempotent: an
// invalid handle is a silent no-op (§4.4).
func (ctx *Context) DestroyInstance(h Handle) {
	idx := h.index()
	if idx < 0 || idx >= len(ctx.slots) {
		return
	}
	slot := &ctx.slots[idx]
	if !slot.occupied || slot.generation != h.generation() {
		return
	}
	slot.occupied = false
	slot.inst = Instance{}
	ctx.freeList = append(ctx.freeList, idx)
}

// StartInstance transitions every Sleeping emitter in h to Prespawn.
func (ctx *Context) StartInstance(h Handle) error {
	inst, ok := ctx.lookup(h)
	if !ok {
		ctx.staleHandle("StartInstance")
		return ErrStaleHandle
	}
	for i := range inst.Emitters {
		startEmitter(ctx, inst, &inst.Emitters[i])
	}
	return nil
}

// StopInstance transitions every emitter past Spawning into Postspawn,
// letting existing particles drain without respawning.
func (ctx *Context) StopInstance(h Handle) error {
	inst, ok := ctx.lookup(h)
	if !ok {
		ctx.staleHandle("StopInstance")
		return ErrStaleHandle
	}
	for i := range inst.Emitters {
		stopEmitter(ctx, inst, &inst.Emitters[i])
	}
	return nil
}

// RetireInstance sets the retiring flag on every emitter (§4.5): the
// current loop iteration finishes normally, then the emitter proceeds to
// Postspawn instead of looping again.
func (ctx *Context) RetireInstance(h Handle) error {
	inst, ok := ctx.lookup(h)
	if !ok {
		ctx.staleHandle("RetireInstance")
		return ErrStaleHandle
	}
	for i := range inst.Emitters {
		inst.Emitters[i].Retiring = true
	}
	return nil
}

// ResetInstance immediately clears every emitter back to Sleeping with no
// live particles, without waiting for a natural drain.
func (ctx *Context) ResetInstance(h Handle) error {
	inst, ok := ctx.lookup(h)
	if !ok {
		ctx.staleHandle("ResetInstance")
		return ErrStaleHandle
	}
	for i := range inst.Emitters {
		resetEmitter(&inst.Emitters[i], &inst.proto.Emitters[i])
	}
	inst.PlayTime = 0
	inst.numAwakeEmitters = 0
	return nil
}

// IsSleeping reports whether every emitter in h is Sleeping (no live
// particles, no pending spawn). A stale handle reports true.
func (ctx *Context) IsSleeping(h Handle) bool {
	inst, ok := ctx.lookup(h)
	if !ok {
		return true
	}
	for i := range inst.Emitters {
		if inst.Emitters[i].State != StateSleeping {
			return false
		}
	}
	return true
}

// SetPosition sets h's world-space translation, preserving rotation/scale.
func (ctx *Context) SetPosition(h Handle, pos Vec3) {
	inst, ok := ctx.lookup(h)
	if !ok {
		ctx.staleHandle("SetPosition")
		return
	}
	inst.trsPosition = pos
	recomposeWorldTransform(inst)
}

// SetRotation replaces h's world-space rotation, preserving position/scale.
func (ctx *Context) SetRotation(h Handle, rot Quat) {
	inst, ok := ctx.lookup(h)
	if !ok {
		ctx.staleHandle("SetRotation")
		return
	}
	inst.trsRotation = rot
	recomposeWorldTransform(inst)
}

// SetScale replaces h's world-space scale, preserving position/rotation.
func (ctx *Context) SetScale(h Handle, scale Vec3) {
	inst, ok := ctx.lookup(h)
	if !ok {
		ctx.staleHandle("SetScale")
		return
	}
	inst.trsScale = scale
	recomposeWorldTransform(inst)
}

// recomposeWorldTransform rebuilds WorldTransform as
// translate(trsPosition) * rotate(trsRotation) * scale(trsScale) so the
// three component setters never clobber one another.
func recomposeWorldTransform(inst *Instance) {
	t := Mat4Ident()
	t[12], t[13], t[14] = inst.trsPosition[0], inst.trsPosition[1], inst.trsPosition[2]
	r := inst.trsRotation.Mat4()
	s := mgl32.Scale3D(inst.trsScale[0], inst.trsScale[1], inst.trsScale[2])
	inst.WorldTransform = t.Mul4(r).Mul4(s)
}

// SetScaleAlongZ controls whether the world transform's Z-scale is applied
// to emitter-space positions (§4.6, §4.11); some hosts intentionally skip
// it for 2D-only effects rendered in a 3D world.
func (ctx *Context) SetScaleAlongZ(h Handle, on bool) {
	inst, ok := ctx.lookup(h)
	if !ok {
		ctx.staleHandle("SetScaleAlongZ")
		return
	}
	inst.ScaleAlongZ = on
}

// SetTransform replaces h's whole world transform at once. Unlike
// SetPosition/SetRotation this is the fast path for hosts that already
// maintain a full Mat4 (e.g. a 3D scene graph node).
func (ctx *Context) SetTransform(h Handle, m Mat4) {
	inst, ok := ctx.lookup(h)
	if !ok {
		ctx.staleHandle("SetTransform")
		return
	}
	inst.WorldTransform = m
}

// Mat4Ident returns the identity 4x4 matrix.
func Mat4Ident() Mat4 {
	return Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// hash32 mixes three 32-bit values into one, used to seed a new emitter's
// PRNG from (emitter index, pool slot index, per-context instance-seed
// counter) so same-frame instance creation diversifies (§4.4).
func hash32(a, b, c uint32) uint32 {
	h := a*2654435761 + b
	h ^= h >> 15
	h = h*2246822519 + c
	h ^= h >> 13
	h *= 3266489917
	h ^= h >> 16
	return h
}
