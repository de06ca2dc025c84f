package particlefx

import (
	"hash/fnv"
	"math"
)

// EmitterRenderData is the render-facing snapshot of one emitter, refreshed
// once per Update call (§4.11). A host reads this (never the Emitter's
// internal simulation fields) to decide whether it needs to open a new
// render batch or can append to the previous one: batches compare
// MixedHash, not individual fields, so any field that changes how the
// emitter would draw must be folded into the hash.
type EmitterRenderData struct {
	Transform Mat4

	MaterialRef   any
	TileSourceRef any
	BlendMode     BlendMode

	RenderConstants []RenderConstant

	// MixedHash fingerprints material + tile source + blend mode + render
	// constants.
	// MixedHashNoMaterial fingerprints the same minus the material, used by
	// hosts that batch across materials sharing one shader (§6.1).
	MixedHash           uint32
	MixedHashNoMaterial uint32
}

// RenderEmitterCallback receives one emitter's render-facing data; it is
// the host's hook point for building or extending a draw batch (§4.11).
type RenderEmitterCallback func(data *EmitterRenderData, vertexIndex, vertexCount int, userData any)

// RenderLineCallback draws one debug line segment (§6.1's DebugRender hook).
type RenderLineCallback func(start, end Vec3, color Color, userData any)

// SetRenderConstant overrides a named shader constant on one emitter with a
// vector4 value (§6.1). The name is caller-hashed (typically with the same
// hashString the core uses for emitter ids) so the core never needs to see
// the original string.
func (ctx *Context) SetRenderConstant(h Handle, emitterIndex int, nameHash uint64, value [4]float32) error {
	e, err := ctx.emitterFor(h, emitterIndex)
	if err != nil {
		return err
	}
	setRenderConstant(e, RenderConstant{NameHash: nameHash, Vector4: value})
	return nil
}

// SetRenderConstantM4 is SetRenderConstant's matrix-valued counterpart.
func (ctx *Context) SetRenderConstantM4(h Handle, emitterIndex int, nameHash uint64, value Mat4) error {
	e, err := ctx.emitterFor(h, emitterIndex)
	if err != nil {
		return err
	}
	setRenderConstant(e, RenderConstant{NameHash: nameHash, IsMatrix: true, Matrix4: value})
	return nil
}

// ResetRenderConstant removes a previously set constant from the emitter;
// the next render-data refresh drops it from RenderData and rehashes.
func (ctx *Context) ResetRenderConstant(h Handle, emitterIndex int, nameHash uint64) error {
	e, err := ctx.emitterFor(h, emitterIndex)
	if err != nil {
		return err
	}
	for i := range e.RenderConstants {
		if e.RenderConstants[i].NameHash == nameHash {
			last := len(e.RenderConstants) - 1
			e.RenderConstants[i] = e.RenderConstants[last]
			e.RenderConstants = e.RenderConstants[:last]
			e.rehashNeeded = true
			break
		}
	}
	return nil
}

func setRenderConstant(e *Emitter, rc RenderConstant) {
	for i := range e.RenderConstants {
		if e.RenderConstants[i].NameHash == rc.NameHash {
			e.RenderConstants[i] = rc
			e.rehashNeeded = true
			return
		}
	}
	e.RenderConstants = append(e.RenderConstants, rc)
	e.rehashNeeded = true
}

func (ctx *Context) emitterFor(h Handle, emitterIndex int) (*Emitter, error) {
	inst, ok := ctx.lookup(h)
	if !ok {
		ctx.staleHandle("SetRenderConstant")
		return nil, ErrStaleHandle
	}
	if emitterIndex < 0 || emitterIndex >= len(inst.Emitters) {
		return nil, ErrInvalidEmitterIndex
	}
	return &inst.Emitters[emitterIndex], nil
}

// refreshRenderData rebuilds e.RenderData from proto and the instance
// transform, and recomputes the mixed hash whenever the material, blend
// mode or constant set could have changed it (§4.11). The hash refresh is
// deferred — never computed — while the emitter has no material bound yet,
// matching the source's "don't hash a half-initialized emitter" rule.
func refreshRenderData(inst *Instance, proto *EmitterPrototype, e *Emitter) {
	rd := &e.RenderData
	rd.Transform = instanceTransform(inst)
	rd.MaterialRef = proto.MaterialRef
	rd.TileSourceRef = proto.TileSourceRef
	rd.BlendMode = proto.BlendMode

	if cap(rd.RenderConstants) >= len(e.RenderConstants) {
		rd.RenderConstants = rd.RenderConstants[:len(e.RenderConstants)]
	} else {
		rd.RenderConstants = make([]RenderConstant, len(e.RenderConstants))
	}
	copy(rd.RenderConstants, e.RenderConstants)

	if proto.MaterialRef == nil {
		return
	}
	if !e.rehashNeeded && rd.MixedHash != 0 {
		return
	}
	rd.MixedHash = mixedHash(proto, e, true)
	rd.MixedHashNoMaterial = mixedHash(proto, e, false)
	e.rehashNeeded = false
}

func mixedHash(proto *EmitterPrototype, e *Emitter, includeMaterial bool) uint32 {
	h := fnv.New32a()
	if includeMaterial {
		writeHashString(h, proto.MaterialPath)
	}
	writeHashString(h, proto.TileSourcePath)
	writeHashByte(h, byte(proto.BlendMode))
	for i := range e.RenderConstants {
		rc := &e.RenderConstants[i]
		writeHashUint64(h, rc.NameHash)
		if rc.IsMatrix {
			for _, v := range rc.Matrix4 {
				writeHashFloat(h, v)
			}
		} else {
			for _, v := range rc.Vector4 {
				writeHashFloat(h, v)
			}
		}
	}
	return h.Sum32()
}

func writeHashString(h interface{ Write([]byte) (int, error) }, s string) {
	_, _ = h.Write([]byte(s))
}

func writeHashByte(h interface{ Write([]byte) (int, error) }, b byte) {
	_, _ = h.Write([]byte{b})
}

func writeHashUint64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	_, _ = h.Write(b[:])
}

func writeHashFloat(h interface{ Write([]byte) (int, error) }, f float32) {
	bits := math.Float32bits(f)
	var b [4]byte
	for i := 0; i < 4; i++ {
		b[i] = byte(bits >> (8 * i))
	}
	_, _ = h.Write(b[:])
}

// GetMaterialPath returns the diagnostic material path compiled into one
// emitter's prototype (§6.1's GetMaterialPath accessor), or "" on a stale
// handle or out-of-range index.
func (ctx *Context) GetMaterialPath(h Handle, emitterIndex int) string {
	inst, ok := ctx.lookup(h)
	if !ok || emitterIndex < 0 || emitterIndex >= len(inst.proto.Emitters) {
		return ""
	}
	return inst.proto.Emitters[emitterIndex].MaterialPath
}

// GetTileSourcePath is GetMaterialPath's tile-source counterpart.
func (ctx *Context) GetTileSourcePath(h Handle, emitterIndex int) string {
	inst, ok := ctx.lookup(h)
	if !ok || emitterIndex < 0 || emitterIndex >= len(inst.proto.Emitters) {
		return ""
	}
	return inst.proto.Emitters[emitterIndex].TileSourcePath
}

// GetEmitterRenderData returns a copy of one emitter's render snapshot, as
// of the last Update call.
func (ctx *Context) GetEmitterRenderData(h Handle, emitterIndex int) (EmitterRenderData, error) {
	e, err := ctx.emitterFor(h, emitterIndex)
	if err != nil {
		return EmitterRenderData{}, err
	}
	return e.RenderData, nil
}

// RenderEmitter invokes cb for every awake, non-empty emitter across every
// live instance in the context (§4.11), in instance-slot order. Hosts use
// this to drive their own batching without the core knowing about a
// concrete graphics API.
func (ctx *Context) RenderEmitter(cb RenderEmitterCallback, userData any) {
	for i := range ctx.slots {
		slot := &ctx.slots[i]
		if !slot.occupied {
			continue
		}
		inst := &slot.inst
		for ei := range inst.Emitters {
			e := &inst.Emitters[ei]
			if e.State == StateSleeping || e.VertexCount == 0 {
				continue
			}
			cb(&e.RenderData, e.VertexIndex, e.VertexCount, userData)
		}
	}
}

// DebugRender draws a small two-line axis cross at each emitter's position
// through cb, for every awake emitter across every live instance (§6.1).
// It does not trace the emitter's spawn shape. This never affects
// simulation state; it exists purely as a development aid, matching the
// teacher's own debug-draw idiom (log.go/StderrLogger sits alongside it as
// the other development-time surface).
func (ctx *Context) DebugRender(cb RenderLineCallback, userData any) {
	for i := range ctx.slots {
		slot := &ctx.slots[i]
		if !slot.occupied {
			continue
		}
		inst := &slot.inst
		for ei := range inst.Emitters {
			e := &inst.Emitters[ei]
			if e.State == StateSleeping {
				continue
			}
			proto := &inst.proto.Emitters[ei]
			debugDrawShape(inst, proto, cb, userData)
		}
	}
}

func debugDrawShape(inst *Instance, proto *EmitterPrototype, cb RenderLineCallback, userData any) {
	center := transformPoint(instanceTransform(inst), proto.LocalPosition)
	axisX := transformDir(instanceTransform(inst), Vec3{0.2, 0, 0})
	axisY := transformDir(instanceTransform(inst), Vec3{0, 0.2, 0})
	col := Color{1, 1, 1, 1}
	cb(center.Sub(axisX), center.Add(axisX), col, userData)
	cb(center.Sub(axisY), center.Add(axisY), col, userData)
}
