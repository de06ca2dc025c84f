package particlefx

import (
	"encoding/binary"
	"math"
)

// VertexLayout selects one of the two output vertex formats (§4.10).
type VertexLayout uint8

const (
	// LayoutGameObject is 3 float32 position, 4 byte RGBA, 2 uint16 UV
	// (scaled by 65535) — 20 bytes/vertex.
	LayoutGameObject VertexLayout = iota
	// LayoutGUI is 3 float32 position, 1 packed RGBA8 dword (ABGR byte
	// order), 2 float32 UV — 24 bytes/vertex.
	LayoutGUI
)

// VertexStride returns the byte size of one vertex in the given layout.
func (l VertexLayout) VertexStride() int {
	switch l {
	case LayoutGameObject:
		return 20
	case LayoutGUI:
		return 24
	}
	return 0
}

// GenerateVertexDataResult is the three-way outcome of GenerateVertexData,
// restored per §6.1 from the source's GenerateVertexDataResult enum.
type GenerateVertexDataResult uint8

const (
	VertexDataOK GenerateVertexDataResult = iota
	VertexDataMaxParticlesExceeded
	VertexDataNoGeometry
)

// AttributeWriter emits custom per-vertex attribute bytes appended after the
// fixed Game-object layout fields (§6.1, restored as an optional hook from
// the source's WriteAttributeToScratchBuffer/ResetAttributeScratchBuffer
// pair). It is never consulted for LayoutGUI, which has no custom attributes
// in the source. cornerIndex names the quad corner the vertex sits on
// (0=p0, 1=p1, 2=p2, 3=p3); the writer is called six times per particle,
// in the triangle order p0 p1 p3 p3 p2 p0.
type AttributeWriter func(p *Particle, cornerIndex int, dst []byte)

// SetAttributeWriter installs w as the Game-object layout's custom-attribute
// hook, reserving attrStride extra bytes per vertex for it to fill. Passing
// a nil writer removes the hook and its reserved bytes.
func (ctx *Context) SetAttributeWriter(w AttributeWriter, attrStride int) {
	ctx.attributeWriter = w
	ctx.attributeStride = attrStride
	if w == nil {
		ctx.attributeStride = 0
	}
}

// uvLookupTable holds the per-vertex UV corner (in [0,1] tile-local space)
// for each of the 6 vertices of the two triangles (p0 p1 p3 / p3 p2 p0),
// indexed by (hFlip | vFlip<<1)*6 + i, matching §4.10 exactly.
var uvLookupTable [4 * 6][2]float32

func init() {
	// Corners before flip, matching p0..p3 naming: p0=(0,0) p1=(0,1)
	// p2=(1,0) p3=(1,1) in tile-local UV space.
	corner := [4][2]float32{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	order := [6]int{0, 1, 3, 3, 2, 0}
	for flipIdx := 0; flipIdx < 4; flipIdx++ {
		hFlip := flipIdx&1 != 0
		vFlip := flipIdx&2 != 0
		for i, c := range order {
			u, v := corner[c][0], corner[c][1]
			if hFlip {
				u = 1 - u
			}
			if vFlip {
				v = 1 - v
			}
			uvLookupTable[flipIdx*6+i] = [2]float32{u, v}
		}
	}
}

// GenerateVertexData writes e's living particles as an interleaved vertex
// stream into buf in the requested layout (§4.10). It writes at most
// len(buf) bytes, always a whole number of vertices, and stops (logging a
// one-shot overflow warning) when the next particle's 6 vertices would not
// fit. tint is multiplied elementwise into every particle's color.
func (ctx *Context) GenerateVertexData(h Handle, emitterIndex int, tint Color, anim *AnimationData, buf []byte, layout VertexLayout) (int, GenerateVertexDataResult, error) {
	inst, ok := ctx.lookup(h)
	if !ok {
		ctx.staleHandle("GenerateVertexData")
		return 0, VertexDataNoGeometry, ErrStaleHandle
	}
	if emitterIndex < 0 || emitterIndex >= len(inst.Emitters) {
		return 0, VertexDataNoGeometry, ErrInvalidEmitterIndex
	}
	e := &inst.Emitters[emitterIndex]
	proto := &inst.proto.Emitters[emitterIndex]

	if len(e.Particles) == 0 {
		e.VertexIndex, e.VertexCount = 0, 0
		return 0, VertexDataNoGeometry, nil
	}

	stride := layout.VertexStride()
	attrStride := 0
	if layout == LayoutGameObject {
		attrStride = ctx.attributeStride
	}
	stride += attrStride
	maxVerts := len(buf) / stride
	written := 0
	overflowed := false

	for pi := range e.Particles {
		if written+6 > maxVerts {
			overflowed = true
			break
		}
		p := &e.Particles[pi]

		tile := 0
		if anim != nil {
			tile = animCursor(anim, p, 0)
		}
		w, hgt := tileExtents(anim, tile, proto.SizeMode, p)

		x := transformDir(p.Rotation.Mat4(), Vec3{w / 2, 0, 0})
		y := transformDir(p.Rotation.Mat4(), Vec3{0, hgt / 2, 0})
		t := p.Position

		p0 := t.Sub(x).Sub(y)
		p1 := t.Sub(x).Add(y)
		p2 := t.Add(x).Sub(y)
		p3 := t.Add(x).Add(y)
		corners := [4]Vec3{p0, p1, p2, p3}

		col := p.Color.Mul(tint)

		flipIdx := 0
		var uv TileUV = TileUV{0, 0, 1, 1}
		if anim != nil {
			if anim.HFlip {
				flipIdx |= 1
			}
			if anim.VFlip {
				flipIdx |= 2
			}
			if tile-anim.StartTile >= 0 && tile-anim.StartTile < len(anim.TileUVs) {
				uv = anim.TileUVs[tile-anim.StartTile]
			}
		}

		order := [6]int{0, 1, 3, 3, 2, 0}
		for vi, cornerIdx := range order {
			base := uvLookupTable[flipIdx*6+vi]
			u := uv.U0 + (uv.U1-uv.U0)*base[0]
			v := uv.V0 + (uv.V1-uv.V0)*base[1]
			dst := buf[written*stride:]
			writeVertex(dst, layout, corners[cornerIdx], col, u, v)
			if attrStride > 0 {
				fixed := layout.VertexStride()
				ctx.attributeWriter(p, cornerIdx, dst[fixed:fixed+attrStride])
			}
			written++
		}
	}

	e.VertexIndex = 0
	e.VertexCount = written

	if overflowed {
		ctx.vertexOverflowCount++
		if !e.warnedOverflow {
			e.warnedOverflow = true
			if layout == LayoutGUI {
				ctx.warnf("Maximum number of particles exceeded (gui.max_particle_count)")
			} else {
				ctx.warnf("Maximum number of particles exceeded (particle_fx.max_particle_count)")
			}
		}
		return written * stride, VertexDataMaxParticlesExceeded, nil
	}
	return written * stride, VertexDataOK, nil
}

func writeVertex(dst []byte, layout VertexLayout, pos Vec3, col Color, u, v float32) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(pos[0]))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(pos[1]))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(pos[2]))

	switch layout {
	case LayoutGameObject:
		dst[12] = byte(clamp01(col.R) * 255)
		dst[13] = byte(clamp01(col.G) * 255)
		dst[14] = byte(clamp01(col.B) * 255)
		dst[15] = byte(clamp01(col.A) * 255)
		binary.LittleEndian.PutUint16(dst[16:18], uint16(clamp01(u)*65535))
		binary.LittleEndian.PutUint16(dst[18:20], uint16(clamp01(v)*65535))

	case LayoutGUI:
		dst[12] = byte(clamp01(col.A) * 255)
		dst[13] = byte(clamp01(col.B) * 255)
		dst[14] = byte(clamp01(col.G) * 255)
		dst[15] = byte(clamp01(col.R) * 255)
		binary.LittleEndian.PutUint32(dst[16:20], math.Float32bits(u))
		binary.LittleEndian.PutUint32(dst[20:24], math.Float32bits(v))
	}
}
