package main

import (
	"encoding/binary"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/particlefx"
)

// decodeGameObjectVertices reinterprets a raw particlefx.LayoutGameObject
// vertex stream as ebiten.Vertex/index slices, the same buffer-reinterpret
// trick the teacher's batch.go submitParticlesBatched uses for its own
// pre-sized vertex slice: the core never allocates an ebiten-shaped struct
// itself, the adapter reads the stride directly off the wire layout.
func decodeGameObjectVertices(buf []byte, originX, originY, zoom float32) ([]ebiten.Vertex, []uint16) {
	stride := particlefx.LayoutGameObject.VertexStride()
	count := len(buf) / stride

	verts := make([]ebiten.Vertex, count)
	indices := make([]uint16, count)

	for i := 0; i < count; i++ {
		off := i * stride
		x := math.Float32frombits(binary.LittleEndian.Uint32(buf[off : off+4]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(buf[off+4 : off+8]))
		r := float32(buf[off+12]) / 255
		g := float32(buf[off+13]) / 255
		b := float32(buf[off+14]) / 255
		a := float32(buf[off+15]) / 255

		verts[i] = ebiten.Vertex{
			DstX:   originX + x*zoom,
			DstY:   originY - y*zoom,
			SrcX:   0,
			SrcY:   0,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		}
		indices[i] = uint16(i)
	}
	return verts, indices
}
