package particlefx

// AnimPlayback selects how a flip-book animation's frame cursor advances
// (§4.9). The seven values are restored verbatim from
// original_source/engine/particle/src/particle.h's AnimPlayback enum
// (§6.1) rather than collapsed to the three modes spec.md's prose names.
type AnimPlayback uint8

const (
	PlaybackNone AnimPlayback = iota
	PlaybackOnceForward
	PlaybackOnceBackward
	PlaybackLoopForward
	PlaybackLoopBackward
	PlaybackLoopPingPong
	PlaybackOncePingPong
)

// TileUV is one tile's UV rectangle in texture-space [0,1]: (U0,V0) is the
// p0 corner and (U1,V1) the p3 corner; the vertex generator derives p1 and
// p2 from them.
type TileUV struct {
	U0, V0, U1, V1 float32
}

// AnimationData is what FetchAnimationCallback returns: everything the
// animation cursor and vertex generator need for one emitter's tiles
// (§6). StructSize lets the core detect a version mismatch with the host
// (§6.1, AnimationDataMismatch — a fatal assertion, not a soft error).
type AnimationData struct {
	Texture any // opaque host texture reference

	TileUVs   []TileUV
	TileDims  []Vec3 // per-tile (width, height, _) in the size-mode-Auto case

	TileWidth, TileHeight float32
	StartTile, EndTile    int
	FPS                   float32
	Playback              AnimPlayback
	HFlip, VFlip          bool

	StructSize int
}

// FetchAnimationResult is the three-way outcome of FetchAnimationCallback,
// restored per §6.1 rather than collapsed into a boolean.
type FetchAnimationResult uint8

const (
	FetchOK FetchAnimationResult = iota
	FetchNotFound
	FetchError
)

// FetchAnimationCallback resolves a tile-source + animation id pair to
// AnimationData (§6). The AnimationData it fills must remain readable
// until the end of the current Update call (§5).
type FetchAnimationCallback func(tileSourceRef any, animationID string) (AnimationData, FetchAnimationResult)

// expectedAnimationDataStructSize is the struct-size fingerprint this core
// expects from a host's AnimationData (§6.1's AnimationDataMismatch
// assertion). Hosts that vendor their own AnimationData type must report
// this value in StructSize.
const expectedAnimationDataStructSize = 1

// animCursor computes the flip-book tile index for one particle (§4.9).
func animCursor(anim *AnimationData, p *Particle, dt float32) int {
	tileCount := anim.EndTile - anim.StartTile + 1
	if tileCount <= 1 || anim.Playback == PlaybackNone {
		return anim.StartTile
	}

	animCursorT := p.MaxLifeTime - p.TimeLeft - 0.5*dt

	var animT float32
	switch anim.Playback {
	case PlaybackOnceForward, PlaybackOnceBackward, PlaybackOncePingPong:
		animT = animCursorT * p.ooMaxLifeTime
	default:
		animT = animCursorT * (anim.FPS / float32(tileCount))
	}

	tile := int(float32(tileCount)*animT) % tileCount
	if tile < 0 {
		tile += tileCount
	}

	switch anim.Playback {
	case PlaybackLoopPingPong, PlaybackOncePingPong:
		interval := tileCount
		if tile >= interval {
			tile = 2*(interval-1) - tile
		}
	}

	switch anim.Playback {
	case PlaybackOnceBackward, PlaybackLoopBackward:
		tile = tileCount - tile - 1
	}

	return anim.StartTile + tile
}

// tileExtents computes a particle's full quad width and height (§4.9
// sizing rule); the vertex generator halves them to place the corners.
func tileExtents(anim *AnimationData, tile int, sizeMode SizeMode, p *Particle) (w, h float32) {
	if sizeMode == SizeAuto && anim != nil && tile-anim.StartTile < len(anim.TileDims) && tile >= anim.StartTile {
		dims := anim.TileDims[tile-anim.StartTile]
		return dims[0] * p.Scale[0], dims[1] * p.Scale[1]
	}
	aspect := float32(1)
	if anim != nil && anim.TileHeight > 0 {
		aspect = anim.TileWidth / anim.TileHeight
	}
	baseW := p.SourceSize[0] * p.Scale[0]
	baseH := p.SourceSize[1] * p.Scale[1]
	if aspect >= 1 {
		return baseW, baseH / aspect
	}
	return baseW * aspect, baseH
}
