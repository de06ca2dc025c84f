// Package particlefx is a CPU-simulated particle effect core: it spawns,
// ages, modifies, sorts and emits vertex data for many short-lived
// particles per frame from a declarative, pre-parsed effect description.
//
// The package owns no window, no GPU resources and no file I/O. A [Context]
// holds a fixed-capacity pool of [Instance]s; each Instance runs a
// [Prototype] compiled once from a [ParticleFX] description. Callers drive
// everything from a single goroutine: [Context.Update] once per frame, then
// [Context.GenerateVertexData] per emitter they intend to draw.
//
// # Quick start
//
//	ctx := particlefx.NewContext(particlefx.ContextConfig{
//		MaxInstances:  64,
//		MaxParticles:  4096,
//	})
//	proto, err := particlefx.CompilePrototype(ctx, desc)
//	h, err := ctx.CreateInstance(proto, nil)
//	ctx.StartInstance(h)
//
//	for {
//		ctx.Update(dt, fetchAnimation)
//		n, _, err := ctx.GenerateVertexData(h, 0, particlefx.ColorWhite, nil, buf, particlefx.LayoutGameObject)
//	}
//
// See cmd/particledemo for an end-to-end example built on [ebiten].
//
// [ebiten]: https://ebitengine.org
package particlefx
