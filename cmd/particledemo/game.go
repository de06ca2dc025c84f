package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/particlefx"
)

const maxDemoParticles = 2000

// Game is the ebiten.Game implementation driving one particlefx.Context
// through its Update/GenerateVertexData surface. It is demo scaffolding,
// not part of the simulation core.
type Game struct {
	ctx    *particlefx.Context
	proto  *particlefx.Prototype
	handle particlefx.Handle

	cam *camera

	vertexBuf []byte
	pixel     *ebiten.Image
}

func NewGame() *Game {
	ctx := particlefx.NewContext(particlefx.ContextConfig{
		MaxInstances: 4,
		MaxParticles: maxDemoParticles,
		Logger:       particlefx.StderrLogger{},
	})

	proto, err := particlefx.CompilePrototype(ctx, fountainEffect())
	if err != nil {
		panic(err)
	}

	h, err := ctx.CreateInstance(proto, nil)
	if err != nil {
		panic(err)
	}
	if err := ctx.StartInstance(h); err != nil {
		panic(err)
	}

	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)

	return &Game{
		ctx:       ctx,
		proto:     proto,
		handle:    h,
		cam:       newCamera(),
		vertexBuf: make([]byte, maxDemoParticles*6*particlefx.LayoutGameObject.VertexStride()),
		pixel:     pixel,
	}
}

func (g *Game) Update() error {
	const dt = 1.0 / 60.0
	g.cam.Update(dt)

	g.ctx.SetPosition(g.handle, particlefx.Vec3{g.cam.x, g.cam.y, 0})
	g.ctx.Update(dt, nil)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{16, 16, 24, 255})

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	originX, originY := float32(w)/2, float32(h)*0.8

	n, _, err := g.ctx.GenerateVertexData(g.handle, 0, particlefx.ColorWhite, nil, g.vertexBuf, particlefx.LayoutGameObject)
	if err != nil || n == 0 {
		return
	}

	verts, indices := decodeGameObjectVertices(g.vertexBuf[:n], originX, originY, g.cam.zoom)

	op := &ebiten.DrawTrianglesOptions{
		Address:   ebiten.AddressUnsafe,
		Blend:     ebiten.BlendLighter,
		AntiAlias: true,
	}
	screen.DrawTriangles(verts, indices, g.pixel, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
