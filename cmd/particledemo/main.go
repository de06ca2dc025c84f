// Command particledemo is a minimal ebiten host for the particlefx core: a
// looping fountain effect driven by a flying camera, drawn through
// ebiten.Image.DrawTriangles. It exists to exercise the package end to end,
// not as part of the simulation core itself.
package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	ebiten.SetWindowSize(960, 640)
	ebiten.SetWindowTitle("particlefx demo")

	game := NewGame()
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
