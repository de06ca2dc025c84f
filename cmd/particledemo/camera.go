package main

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// camera holds a simple fly-through path for the demo viewport, driven by
// gween tweens the same way the teacher's TweenGroup drives Node fields —
// adapted here to plain float32 fields since the demo has no scene-graph
// Node to target.
type camera struct {
	x, y float32
	zoom float32

	tweenX, tweenY, tweenZoom *gween.Tween
	legIndex                  int
}

type cameraLeg struct {
	x, y, zoom float32
	duration   float32
}

var cameraPath = []cameraLeg{
	{x: 0, y: 0, zoom: 1, duration: 3},
	{x: 120, y: -60, zoom: 1.4, duration: 3},
	{x: -100, y: 40, zoom: 0.8, duration: 3},
	{x: 0, y: 0, zoom: 1, duration: 3},
}

func newCamera() *camera {
	c := &camera{zoom: 1}
	c.startLeg(0)
	return c
}

func (c *camera) startLeg(i int) {
	leg := cameraPath[i%len(cameraPath)]
	c.tweenX = gween.New(c.x, leg.x, leg.duration, ease.InOutSine)
	c.tweenY = gween.New(c.y, leg.y, leg.duration, ease.InOutSine)
	c.tweenZoom = gween.New(c.zoom, leg.zoom, leg.duration, ease.InOutSine)
	c.legIndex = i
}

func (c *camera) Update(dt float32) {
	x, xDone := c.tweenX.Update(dt)
	y, _ := c.tweenY.Update(dt)
	zoom, _ := c.tweenZoom.Update(dt)
	c.x, c.y, c.zoom = x, y, zoom
	if xDone {
		c.startLeg(c.legIndex + 1)
	}
}
