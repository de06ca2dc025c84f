package main

import (
	"github.com/phanxgames/particlefx"
)

// fountainEffect builds a looping upward-cone fountain with an over-life
// color fade and a downward acceleration modifier, exercising the spawner,
// modifier and property-sampling paths the core offers.
func fountainEffect() particlefx.ParticleFX {
	return particlefx.ParticleFX{
		Emitters: []particlefx.EmitterDesc{
			{
				ID:               "fountain",
				Mode:             particlefx.PlayLoop,
				Duration:         2.0,
				Space:            particlefx.SpaceWorld,
				MaxParticleCount: 2000,
				Type:             particlefx.EmitterCone,
				Orientation:      particlefx.OrientationMovementDirection,
				SizeMode:         particlefx.SizeManual,
				BlendMode:        particlefx.BlendAdd,
				Properties: map[particlefx.EmitterKey]particlefx.PropertyDesc{
					particlefx.KeySpawnRate: {
						Points: []particlefx.ControlPoint{{X: 0, Y: 400}, {X: 1, Y: 400}},
					},
					particlefx.KeyParticleLifeTime: {
						Points: []particlefx.ControlPoint{{X: 0, Y: 1.5}, {X: 1, Y: 1.5}},
					},
					particlefx.KeyParticleSpeed: {
						Points: []particlefx.ControlPoint{{X: 0, Y: 220}, {X: 1, Y: 220}},
						Spread: 40,
					},
					particlefx.KeyParticleSize: {
						Points: []particlefx.ControlPoint{{X: 0, Y: 6}, {X: 1, Y: 6}},
						Spread: 2,
					},
					particlefx.KeyParticleRed:   {Points: []particlefx.ControlPoint{{X: 0, Y: 1}, {X: 1, Y: 1}}},
					particlefx.KeyParticleGreen: {Points: []particlefx.ControlPoint{{X: 0, Y: 0.6}, {X: 1, Y: 0.6}}},
					particlefx.KeyParticleBlue:  {Points: []particlefx.ControlPoint{{X: 0, Y: 0.1}, {X: 1, Y: 0.1}}},
					particlefx.KeyParticleAlpha: {Points: []particlefx.ControlPoint{{X: 0, Y: 1}, {X: 1, Y: 1}}},
					particlefx.KeySizeX:         {Points: []particlefx.ControlPoint{{X: 0, Y: 18}, {X: 1, Y: 18}}},
					particlefx.KeySizeY:         {Points: []particlefx.ControlPoint{{X: 0, Y: 60}, {X: 1, Y: 60}}},
				},
				ParticleProperties: map[particlefx.ParticleKey]particlefx.ParticlePropertyDesc{
					particlefx.PKeyScale: {
						Points: []particlefx.ControlPoint{{X: 0, Y: 1}, {X: 0.7, Y: 1}, {X: 1, Y: 0.2}},
					},
					particlefx.PKeyAlpha: {
						Points: []particlefx.ControlPoint{{X: 0, Y: 1}, {X: 0.8, Y: 1}, {X: 1, Y: 0}},
					},
					particlefx.PKeyRed: {
						Points: []particlefx.ControlPoint{{X: 0, Y: 1}, {X: 1, Y: 1}},
					},
					particlefx.PKeyGreen: {
						Points: []particlefx.ControlPoint{{X: 0, Y: 1}, {X: 1, Y: 0.2}},
					},
					particlefx.PKeyBlue: {
						Points: []particlefx.ControlPoint{{X: 0, Y: 1}, {X: 1, Y: 0.2}},
					},
				},
				Modifiers: []particlefx.ModifierDesc{
					{
						Type: particlefx.ModifierAcceleration,
						// Rotated 180 degrees around X so "up" (local +Y) points down.
						Rotation: particlefx.Quat{W: 0, V: particlefx.Vec3{1, 0, 0}},
						Properties: map[particlefx.ModifierKey]particlefx.PropertyDesc{
							particlefx.MKeyMagnitude: {
								Points: []particlefx.ControlPoint{{X: 0, Y: 260}, {X: 1, Y: 260}},
							},
						},
					},
					{
						Type: particlefx.ModifierDrag,
						Properties: map[particlefx.ModifierKey]particlefx.PropertyDesc{
							particlefx.MKeyMagnitude: {
								Points: []particlefx.ControlPoint{{X: 0, Y: 0.2}, {X: 1, Y: 0.2}},
							},
						},
					},
				},
			},
		},
	}
}
