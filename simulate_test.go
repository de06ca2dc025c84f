package particlefx

import "testing"

func TestDragModifierDecaysVelocity(t *testing.T) {
	e := &Emitter{Particles: []Particle{{Velocity: Vec3{10, 0, 0}}}}
	mod := ModifierPrototype{Type: ModifierDrag, Rotation: Quat{W: 1}}
	mag, _ := CompileProperty([]ControlPoint{{X: 0, Y: 0.5}, {X: 1, Y: 0.5}}, 0)
	mod.Properties[MKeyMagnitude] = mag
	mod.hasProperty[MKeyMagnitude] = true

	applyModifier(&mod, e, 1.0, 0.5)

	v := e.Particles[0].Velocity
	if v[0] < 4.99 || v[0] > 5.01 {
		t.Fatalf("velocity.x = %v, want ~5 (half of 10 after drag factor 0.5)", v[0])
	}
}

func TestDragModifierClampsFactorToOne(t *testing.T) {
	e := &Emitter{Particles: []Particle{{Velocity: Vec3{10, 0, 0}}}}
	mod := ModifierPrototype{Type: ModifierDrag, Rotation: Quat{W: 1}}
	mag, _ := CompileProperty([]ControlPoint{{X: 0, Y: 5}, {X: 1, Y: 5}}, 0)
	mod.Properties[MKeyMagnitude] = mag
	mod.hasProperty[MKeyMagnitude] = true

	applyModifier(&mod, e, 1.0, 0.5)

	v := e.Particles[0].Velocity
	if v != (Vec3{}) {
		t.Fatalf("velocity = %v, want zero: an overlarge drag factor must clamp to fully stopping, not reverse", v)
	}
}

func TestVortexModifierAddsTangentialVelocity(t *testing.T) {
	e := &Emitter{Particles: []Particle{{Position: Vec3{1, 0, 0}}}}
	mod := ModifierPrototype{Type: ModifierVortex, Rotation: Quat{W: 1}}
	mag, _ := CompileProperty([]ControlPoint{{X: 0, Y: 2}, {X: 1, Y: 2}}, 0)
	maxDist, _ := CompileProperty([]ControlPoint{{X: 0, Y: 10}, {X: 1, Y: 10}}, 0)
	mod.Properties[MKeyMagnitude] = mag
	mod.hasProperty[MKeyMagnitude] = true
	mod.Properties[MKeyMaxDistance] = maxDist
	mod.hasProperty[MKeyMaxDistance] = true

	applyModifier(&mod, e, 1.0, 0.5)

	v := e.Particles[0].Velocity
	if v[1] < 1.99 || v[1] > 2.01 || v[0] > 0.01 || v[0] < -0.01 {
		t.Fatalf("velocity = %v, want ~(0,2,0) tangential to the Z axis at (1,0,0)", v)
	}
}

func TestVortexModifierOutOfRange(t *testing.T) {
	e := &Emitter{Particles: []Particle{{Position: Vec3{5, 0, 0}}}}
	mod := ModifierPrototype{Type: ModifierVortex, Rotation: Quat{W: 1}}
	mag, _ := CompileProperty([]ControlPoint{{X: 0, Y: 2}, {X: 1, Y: 2}}, 0)
	maxDist, _ := CompileProperty([]ControlPoint{{X: 0, Y: 1}, {X: 1, Y: 1}}, 0)
	mod.Properties[MKeyMagnitude] = mag
	mod.hasProperty[MKeyMagnitude] = true
	mod.Properties[MKeyMaxDistance] = maxDist
	mod.hasProperty[MKeyMaxDistance] = true

	applyModifier(&mod, e, 1.0, 0.5)

	if v := e.Particles[0].Velocity; v != (Vec3{}) {
		t.Fatalf("velocity = %v, want zero (particle outside max_distance)", v)
	}
}

func TestAgeAndRemoveSwapsWithLast(t *testing.T) {
	e := &Emitter{Particles: []Particle{
		{TimeLeft: 0.01}, // dies this tick
		{TimeLeft: 5},
		{TimeLeft: 5},
	}}
	ageAndRemove(e, 1.0)
	if len(e.Particles) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(e.Particles))
	}
	for _, p := range e.Particles {
		if p.TimeLeft <= 0 {
			t.Fatalf("a dead particle survived ageAndRemove: %+v", p)
		}
	}
}
