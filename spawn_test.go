package particlefx

import "testing"

func TestSpawnShapeSphereStaysWithinRadius(t *testing.T) {
	r := newRNG(42)
	for i := 0; i < 200; i++ {
		pos, dir := spawnShapeSample(&r, EmitterSphere, 10, 0, 0)
		if l := pos.Len(); l > 5.0+1e-3 {
			t.Fatalf("sphere sample radius %v exceeds size_x/2 = 5", l)
		}
		if d := dir.Len(); d < 0.99 || d > 1.01 {
			t.Fatalf("sphere sample direction not unit length: %v", d)
		}
	}
}

func TestSpawnShapeCircleStaysInPlane(t *testing.T) {
	r := newRNG(7)
	for i := 0; i < 200; i++ {
		pos, _ := spawnShapeSample(&r, EmitterCircle, 8, 0, 0)
		if pos[2] != 0 {
			t.Fatalf("circle sample left the Z=0 plane: %v", pos)
		}
		if l := (Vec3{pos[0], pos[1], 0}).Len(); l > 4.0+1e-3 {
			t.Fatalf("circle sample radius %v exceeds size_x/2 = 4", l)
		}
	}
}

func TestSpawnShapeConeStaysWithinHeight(t *testing.T) {
	r := newRNG(99)
	for i := 0; i < 200; i++ {
		pos, _ := spawnShapeSample(&r, EmitterCone, 6, 12, 0)
		if pos[1] < -1e-3 || pos[1] > 12+1e-3 {
			t.Fatalf("cone sample height %v outside [0, size_y=12]", pos[1])
		}
	}
}

func TestSpawnShapeTwoDConeStaysInPlane(t *testing.T) {
	r := newRNG(13)
	for i := 0; i < 200; i++ {
		pos, _ := spawnShapeSample(&r, EmitterTwoDCone, 6, 8, 0)
		if pos[2] != 0 {
			t.Fatalf("2d cone sample left the Z=0 plane: %v", pos)
		}
	}
}

func TestSpawnShapeBoxStaysWithinExtents(t *testing.T) {
	r := newRNG(1000)
	for i := 0; i < 200; i++ {
		pos, _ := spawnShapeSample(&r, EmitterBox, 4, 6, 8)
		if pos[0] < -2.001 || pos[0] > 2.001 {
			t.Fatalf("box sample x=%v outside [-2,2]", pos[0])
		}
		if pos[1] < -3.001 || pos[1] > 3.001 {
			t.Fatalf("box sample y=%v outside [-3,3]", pos[1])
		}
		if pos[2] < -4.001 || pos[2] > 4.001 {
			t.Fatalf("box sample z=%v outside [-4,4]", pos[2])
		}
	}
}

func TestSpawnShapeBoxRejectsZeroVector(t *testing.T) {
	r := newRNG(2024)
	for i := 0; i < 5000; i++ {
		pos, _ := spawnShapeSample(&r, EmitterBox, 4, 6, 8)
		if pos == (Vec3{}) {
			t.Fatal("box sample landed exactly on the zero vector, want it rejected and resampled")
		}
	}
}

func TestSampleEmitterPropMissingKeyReturnsZero(t *testing.T) {
	proto := &EmitterPrototype{}
	e := &Emitter{}
	if got := sampleEmitterProp(proto, e, KeyParticleSpeed, 0.5, 1); got != 0 {
		t.Fatalf("sampleEmitterProp on an uncompiled key = %v, want 0", got)
	}
}

func TestQuatFromToIdentityWhenAligned(t *testing.T) {
	q := quatFromTo(Vec3{0, 1, 0}, Vec3{0, 1, 0})
	if q.W != 1 || q.V != (Vec3{}) {
		t.Fatalf("quatFromTo(v,v) = %+v, want identity", q)
	}
}

func TestQuatFromToOppositeVectors(t *testing.T) {
	q := quatFromTo(Vec3{0, 1, 0}, Vec3{0, -1, 0})
	dir := transformDir(q.Mat4(), Vec3{0, 1, 0})
	if dir[1] > -0.99 {
		t.Fatalf("quatFromTo for opposite vectors should rotate +Y to -Y, got %v", dir)
	}
}
