package particlefx

import "testing"

func TestSortParticlesAscending(t *testing.T) {
	e := &Emitter{
		Particles: []Particle{
			{TimeLeft: 0.1, MaxLifeTime: 1, ooMaxLifeTime: 1},
			{TimeLeft: 0.9, MaxLifeTime: 1, ooMaxLifeTime: 1},
			{TimeLeft: 0.5, MaxLifeTime: 1, ooMaxLifeTime: 1},
		},
	}
	var scratch []Particle
	sortParticles(e, &scratch)

	for i := 1; i < len(e.Particles); i++ {
		if e.Particles[i-1].SortKey > e.Particles[i].SortKey {
			t.Fatalf("not sorted ascending at %d: %d > %d", i, e.Particles[i-1].SortKey, e.Particles[i].SortKey)
		}
	}
}

func TestSortParticlesStableOnTies(t *testing.T) {
	e := &Emitter{
		Particles: []Particle{
			{TimeLeft: 0.5, MaxLifeTime: 1, ooMaxLifeTime: 1},
			{TimeLeft: 0.5, MaxLifeTime: 1, ooMaxLifeTime: 1},
		},
	}
	var scratch []Particle
	sortParticles(e, &scratch)
	if e.Particles[0].SortKey > e.Particles[1].SortKey {
		t.Fatal("equal-life particles must resolve by ascending index, not reorder")
	}
}

func TestSortParticlesEmptyAndSingle(t *testing.T) {
	var scratch []Particle
	e := &Emitter{}
	sortParticles(e, &scratch) // must not panic on empty

	e2 := &Emitter{Particles: []Particle{{TimeLeft: 1, MaxLifeTime: 1, ooMaxLifeTime: 1}}}
	sortParticles(e2, &scratch)
	if len(e2.Particles) != 1 {
		t.Fatal("single-particle sort must not drop the particle")
	}
}
