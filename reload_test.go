package particlefx

import "testing"

func loopFX() ParticleFX {
	return ParticleFX{Emitters: []EmitterDesc{{
		ID:               "loop",
		Mode:             PlayLoop,
		Duration:         1,
		MaxParticleCount: 256,
		Type:             EmitterSphere,
		Properties: map[EmitterKey]PropertyDesc{
			KeySpawnRate:        {Points: []ControlPoint{{X: 0, Y: 50}, {X: 1, Y: 50}}},
			KeyParticleLifeTime: {Points: []ControlPoint{{X: 0, Y: 0.4}, {X: 1, Y: 0.4}}},
		},
	}}}
}

// Replay invariant: replaying up to a past play time reproduces roughly
// the same particle count a live instance reaches at that same play time.
func TestReplayEquivalence(t *testing.T) {
	proto, err := CompilePrototype(NewContext(ContextConfig{}), loopFX())
	if err != nil {
		t.Fatal(err)
	}

	live := NewContext(ContextConfig{})
	hLive, err := live.CreateInstance(proto, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := live.StartInstance(hLive); err != nil {
		t.Fatal(err)
	}
	const step = 1.0 / 60.0
	const steps = 30
	for i := 0; i < steps; i++ {
		live.Update(step, nil)
	}
	liveCount := live.InstanceStats(hLive).Particles

	replayCtx := NewContext(ContextConfig{})
	hReplay, err := replayCtx.CreateInstance(proto, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := replayCtx.StartInstance(hReplay); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < steps; i++ {
		replayCtx.Update(step, nil)
	}
	if err := replayCtx.ReloadInstance(hReplay, true); err != nil {
		t.Fatal(err)
	}

	replayCount := replayCtx.InstanceStats(hReplay).Particles
	if replayCount == 0 {
		t.Fatal("replay produced no particles, expected some after reload of a started instance")
	}
	// Loose bound: both runs sample spawn-rate and lifetime deterministically
	// but are not required to land on an identical particle count, only the
	// same order of magnitude.
	if replayCount > liveCount*2+5 {
		t.Fatalf("replay particle count %d far exceeds live baseline %d", replayCount, liveCount)
	}
}

func TestReloadGrowsNewEmitters(t *testing.T) {
	ctx := NewContext(ContextConfig{})
	desc := loopFX()
	proto, err := CompilePrototype(ctx, desc)
	if err != nil {
		t.Fatal(err)
	}
	h, err := ctx.CreateInstance(proto, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx.StartInstance(h)
	ctx.Update(1.0/60.0, nil)

	proto.Emitters = append(proto.Emitters, proto.Emitters[0])

	inst, _ := ctx.lookup(h)
	if len(inst.Emitters) != 1 {
		t.Fatalf("setup: expected 1 emitter before reload, got %d", len(inst.Emitters))
	}
	if err := ctx.ReloadInstance(h, false); err != nil {
		t.Fatal(err)
	}
	if len(inst.Emitters) != 2 {
		t.Fatalf("expected ReloadInstance to grow to 2 emitters, got %d", len(inst.Emitters))
	}
}

func TestReloadStaleHandle(t *testing.T) {
	ctx := NewContext(ContextConfig{MaxInstances: 1})
	proto, _ := CompilePrototype(ctx, loopFX())
	h, _ := ctx.CreateInstance(proto, nil)
	ctx.DestroyInstance(h)

	if err := ctx.ReloadInstance(h, false); err != ErrStaleHandle {
		t.Fatalf("err = %v, want ErrStaleHandle", err)
	}
}
