package particlefx

import "testing"

func testEmitterProto(mode PlayMode, duration, startDelay float32) (*Instance, *EmitterPrototype, *Emitter) {
	proto := &EmitterPrototype{Mode: mode, MaxParticleCount: 8}
	e := &Emitter{}
	initEmitter(e, proto, 1)
	e.Duration = duration
	e.StartDelay = startDelay
	inst := &Instance{Emitters: []Emitter{*e}}
	return inst, proto, &inst.Emitters[0]
}

func TestStepStateSleepingIsInert(t *testing.T) {
	ctx := NewContext(ContextConfig{})
	inst, proto, e := testEmitterProto(PlayOnce, 1, 0)
	if active := stepState(ctx, inst, proto, e, 1.0); active {
		t.Fatal("a sleeping emitter must never report active")
	}
	if e.State != StateSleeping {
		t.Fatalf("state = %v, want Sleeping", e.State)
	}
}

func TestStepStatePrespawnHonorsStartDelay(t *testing.T) {
	ctx := NewContext(ContextConfig{})
	inst, proto, e := testEmitterProto(PlayOnce, 1, 0.5)
	startEmitter(ctx, inst, e)
	if e.State != StatePrespawn {
		t.Fatalf("state after start = %v, want Prespawn", e.State)
	}

	if active := stepState(ctx, inst, proto, e, 0.2); active || e.State != StatePrespawn {
		t.Fatalf("0.2s into a 0.5s delay should still be Prespawn, got state=%v active=%v", e.State, active)
	}
	if active := stepState(ctx, inst, proto, e, 0.4); !active || e.State != StateSpawning {
		t.Fatalf("crossing the start delay should enter Spawning, got state=%v active=%v", e.State, active)
	}
}

func TestStepStateOnceEmitterReachesPostspawn(t *testing.T) {
	ctx := NewContext(ContextConfig{})
	inst, proto, e := testEmitterProto(PlayOnce, 1, 0)
	startEmitter(ctx, inst, e)
	stepState(ctx, inst, proto, e, 0.1) // enters Spawning
	e.Particles = append(e.Particles, Particle{TimeLeft: 1})

	if active := stepState(ctx, inst, proto, e, 2.0); !active || e.State != StatePostspawn {
		t.Fatalf("a once emitter whose duration elapsed should move to Postspawn while particles remain, got state=%v active=%v", e.State, active)
	}
}

func TestStepStateOnceEmitterCascadesToSleepingInOneCall(t *testing.T) {
	ctx := NewContext(ContextConfig{})
	inst, proto, e := testEmitterProto(PlayOnce, 1, 0)
	startEmitter(ctx, inst, e)
	stepState(ctx, inst, proto, e, 0.1) // enters Spawning

	// No particles were ever added, so the single call below must cascade
	// Spawning -> Postspawn -> Sleeping within this one tick, matching
	// original_source's sequential (not switch-early-return) UpdateEmitterState.
	if active := stepState(ctx, inst, proto, e, 2.0); active || e.State != StateSleeping {
		t.Fatalf("a once emitter with no live particles should cascade straight to Sleeping, got state=%v active=%v", e.State, active)
	}
}

func TestStepStateZeroDurationEmitterReachesPostspawnImmediately(t *testing.T) {
	ctx := NewContext(ContextConfig{})
	inst, proto, e := testEmitterProto(PlayOnce, 0, 0)
	startEmitter(ctx, inst, e)
	stepState(ctx, inst, proto, e, 0.1) // Prespawn -> Spawning
	e.Particles = append(e.Particles, Particle{TimeLeft: 1})

	if active := stepState(ctx, inst, proto, e, 1.0); !active || e.State != StatePostspawn {
		t.Fatalf("a Duration=0 instant-burst emitter should reach Postspawn on its first Spawning tick, got state=%v active=%v", e.State, active)
	}
}

func TestStepStatePostspawnSettlesToSleepingOnceDrained(t *testing.T) {
	ctx := NewContext(ContextConfig{})
	inst, proto, e := testEmitterProto(PlayOnce, 1, 0)
	e.State = StatePostspawn
	inst.numAwakeEmitters = 1

	if active := stepState(ctx, inst, proto, e, 1.0); active || e.State != StateSleeping {
		t.Fatalf("a drained Postspawn emitter should settle to Sleeping, got state=%v active=%v", e.State, active)
	}
	if inst.numAwakeEmitters != 0 {
		t.Fatalf("numAwakeEmitters = %d, want 0 after the last emitter sleeps", inst.numAwakeEmitters)
	}
}

func TestStepStateLoopingEmitterWrapsTimer(t *testing.T) {
	ctx := NewContext(ContextConfig{})
	inst, proto, e := testEmitterProto(PlayLoop, 1, 0)
	startEmitter(ctx, inst, e)
	stepState(ctx, inst, proto, e, 0.1) // Prespawn -> Spawning

	if active := stepState(ctx, inst, proto, e, 1.5); !active || e.State != StateSpawning {
		t.Fatalf("a looping emitter must stay Spawning past its own duration, got state=%v active=%v", e.State, active)
	}
	if e.Timer < 0 || e.Timer >= e.Duration {
		t.Fatalf("Timer = %v, want wrapped into [0, Duration)", e.Timer)
	}
}

func TestStepStateRetiringLoopStopsLooping(t *testing.T) {
	ctx := NewContext(ContextConfig{})
	inst, proto, e := testEmitterProto(PlayLoop, 1, 0)
	startEmitter(ctx, inst, e)
	stepState(ctx, inst, proto, e, 0.1)
	e.Retiring = true
	e.Particles = append(e.Particles, Particle{TimeLeft: 1})

	if active := stepState(ctx, inst, proto, e, 1.5); !active || e.State != StatePostspawn {
		t.Fatalf("a retiring looping emitter must move to Postspawn instead of wrapping, got state=%v active=%v", e.State, active)
	}
}

func TestResetEmitterClearsParticlesAndState(t *testing.T) {
	ctx := NewContext(ContextConfig{})
	inst, proto, e := testEmitterProto(PlayOnce, 1, 0)
	startEmitter(ctx, inst, e)
	e.Particles = append(e.Particles, Particle{TimeLeft: 1})

	resetEmitter(e, proto)

	if e.State != StateSleeping || len(e.Particles) != 0 || e.Timer != 0 {
		t.Fatalf("resetEmitter left state=%v particles=%d timer=%v, want Sleeping/0/0", e.State, len(e.Particles), e.Timer)
	}
}
