package particlefx

import "hash/fnv"

// ModifierPrototype is the compiled form of a ModifierDesc: its sampled
// properties keyed by ModifierKey, plus the transform and dispatch fields
// the simulator needs every tick.
type ModifierPrototype struct {
	Type         ModifierType
	Position     Vec3
	Rotation     Quat
	UseDirection bool
	Properties   [modifierKeyCount]Property
	hasProperty  [modifierKeyCount]bool
}

// EmitterPrototype is the compiled, read-mostly form of one EmitterDesc
// (§3). It is shared by every Instance created against the owning
// Prototype; apart from the host filling MaterialRef/TileSourceRef, only
// ReloadPrototype mutates it, and only in place.
type EmitterPrototype struct {
	IDHash              uint64
	Mode                PlayMode
	Duration            float32
	DurationSpread      float32
	StartDelay          float32
	StartDelaySpread    float32
	Space               EmissionSpace
	LocalPosition       Vec3
	LocalRotation       Quat
	InheritVelocity     float32
	MaxParticleCount    int
	Type                EmitterType
	Orientation         OrientationMode
	StretchWithVelocity bool
	SizeMode            SizeMode
	BlendMode           BlendMode
	AnimationID         string

	// MaterialRef/TileSourceRef are opaque host references, resolved and
	// filled in by the host after compilation (§4.3); the core never
	// dereferences them, only carries them through to EmitterRenderData.
	MaterialRef    any
	TileSourceRef  any
	MaterialPath   string
	TileSourcePath string

	Properties         [emitterKeyCount]Property
	hasProperty        [emitterKeyCount]bool
	ParticleProperties [particleKeyCount]Property
	hasParticleProp    [particleKeyCount]bool

	Modifiers []ModifierPrototype

	// MaxParticleLifeTime is the largest sampled value of the
	// particle-life-time property across the whole spline (§4.3), used by
	// Reload/Replay clamping (§4.12).
	MaxParticleLifeTime float32
}

// Prototype is the compiled form of a ParticleFX description (§3). It is
// shared read-only by any number of Instances; ReloadPrototype replaces
// its contents in place without relocating the Prototype itself, so
// existing Instances keep a valid reference across a reload.
type Prototype struct {
	Desc     ParticleFX
	Emitters []EmitterPrototype
}

// CompilePrototype converts a raw ParticleFX description into a Prototype
// (§4.3). Unknown property keys are skipped with a warning through the
// context's Logger; they never fail compilation. A property with zero
// control points is likewise skipped with a warning (§4.1); the rest of
// its emitter still compiles.
func CompilePrototype(ctx *Context, desc ParticleFX) (*Prototype, error) {
	proto := &Prototype{Desc: desc}
	proto.Emitters = make([]EmitterPrototype, len(desc.Emitters))
	for i := range desc.Emitters {
		compileEmitter(ctx, &desc.Emitters[i], &proto.Emitters[i])
	}
	return proto, nil
}

// ReloadPrototype rebuilds proto's contents in place from desc (§4.3). It
// does not touch any Instance referencing proto; Context.ReloadInstance is
// responsible for reconciling each Instance's emitter array afterward.
func ReloadPrototype(ctx *Context, proto *Prototype, desc ParticleFX) {
	proto.Desc = desc
	if cap(proto.Emitters) >= len(desc.Emitters) {
		proto.Emitters = proto.Emitters[:len(desc.Emitters)]
	} else {
		proto.Emitters = make([]EmitterPrototype, len(desc.Emitters))
	}
	for i := range desc.Emitters {
		proto.Emitters[i] = EmitterPrototype{}
		compileEmitter(ctx, &desc.Emitters[i], &proto.Emitters[i])
	}
}

func compileEmitter(ctx *Context, d *EmitterDesc, out *EmitterPrototype) {
	out.IDHash = hashString(d.ID)
	out.Mode = d.Mode
	out.Duration = d.Duration
	out.DurationSpread = d.DurationSpread
	out.StartDelay = d.StartDelay
	out.StartDelaySpread = d.StartDelaySpread
	out.Space = d.Space
	out.LocalPosition = d.Position
	out.LocalRotation = d.Rotation
	out.InheritVelocity = d.InheritVelocity
	out.MaxParticleCount = d.MaxParticleCount
	out.Type = d.Type
	out.Orientation = d.Orientation
	out.StretchWithVelocity = d.StretchWithVelocity
	out.SizeMode = d.SizeMode
	out.BlendMode = d.BlendMode
	out.AnimationID = d.AnimationID
	out.MaterialPath = d.MaterialPath
	out.TileSourcePath = d.TileSourcePath

	for key, pd := range d.Properties {
		if int(key) >= int(emitterKeyCount) {
			ctx.warnf("unknown emitter key %d on emitter %q, skipped", key, d.ID)
			continue
		}
		prop, err := CompileProperty(pd.Points, pd.Spread)
		if err != nil {
			ctx.warnf("invalid emitter key %d on emitter %q: %v, skipped", key, d.ID, err)
			continue
		}
		out.Properties[key] = prop
		out.hasProperty[key] = true
	}

	for key, pd := range d.ParticleProperties {
		if int(key) >= int(particleKeyCount) {
			ctx.warnf("unknown particle key %d on emitter %q, skipped", key, d.ID)
			continue
		}
		prop, err := CompileProperty(pd.Points, 0)
		if err != nil {
			ctx.warnf("invalid particle key %d on emitter %q: %v, skipped", key, d.ID, err)
			continue
		}
		out.ParticleProperties[key] = prop
		out.hasParticleProp[key] = true
	}

	out.Modifiers = make([]ModifierPrototype, len(d.Modifiers))
	for i, md := range d.Modifiers {
		mp := &out.Modifiers[i]
		mp.Type = md.Type
		mp.Position = md.Position
		mp.Rotation = md.Rotation
		mp.UseDirection = md.UseDirection
		for key, pd := range md.Properties {
			if int(key) >= int(modifierKeyCount) {
				ctx.warnf("unknown modifier key %d on emitter %q, skipped", key, d.ID)
				continue
			}
			prop, err := CompileProperty(pd.Points, pd.Spread)
			if err != nil {
				ctx.warnf("invalid modifier key %d on emitter %q: %v, skipped", key, d.ID, err)
				continue
			}
			mp.Properties[key] = prop
			mp.hasProperty[key] = true
		}
	}

	if out.hasProperty[KeyParticleLifeTime] {
		out.MaxParticleLifeTime = out.Properties[KeyParticleLifeTime].MaxValue()
	}
}

// hashString is the fnv-1a 64-bit hash used for emitter id hashing
// throughout the core (§4.3), grounded on the example pack's own direct
// use of hash/fnv (see DESIGN.md).
func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
