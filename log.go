package particlefx

import (
	"errors"
	"fmt"
	"os"
)

// Logger receives developer-facing diagnostics the core cannot surface any
// other way (§7): unknown property keys, stale-handle access, one-shot
// overflow/fetch warnings. No exceptions traverse the core's boundary —
// Logger is the only side channel for the "log once" policies §7 names.
type Logger interface {
	Warnf(format string, args ...any)
}

// StderrLogger writes warnings to os.Stderr, matching the teacher's
// fmt.Fprintf(os.Stderr, ...) diagnostic style (no structured logging
// library is used anywhere in the example this core is grounded on).
type StderrLogger struct{}

func (StderrLogger) Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "particlefx: "+format+"\n", args...)
}

// nopLogger discards everything; used when ContextConfig.Logger is nil and
// the caller hasn't asked for StderrLogger explicitly.
type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

var (
	// ErrOutOfInstances is returned by CreateInstance when the instance pool is full.
	ErrOutOfInstances = errors.New("particlefx: out of instances")
	// ErrStaleHandle is returned by operations given a handle that no longer
	// refers to a live instance (wrong generation or freed slot).
	ErrStaleHandle = errors.New("particlefx: stale instance handle")
	// ErrInvalidEmitterIndex is returned when an emitter index is out of range
	// for the instance's emitter array.
	ErrInvalidEmitterIndex = errors.New("particlefx: invalid emitter index")
)
