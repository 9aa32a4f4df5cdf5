// Package registry is the process-wide boundary surface for embedding the
// engine behind a flat call interface. Host layers (FFI wrappers, cgo
// exports) hold opaque tokens instead of pointers into the engine; every
// call resolves the token here and reports failures as explicit errors.
//
// The registry itself is safe for concurrent use and serializes calls into
// each world. Worlds driven directly through the rigid package keep the
// single-owner rule instead.
package registry

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/kinet/internal/rigid"
)

// WorldToken is the opaque value handed across the boundary in place of a
// raw pointer. Zero is never issued.
type WorldToken uint64

var (
	mu     sync.Mutex
	worlds = make(map[WorldToken]*rigid.World)
	next   WorldToken
	logger = zap.NewNop()
)

// SetLogger replaces the lifecycle logger. Passing nil silences it.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// CreateWorld allocates an empty world and registers it. It always succeeds.
func CreateWorld() WorldToken {
	mu.Lock()
	defer mu.Unlock()

	next++
	tok := next
	worlds[tok] = rigid.NewWorld()
	logger.Debug("world created", zap.Uint64("token", uint64(tok)))
	return tok
}

func lookup(tok WorldToken) (*rigid.World, error) {
	w, ok := worlds[tok]
	if !ok {
		return nil, fmt.Errorf("%w: unknown world token %d", rigid.ErrWorldDestroyed, tok)
	}
	return w, nil
}

// DestroyWorld releases the world and invalidates its token. All body
// handles issued by that world become invalid with it.
func DestroyWorld(tok WorldToken) error {
	mu.Lock()
	defer mu.Unlock()

	w, err := lookup(tok)
	if err != nil {
		return err
	}
	if err := w.Destroy(); err != nil {
		return err
	}
	delete(worlds, tok)
	logger.Debug("world destroyed", zap.Uint64("token", uint64(tok)))
	return nil
}

// CreateRigidBody adds a body to the world behind tok.
func CreateRigidBody(tok WorldToken, desc rigid.BodyDesc) (rigid.Handle, error) {
	mu.Lock()
	defer mu.Unlock()

	w, err := lookup(tok)
	if err != nil {
		return 0, err
	}
	return w.CreateBody(desc)
}

// Step advances the world behind tok by dt seconds.
func Step(tok WorldToken, dt float32) error {
	mu.Lock()
	defer mu.Unlock()

	w, err := lookup(tok)
	if err != nil {
		return err
	}
	return w.Step(dt)
}

// GetPosition returns the body's current position by value.
func GetPosition(tok WorldToken, h rigid.Handle) (rigid.Vec3, error) {
	mu.Lock()
	defer mu.Unlock()

	w, err := lookup(tok)
	if err != nil {
		return rigid.Vec3{}, err
	}
	return w.Position(h)
}

// SetGravity replaces the gravity of the world behind tok.
func SetGravity(tok WorldToken, g rigid.Vec3) error {
	mu.Lock()
	defer mu.Unlock()

	w, err := lookup(tok)
	if err != nil {
		return err
	}
	return w.SetGravity(g)
}

// GetGravity returns the gravity of the world behind tok.
func GetGravity(tok WorldToken) (rigid.Vec3, error) {
	mu.Lock()
	defer mu.Unlock()

	w, err := lookup(tok)
	if err != nil {
		return rigid.Vec3{}, err
	}
	return w.Gravity()
}

// Count returns the number of live worlds.
func Count() int {
	mu.Lock()
	defer mu.Unlock()
	return len(worlds)
}
