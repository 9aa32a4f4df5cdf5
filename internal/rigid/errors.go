package rigid

import "errors"

// Failure kinds reported by world operations. Callers match with errors.Is.
var (
	// ErrInvalidArgument indicates a rejected input: non-positive or
	// non-finite mass, a non-finite vector component, or a negative or
	// non-finite timestep. The operation performs no mutation.
	ErrInvalidArgument = errors.New("rigid: invalid argument")

	// ErrInvalidHandle indicates a handle that was never issued by the
	// resolving world, including handles issued by a different world.
	ErrInvalidHandle = errors.New("rigid: invalid handle")

	// ErrWorldDestroyed indicates an operation on a world after Destroy.
	ErrWorldDestroyed = errors.New("rigid: world destroyed")

	// ErrTableFull indicates the world has no body slots left.
	ErrTableFull = errors.New("rigid: body table full")

	// ErrUnstable indicates integration produced a NaN or Inf component.
	ErrUnstable = errors.New("rigid: simulation unstable (NaN or Inf detected)")
)
