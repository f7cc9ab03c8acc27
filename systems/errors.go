package systems

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/galaxy/physics"
)

var (
	// ErrInvalidTimestep is returned by Tick for negative, NaN or infinite dt.
	ErrInvalidTimestep = errors.New("invalid timestep")
	// ErrRegistryConsistency marks a broken entity/body/node pairing. It
	// indicates a lifecycle bug and is never retried.
	ErrRegistryConsistency = errors.New("registry consistency violated")
	// ErrInvalidShape is returned by Spawn for unusable shape descriptors.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrUnknownEntity is returned for handles not in the registry.
	ErrUnknownEntity = errors.New("unknown entity")
)

// ConsistencyError reports which entity and operation broke the pairing.
type ConsistencyError struct {
	Entity EntityHandle
	Body   physics.BodyID
	Op     string // sync, set_transform, unsubscribe, remove_body, remove_node
	Err    error
}

func (e *ConsistencyError) Error() string {
	msg := fmt.Sprintf("%v: entity %d body %d: %s", ErrRegistryConsistency, e.Entity, e.Body, e.Op)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConsistencyError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRegistryConsistency}
	}
	return []error{ErrRegistryConsistency, e.Err}
}
