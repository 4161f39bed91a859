package engine

import (
	"fmt"

	"github.com/corvid-games/cardengine/internal/ids"
)

// ContractError is the first of the three error planes spec §7 describes:
// the caller sent an illegal response, or called Advance/Respond with no
// pending work. The engine's state is left unchanged when this is
// returned, mirroring the teacher's fmt.Errorf-wrapped sentinel style
// rather than panic-based control flow.
type ContractError struct {
	Field   string
	Message string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("engine: contract error on field %q: %s", e.Field, e.Message)
}

// InvariantError is the third error plane: a bug, not a player-visible
// outcome. In production the engine logs it and drops the offending
// linkage rather than crashing (spec §7 "logs and attempts to recover").
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("engine: invariant violation: %s", e.Message)
}

func errObjectNotFound(id ids.ObjectId) error {
	return &InvariantError{Message: fmt.Sprintf("object %q not found", id)}
}

func playerIDFromIndex(i int) string {
	return fmt.Sprintf("player-%d", i)
}
