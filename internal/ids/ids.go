// Package ids mints the two identifier families the rules engine runs on:
// ObjectId, which changes on every zone change, and StableId, which a card
// keeps for its entire life in the game. See rule 400.7.
package ids

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// ObjectId identifies one incarnation of an object. It changes whenever the
// object moves to a new zone.
type ObjectId string

// StableId identifies a physical card (or token, or spell copy) across every
// zone change it undergoes.
type StableId string

// Arena mints ObjectId and StableId values for one game. It is process-local
// and safe for concurrent use, but the engine itself only ever touches it
// from its single owning goroutine; the lock exists so a caller can take a
// read-only clone for UI rendering from another goroutine (spec §5).
type Arena struct {
	mu              sync.Mutex
	objectCounter   uint64
	stableCounter   uint64
	objectPrefix    string
	stablePrefix    string
}

// NewArena creates an Arena with fresh, randomly seeded prefixes so that ids
// minted by two different games never collide even if restored side by side.
func NewArena() *Arena {
	return &Arena{
		objectPrefix: uuid.NewString(),
		stablePrefix: uuid.NewString(),
	}
}

// NextObjectId mints a fresh ObjectId. Called on every zone change for every
// object, token or not (tokens additionally get a fresh StableId; see
// NextStableId).
func (a *Arena) NextObjectId() ObjectId {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objectCounter++
	return ObjectId(idString(a.objectPrefix, a.objectCounter))
}

// NextStableId mints a fresh StableId. Called once per physical card when it
// first enters the game, and again for tokens and spell copies, which are
// new objects with no prior identity to inherit.
func (a *Arena) NextStableId() StableId {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stableCounter++
	return StableId(idString(a.stablePrefix, a.stableCounter))
}

func idString(prefix string, counter uint64) string {
	return prefix + "-" + strconv.FormatUint(counter, 10)
}

// Snapshot is an opaque, restorable capture of the Arena's counter state.
// Used to bracket deterministic replay runs (spec §9 "Global state").
type Snapshot struct {
	objectPrefix  string
	stablePrefix  string
	objectCounter uint64
	stableCounter uint64
}

// SnapshotIds captures the current counter state.
func (a *Arena) SnapshotIds() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Snapshot{
		objectPrefix:  a.objectPrefix,
		stablePrefix:  a.stablePrefix,
		objectCounter: a.objectCounter,
		stableCounter: a.stableCounter,
	}
}

// RestoreIds resets the Arena to a previously captured Snapshot. Subsequent
// minting resumes exactly where the snapshot left off, which is what makes
// replay deterministic: the same sequence of decisions, replayed from the
// same id snapshot, mints the same ids in the same order.
func (a *Arena) RestoreIds(s Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objectPrefix = s.objectPrefix
	a.stablePrefix = s.stablePrefix
	a.objectCounter = s.objectCounter
	a.stableCounter = s.stableCounter
}
