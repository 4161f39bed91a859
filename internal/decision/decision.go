// Package decision implements the closed decision-context/response
// vocabulary the engine hands to an agent and expects back (spec §6.2).
// Adapted from the teacher's EnginePrompt/EngineMessage free-form view
// types in mage_engine.go, generalized into the closed tagged union
// spec.md requires — see DESIGN.md's "Decision protocol vs. teacher's
// notification-push model" entry for why this is the one place this
// engine structurally diverges from the teacher's shape.
package decision

import "github.com/corvid-games/cardengine/internal/ids"

// Tag identifies which of the closed set of decision shapes a Context is.
type Tag string

const (
	TagBoolean          Tag = "BOOLEAN"
	TagNumber           Tag = "NUMBER"
	TagSelectOptions    Tag = "SELECT_OPTIONS"
	TagSelectObjects    Tag = "SELECT_OBJECTS"
	TagTargets          Tag = "TARGETS"
	TagPriority         Tag = "PRIORITY"
	TagAttackers        Tag = "ATTACKERS"
	TagBlockers         Tag = "BLOCKERS"
	TagOrder            Tag = "ORDER"
	TagDistribute       Tag = "DISTRIBUTE"
	TagColors           Tag = "COLORS"
	TagCounters         Tag = "COUNTERS"
	TagPartition        Tag = "PARTITION"
	TagProliferate      Tag = "PROLIFERATE"
	TagModes            Tag = "MODES"
	TagHybridChoice     Tag = "HYBRID_CHOICE"
	TagReplacementChoice Tag = "REPLACEMENT_CHOICE"
)

// Action is one entry of a Priority decision's legal_actions list.
type ActionKind string

const (
	ActionCast             ActionKind = "CAST"
	ActionPlayLand         ActionKind = "PLAY_LAND"
	ActionActivate         ActionKind = "ACTIVATE"
	ActionActivateMana     ActionKind = "ACTIVATE_MANA"
	ActionTurnFaceUp       ActionKind = "TURN_FACE_UP"
	ActionSpecial          ActionKind = "SPECIAL"
	ActionPass             ActionKind = "PASS"
)

// Action is one legal action a player may take while holding priority.
type Action struct {
	Kind        ActionKind
	SourceID    ids.ObjectId
	Description string
}

// Candidate is one selectable object (spec §6.2 SelectObjects payload).
type Candidate struct {
	ID    ids.ObjectId
	Name  string
	Legal bool
}

// Option is one labeled, independently legal choice (SelectOptions).
type Option struct {
	Label string
	Legal bool
}

// TargetRequirement is one of a Targets decision's per-effect target asks.
type TargetRequirement struct {
	Description  string
	Min, Max     int
	LegalTargets []ids.ObjectId
}

// AttackerOption is one eligible creature's attack decision surface (spec
// §4.8 "Declare Attackers decision surface").
type AttackerOption struct {
	Creature    ids.ObjectId
	ValidTargets []ids.ObjectId
	MustAttack  bool
}

// BlockerOption is one attacking creature's block decision surface.
type BlockerOption struct {
	Attacker      ids.ObjectId
	ValidBlockers []ids.ObjectId
	MinBlockers   int
}

// Mode is one entry of a modal spell's mode list.
type Mode struct {
	Index       int
	Description string
}

// CounterOption names one counter kind available in a Counters decision.
type CounterOption struct {
	Kind string
}

// Context is the closed tagged union the engine returns whenever it
// cannot proceed without a player choice (spec §6.2). Exactly one of the
// payload fields is populated, selected by Tag.
type Context struct {
	Tag    Tag
	Player string

	Description string

	// Boolean
	// (Description, Player above suffice)

	// Number
	Min, Max int
	IsX      bool

	// SelectOptions
	Options []Option

	// SelectObjects
	Candidates []Candidate

	// Targets
	TargetRequirements []TargetRequirement

	// Priority
	LegalActions     []Action
	CommanderActions []Action

	// Attackers
	AttackerOptions []AttackerOption

	// Blockers
	DefendingPlayer string
	BlockerOptions  []BlockerOption

	// Order / Partition
	Items          []ids.ObjectId
	SecondaryLabel string
	Cards          []ids.ObjectId

	// Distribute
	Total        int
	MinPerTarget int
	Targets      []ids.ObjectId

	// Colors
	Count         int
	SameColor     bool
	AvailableColors []string

	// Counters
	TargetName        string
	AvailableCounters []CounterOption
	MaxTotal          int

	// Proliferate
	EligiblePermanents []ids.ObjectId
	EligiblePlayers    []string

	// Modes
	SpellName string
	Modes     []Mode

	// HybridChoice
	PipNumber int

	// ReplacementChoice
	ReplacementCandidates []string
}

// Response is the corresponding closed union of what an agent sends back;
// shape mirrors Context 1:1 (spec §6.2 "Response shapes mirror these
// 1:1").
type Response struct {
	Tag Tag

	Bool       bool
	Number     int
	ChosenOpts []int // indices into the matching Context.Options
	ChosenIDs  []ids.ObjectId

	// Targets: one chosen id-list per TargetRequirement, in the same order.
	TargetChoices [][]ids.ObjectId

	// Priority
	ChosenAction *Action

	// Attackers: map from attacking creature to its chosen defender (or
	// empty ids.ObjectId if it does not attack).
	Attacks map[ids.ObjectId]ids.ObjectId

	// Blockers: map from attacker to the blockers assigned to it.
	Blocks map[ids.ObjectId][]ids.ObjectId

	// Order
	Ordered []ids.ObjectId

	// Distribute: map from target to assigned amount.
	Distribution map[ids.ObjectId]int

	// Colors
	ChosenColors []string

	// Counters
	ChosenCounter string
	CounterAmount int

	// Partition
	GroupA []ids.ObjectId
	GroupB []ids.ObjectId

	// Modes
	ChosenModes []int

	// HybridChoice
	ChosenOption int

	// ReplacementChoice
	ChosenReplacement string
}
