// Package turn implements the turn/phase/step structure (spec §4.9),
// adapted from the teacher's internal/game/rules/turn.go almost verbatim —
// same Phase/Step enums with String(), the same turnSequence table, and
// the same TurnManager shape — generalized only to drop the combat-skip
// special case the teacher's AdvanceStep never needed (this package's
// caller, the priority loop, decides whether to skip the first-strike
// damage step; see internal/combat).
package turn

import (
	"fmt"
)

// Phase represents the broad phases of a turn (spec §4.9).
type Phase int

const (
	PhaseBeginning Phase = iota
	PhasePrecombatMain
	PhaseCombat
	PhasePostcombatMain
	PhaseEnding
)

var phaseNames = map[Phase]string{
	PhaseBeginning:      "BEGINNING",
	PhasePrecombatMain:  "PRECOMBAT_MAIN",
	PhaseCombat:         "COMBAT",
	PhasePostcombatMain: "POSTCOMBAT_MAIN",
	PhaseEnding:         "ENDING",
}

func (p Phase) String() string {
	if n, ok := phaseNames[p]; ok {
		return n
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Step represents the individual steps that comprise a turn.
type Step int

const (
	StepUntap Step = iota
	StepUpkeep
	StepDraw
	StepMain1
	StepBeginCombat
	StepDeclareAttackers
	StepDeclareBlockers
	StepFirstStrikeDamage
	StepCombatDamage
	StepEndCombat
	StepMain2
	StepEnd
	StepCleanup
)

var stepNames = map[Step]string{
	StepUntap:             "UNTAP",
	StepUpkeep:            "UPKEEP",
	StepDraw:              "DRAW",
	StepMain1:             "MAIN1",
	StepBeginCombat:       "BEGIN_COMBAT",
	StepDeclareAttackers:  "DECLARE_ATTACKERS",
	StepDeclareBlockers:   "DECLARE_BLOCKERS",
	StepFirstStrikeDamage: "FIRST_STRIKE_DAMAGE",
	StepCombatDamage:      "COMBAT_DAMAGE",
	StepEndCombat:         "END_COMBAT",
	StepMain2:             "MAIN2",
	StepEnd:               "END",
	StepCleanup:           "CLEANUP",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// IsMain reports whether s is one of the two main phases, where sorcery-
// speed actions are legal.
func (s Step) IsMain() bool {
	return s == StepMain1 || s == StepMain2
}

type turnEntry struct {
	phase Phase
	step  Step
}

// sequence is the full step order for one turn. StepFirstStrikeDamage is
// conditional (spec §4.8 "First-Strike Damage (conditional)"): it stays in
// this table, and Advance skips it when skipFirstStrikeStep is set.
var sequence = []turnEntry{
	{PhaseBeginning, StepUntap},
	{PhaseBeginning, StepUpkeep},
	{PhaseBeginning, StepDraw},
	{PhasePrecombatMain, StepMain1},
	{PhaseCombat, StepBeginCombat},
	{PhaseCombat, StepDeclareAttackers},
	{PhaseCombat, StepDeclareBlockers},
	{PhaseCombat, StepFirstStrikeDamage},
	{PhaseCombat, StepCombatDamage},
	{PhaseCombat, StepEndCombat},
	{PhasePostcombatMain, StepMain2},
	{PhaseEnding, StepEnd},
	{PhaseEnding, StepCleanup},
}

// Manager tracks turn/phase/step progression and whose turn it is.
// Mirrors the teacher's TurnManager (orderIndex/turnNumber/activePlayer)
// nearly field-for-field.
type Manager struct {
	orderIndex   int
	turnNumber   int
	activePlayer string

	// skipFirstStrikeStep is set by the engine during each Declare Blockers
	// step (spec §4.8: first-strike damage only
	// happens "if at least one attacking or blocking creature has first
	// strike or double strike").
	skipFirstStrikeStep bool

	extraTurnQueue []string
}

// New creates a Manager initialized at turn 1, untap step, with the given
// starting active player.
func New(activePlayer string) *Manager {
	return &Manager{turnNumber: 1, activePlayer: activePlayer}
}

// CurrentPhase returns the phase in progress.
func (m *Manager) CurrentPhase() Phase { return sequence[m.orderIndex].phase }

// CurrentStep returns the step in progress.
func (m *Manager) CurrentStep() Step { return sequence[m.orderIndex].step }

// TurnNumber returns the current turn number (1-based).
func (m *Manager) TurnNumber() int { return m.turnNumber }

// ActivePlayer returns the player whose turn it is.
func (m *Manager) ActivePlayer() string { return m.activePlayer }

// SetSkipFirstStrikeStep tells the manager whether the upcoming
// first-strike damage step should be skipped, per spec §4.8's
// conditional step.
func (m *Manager) SetSkipFirstStrikeStep(skip bool) { m.skipFirstStrikeStep = skip }

// QueueExtraTurn schedules playerID to take an extra turn immediately
// after the current one ends (spec §4.4 "player (... extra-turn ...)").
func (m *Manager) QueueExtraTurn(playerID string) {
	m.extraTurnQueue = append(m.extraTurnQueue, playerID)
}

// Advance moves to the next step, wrapping into a new turn (and rotating
// the active player via nextActivePlayer, unless an extra turn is queued)
// when the sequence is exhausted. Returns the new phase/step and whether a
// new turn began.
func (m *Manager) Advance(nextActivePlayer string) (Phase, Step, bool) {
	m.orderIndex++
	newTurn := false
	for {
		if m.orderIndex >= len(sequence) {
			m.orderIndex = 0
			m.turnNumber++
			newTurn = true
			if len(m.extraTurnQueue) > 0 {
				m.activePlayer = m.extraTurnQueue[0]
				m.extraTurnQueue = m.extraTurnQueue[1:]
			} else if nextActivePlayer != "" {
				m.activePlayer = nextActivePlayer
			}
		}
		if sequence[m.orderIndex].step == StepFirstStrikeDamage && m.skipFirstStrikeStep {
			m.orderIndex++
			continue
		}
		break
	}
	return m.CurrentPhase(), m.CurrentStep(), newTurn
}

// Clone returns an independent copy, for snapshot/restore (spec §5), or nil
// if m is nil (no players seated yet).
func (m *Manager) Clone() *Manager {
	if m == nil {
		return nil
	}
	cp := *m
	cp.extraTurnQueue = append([]string(nil), m.extraTurnQueue...)
	return &cp
}
