// engine.go implements the Engine driver: Advance/Respond and the priority
// loop they resume (spec §5, §6.1, §9). Grounded on the teacher's
// MageEngine.processGameState dispatch loop, reshaped from a
// notification-push server object into the spec's pull-based Progress
// state machine (see DESIGN.md's "Decision protocol vs. teacher's
// notification-push model" entry) and from goroutine-per-game concurrency
// into the explicit LoopState machine spec §9 asks for.
package engine

import (
	"go.uber.org/zap"

	"github.com/corvid-games/cardengine/internal/casting"
	"github.com/corvid-games/cardengine/internal/combat"
	"github.com/corvid-games/cardengine/internal/decision"
	"github.com/corvid-games/cardengine/internal/event"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/object"
	"github.com/corvid-games/cardengine/internal/sba"
	"github.com/corvid-games/cardengine/internal/stack"
	"github.com/corvid-games/cardengine/internal/trigger"
	"github.com/corvid-games/cardengine/internal/turn"
	"github.com/corvid-games/cardengine/internal/zone"
)

// maxHandSize is rule 120.3's default; a variant-rule field belongs on
// Config, not here, should a future caller need to change it.
const maxHandSize = 7

// Engine drives one game's advance/respond loop (spec §6.1), owning the
// State plus the two caller-supplied registries that teach it what
// specific cards do: triggerBuilders turns a fired trigger.Pending into the
// stack.Entry it becomes, and castSpecs turns a card/ability name into the
// casting.Spec describing how to cast or activate it. Neither the card
// database nor per-card Go logic lives in this package, mirroring how the
// teacher's own Ability/ActivatedAbility implementations
// (internal/game/ability_example.go) are supplied per-card rather than
// built into MageEngine itself.
type Engine struct {
	state *State

	triggerBuilders map[string]func(trigger.Pending) stack.Entry
	castSpecs       map[string]func(o *object.Object, controller string) casting.Spec
}

// NewGame creates a fresh Engine from cfg (spec §6.1 new_game).
func NewGame(cfg Config, logger *zap.Logger) *Engine {
	return &Engine{
		state:           newState(cfg, logger),
		triggerBuilders: make(map[string]func(trigger.Pending) stack.Entry),
		castSpecs:       make(map[string]func(o *object.Object, controller string) casting.Spec),
	}
}

// State exposes the underlying game state for read-only inspection (tests,
// diagnostics, UI rendering).
func (e *Engine) State() *State { return e.state }

// CreateObjectFromDefinition installs def into zone z under owner, minting
// fresh ids (spec §6.1 create_object_from_definition).
func (e *Engine) CreateObjectFromDefinition(def object.CardDefinition, owner, z string) *object.Object {
	return e.state.Mint(def, owner, z)
}

// RegisterTriggerBuilder teaches the engine how to turn a fired trigger
// (matched by id — the same id a trigger.Definition or trigger.Delayed was
// registered under) into the stack.Entry its ability puts on the stack.
func (e *Engine) RegisterTriggerBuilder(id string, build func(trigger.Pending) stack.Entry) {
	e.triggerBuilders[id] = build
}

// RegisterCastSpec teaches the engine how to cast a named card or activate
// a named ability. key is the card's Name for a spell, or abilityKey(o, a)
// for one of its activated abilities.
func (e *Engine) RegisterCastSpec(key string, build func(o *object.Object, controller string) casting.Spec) {
	e.castSpecs[key] = build
}

// Advance resumes the engine's loop. It is an error to call this while a
// decision is pending — Respond is the only legal way to make progress
// then (spec §7 contract-error plane).
func (e *Engine) Advance() (Progress, error) {
	if e.state.loopState.kind != pendingNone {
		return Progress{}, &ContractError{Field: "loop", Message: "a decision is already pending; call Respond instead"}
	}
	return e.runLoop(), nil
}

// Respond applies resp to whichever decision is currently pending and
// resumes the loop.
func (e *Engine) Respond(resp decision.Response) (Progress, error) {
	ls := &e.state.loopState
	if ls.kind == pendingNone || ls.ctx == nil {
		return Progress{}, &ContractError{Field: "loop", Message: "no decision is pending"}
	}
	if resp.Tag != ls.ctx.Tag {
		return Progress{}, &ContractError{Field: "resp.Tag", Message: "response tag does not match the pending decision"}
	}
	player := ls.ctx.Player

	switch ls.kind {
	case pendingPriority:
		return e.applyPriorityResponse(player, resp)

	case pendingCastDecision:
		cast, source := ls.cast, ls.castSource
		ls.kind, ls.ctx, ls.cast = pendingNone, nil, nil
		cast.Apply(resp)
		if p := e.driveCast(cast, source); p != nil {
			return *p, nil
		}
		return e.runLoop(), nil

	case pendingLegend:
		group := ls.legendGroup
		ls.kind, ls.ctx, ls.legendGroup = pendingNone, nil, nil
		e.applyLegendResponse(group, resp)
		return e.runLoop(), nil

	case pendingAttackers:
		ls.kind, ls.ctx = pendingNone, nil
		e.applyAttackersResponse(resp)
		return e.runLoop(), nil

	case pendingBlockers:
		ls.kind, ls.ctx = pendingNone, nil
		e.applyBlockersResponse(resp)
		return e.runLoop(), nil

	case pendingDiscard:
		ls.kind, ls.ctx = pendingNone, nil
		e.applyDiscardResponse(resp)
		return e.runLoop(), nil
	}
	return Progress{}, &InvariantError{Message: "unhandled pending kind"}
}

// runLoop is the resumable core (spec §9): check game-over, run SBAs to
// fixpoint, flush triggers onto the stack, then either ask for priority,
// resolve the stack, or advance to the next step, looping until a decision
// is needed or the game ends.
func (e *Engine) runLoop() Progress {
	for {
		if p := e.checkGameOver(); p != nil {
			return *p
		}
		if p := e.runSBAs(); p != nil {
			return *p
		}
		if p := e.flushTriggers(); p != nil {
			return *p
		}
		if e.state.triggers.HasPending() {
			continue
		}
		if p := e.requestPriority(); p != nil {
			return *p
		}
		// Every player passed in succession with nothing new having
		// happened since (rule 117.4): resolve the stack, or end the step.
		e.state.loopState.passed = nil
		if !e.state.stackMgr.IsEmpty() {
			if p := e.resolveTopOfStack(); p != nil {
				return *p
			}
			continue
		}
		if p := e.advanceStep(); p != nil {
			return *p
		}
	}
}

// checkGameOver reports a GAME_OVER progress once at most one player
// remains who has not lost (spec §4.10).
func (e *Engine) checkGameOver() *Progress {
	if e.state.gameOver {
		p := gameOverProgress(e.state.winner)
		return &p
	}
	var alive []string
	for _, p := range e.state.Players() {
		if !p.HasLost {
			alive = append(alive, p.ID)
		}
	}
	if len(alive) <= 1 {
		e.state.gameOver = true
		if len(alive) == 1 {
			e.state.winner = alive[0]
		}
		p := gameOverProgress(e.state.winner)
		return &p
	}
	return nil
}

// runSBAs runs state-based actions to fixpoint (spec §4.6), applying every
// detected action immediately except legend-rule collisions, which suspend
// for the affected controller's decision — the one SBA kind spec §4.6
// describes as requiring a choice rather than applying unconditionally.
func (e *Engine) runSBAs() *Progress {
	for {
		actions := sba.Check(e.state)
		if len(actions) == 0 {
			return nil
		}
		var rest []sba.Action
		var legendGroup []ids.ObjectId
		for _, a := range actions {
			if a.Kind == sba.KindLegendRule {
				if legendGroup == nil {
					legendGroup = a.Group
				}
				continue
			}
			rest = append(rest, a)
		}
		if len(rest) > 0 {
			sba.Apply(e.state, rest, nil)
		}
		if legendGroup != nil {
			return e.requestLegendChoice(legendGroup)
		}
	}
}

func (e *Engine) requestLegendChoice(group []ids.ObjectId) *Progress {
	controller := ""
	if o, ok := e.state.Object(group[0]); ok {
		controller = o.Controller
	}
	ls := &e.state.loopState
	ls.kind = pendingLegend
	ls.legendGroup = append([]ids.ObjectId(nil), group...)
	ctx := &decision.Context{
		Tag:         decision.TagSelectObjects,
		Player:      controller,
		Description: "Legend rule: choose one to keep",
		Candidates:  candidatesFromIDs(e.state, group),
		Min:         1,
		Max:         1,
	}
	ls.ctx = ctx
	p := needsDecision(ctx)
	return &p
}

func (e *Engine) applyLegendResponse(group []ids.ObjectId, resp decision.Response) {
	keep := group[0]
	if len(resp.ChosenIDs) == 1 {
		keep = resp.ChosenIDs[0]
	}
	for _, id := range group {
		if id == keep {
			continue
		}
		e.state.MoveZone(id, "GRAVEYARD")
	}
}

// flushTriggers drains both the ordinary trigger queue (APNAP-ordered) and
// the buffered delayed-trigger firings, pushing a stack.Entry for each
// trigger this engine has a registered builder for (spec §4.3).
func (e *Engine) flushTriggers() *Progress {
	pending := e.state.triggers.Flush(e.apnapTriggerCompare)
	pending = append(pending, e.state.DrainFiredDelayed()...)
	for _, p := range pending {
		build, ok := e.triggerBuilders[p.ID]
		if !ok {
			continue
		}
		e.state.stackMgr.Push(build(p))
	}
	return nil
}

// apnapTriggerCompare orders pending triggers active-player-first (spec
// §4.3 "APNAP order"), a stable sort so same-controller triggers keep the
// order they were queued in.
func (e *Engine) apnapTriggerCompare(a, b trigger.Pending) bool {
	active := e.state.ActivePlayer()
	return a.Controller == active && b.Controller != active
}

// requestPriority asks the next player in APNAP order who has not yet
// passed this priority round for a decision, or returns nil once everyone
// has passed.
func (e *Engine) requestPriority() *Progress {
	ls := &e.state.loopState
	for _, playerID := range e.apnapOrder() {
		if ls.passed != nil && ls.passed[playerID] {
			continue
		}
		ctx := &decision.Context{
			Tag:          decision.TagPriority,
			Player:       playerID,
			LegalActions: e.legalActionsFor(playerID),
		}
		ls.kind = pendingPriority
		ls.ctx = ctx
		p := needsDecision(ctx)
		return &p
	}
	return nil
}

// apnapOrder returns every player starting from the active player.
func (e *Engine) apnapOrder() []string {
	all := e.state.PlayerOrder()
	active := e.state.ActivePlayer()
	out := make([]string, 0, len(all))
	out = append(out, active)
	for _, p := range all {
		if p != active {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) applyPriorityResponse(player string, resp decision.Response) (Progress, error) {
	ls := &e.state.loopState
	if resp.ChosenAction == nil || resp.ChosenAction.Kind == decision.ActionPass {
		if ls.passed == nil {
			ls.passed = make(map[string]bool)
		}
		ls.passed[player] = true
		ls.kind, ls.ctx = pendingNone, nil
		return e.runLoop(), nil
	}

	// Any non-pass action resets priority: once it resolves or goes on the
	// stack, every player must pass again starting with the active player
	// (rule 117.3b).
	// A rejected action restores the pending priority decision unchanged.
	prev := *ls
	ls.passed = nil
	ls.kind, ls.ctx = pendingNone, nil
	action := *resp.ChosenAction
	var progress Progress
	var err error
	switch action.Kind {
	case decision.ActionCast:
		progress, err = e.beginCast(action.SourceID, player)
	case decision.ActionActivate:
		progress, err = e.beginActivate(action.SourceID, player)
	default:
		err = &ContractError{Field: "resp.ChosenAction.Kind", Message: "unsupported action kind"}
	}
	if err != nil {
		*ls = prev
	}
	return progress, err
}

func (e *Engine) beginCast(sourceID ids.ObjectId, controller string) (Progress, error) {
	o, ok := e.state.Object(sourceID)
	if !ok {
		return Progress{}, &ContractError{Field: "resp.ChosenAction.SourceID", Message: "object not found"}
	}
	build, ok := e.castSpecs[o.Name]
	if !ok {
		return Progress{}, &ContractError{Field: "resp.ChosenAction.SourceID", Message: "no cast spec registered for " + o.Name}
	}
	cast := casting.NewPending(build(o, controller))
	if p := e.driveCast(cast, sourceID); p != nil {
		return *p, nil
	}
	return e.runLoop(), nil
}

func (e *Engine) beginActivate(sourceID ids.ObjectId, controller string) (Progress, error) {
	o, ok := e.state.Object(sourceID)
	if !ok {
		return Progress{}, &ContractError{Field: "resp.ChosenAction.SourceID", Message: "object not found"}
	}
	var build func(*object.Object, string) casting.Spec
	for _, a := range o.Abilities {
		if a.Kind != object.AbilityActivated {
			continue
		}
		if b, ok := e.castSpecs[abilityKey(o, a)]; ok {
			build = b
			break
		}
	}
	if build == nil {
		return Progress{}, &ContractError{Field: "resp.ChosenAction.SourceID", Message: "no cast spec registered for that activated ability"}
	}
	cast := casting.NewPending(build(o, controller))
	if p := e.driveCast(cast, sourceID); p != nil {
		return *p, nil
	}
	return e.runLoop(), nil
}

// driveCast advances a cast/activation as far as it can go without a
// decision (spec §4.7), returning a Progress if it must suspend again, or
// nil once it reaches PhaseDone and has been pushed onto the stack.
func (e *Engine) driveCast(cast *casting.Pending, sourceID ids.ObjectId) *Progress {
	cast.Advance()
	if !cast.IsDone() {
		ctx := cast.NextDecision()
		ls := &e.state.loopState
		ls.kind, ls.ctx, ls.cast, ls.castSource = pendingCastDecision, ctx, cast, sourceID
		p := needsDecision(ctx)
		return &p
	}
	e.finalizeCast(cast, sourceID)
	return nil
}

// finalizeCast pushes cast's finished Pending onto the stack. A spell mints
// a fresh stack-zone ObjectId for itself, per rule 400.7 and the teacher's
// "every zone change mints a new id" convention; an activated ability has
// no object of its own, so its source (still on the battlefield) supplies
// only the StableID the stack entry is tagged with.
func (e *Engine) finalizeCast(cast *casting.Pending, sourceID ids.ObjectId) {
	var newID ids.ObjectId
	var stableID ids.StableId

	switch cast.Spec.Kind {
	case stack.KindSpell:
		src, ok := e.state.Object(sourceID)
		if !ok {
			return
		}
		stableID = src.StableID
		e.state.removeFromZone(src)
		delete(e.state.objects, sourceID)
		newID = e.state.arena.NextObjectId()
		moved := *src
		moved.ID = newID
		moved.Zone = zone.Stack
		e.state.objects[newID] = &moved
	default:
		if src, ok := e.state.Object(sourceID); ok {
			stableID = src.StableID
		}
		newID = sourceID
	}

	entry := cast.Finalize(newID, stableID)
	e.state.stackMgr.Push(entry)
	e.state.watchers.Observe(event.Event{Type: event.TypeSpellCast, SourceID: newID, Controller: cast.Spec.Controller})
	e.state.triggers.Observe(event.Event{Type: event.TypeSpellCast, SourceID: newID, Controller: cast.Spec.Controller})
}

// resolveTopOfStack pops and resolves the top stack entry (spec §4.5 steps
// 2-6). autoChooser supplies deterministic answers for any in-resolution
// choice an executor itself needs (see autochooser.go) — every
// player-facing decision that matters (what to cast, what to target, how
// to block) was already made before the entry reached the stack.
func (e *Engine) resolveTopOfStack() *Progress {
	validate := func(entry stack.Entry, id ids.ObjectId) bool {
		_, ok := e.state.Object(id)
		return ok
	}
	if _, err := stack.ResolveOne(e.state, validate, autoChooser{}); err != nil {
		e.state.logger.Error("stack resolution failed", zap.Error(err))
	}
	return nil
}

// advanceStep moves the turn structure to its next step (rotating the
// active player and resetting turn-scoped watchers on a new turn) and
// performs that step's mandatory entry action (spec §4.9).
func (e *Engine) advanceStep() *Progress {
	active := e.state.ActivePlayer()
	_, _, newTurn := e.state.turnMgr.Advance(e.nextActivePlayerID(active))
	if newTurn {
		e.state.watchers.ResetTurnScoped()
	}
	return e.onStepEntered()
}

func (e *Engine) nextActivePlayerID(current string) string {
	order := e.state.PlayerOrder()
	for i, p := range order {
		if p == current {
			return order[(i+1)%len(order)]
		}
	}
	if len(order) > 0 {
		return order[0]
	}
	return current
}

// onStepEntered performs the step just entered's mandatory action, and
// suspends for a decision where the step itself is one (declare attackers/
// blockers, cleanup discard).
func (e *Engine) onStepEntered() *Progress {
	switch e.state.CurrentStep() {
	case turn.StepUntap:
		e.state.UntapAll(e.state.ActivePlayer())
	case turn.StepDraw:
		e.state.DrawCard(e.state.ActivePlayer())
	case turn.StepBeginCombat:
		e.state.combatState = combat.New(e.state.ActivePlayer())
	case turn.StepDeclareAttackers:
		return e.requestAttackers()
	case turn.StepDeclareBlockers:
		if p := e.requestBlockers(); p != nil {
			return p
		}
		if e.state.combatState != nil {
			e.state.turnMgr.SetSkipFirstStrikeStep(!e.state.combatState.HasFirstStrikeParticipant(e.state))
		}
	case turn.StepFirstStrikeDamage:
		e.dealCombatDamage(true)
	case turn.StepCombatDamage:
		e.dealCombatDamage(false)
	case turn.StepEndCombat:
		if e.state.combatState != nil {
			e.state.combatState.EndCombat()
		}
	case turn.StepCleanup:
		return e.requestCleanupDiscard()
	}
	return nil
}

func (e *Engine) dealCombatDamage(firstStrikeStep bool) {
	if e.state.combatState == nil {
		return
	}
	for _, g := range e.state.combatState.Groups {
		if err := combat.AssignAndDealDamage(e.state, g, firstStrikeStep); err != nil {
			e.state.logger.Error("combat damage failed", zap.Error(err))
		}
	}
}

// requestAttackers surfaces the Declare Attackers decision (spec §4.8) for
// every creature this engine's combat package reports can attack.
func (e *Engine) requestAttackers() *Progress {
	active := e.state.ActivePlayer()
	defenders := e.eligibleDefenders(active)
	candidates := map[ids.ObjectId][]ids.ObjectId{}
	var opts []decision.AttackerOption
	for _, o := range e.state.BattlefieldObjects() {
		if o.Controller != active || !o.HasCardType("Creature") {
			continue
		}
		if !combat.CanAttack(e.state, o.ID, active, e.state.CurrentTurn()) {
			continue
		}
		candidates[o.ID] = defenders
		opts = append(opts, decision.AttackerOption{Creature: o.ID, ValidTargets: defenders})
	}
	if len(opts) == 0 {
		return nil
	}
	ls := &e.state.loopState
	ls.kind = pendingAttackers
	ls.attackerCandidates = candidates
	ctx := &decision.Context{Tag: decision.TagAttackers, Player: active, AttackerOptions: opts}
	ls.ctx = ctx
	p := needsDecision(ctx)
	return &p
}

func (e *Engine) eligibleDefenders(active string) []ids.ObjectId {
	var out []ids.ObjectId
	for _, p := range e.state.Players() {
		if p.ID != active {
			out = append(out, ids.ObjectId(p.ID))
		}
	}
	return out
}

func (e *Engine) applyAttackersResponse(resp decision.Response) {
	if e.state.combatState == nil {
		e.state.combatState = combat.New(e.state.ActivePlayer())
	}
	attacks := map[ids.ObjectId]ids.ObjectId{}
	for attacker, defender := range resp.Attacks {
		if defender != "" {
			attacks[attacker] = defender
		}
	}
	e.state.combatState.Declare(e.state, attacks)
	for attacker := range attacks {
		e.state.triggers.Observe(event.Event{Type: event.TypeCreatureAttacks, SourceID: attacker})
	}
}

// requestBlockers surfaces the Declare Blockers decision. Every attacked
// group in this combat shares one defending player in the common (1v1)
// case this engine targets, so one decision batches every attacker's
// blocker options for that player, rather than one round-trip per group.
func (e *Engine) requestBlockers() *Progress {
	cs := e.state.combatState
	if cs == nil || len(cs.Groups) == 0 {
		return nil
	}
	var defendingPlayer string
	var opts []decision.BlockerOption
	for _, g := range cs.Groups {
		if g.DefendingPlayer == "" {
			continue
		}
		defendingPlayer = g.DefendingPlayer
		candidates := e.creaturesControlledBy(g.DefendingPlayer)
		for _, attacker := range g.Attackers {
			legal := combat.LegalBlockers(e.state, attacker, candidates)
			opts = append(opts, decision.BlockerOption{Attacker: attacker, ValidBlockers: legal})
		}
	}
	if len(opts) == 0 {
		return nil
	}
	ls := &e.state.loopState
	ls.kind = pendingBlockers
	ls.defendingPlayer = defendingPlayer
	ctx := &decision.Context{Tag: decision.TagBlockers, Player: defendingPlayer, DefendingPlayer: defendingPlayer, BlockerOptions: opts}
	ls.ctx = ctx
	p := needsDecision(ctx)
	return &p
}

func (e *Engine) creaturesControlledBy(playerID string) []ids.ObjectId {
	var out []ids.ObjectId
	for _, o := range e.state.BattlefieldObjects() {
		if o.Controller == playerID && o.HasCardType("Creature") {
			out = append(out, o.ID)
		}
	}
	return out
}

func (e *Engine) applyBlockersResponse(resp decision.Response) {
	if e.state.combatState == nil {
		return
	}
	e.state.combatState.DeclareBlocks(e.state, resp.Blocks)
	for attacker, blockers := range resp.Blocks {
		if len(blockers) > 0 {
			e.state.triggers.Observe(event.Event{Type: event.TypeCreatureBlocks, SourceID: attacker})
		}
	}
}

// requestCleanupDiscard surfaces the cleanup step's discard-to-hand-size
// decision (rule 514.1) when the active player's hand exceeds the maximum;
// otherwise cleanup finishes immediately without a decision.
func (e *Engine) requestCleanupDiscard() *Progress {
	active := e.state.ActivePlayer()
	hand := e.state.Hand(active)
	if len(hand) <= maxHandSize {
		e.finishCleanup()
		return nil
	}
	ls := &e.state.loopState
	ls.kind = pendingDiscard
	over := len(hand) - maxHandSize
	ctx := &decision.Context{
		Tag:         decision.TagSelectObjects,
		Player:      active,
		Description: "Discard down to maximum hand size",
		Candidates:  candidatesFromIDs(e.state, hand),
		Min:         over,
		Max:         over,
	}
	ls.ctx = ctx
	p := needsDecision(ctx)
	return &p
}

func (e *Engine) applyDiscardResponse(resp decision.Response) {
	for _, id := range resp.ChosenIDs {
		newID, err := e.state.MoveZone(id, "GRAVEYARD")
		if err != nil {
			continue
		}
		e.state.triggers.Observe(event.Event{Type: event.TypeDiscard, TargetID: newID})
	}
	e.finishCleanup()
}

// finishCleanup clears marked damage and expires end-of-turn/end-of-combat
// continuous effects (spec §4.9 cleanup step, §3.6 "Duration").
func (e *Engine) finishCleanup() {
	for _, o := range e.state.BattlefieldObjects() {
		o.DamageMarked = 0
		o.DeathtouchMarked = false
	}
	alwaysExpired := func(string) bool { return true }
	e.state.continuous.ExpireAtCleanup(alwaysExpired, alwaysExpired, func(id string) bool {
		o, ok := e.state.Object(ids.ObjectId(id))
		return ok && !o.Tapped
	})
	e.state.watchers.ResetTurnScoped()
}
