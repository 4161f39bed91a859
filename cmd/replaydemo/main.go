// Command replaydemo drives one scripted game trajectory through the
// engine's advance/respond loop and prints each step, the non-goal-
// compliant replacement for the teacher's cmd/web-demo (an HTTP/gRPC demo
// server, explicitly out of scope per spec.md §1 "networking ... the CLI
// and WASM UI shells" are external collaborators). Grounded on the
// teacher's cmd/web-demo/main.go control flow (build game, loop, print
// view), stripped of the HTTP/websocket layer and pointed at this engine's
// Engine.Advance/Respond instead of a live connection.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/corvid-games/cardengine/internal/casting"
	"github.com/corvid-games/cardengine/internal/decision"
	"github.com/corvid-games/cardengine/internal/engine"
	"github.com/corvid-games/cardengine/internal/executor"
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/mana"
	"github.com/corvid-games/cardengine/internal/object"
	"github.com/corvid-games/cardengine/internal/stack"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	eng := engine.NewGame(engine.Config{
		PlayerNames:  []string{"alice", "bob"},
		StartingLife: 20,
		RandomSeed:   1,
	}, logger)

	installDemoCards(eng)

	checkpoint := eng.Snapshot()
	logger.Info("checkpoint taken before play begins")

	progress, err := eng.Advance()
	if err != nil {
		fail(logger, err)
	}
	for step := 0; progress.Kind == engine.ProgressNeedsDecision; step++ {
		resp := autoRespond(progress.Decision)
		logger.Info("decision", zap.Int("step", step), zap.String("tag", string(progress.Decision.Tag)), zap.String("player", progress.Decision.Player))
		progress, err = eng.Respond(resp)
		if err != nil {
			fail(logger, err)
		}
	}

	switch progress.Kind {
	case engine.ProgressGameOver:
		logger.Info("game over", zap.String("winner", progress.Winner))
	case engine.ProgressContinue:
		logger.Info("advanced without further decisions this slice")
	}

	// Demonstrate the rewind law (spec §8.2): restoring the pre-play
	// checkpoint must put the engine back exactly where Snapshot found it.
	eng.Restore(checkpoint)
	logger.Info("restored pre-play checkpoint", zap.Int("bob hand size", len(eng.State().Hand("bob"))))
}

// installDemoCards seeds a minimal two-player board: alice has a Lightning
// Bolt-alike in hand and a Plains on the battlefield; bob has a 2/2 Bear on
// the battlefield. Card text interpretation is out of scope (spec §1); this
// mirrors what the (external) card-text parser would hand the engine.
func installDemoCards(eng *engine.Engine) {
	plains := object.CardDefinition{Name: "Plains", CardTypes: []string{"Land"}, Subtypes: []string{"Plains"}}
	eng.CreateObjectFromDefinition(plains, "alice", "BATTLEFIELD")

	bear := object.CardDefinition{
		Name: "Grizzly Bears", CardTypes: []string{"Creature"}, Subtypes: []string{"Bear"},
		ManaCost: "{1}{G}", BasePower: 2, HasPower: true, BaseToughness: 2, HasToughness: true,
	}
	bearObj := eng.CreateObjectFromDefinition(bear, "bob", "BATTLEFIELD")

	bolt := object.CardDefinition{
		Name: "Scorch Bolt", CardTypes: []string{"Instant"}, ManaCost: "{R}",
		OracleText: "Scorch Bolt deals 3 damage to any target.",
	}
	eng.CreateObjectFromDefinition(bolt, "alice", "HAND")

	cost, _ := mana.Parse(bolt.ManaCost)
	eng.RegisterCastSpec("Scorch Bolt", func(o *object.Object, controller string) casting.Spec {
		return castingSpecFor(o, controller, cost, bearObj.ID)
	})
}

// castingSpecFor builds the one-effect casting.Spec for Scorch Bolt: a
// single DealDamage executor targeting anything, resolved with whatever
// target the Targets decision picked.
func castingSpecFor(o *object.Object, controller string, cost *mana.Cost, legalTarget ids.ObjectId) casting.Spec {
	dmg := executor.NewDealDamage(o.ID, 3)
	return casting.Spec{
		SourceID:       o.ID,
		Controller:     controller,
		Kind:           stack.KindSpell,
		CastingMethods: []string{"normal"},
		ManaCost:       cost,
		Modes: []casting.ModeSpec{{
			Effects: []casting.EffectSpec{{
				Executor:     dmg,
				TargetsMin:   1,
				TargetsMax:   1,
				Description:  "any target",
				LegalTargets: func() []ids.ObjectId { return []ids.ObjectId{legalTarget} },
			}},
		}},
	}
}

// autoRespond supplies a deterministic, always-legal response for any
// decision the engine raises, enough to drive the scripted trajectory to
// completion without a human or search agent in the loop.
func autoRespond(ctx *decision.Context) decision.Response {
	resp := decision.Response{Tag: ctx.Tag}
	switch ctx.Tag {
	case decision.TagPriority:
		for _, a := range ctx.LegalActions {
			if a.Kind == decision.ActionCast {
				chosen := a
				resp.ChosenAction = &chosen
				return resp
			}
		}
		pass := decision.Action{Kind: decision.ActionPass}
		resp.ChosenAction = &pass
	case decision.TagTargets:
		for _, req := range ctx.TargetRequirements {
			if len(req.LegalTargets) > 0 {
				resp.TargetChoices = append(resp.TargetChoices, []ids.ObjectId{req.LegalTargets[0]})
			} else {
				resp.TargetChoices = append(resp.TargetChoices, nil)
			}
		}
	case decision.TagHybridChoice:
		resp.ChosenOption = 0
	case decision.TagSelectOptions:
		if ctx.Min > 0 {
			resp.ChosenOpts = []int{0}
		}
	case decision.TagSelectObjects:
		n := ctx.Min
		for i := 0; i < n && i < len(ctx.Candidates); i++ {
			resp.ChosenIDs = append(resp.ChosenIDs, ctx.Candidates[i].ID)
		}
	case decision.TagAttackers:
		resp.Attacks = map[ids.ObjectId]ids.ObjectId{}
	case decision.TagBlockers:
		resp.Blocks = map[ids.ObjectId][]ids.ObjectId{}
	}
	return resp
}

func fail(logger *zap.Logger, err error) {
	logger.Fatal("engine error", zap.Error(err))
}
