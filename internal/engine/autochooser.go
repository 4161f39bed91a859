package engine

import "github.com/corvid-games/cardengine/internal/ids"

// autoChooser implements executor.Chooser with deterministic, non-
// suspending defaults for the small number of choices an executor makes
// mid-resolution (mode selection already made during casting, damage
// distribution across a fixed target list, and the like). Spec §9 prefers
// the priority loop's state-machine form precisely because it has no
// hidden stack to resume into — but executor.Chooser's interface is
// synchronous, so it cannot itself suspend the loop. Every decision that
// actually matters (what to cast, what to target, whether to block) is
// already settled by the time an entry reaches the stack; what's left for
// an executor to ask mid-resolution is low-stakes enough to answer with a
// fixed rule: first legal candidate, smallest legal number, "no" to
// optional asks.
type autoChooser struct{}

func (autoChooser) ChooseYesNo(playerID, prompt string) bool { return false }

func (autoChooser) ChooseNumber(playerID, prompt string, min, max int) int { return min }

func (autoChooser) ChooseObjects(playerID, prompt string, candidates []ids.ObjectId, min, max int) []ids.ObjectId {
	if min <= 0 || len(candidates) == 0 {
		return nil
	}
	n := min
	if n > len(candidates) {
		n = len(candidates)
	}
	return append([]ids.ObjectId(nil), candidates[:n]...)
}

func (autoChooser) ChooseOrder(playerID, prompt string, items []ids.ObjectId) []ids.ObjectId {
	return append([]ids.ObjectId(nil), items...)
}

func (autoChooser) ChooseMode(playerID, prompt string, modes []string, min, max int) []int {
	if min <= 0 || len(modes) == 0 {
		return nil
	}
	out := make([]int, 0, min)
	for i := 0; i < min && i < len(modes); i++ {
		out = append(out, i)
	}
	return out
}
