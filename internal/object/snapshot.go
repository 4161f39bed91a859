package object

import "github.com/corvid-games/cardengine/internal/ids"

// Snapshot captures an object's calculated characteristics at an instant —
// Last Known Information (rule 603.10a, spec §3.8). Snapshots are taken
// before SBAs run (rule 704.7) and attached to events whose resolution
// depends on LKI: sacrifice, die, and zone-leave triggers read the
// snapshot rather than the (possibly already-moved) live object.
type Snapshot struct {
	ObjectID   ids.ObjectId
	StableID   ids.StableId
	Name       string
	Owner      string
	Controller string
	CardTypes  []string
	Subtypes   []string
	Power      int
	HasPower   bool
	Toughness  int
	HasTough   bool
	Abilities  []Ability
	Counters   Counters
	Zone       string // zone name at capture time, for display/debugging only
}

// Capture freezes o's current characteristics into a Snapshot. Callers in
// the continuous-effects layer should pass calculated (not base) P/T; this
// package itself has no access to the layer system; see internal/continuous
// for the function that actually produces the "calculated" values captured
// here in practice.
func Capture(o *Object, calculatedPower, calculatedToughness int, hasPower, hasTough bool) Snapshot {
	return Snapshot{
		ObjectID:   o.ID,
		StableID:   o.StableID,
		Name:       o.Name,
		Owner:      o.Owner,
		Controller: o.Controller,
		CardTypes:  append([]string(nil), o.CardTypes...),
		Subtypes:   append([]string(nil), o.Subtypes...),
		Power:      calculatedPower,
		HasPower:   hasPower,
		Toughness:  calculatedToughness,
		HasTough:   hasTough,
		Abilities:  append([]Ability(nil), o.Abilities...),
		Counters:   o.Counters.Clone(),
		Zone:       o.Zone.String(),
	}
}
