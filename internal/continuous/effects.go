package continuous

import (
	"github.com/corvid-games/cardengine/internal/object"
)

// Until describes when a continuous effect's duration expires (spec §3.6).
type Until string

const (
	UntilForever          Until = "FOREVER"
	UntilEndOfTurn        Until = "END_OF_TURN"
	UntilYourNextTurn     Until = "YOUR_NEXT_TURN"
	UntilNextUntap        Until = "CONTROLLERS_NEXT_UNTAP"
	UntilEndOfCombat      Until = "END_OF_COMBAT"
	UntilSourceOnBattlefield Until = "WHILE_SOURCE_ON_BATTLEFIELD"
	UntilControlSource    Until = "WHILE_YOU_CONTROL_SOURCE"
)

// PTBoost applies a flat power/toughness delta to a single object, the
// generalization of the teacher's SimplePTBoostEffect from "all creatures a
// player controls" down to "one specific object" (e.g. an Aura's grant).
type PTBoost struct {
	id         string
	target     func(o *object.Object) bool
	powerDelta int
	toughDelta int
}

// NewPTBoost creates a PTBoost applying to any object for which match
// returns true.
func NewPTBoost(id string, match func(o *object.Object) bool, powerDelta, toughDelta int) *PTBoost {
	return &PTBoost{id: id, target: match, powerDelta: powerDelta, toughDelta: toughDelta}
}

func (e *PTBoost) ID() string    { return e.id }
func (e *PTBoost) Layer() Layer  { return LayerPTAdjust }
func (e *PTBoost) AppliesTo(o *object.Object, s *Snapshot) bool {
	return e.target != nil && e.target(o)
}
func (e *PTBoost) Apply(s *Snapshot) {
	if s.HasPower {
		s.Power += e.powerDelta
	}
	if s.HasTough {
		s.Toughness += e.toughDelta
	}
}

// SetBasePT sets an object's base power/toughness before counters are
// added (spec §4.1), e.g. for a "becomes a 0/1" effect.
type SetBasePT struct {
	id        string
	target    func(o *object.Object) bool
	power     int
	toughness int
}

// NewSetBasePT creates a SetBasePT applying to any object for which match
// returns true.
func NewSetBasePT(id string, match func(o *object.Object) bool, power, toughness int) *SetBasePT {
	return &SetBasePT{id: id, target: match, power: power, toughness: toughness}
}

func (e *SetBasePT) ID() string   { return e.id }
func (e *SetBasePT) Layer() Layer { return LayerPTSetBase }
func (e *SetBasePT) AppliesTo(o *object.Object, s *Snapshot) bool {
	return e.target != nil && e.target(o)
}
func (e *SetBasePT) Apply(s *Snapshot) {
	s.Power, s.HasPower = e.power, true
	s.Toughness, s.HasTough = e.toughness, true
}

// GrantAbility adds a keyword ability to every object match selects.
type GrantAbility struct {
	id      string
	target  func(o *object.Object) bool
	ability object.Ability
}

// NewGrantAbility creates a GrantAbility applying to any object for which
// match returns true.
func NewGrantAbility(id string, match func(o *object.Object) bool, ability object.Ability) *GrantAbility {
	return &GrantAbility{id: id, target: match, ability: ability}
}

func (e *GrantAbility) ID() string   { return e.id }
func (e *GrantAbility) Layer() Layer { return LayerAbility }
func (e *GrantAbility) AppliesTo(o *object.Object, s *Snapshot) bool {
	return e.target != nil && e.target(o)
}
func (e *GrantAbility) Apply(s *Snapshot) {
	s.Abilities = append(s.Abilities, e.ability)
}

// ChangeControl moves an object's calculated controller without moving
// zones (layer 2, spec §3.6 "change control").
type ChangeControl struct {
	id            string
	target        func(o *object.Object) bool
	newController string
}

// NewChangeControl creates a ChangeControl applying to any object for which
// match returns true.
func NewChangeControl(id string, match func(o *object.Object) bool, newController string) *ChangeControl {
	return &ChangeControl{id: id, target: match, newController: newController}
}

func (e *ChangeControl) ID() string   { return e.id }
func (e *ChangeControl) Layer() Layer { return LayerControl }
func (e *ChangeControl) AppliesTo(o *object.Object, s *Snapshot) bool {
	return e.target != nil && e.target(o)
}
func (e *ChangeControl) Apply(s *Snapshot) {
	s.Controller = e.newController
}
