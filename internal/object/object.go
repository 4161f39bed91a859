package object

import (
	"github.com/corvid-games/cardengine/internal/ids"
	"github.com/corvid-games/cardengine/internal/zone"
)

// Kind distinguishes the four flavors of in-play object (spec §3.2).
type Kind string

const (
	KindCard   Kind = "CARD"
	KindToken  Kind = "TOKEN"
	KindCopy   Kind = "COPY"
	KindEmblem Kind = "EMBLEM"
)

// Object is the in-play representation of anything that occupies a zone.
// Field names deliberately mirror the teacher's internalCard where the
// concept is the same (Tapped, Attacking, DamageSources, ...); fields the
// teacher represents loosely as strings (Zone int, Color string) are
// promoted to the engine's own typed vocabulary.
type Object struct {
	ID       ids.ObjectId
	StableID ids.StableId
	Kind     Kind
	Zone     zone.Zone

	Owner      string
	Controller string

	Name       string
	CardTypes  []string
	Supertypes []string
	Subtypes   []string
	ManaCost   string
	OracleText string

	BasePower     int
	HasBasePower  bool
	BaseToughness int
	HasBaseTough  bool
	BaseLoyalty   int
	HasBaseLoyalty bool

	Abilities []Ability
	Counters  Counters

	AttachedTo  ids.ObjectId // zero value means unattached
	Attachments []ids.ObjectId

	// Casting/resolution-time context, frozen at cast completion (spec
	// §3.2 "mana_spent_to_cast, optional_costs_paid").
	SpellEffect        string
	AuraAttachFilter   string
	AlternativeCasts   []string
	OptionalCosts      []string
	CostEffects        []string
	ManaSpentToCast    map[string]int
	OptionalCostsPaid  []string

	MaxSagaChapter int

	Tapped        bool
	SummonedTurn  int // turn number this object entered the battlefield, for summoning sickness
	DamageMarked  int
	DamageSources map[ids.ObjectId]int

	// DeathtouchMarked records whether any of the damage currently marked
	// on this object was dealt by a source with deathtouch, making any
	// nonzero amount lethal regardless of toughness (rule 702.2c). Cleared
	// whenever DamageMarked is cleared.
	DeathtouchMarked bool

	// RegenerationShields is a count slot for "regenerate this creature"
	// shields (spec §3.7, §8.4 scenario 2). Nothing in this engine updates
	// it: the shields Regenerate installs exist only as replacement effects
	// in the event registry.
	RegenerationShields int

	// MarkedForRemoval is set on tokens/copies that have left the
	// battlefield; the next SBA pass removes them from the game entirely
	// (spec §3.2 "Lifecycle").
	MarkedForRemoval bool
}

// NewFromDefinition builds a fresh Object from a CardDefinition, as
// create_object_from_definition does (spec §6.1). The caller supplies the
// freshly minted ids and the destination zone.
func NewFromDefinition(d CardDefinition, objID ids.ObjectId, stableID ids.StableId, owner string, z zone.Zone) *Object {
	o := &Object{
		ID:             objID,
		StableID:       stableID,
		Kind:           KindCard,
		Zone:           z,
		Owner:          owner,
		Controller:     owner,
		Name:           d.Name,
		CardTypes:      append([]string(nil), d.CardTypes...),
		Supertypes:     append([]string(nil), d.Supertypes...),
		Subtypes:       append([]string(nil), d.Subtypes...),
		ManaCost:       d.ManaCost,
		OracleText:     d.OracleText,
		BasePower:      d.BasePower,
		HasBasePower:   d.HasPower,
		BaseToughness:  d.BaseToughness,
		HasBaseTough:   d.HasToughness,
		BaseLoyalty:    d.BaseLoyalty,
		HasBaseLoyalty: d.HasLoyalty,
		Abilities:      append([]Ability(nil), d.Abilities...),
		Counters:       make(Counters),
		AlternativeCasts: append([]string(nil), d.AlternativeCasts...),
		OptionalCosts:    append([]string(nil), d.OptionalCosts...),
		AuraAttachFilter: d.AuraAttachFilter,
		MaxSagaChapter:   d.MaxSagaChapter,
		ManaSpentToCast:  make(map[string]int),
		DamageSources:    make(map[ids.ObjectId]int),
	}
	return o
}

// Clone returns a deep, independent copy sufficient for snapshot/restore
// (spec §5 "all state types must be cheaply cloneable").
func (o *Object) Clone() *Object {
	cp := *o
	cp.CardTypes = append([]string(nil), o.CardTypes...)
	cp.Supertypes = append([]string(nil), o.Supertypes...)
	cp.Subtypes = append([]string(nil), o.Subtypes...)
	cp.Abilities = append([]Ability(nil), o.Abilities...)
	cp.Counters = o.Counters.Clone()
	cp.Attachments = append([]ids.ObjectId(nil), o.Attachments...)
	cp.AlternativeCasts = append([]string(nil), o.AlternativeCasts...)
	cp.OptionalCosts = append([]string(nil), o.OptionalCosts...)
	cp.CostEffects = append([]string(nil), o.CostEffects...)
	cp.OptionalCostsPaid = append([]string(nil), o.OptionalCostsPaid...)
	cp.ManaSpentToCast = make(map[string]int, len(o.ManaSpentToCast))
	for k, v := range o.ManaSpentToCast {
		cp.ManaSpentToCast[k] = v
	}
	cp.DamageSources = make(map[ids.ObjectId]int, len(o.DamageSources))
	for k, v := range o.DamageSources {
		cp.DamageSources[k] = v
	}
	return &cp
}

// HasCardType reports whether t (case-insensitively) is one of the
// object's current card types.
func (o *Object) HasCardType(t string) bool {
	return containsFold(o.CardTypes, t)
}

// HasSubtype reports whether t (case-insensitively) is one of the
// object's current subtypes.
func (o *Object) HasSubtype(t string) bool {
	return containsFold(o.Subtypes, t)
}

// HasSupertype reports whether t (case-insensitively) is one of the
// object's current supertypes.
func (o *Object) HasSupertype(t string) bool {
	return containsFold(o.Supertypes, t)
}

// HasKeyword reports whether the object's printed ability list carries the
// given keyword. Continuous-effect-granted keywords are not visible here —
// callers that need the "current" keyword set must go through
// internal/continuous's calculated_static_abilities query instead.
func (o *Object) HasKeyword(k KeywordAbility) bool {
	for _, a := range o.Abilities {
		if a.Kind == AbilityStatic && a.Keyword == k {
			return true
		}
	}
	return false
}

// IsAttached reports whether this object is attached to another.
func (o *Object) IsAttached() bool {
	return o.AttachedTo != ""
}

// Attach links this object to target, maintaining the bidirectional
// invariant on the target's side (spec §3.2, §9 "Cyclic & mutable graphs").
// The caller is responsible for detaching any prior attachment first.
func (o *Object) Attach(target *Object) {
	o.AttachedTo = target.ID
	target.Attachments = appendUnique(target.Attachments, o.ID)
}

// Detach removes this object's attachment, maintaining the invariant on the
// former target's side.
func (o *Object) Detach(former *Object) {
	o.AttachedTo = ""
	if former == nil {
		return
	}
	out := former.Attachments[:0]
	for _, id := range former.Attachments {
		if id != o.ID {
			out = append(out, id)
		}
	}
	former.Attachments = out
}

func appendUnique(list []ids.ObjectId, id ids.ObjectId) []ids.ObjectId {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}
