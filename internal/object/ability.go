package object

// AbilityKind classifies an ability record (spec §3.2 "abilities").
type AbilityKind string

const (
	AbilityStatic     AbilityKind = "STATIC"
	AbilityTriggered  AbilityKind = "TRIGGERED"
	AbilityActivated  AbilityKind = "ACTIVATED"
	AbilityMana       AbilityKind = "MANA"
)

// KeywordAbility is a well-known rules keyword. Kept as a closed set of
// string constants the way the teacher's mage_engine.go keeps
// abilityFirstStrike/abilityFlying/... constants, generalized to cover every
// evasion/restriction keyword combat and targeting need to check.
type KeywordAbility string

const (
	KeywordFlying        KeywordAbility = "FLYING"
	KeywordReach         KeywordAbility = "REACH"
	KeywordMenace        KeywordAbility = "MENACE"
	KeywordShadow        KeywordAbility = "SHADOW"
	KeywordHorsemanship  KeywordAbility = "HORSEMANSHIP"
	KeywordTrample       KeywordAbility = "TRAMPLE"
	KeywordFirstStrike   KeywordAbility = "FIRST_STRIKE"
	KeywordDoubleStrike  KeywordAbility = "DOUBLE_STRIKE"
	KeywordDeathtouch    KeywordAbility = "DEATHTOUCH"
	KeywordLifelink      KeywordAbility = "LIFELINK"
	KeywordVigilance     KeywordAbility = "VIGILANCE"
	KeywordHaste         KeywordAbility = "HASTE"
	KeywordDefender      KeywordAbility = "DEFENDER"
	KeywordProtection    KeywordAbility = "PROTECTION"
	KeywordIndestructible KeywordAbility = "INDESTRUCTIBLE"
	KeywordHexproof      KeywordAbility = "HEXPROOF"
	KeywordCantBlock     KeywordAbility = "CANT_BLOCK"

	// The following are not rules keywords proper but are granted and
	// queried through the same calculated-abilities mechanism, the way the
	// teacher's own CANT_BLOCK constant already does, for the "can't/must"
	// family spec §4.4 groups under composition.
	KeywordCantAttack              KeywordAbility = "CANT_ATTACK"
	KeywordCantBeBlocked           KeywordAbility = "CANT_BE_BLOCKED"
	KeywordCantCastSpells          KeywordAbility = "CANT_CAST_SPELLS"
	KeywordCantActivateAbilities   KeywordAbility = "CANT_ACTIVATE_ABILITIES"
	KeywordMustAttack              KeywordAbility = "MUST_ATTACK"
)

// Ability is one entry of an object's ordered ability list.
type Ability struct {
	ID   string
	Kind AbilityKind

	// Keyword is set when this ability is a bare rules keyword
	// (flying, trample, ...); zero value for non-keyword abilities.
	Keyword KeywordAbility

	// Text is the oracle-text rendering, carried through unparsed — the
	// card-text parser is an external collaborator (spec §1) that produces
	// the CardDefinition this ability lives on.
	Text string

	// TriggerEventName/InterveningIf are populated for triggered abilities;
	// see internal/trigger for the matching machinery that reads them.
	TriggerEventName string
	InterveningIf    func(ExecutionView) bool

	// Cost, for activated/mana abilities, in the same {N}{W} notation as
	// printed mana costs; non-mana additional costs are described by
	// executors installed on CostEffects below.
	Cost string

	// CostEffects are additional (non-mana) costs run as cost-executors
	// (sacrifice, discard, exile-from-hand, pay life — spec §4.7 phase 6).
	CostEffects []string

	// ProtectionFrom is populated for a "protection from X" static ability.
	ProtectionFrom string
}

// ExecutionView is the minimal read-only view an intervening-if clause or a
// trigger condition needs of the game; the concrete type is supplied by
// package engine to avoid an import cycle (object must not import engine).
type ExecutionView interface {
	ObjectExists(id string) bool
}
