package executor

import (
	"github.com/corvid-games/cardengine/internal/continuous"
	"github.com/corvid-games/cardengine/internal/object"
)

// Restriction installs a static "can't"/"must" rule by granting the
// corresponding pseudo-keyword (spec §4.4's composition "can't ..."
// family, grounded on original_source's effects/restrictions.rs CantEffect
// enum). Restrictions are not a separate subsystem: they are ordinary
// Layer 6 ability grants, queried through continuous.Snapshot.HasKeyword
// like any other keyword, the same way the teacher already models
// CANT_BLOCK as a plain KeywordAbility rather than a side table.
type Restriction struct {
	Keyword object.KeywordAbility
	Until   continuous.Until
}

func NewRestriction(keyword object.KeywordAbility, until continuous.Until) *Restriction {
	return &Restriction{Keyword: keyword, Until: until}
}

func (e *Restriction) Execute(view View, ctx *Context) (Outcome, error) {
	for _, target := range ctx.Targets {
		matchID := target
		ability := object.Ability{Kind: object.AbilityStatic, Keyword: e.Keyword}
		grant := continuous.NewGrantAbility(string(ctx.SourceID)+":"+string(target)+":"+string(e.Keyword), func(o *object.Object) bool { return o.ID == matchID }, ability)
		view.Continuous().AddEffectUntil(grant, e.Until)
	}
	return Resolved(), nil
}
