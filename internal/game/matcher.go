package game

import (
	"slices"

	"github.com/peterkuimelis/scarab/internal/log"
)

// MatchesCard reports whether card satisfies every field set on m.
func MatchesCard(card *Card, m CardMatcher) bool {
	if card == nil {
		return false
	}
	if len(m.CardIDs) > 0 && !slices.Contains(m.CardIDs, card.ID) {
		return false
	}
	if m.Cost != nil && !m.Cost.matches(card.Cost) {
		return false
	}
	for _, tag := range m.Tags {
		if !card.HasTag(tag) {
			return false
		}
	}
	if len(m.AnyTag) > 0 && !slices.ContainsFunc(m.AnyTag, card.HasTag) {
		return false
	}
	return true
}

func (c CostMatch) matches(cost int) bool {
	if c.Exact != nil {
		return cost == *c.Exact
	}
	if c.Min != nil && cost < *c.Min {
		return false
	}
	if c.Max != nil && cost > *c.Max {
		return false
	}
	return true
}

// MatchesTrigger decides whether an ability on source, sitting in zone,
// fires for ev. Checks run in a fixed order and all must pass.
func MatchesTrigger(ev log.Event, source CardInstance, zone Zone, t Trigger, run Run) bool {
	if ev.Type != t.On {
		return false
	}
	if len(t.Locations) > 0 && !slices.Contains(t.Locations, zone) {
		return false
	}
	if ev.Type == log.EventCardActivate && !CanActivate(t, source, run) {
		return false
	}
	if t.Target != nil && ev.HasInstance() && !matchesTarget(ev, source, t.Target, run) {
		return false
	}
	if t.When != nil {
		ctx := TriggerContext{Event: ev, SourceCard: source, Run: run}
		if ev.HasInstance() {
			if target, _, ok := run.Cards.Find(ev.InstanceID); ok {
				ctx.TargetCard = &target
			}
		}
		if !t.When(ctx) {
			return false
		}
	}
	return true
}

func matchesTarget(ev log.Event, source CardInstance, spec TargetSpec, run Run) bool {
	switch s := spec.(type) {
	case TargetKind:
		switch s {
		case TargetSelf:
			return ev.InstanceID == source.InstanceID
		case TargetOther:
			return ev.InstanceID != source.InstanceID
		case TargetAny:
			return true
		}
		return false
	case CardMatcher:
		target, _, ok := run.Cards.Find(ev.InstanceID)
		if !ok {
			return false
		}
		return MatchesCard(target.Card, s)
	default:
		return false
	}
}

// Activations counts card-activate events for one instance.
type Activations struct {
	Turn  int
	Round int
	Run   int
}

// CountActivations derives usage from the event log, so counts reset on
// their own when the turn or round counters move.
func CountActivations(card CardInstance, run Run) Activations {
	var a Activations
	for _, e := range run.Events {
		if e.Type != log.EventCardActivate || e.InstanceID != card.InstanceID {
			continue
		}
		a.Run++
		if e.Round == run.Stats.Rounds {
			a.Round++
			if e.Turn == run.Stats.Turns {
				a.Turn++
			}
		}
	}
	return a
}

// CanActivate checks a trigger's resource costs and usage limits.
func CanActivate(t Trigger, card CardInstance, run Run) bool {
	for res, cost := range t.Costs {
		if run.Resource(res) < cost {
			return false
		}
	}
	if t.Limit == (Limit{}) {
		return true
	}
	used := CountActivations(card, run)
	if t.Limit.PerTurn > 0 && used.Turn >= t.Limit.PerTurn {
		return false
	}
	if t.Limit.PerRound > 0 && used.Round >= t.Limit.PerRound {
		return false
	}
	if t.Limit.PerRun > 0 && used.Run >= t.Limit.PerRun {
		return false
	}
	return true
}

// IsAsset reports whether a card stays on the board after resolving: true
// iff some ability only works from the board.
func IsAsset(card *Card) bool {
	if card == nil {
		return false
	}
	for _, a := range card.Abilities {
		if slices.Contains(a.Trigger.Locations, ZoneBoard) {
			return true
		}
	}
	return false
}
