package game

import (
	"fmt"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/scarab/internal/counter"
	"github.com/peterkuimelis/scarab/internal/log"
)

const testSeed = 42

// runOption tweaks the run built by newTestState.
type runOption func(*Run)

func withHand(cards ...CardInstance) runOption {
	return func(r *Run) { r.Cards.Hand = cards }
}

func withDrawPile(cards ...CardInstance) runOption {
	return func(r *Run) { r.Cards.DrawPile = cards }
}

func withBoard(cards ...CardInstance) runOption {
	return func(r *Run) { r.Cards.Board = cards }
}

func withDiscard(cards ...CardInstance) runOption {
	return func(r *Run) { r.Cards.DiscardPile = cards }
}

func withPoints(n int) runOption {
	return func(r *Run) { r.Resources = map[Resource]int{ResourcePoints: n} }
}

func withDeckCards(c counter.Counter[CardID]) runOption {
	return func(r *Run) { r.Deck.Cards = c }
}

func withRules(id CardID) runOption {
	return func(r *Run) { r.Deck.RulesCard = id }
}

func withStats(turns, rounds int) runOption {
	return func(r *Run) { r.Stats = Stats{Turns: turns, Rounds: rounds} }
}

func withEvents(events ...log.Event) runOption {
	return func(r *Run) { r.Events = events }
}

// newTestState builds a game with an active run in round 1, turn 1: the
// starter rules, a deck of one Score, zero points and empty zones.
func newTestState(t *testing.T, opts ...runOption) GameState {
	t.Helper()
	run := Run{
		Deck: Deck{
			Name:      "Test Deck",
			RulesCard: "starter-rules",
			Cards:     counter.Counter[CardID]{"score": 1},
		},
		Resources: map[Resource]int{ResourcePoints: 0},
		Stats:     Stats{Turns: 1, Rounds: 1},
	}
	for _, opt := range opts {
		opt(&run)
	}
	return GameState{
		Collection: Collection{Cards: counter.Counter[CardID]{}, Decks: map[string]Deck{}},
		Run:        &run,
		Entropy:    Entropy{Seed: testSeed},
	}
}

// inst makes an instance of a catalog card with a readable instance id.
func inst(id CardID, instanceID string) CardInstance {
	return CardInstance{Card: LookupCard(id), InstanceID: instanceID}
}

// custom makes an instance of a card that is not in the catalog.
func custom(card *Card, instanceID string) CardInstance {
	return CardInstance{Card: card, InstanceID: instanceID}
}

// recorderCard builds a card whose only ability rewrites points as
// points*10+digit, so the final value spells out resolution order.
func recorderCard(id CardID, digit int, trigger Trigger) *Card {
	return &Card{
		ID:   id,
		Name: string(id),
		Abilities: []Ability{{
			Trigger: trigger,
			Effects: []Effect{ComputePoints(func(current int, _ Run) int { return current*10 + digit })},
		}},
	}
}

// cloneState deep-copies everything HandleEffect could touch so a later
// comparison detects mutation of the original.
func cloneState(gs GameState) GameState {
	out := gs
	out.Collection.Cards = maps.Clone(gs.Collection.Cards)
	out.Collection.Decks = maps.Clone(gs.Collection.Decks)
	out.View.CardOptions = slices.Clone(gs.View.CardOptions)
	if gs.Run != nil {
		run := *gs.Run
		run.Resources = maps.Clone(run.Resources)
		run.Events = slices.Clone(run.Events)
		run.Deck.Cards = maps.Clone(run.Deck.Cards)
		for _, z := range AllZones {
			run.Cards = run.Cards.With(z, slices.Clone(run.Cards.Get(z)))
		}
		out.Run = &run
	}
	return out
}

func instanceIDs(cards []CardInstance) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.InstanceID
	}
	return ids
}

func cardIDs(cards []CardInstance) []CardID {
	ids := make([]CardID, len(cards))
	for i, c := range cards {
		ids[i] = c.ID()
	}
	return ids
}

// requireZoneExclusive fails if any instance id appears twice across zones.
func requireZoneExclusive(t *testing.T, run *Run) {
	t.Helper()
	seen := make(map[string]Zone)
	for _, z := range AllZones {
		for _, c := range run.Cards.Get(z) {
			prev, dup := seen[c.InstanceID]
			require.Falsef(t, dup, "instance %s in both %s and %s", c.InstanceID, prev, z)
			seen[c.InstanceID] = z
		}
	}
}

func eventTypes(events []log.Event) []log.EventType {
	types := make([]log.EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func dumpEvents(events []log.Event) string {
	return fmt.Sprint("\n", log.FormatAll(events))
}
