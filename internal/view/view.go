package view

import (
	"maps"
	"slices"

	"github.com/peterkuimelis/scarab/internal/counter"
	"github.com/peterkuimelis/scarab/internal/game"
	"github.com/peterkuimelis/scarab/internal/log"
)

// StateView is the game state as presented to a player interface.
type StateView struct {
	Run        *RunView       `json:"run,omitempty"`
	Modal      string         `json:"modal"`
	Options    []CardView     `json:"options,omitempty"`
	Collection map[string]int `json:"collection"`
	Decks      []DeckView     `json:"decks"`
}

// RunView shows one run.
type RunView struct {
	Deck          string         `json:"deck"`
	Rules         string         `json:"rules"`
	Round         int            `json:"round"`
	Turn          int            `json:"turn"`
	Rounds        int            `json:"rounds"`
	Points        int            `json:"points"`
	Resources     map[string]int `json:"resources"`
	DrawPileCount int            `json:"draw_pile_count"`
	Hand          []CardView     `json:"hand"`
	Board         []CardView     `json:"board"`
	Stack         []CardView     `json:"stack,omitempty"`
	DiscardPile   []CardView     `json:"discard_pile"`
	PlaysLeft     int            `json:"plays_left"` // -1 when unlimited
	Over          bool           `json:"over"`
}

// CardView describes a card, or an instance of one when InstanceID is set.
type CardView struct {
	InstanceID  string   `json:"instance_id,omitempty"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Tags        []string `json:"tags,omitempty"`
	Cost        int      `json:"cost"`
	Art         string   `json:"art,omitempty"`
	Asset       bool     `json:"asset,omitempty"`
	Activatable []int    `json:"activatable,omitempty"` // ability indices usable now
}

// DeckView summarises a saved deck.
type DeckView struct {
	Key      string         `json:"key"`
	Name     string         `json:"name"`
	Rules    string         `json:"rules"`
	Cards    map[string]int `json:"cards"`
	Size     int            `json:"size"`
	Editable bool           `json:"editable"`
	Valid    bool           `json:"valid"`
	Problems string         `json:"problems,omitempty"`
}

// EventView is a run event for display.
type EventView struct {
	Seq     int    `json:"seq"`
	Round   int    `json:"round"`
	Turn    int    `json:"turn"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// BuildStateView renders gs.
func BuildStateView(gs game.GameState) *StateView {
	sv := &StateView{
		Modal:      string(gs.View.ModalView),
		Collection: counterView(gs.Collection.Cards),
		Decks:      BuildDeckViews(gs.Collection),
	}
	for _, id := range gs.View.CardOptions {
		if card, ok := game.FindCard(id); ok {
			sv.Options = append(sv.Options, BuildCardView(card))
		}
	}
	if gs.Run != nil {
		sv.Run = buildRunView(gs)
	}
	return sv
}

func buildRunView(gs game.GameState) *RunView {
	run := *gs.Run
	rv := &RunView{
		Deck:          run.Deck.Name,
		Rules:         string(run.Deck.RulesCard),
		Round:         run.Stats.Rounds,
		Turn:          run.Stats.Turns,
		Points:        run.Points(),
		Resources:     make(map[string]int, len(run.Resources)),
		DrawPileCount: len(run.Cards.DrawPile),
		Hand:          instanceViews(run.Cards.Hand, nil),
		Board:         instanceViews(run.Cards.Board, &run),
		Stack:         instanceViews(run.Cards.Stack, nil),
		DiscardPile:   instanceViews(run.Cards.DiscardPile, nil),
		PlaysLeft:     -1,
		Over:          run.Over,
	}
	for res, n := range run.Resources {
		rv.Resources[string(res)] = n
	}
	if rules, err := run.RulesCard(); err == nil {
		rv.Rounds = rules.EndConditions.Rounds
		if limit := rules.TurnStructure.PlayAmount; !limit.All {
			rv.PlaysLeft = max(limit.Count-len(run.EventsThisTurn(log.EventCardPlay)), 0)
		}
	}
	return rv
}

// instanceViews renders cards in a zone. With a run, board abilities that
// could be activated right now are listed.
func instanceViews(cards []game.CardInstance, run *game.Run) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, ci := range cards {
		cv := BuildCardView(ci.Card)
		cv.InstanceID = ci.InstanceID
		if run != nil && !run.Over {
			for i, a := range ci.Card.Abilities {
				if a.Trigger.On == log.EventCardActivate && game.CanActivate(a.Trigger, ci, *run) {
					cv.Activatable = append(cv.Activatable, i)
				}
			}
		}
		out = append(out, cv)
	}
	return out
}

// BuildCardView renders a catalog card.
func BuildCardView(card *game.Card) CardView {
	return CardView{
		ID:          string(card.ID),
		Name:        card.Name,
		Description: card.Description,
		Type:        card.Type.String(),
		Tags:        slices.Clone(card.Tags),
		Cost:        card.Cost,
		Art:         card.Art,
		Asset:       game.IsAsset(card),
	}
}

// BuildCatalogView renders every catalog card in id order.
func BuildCatalogView() []CardView {
	ids := game.CatalogIDs()
	out := make([]CardView, 0, len(ids))
	for _, id := range ids {
		out = append(out, BuildCardView(game.Catalog[id]))
	}
	return out
}

// BuildDeckViews renders the saved decks ordered by key.
func BuildDeckViews(c game.Collection) []DeckView {
	keys := slices.Sorted(maps.Keys(c.Decks))
	out := make([]DeckView, 0, len(keys))
	for _, key := range keys {
		deck := c.Decks[key]
		validity := game.CheckDeckValidity(deck, c)
		dv := DeckView{
			Key:      key,
			Name:     deck.Name,
			Rules:    string(deck.RulesCard),
			Cards:    counterView(deck.Cards),
			Size:     counter.Total(deck.Cards),
			Editable: deck.Editable,
			Valid:    validity.Valid(),
		}
		if !dv.Valid {
			dv.Problems = validity.String()
		}
		out = append(out, dv)
	}
	return out
}

// BuildEventViews renders events in order. It never returns nil so the
// JSON form is always an array.
func BuildEventViews(events []log.Event) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, EventView{
			Seq:     e.Seq,
			Round:   e.Round,
			Turn:    e.Turn,
			Type:    e.Type.String(),
			Card:    e.CardID,
			Details: e.Details,
		})
	}
	return out
}

func counterView(c counter.Counter[game.CardID]) map[string]int {
	out := make(map[string]int, len(c))
	for id, n := range c {
		if n > 0 {
			out[string(id)] = n
		}
	}
	return out
}
