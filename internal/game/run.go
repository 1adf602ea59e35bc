package game

import (
	"fmt"

	"github.com/peterkuimelis/scarab/internal/counter"
	apperrors "github.com/peterkuimelis/scarab/internal/errors"
	"github.com/peterkuimelis/scarab/internal/log"
)

// StartRun begins a run with the saved deck under key. The draw pile is
// filled from the deck and shuffled, the rules card's game-start effects
// are applied and the opening hand is drawn.
func StartRun(gs GameState, key string) (GameState, error) {
	deck, ok := gs.Collection.Decks[key]
	if !ok {
		return gs, apperrors.WithMetadata(apperrors.CodeDeckNotFound,
			fmt.Sprintf("no deck named %q", key), map[string]string{"deck": key})
	}
	validity := CheckDeckValidity(deck, gs.Collection)
	if !validity.HasRulesCard {
		return gs, apperrors.ErrNoRulesCard
	}
	if !validity.Valid() {
		return gs, apperrors.WithMetadata(apperrors.CodeDeckInvalid,
			fmt.Sprintf("deck %q is not valid: %s", deck.Name, validity), map[string]string{"deck": key})
	}

	orig := gs
	gs.View = ViewData{}
	ids, gs := shuffled(gs, counter.ToSlice(deck.Cards))
	drawPile, gs, err := newInstances(gs, ids)
	if err != nil {
		return orig, err
	}
	run := Run{
		Deck:      deck,
		Cards:     Zones{DrawPile: drawPile},
		Resources: map[Resource]int{ResourcePoints: 0},
		Stats:     Stats{Turns: 1, Rounds: 1},
	}
	rules, err := run.RulesCard()
	if err != nil {
		return orig, err
	}
	gs = gs.withRun(run.record(log.NewRunStartEvent(deck.Name)))

	steps := make([]Step, 0, len(rules.GameStart)+3)
	for _, effect := range rules.GameStart {
		steps = append(steps, Step{Kind: StepApply, Effect: effect})
	}
	if gs, err = runSteps(gs, append(steps, openRoundSteps(rules)...)); err != nil {
		return orig, err
	}
	return gs, nil
}

// EndRun discards the active run and any pending choice.
func EndRun(gs GameState) GameState {
	gs.Run = nil
	gs.View = ViewData{}
	return gs
}

// Draw draws up to n cards one at a time, resolving each card's card-draw
// abilities before the next draw. If one of them opens a choice, the
// remaining draws wait on the continuation.
func Draw(gs GameState, n int) (GameState, error) {
	if _, err := playableRun(gs); err != nil {
		return gs, err
	}
	next, err := runSteps(gs, []Step{drawStep(n)})
	if err != nil {
		return gs, err
	}
	return next, nil
}

// PlayCard plays a card from the hand. The card waits on the stack while
// its abilities and every reaction to the play resolve, then settles on
// the board (assets) or in the discard pile.
func PlayCard(gs GameState, instanceID string) (GameState, error) {
	run, err := playableRun(gs)
	if err != nil {
		return gs, err
	}
	rules, err := run.RulesCard()
	if err != nil {
		return gs, err
	}
	if _, _, ok := run.Cards.findIn([]Zone{ZoneHand}, instanceID); !ok {
		return gs, apperrors.WithMetadata(apperrors.CodeCardNotFound,
			fmt.Sprintf("Cannot resolve card: no card with instanceId %s found in hand", instanceID),
			map[string]string{"instance_id": instanceID})
	}
	if limit := rules.TurnStructure.PlayAmount; !limit.All {
		if played := len(run.EventsThisTurn(log.EventCardPlay)); played >= limit.Count {
			return gs, apperrors.WithMetadata(apperrors.CodePlayLimitReached,
				fmt.Sprintf("already played %d of %d cards this turn", played, limit.Count),
				map[string]string{"limit": limit.String()})
		}
	}

	var card CardInstance
	run.Cards, card, _ = run.Cards.move(ZoneHand, ZoneStack, instanceID)
	round, turn := run.Stats.Rounds, run.Stats.Turns
	run = run.record(log.NewCardMoveEvent(round, turn, string(card.ID()), card.InstanceID, ZoneHand.String(), ZoneStack.String()))
	return HandleEvent(gs.withRun(run), log.NewCardPlayEvent(round, turn, string(card.ID()), card.InstanceID))
}

// ActivateCard uses an activated ability of a card on the board. Costs are
// paid when the ability resolves.
func ActivateCard(gs GameState, instanceID string, abilityIndex int) (GameState, error) {
	run, err := playableRun(gs)
	if err != nil {
		return gs, err
	}
	card, _, ok := run.Cards.findIn([]Zone{ZoneBoard}, instanceID)
	if !ok {
		return gs, apperrors.WithMetadata(apperrors.CodeCardNotFound,
			fmt.Sprintf("no card with instanceId %s on the board", instanceID),
			map[string]string{"instance_id": instanceID})
	}
	if abilityIndex < 0 || abilityIndex >= len(card.Card.Abilities) ||
		card.Card.Abilities[abilityIndex].Trigger.On != log.EventCardActivate {
		return gs, apperrors.WithMetadata(apperrors.CodeCannotActivate,
			fmt.Sprintf("%s has no activated ability %d", card.Card.Name, abilityIndex),
			map[string]string{"instance_id": instanceID})
	}
	if !CanActivate(card.Card.Abilities[abilityIndex].Trigger, card, run) {
		return gs, apperrors.WithMetadata(apperrors.CodeCannotActivate,
			fmt.Sprintf("%s cannot be activated now", card.Card.Name),
			map[string]string{"instance_id": instanceID})
	}
	ev := log.NewCardActivateEvent(run.Stats.Rounds, run.Stats.Turns, string(card.ID()), card.InstanceID, abilityIndex)
	return HandleEvent(gs, ev)
}

// NextTurn ends the current turn: the turn counter advances, the hand is
// discarded per the rules, and then either the next hand is drawn or, with
// an empty draw pile, the round ends. A choice opened along the way pauses
// the rest until it is resolved.
func NextTurn(gs GameState) (GameState, error) {
	run, err := playableRun(gs)
	if err != nil {
		return gs, err
	}
	rules, err := run.RulesCard()
	if err != nil {
		return gs, err
	}
	next, err := runSteps(gs, nextTurnSteps(rules))
	if err != nil {
		return gs, err
	}
	return next, nil
}

// StartNewRound closes the current round. Once the round counter reaches
// the rules card's round limit the run is over; otherwise every card is
// shuffled back into a fresh draw pile and the opening hand is drawn.
func StartNewRound(gs GameState) (GameState, error) {
	if _, err := playableRun(gs); err != nil {
		return gs, err
	}
	next, err := runSteps(gs, closeRoundSteps())
	if err != nil {
		return gs, err
	}
	return next, nil
}

// playableRun returns the active run if the player may act on it.
func playableRun(gs GameState) (Run, error) {
	run, err := gs.activeRun()
	if err != nil {
		return run, err
	}
	if run.Over {
		return run, apperrors.ErrRunOver
	}
	if gs.AwaitingChoice() {
		return run, apperrors.ErrAwaitingChoice
	}
	return run, nil
}
