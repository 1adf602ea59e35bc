package game

import (
	"fmt"
	"slices"

	apperrors "github.com/peterkuimelis/scarab/internal/errors"
	"github.com/peterkuimelis/scarab/internal/log"
)

// maxQueueSteps bounds a single resolution so that abilities feeding each
// other's events cannot spin forever.
const maxQueueSteps = 1000

// FindMatchingAbilities returns a queue item for every ability that reacts to
// ev. Zones are scanned board first, then hand, stack, discard and draw pile;
// cards in zone order; abilities in declaration order. The result order is
// the resolution order.
func FindMatchingAbilities(ev log.Event, run Run) []QueueItem {
	var queue []QueueItem
	for _, zone := range abilityScanOrder {
		for _, card := range run.Cards.Get(zone) {
			for i, ability := range card.Card.Abilities {
				// An activation names exactly one ability of its own card.
				if ev.Type == log.EventCardActivate && ev.InstanceID == card.InstanceID && ev.AbilityIndex != i {
					continue
				}
				if MatchesTrigger(ev, card, zone, ability.Trigger, run) {
					queue = append(queue, QueueItem{Card: card, AbilityIndex: i, Event: ev})
				}
			}
		}
	}
	return queue
}

// HandleEvent records ev in the run and resolves every ability it triggers.
// Matching sees the run as it was before ev was recorded, so activation
// limits only count earlier uses. If an ability stops on a card choice the
// returned state carries the continuation in View.Pending.
func HandleEvent(gs GameState, ev log.Event) (GameState, error) {
	run, err := gs.activeRun()
	if err != nil {
		return gs, err
	}
	if gs.AwaitingChoice() {
		return gs, apperrors.ErrAwaitingChoice
	}
	queue := FindMatchingAbilities(ev, run)
	next, err := runQueue(gs.withRun(run.record(ev)), queue)
	if err != nil {
		return gs, err
	}
	return next, nil
}

// ResolveChoice resumes a suspended queue with the player's pick. The pick
// must be one of the offered options. The choice's follow-up effect runs in
// the context of the card that asked, then the rest of the queue drains and
// any interrupted turn or round steps continue, possibly suspending again.
func ResolveChoice(gs GameState, chosen CardID) (GameState, error) {
	pending := gs.View.Pending
	if pending == nil {
		return gs, apperrors.ErrNoPendingChoice
	}
	if !slices.Contains(gs.View.CardOptions, chosen) {
		return gs, apperrors.WithMetadata(apperrors.CodeInvalidChoice,
			fmt.Sprintf("card %s was not offered", chosen), map[string]string{"card_id": string(chosen)})
	}
	choice, ok := pending.choiceEffect()
	if !ok {
		return gs, apperrors.New(apperrors.CodeUnknownEffect, "pending continuation does not point at a card-choice effect")
	}

	next := gs
	next.View = ViewData{}
	var queue []QueueItem
	if choice.Then != nil {
		var err error
		next, queue, err = applyEffect(next, pending.Choice.Card, choice.Then(chosen))
		if err != nil {
			return gs, err
		}
	}
	next, err := runQueue(next, slices.Concat(pending.Queue, queue))
	if err != nil {
		return gs, err
	}
	if next, err = runSteps(next, pending.Steps); err != nil {
		return gs, err
	}
	return next, nil
}

// runQueue executes items in order. Events emitted by effects are matched
// as they happen and their abilities join the end of the queue.
func runQueue(gs GameState, queue []QueueItem) (GameState, error) {
	steps := 0
	for qi := 0; qi < len(queue); qi++ {
		item := queue[qi]
		ability := item.Ability()

		if item.EffectIndex == 0 && item.Event.Type == log.EventCardActivate && len(ability.Trigger.Costs) > 0 {
			var err error
			gs, err = payCosts(gs, ability.Trigger.Costs)
			if err != nil {
				return gs, err
			}
		}

		for ei := item.EffectIndex; ei < len(ability.Effects); ei++ {
			if steps++; steps > maxQueueSteps {
				return gs, apperrors.New(apperrors.CodeUnknown, "ability resolution did not settle")
			}
			effect := ability.Effects[ei]
			if choice, ok := effect.(CardChoice); ok {
				at := item
				at.EffectIndex = ei
				after := item
				after.EffectIndex = ei + 1
				rest := slices.Concat([]QueueItem{after}, queue[qi+1:])
				var suspended bool
				gs, suspended = suspend(gs, at, rest, choice)
				if suspended {
					return gs, nil
				}
				continue
			}
			var triggered []QueueItem
			var err error
			gs, triggered, err = applyEffect(gs, item.Card, effect)
			if err != nil {
				return gs, err
			}
			queue = append(queue, triggered...)
		}
	}
	return settleStack(gs), nil
}

// suspend opens a card-choice modal holding the continuation. When the
// catalog has nothing to offer there is nothing to wait for and the choice
// is skipped.
func suspend(gs GameState, at QueueItem, rest []QueueItem, choice CardChoice) (GameState, bool) {
	options, gs := GetCardChoices(gs, choice.Options, choice.Tags)
	if len(options) == 0 {
		return gs, false
	}
	gs.View = ViewData{
		ModalView:   ModalCardChoice,
		CardOptions: options,
		Pending: &Continuation{
			Event:  at.Event,
			Choice: at,
			Queue:  rest,
		},
	}
	return gs, true
}

// applyEffect runs one effect for source, records the events it caused and
// returns the abilities those events trigger.
func applyEffect(gs GameState, source CardInstance, effect Effect) (GameState, []QueueItem, error) {
	next, events, err := HandleEffect(gs, resolveSelf(effect, source))
	if err != nil {
		return gs, nil, err
	}
	if next.Run == nil || len(events) == 0 {
		return next, nil, nil
	}
	run := next.Run.record(events...)
	var triggered []QueueItem
	for _, ev := range run.Events[len(run.Events)-len(events):] {
		triggered = append(triggered, FindMatchingAbilities(ev, run)...)
	}
	return next.withRun(run), triggered, nil
}

// resolveSelf substitutes the acting instance for the "self" token.
func resolveSelf(effect Effect, source CardInstance) Effect {
	if rc, ok := effect.(RemoveCard); ok && rc.InstanceID == SelfInstance {
		rc.InstanceID = source.InstanceID
		return rc
	}
	return effect
}

func payCosts(gs GameState, costs map[Resource]int) (GameState, error) {
	run, err := gs.activeRun()
	if err != nil {
		return gs, err
	}
	var events []log.Event
	for _, res := range sortedResources(costs) {
		old := run.Resource(res)
		run = run.withResource(res, old-costs[res])
		events = append(events, log.NewResourceChangeEvent(run.Stats.Rounds, run.Stats.Turns, string(res), old, old-costs[res]))
	}
	return gs.withRun(run.record(events...)), nil
}

func sortedResources(m map[Resource]int) []Resource {
	keys := make([]Resource, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// settleStack moves every fully resolved card off the stack: assets to the
// board, everything else to the discard pile.
func settleStack(gs GameState) GameState {
	if gs.Run == nil || len(gs.Run.Cards.Stack) == 0 || gs.AwaitingChoice() {
		return gs
	}
	run := *gs.Run
	var events []log.Event
	for _, card := range run.Cards.Stack {
		to := ZoneDiscardPile
		if IsAsset(card.Card) {
			to = ZoneBoard
		}
		run.Cards, _, _ = run.Cards.move(ZoneStack, to, card.InstanceID)
		events = append(events, log.NewCardMoveEvent(run.Stats.Rounds, run.Stats.Turns,
			string(card.ID()), card.InstanceID, ZoneStack.String(), to.String()))
	}
	return gs.withRun(run.record(events...))
}
