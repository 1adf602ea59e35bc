package game

import (
	"fmt"

	"github.com/peterkuimelis/scarab/internal/counter"
	apperrors "github.com/peterkuimelis/scarab/internal/errors"
	"github.com/peterkuimelis/scarab/internal/log"
)

// Effect is one declarative state transition. The set of effects is closed:
// only the variants in this file implement it.
type Effect interface {
	effectKind() effectKind
}

type effectKind int

const (
	kindUpdateResource effectKind = iota
	kindAddCards
	kindCollectCard
	kindDestroyCard
	kindRemoveCard
	kindDrawCards
	kindCardChoice
	kindBuyCard

	numEffectKinds
)

// Adding an effect kind breaks this line until HandleEffect, effectName and
// the processor have been taught about it.
var _ = [1]struct{}{}[numEffectKinds-8]

func (k effectKind) String() string {
	switch k {
	case kindUpdateResource:
		return "update-resource"
	case kindAddCards:
		return "add-cards"
	case kindCollectCard:
		return "collect-card"
	case kindDestroyCard:
		return "destroy-card"
	case kindRemoveCard:
		return "remove-card"
	case kindDrawCards:
		return "draw-cards"
	case kindCardChoice:
		return "card-choice"
	case kindBuyCard:
		return "buy-card"
	default:
		return fmt.Sprintf("effect(%d)", int(k))
	}
}

// EffectName returns the kebab-case name of an effect's kind.
func EffectName(e Effect) string {
	if e == nil {
		return "nil"
	}
	return e.effectKind().String()
}

// --- Effect variants ---

type ResourceOp int

const (
	OpDelta   ResourceOp = iota // add Amount
	OpSet                       // replace with Amount
	OpCompute                   // replace with Update(current, run)
)

// UpdateResource changes one run resource.
type UpdateResource struct {
	Resource Resource
	Op       ResourceOp
	Amount   int
	Update   func(current int, run Run) int
}

func (UpdateResource) effectKind() effectKind { return kindUpdateResource }

func GainPoints(n int) UpdateResource {
	return UpdateResource{Resource: ResourcePoints, Op: OpDelta, Amount: n}
}

func SetPoints(n int) UpdateResource {
	return UpdateResource{Resource: ResourcePoints, Op: OpSet, Amount: n}
}

func ComputePoints(fn func(current int, run Run) int) UpdateResource {
	return UpdateResource{Resource: ResourcePoints, Op: OpCompute, Update: fn}
}

type Placement int

const (
	PlaceBottom  Placement = iota // append after the existing cards
	PlaceTop                      // insert before the existing cards
	PlaceShuffle                  // shuffle into the existing cards
)

// AddCards creates fresh instances of Cards in Zone.
type AddCards struct {
	Zone      Zone
	Cards     counter.Counter[CardID]
	Placement Placement
}

func (AddCards) effectKind() effectKind { return kindAddCards }

// CollectCard adds cards to the persistent collection.
type CollectCard struct {
	Cards counter.Counter[CardID]
}

func (CollectCard) effectKind() effectKind { return kindCollectCard }

// DestroyCard removes cards from the persistent collection.
type DestroyCard struct {
	Cards counter.Counter[CardID]
}

func (DestroyCard) effectKind() effectKind { return kindDestroyCard }

// SelfInstance stands in for the acting card's instance id in RemoveCard.
const SelfInstance = "self"

// RemoveCard deletes an instance from whichever zone holds it.
type RemoveCard struct {
	InstanceID string
}

func (RemoveCard) effectKind() effectKind { return kindRemoveCard }

// DrawCards moves cards from the front of the draw pile into the hand.
type DrawCards struct {
	Amount int
}

func (DrawCards) effectKind() effectKind { return kindDrawCards }

// CardChoice asks the player to pick one of Options catalog cards tagged
// with Tags, then runs the effect Then builds from the pick.
type CardChoice struct {
	Options int
	Tags    []string
	Then    func(chosen CardID) Effect
}

func (CardChoice) effectKind() effectKind { return kindCardChoice }

// BuyCard is a shop interaction the engine cannot run on its own.
type BuyCard struct {
	Tags []string
}

func (BuyCard) effectKind() effectKind { return kindBuyCard }

// --- Interpreter ---

// HandleEffect applies a single effect and reports the events it caused.
// The input state is never modified. Interactive effects are rejected here;
// card choices are the ability processor's business.
func HandleEffect(gs GameState, effect Effect) (GameState, []log.Event, error) {
	switch e := effect.(type) {
	case UpdateResource:
		return updateResource(gs, e)
	case AddCards:
		return addCards(gs, e)
	case CollectCard:
		return collectCards(gs, e)
	case DestroyCard:
		return destroyCards(gs, e)
	case RemoveCard:
		return removeCard(gs, e)
	case DrawCards:
		return drawCards(gs, e)
	case CardChoice, BuyCard:
		return gs, nil, apperrors.WithMetadata(apperrors.CodeInteractiveEffect,
			fmt.Sprintf("%s effect requires player interaction", EffectName(e)),
			map[string]string{"effect": EffectName(e)})
	default:
		return gs, nil, apperrors.WithMetadata(apperrors.CodeUnknownEffect,
			fmt.Sprintf("Unknown effect type: %s", EffectName(effect)),
			map[string]string{"effect": EffectName(effect)})
	}
}

func updateResource(gs GameState, e UpdateResource) (GameState, []log.Event, error) {
	run, err := gs.activeRun()
	if err != nil {
		return gs, nil, err
	}
	old := run.Resource(e.Resource)
	var next int
	switch e.Op {
	case OpDelta:
		next = old + e.Amount
	case OpSet:
		next = e.Amount
	case OpCompute:
		if e.Update == nil {
			return gs, nil, apperrors.New(apperrors.CodeUnknownEffect, "update-resource without update function")
		}
		next = e.Update(old, run)
	default:
		return gs, nil, apperrors.New(apperrors.CodeUnknownEffect, fmt.Sprintf("update-resource with unknown op %d", e.Op))
	}
	run = run.withResource(e.Resource, next)
	ev := log.NewResourceChangeEvent(run.Stats.Rounds, run.Stats.Turns, string(e.Resource), old, next)
	return gs.withRun(run), []log.Event{ev}, nil
}

func addCards(gs GameState, e AddCards) (GameState, []log.Event, error) {
	if _, err := gs.activeRun(); err != nil {
		return gs, nil, err
	}
	ids, gs := shuffled(gs, counter.ToSlice(e.Cards))
	added, gs, err := newInstances(gs, ids)
	if err != nil {
		return gs, nil, err
	}
	run := *gs.Run
	existing := run.Cards.Get(e.Zone)
	var cards []CardInstance
	switch e.Placement {
	case PlaceTop:
		cards = append(added, existing...)
	case PlaceShuffle:
		cards, gs = shuffled(gs, append(added, existing...))
	default:
		cards = append(existing[:len(existing):len(existing)], added...)
	}
	run.Cards = run.Cards.With(e.Zone, cards)

	events := make([]log.Event, 0, len(added))
	for _, c := range added {
		events = append(events, log.NewCardAddEvent(run.Stats.Rounds, run.Stats.Turns, string(c.ID()), c.InstanceID, e.Zone.String()))
	}
	return gs.withRun(run), events, nil
}

func collectCards(gs GameState, e CollectCard) (GameState, []log.Event, error) {
	gs.Collection.Cards = counter.Merge(gs.Collection.Cards, e.Cards)
	return gs, collectionEvents(gs, e.Cards, log.NewCardCollectEvent), nil
}

func destroyCards(gs GameState, e DestroyCard) (GameState, []log.Event, error) {
	gs.Collection.Cards = counter.Subtract(gs.Collection.Cards, e.Cards)
	return gs, collectionEvents(gs, e.Cards, log.NewCardDestroyEvent), nil
}

// collectionEvents records collection changes against the active run, if any.
func collectionEvents(gs GameState, cards counter.Counter[CardID], mk func(round, turn int, cardID string, count int) log.Event) []log.Event {
	if gs.Run == nil {
		return nil
	}
	var events []log.Event
	for _, id := range counter.Keys(cards) {
		events = append(events, mk(gs.Run.Stats.Rounds, gs.Run.Stats.Turns, string(id), cards[id]))
	}
	return events
}

func removeCard(gs GameState, e RemoveCard) (GameState, []log.Event, error) {
	run, err := gs.activeRun()
	if err != nil {
		return gs, nil, err
	}
	_, zone, ok := run.Cards.findIn(removeSearchOrder, e.InstanceID)
	if !ok {
		return gs, nil, nil
	}
	cards, removed, _ := run.Cards.remove(zone, e.InstanceID)
	run.Cards = cards
	ev := log.NewCardRemoveEvent(run.Stats.Rounds, run.Stats.Turns, string(removed.ID()), removed.InstanceID, zone.String())
	return gs.withRun(run), []log.Event{ev}, nil
}

func drawCards(gs GameState, e DrawCards) (GameState, []log.Event, error) {
	run, err := gs.activeRun()
	if err != nil {
		return gs, nil, err
	}
	n := min(max(e.Amount, 0), len(run.Cards.DrawPile))
	drawn := run.Cards.DrawPile[:n]
	run.Cards = run.Cards.
		With(ZoneDrawPile, run.Cards.DrawPile[n:]).
		push(ZoneHand, drawn...)

	events := make([]log.Event, 0, n)
	for _, c := range drawn {
		events = append(events, log.NewCardDrawEvent(run.Stats.Rounds, run.Stats.Turns, string(c.ID()), c.InstanceID))
	}
	return gs.withRun(run), events, nil
}
