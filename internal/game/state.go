package game

import (
	"encoding/binary"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"

	"github.com/peterkuimelis/scarab/internal/counter"
	apperrors "github.com/peterkuimelis/scarab/internal/errors"
	"github.com/peterkuimelis/scarab/internal/log"
)

// --- Zones ---

// Zones holds every card instance of a run. Slices are treated as
// immutable: helpers always return fresh slices.
type Zones struct {
	DrawPile    []CardInstance // front is the top of the pile
	Hand        []CardInstance
	Board       []CardInstance
	Stack       []CardInstance
	DiscardPile []CardInstance
}

// Get returns the cards in zone.
func (z Zones) Get(zone Zone) []CardInstance {
	switch zone {
	case ZoneDrawPile:
		return z.DrawPile
	case ZoneHand:
		return z.Hand
	case ZoneBoard:
		return z.Board
	case ZoneStack:
		return z.Stack
	case ZoneDiscardPile:
		return z.DiscardPile
	default:
		return nil
	}
}

// With returns a copy of z with zone replaced by cards.
func (z Zones) With(zone Zone, cards []CardInstance) Zones {
	switch zone {
	case ZoneDrawPile:
		z.DrawPile = cards
	case ZoneHand:
		z.Hand = cards
	case ZoneBoard:
		z.Board = cards
	case ZoneStack:
		z.Stack = cards
	case ZoneDiscardPile:
		z.DiscardPile = cards
	}
	return z
}

// Find looks up an instance across all zones in ability scan order.
func (z Zones) Find(instanceID string) (CardInstance, Zone, bool) {
	return z.findIn(abilityScanOrder, instanceID)
}

func (z Zones) findIn(order []Zone, instanceID string) (CardInstance, Zone, bool) {
	for _, zone := range order {
		for _, c := range z.Get(zone) {
			if c.InstanceID == instanceID {
				return c, zone, true
			}
		}
	}
	return CardInstance{}, ZoneNone, false
}

// Count returns the number of instances across all zones.
func (z Zones) Count() int {
	n := 0
	for _, zone := range AllZones {
		n += len(z.Get(zone))
	}
	return n
}

// remove returns z without instanceID in zone, and the removed card.
func (z Zones) remove(zone Zone, instanceID string) (Zones, CardInstance, bool) {
	cards := z.Get(zone)
	i := slices.IndexFunc(cards, func(c CardInstance) bool { return c.InstanceID == instanceID })
	if i < 0 {
		return z, CardInstance{}, false
	}
	return z.With(zone, slices.Concat(cards[:i], cards[i+1:])), cards[i], true
}

// push appends cards to the end of zone.
func (z Zones) push(zone Zone, cards ...CardInstance) Zones {
	return z.With(zone, slices.Concat(z.Get(zone), cards))
}

// move relocates an instance between zones, appending it to the destination.
func (z Zones) move(from, to Zone, instanceID string) (Zones, CardInstance, bool) {
	z, card, ok := z.remove(from, instanceID)
	if !ok {
		return z, card, false
	}
	return z.push(to, card), card, true
}

// --- Run ---

// Stats are the 1-based turn and round counters of a run.
type Stats struct {
	Turns  int
	Rounds int
}

// Run is one playthrough of a deck.
type Run struct {
	Deck      Deck
	Cards     Zones
	Resources map[Resource]int
	Stats     Stats
	Events    []log.Event
	Over      bool
}

// Resource returns the current amount of r, zero if never set.
func (r Run) Resource(res Resource) int {
	return r.Resources[res]
}

// Points is shorthand for the points resource.
func (r Run) Points() int {
	return r.Resource(ResourcePoints)
}

// RulesCard returns the rules of the run's deck. A run without a rules card
// is an integrity error.
func (r Run) RulesCard() (*Rules, error) {
	card, ok := FindCard(r.Deck.RulesCard)
	if !ok {
		return nil, apperrors.ErrNoRulesCard
	}
	rules, ok := card.RulesSpec()
	if !ok {
		return nil, apperrors.ErrNoRulesCard
	}
	return rules, nil
}

// withResource returns a copy of r with res set to amount.
func (r Run) withResource(res Resource, amount int) Run {
	resources := maps.Clone(r.Resources)
	if resources == nil {
		resources = make(map[Resource]int)
	}
	resources[res] = amount
	r.Resources = resources
	return r
}

// record appends events, numbering them by their position in the log.
func (r Run) record(events ...log.Event) Run {
	if len(events) == 0 {
		return r
	}
	out := slices.Clip(r.Events)
	for _, e := range events {
		e.Seq = len(out) + 1
		out = append(out, e)
	}
	r.Events = out
	return r
}

// EventsThisTurn returns events of type t from the current round and turn.
func (r Run) EventsThisTurn(t log.EventType) []log.Event {
	var out []log.Event
	for _, e := range r.Events {
		if e.Type == t && e.Round == r.Stats.Rounds && e.Turn == r.Stats.Turns {
			out = append(out, e)
		}
	}
	return out
}

// EventsThisRound returns events of type t from the current round.
func (r Run) EventsThisRound(t log.EventType) []log.Event {
	var out []log.Event
	for _, e := range r.Events {
		if e.Type == t && e.Round == r.Stats.Rounds {
			out = append(out, e)
		}
	}
	return out
}

// --- Collection ---

// Deck is a saved deck: a rules card plus a counter of playable cards.
type Deck struct {
	Name      string
	RulesCard CardID
	Cards     counter.Counter[CardID]
	Editable  bool
}

// Collection is the persistent inventory of owned cards and saved decks.
type Collection struct {
	Cards counter.Counter[CardID]
	Decks map[string]Deck
}

// --- View data and continuations ---

type ModalView string

const (
	ModalNone       ModalView = ""
	ModalCardChoice ModalView = "card-choice"
)

// ViewData is what a UI reads to render modal prompts. Pending is non-nil
// exactly when the ability queue is suspended on a card choice.
type ViewData struct {
	ModalView   ModalView
	CardOptions []CardID
	Pending     *Continuation
}

// QueueItem is one matched ability waiting to run, resuming at EffectIndex.
type QueueItem struct {
	Card         CardInstance
	AbilityIndex int
	EffectIndex  int
	Event        log.Event // event the ability reacted to
}

// Ability returns the ability the item refers to.
func (q QueueItem) Ability() Ability {
	return q.Card.Card.Abilities[q.AbilityIndex]
}

// Continuation is the suspended remainder of an ability queue: the choice
// awaiting input and the work that follows it. Steps holds the turn and
// round bookkeeping that was interrupted and runs once Queue is drained.
type Continuation struct {
	Event  log.Event   // event that started the queue
	Choice QueueItem   // item holding the card-choice; EffectIndex points at it
	Queue  []QueueItem // remaining work, starting after the choice
	Steps  []Step
}

// choiceEffect returns the card-choice effect the continuation waits on.
func (c *Continuation) choiceEffect() (CardChoice, bool) {
	effects := c.Choice.Ability().Effects
	if c.Choice.EffectIndex >= len(effects) {
		return CardChoice{}, false
	}
	choice, ok := effects[c.Choice.EffectIndex].(CardChoice)
	return choice, ok
}

// --- Entropy ---

// Entropy drives every random decision of a game. Each consumer derives a
// fresh stream from Seed and Nonce and advances Nonce, so replaying with the
// same seed reproduces the game exactly.
type Entropy struct {
	Seed  uint64
	Nonce uint64
}

func (e Entropy) chacha() *rand.ChaCha8 {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[0:8], e.Seed)
	binary.LittleEndian.PutUint64(key[8:16], e.Nonce)
	copy(key[16:], "scarab-entropy!!")
	return rand.NewChaCha8(key)
}

// next returns a random source for one operation and the advanced entropy.
func (e Entropy) next() (*rand.Rand, *rand.ChaCha8, Entropy) {
	src := e.chacha()
	e.Nonce++
	return rand.New(src), src, e
}

// --- GameState ---

// GameState is everything the engine operates on. Engine functions take a
// GameState by value and return a new one; nothing is shared mutably, though
// Run is held by pointer so "no run" is representable.
type GameState struct {
	Collection Collection
	Run        *Run
	View       ViewData
	Entropy    Entropy
}

// withRun returns gs holding a copy of run.
func (gs GameState) withRun(run Run) GameState {
	gs.Run = &run
	return gs
}

// activeRun returns a copy of the run, or an error when there is none.
func (gs GameState) activeRun() (Run, error) {
	if gs.Run == nil {
		return Run{}, apperrors.ErrNoActiveRun
	}
	return *gs.Run, nil
}

// AwaitingChoice reports whether the ability queue is suspended.
func (gs GameState) AwaitingChoice() bool {
	return gs.View.Pending != nil
}

// shuffled returns a shuffled copy of items.
func shuffled[T any](gs GameState, items []T) ([]T, GameState) {
	out := slices.Clone(items)
	r, _, next := gs.Entropy.next()
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	gs.Entropy = next
	return out, gs
}

// newInstances creates fresh instances for ids, in order.
func newInstances(gs GameState, ids []CardID) ([]CardInstance, GameState, error) {
	_, src, next := gs.Entropy.next()
	gs.Entropy = next
	out := make([]CardInstance, 0, len(ids))
	for _, id := range ids {
		card, ok := FindCard(id)
		if !ok {
			return nil, gs, apperrors.WithMetadata(apperrors.CodeUnknownCard,
				"unknown card "+string(id), map[string]string{"card_id": string(id)})
		}
		if !card.IsPlayable() {
			return nil, gs, apperrors.WithMetadata(apperrors.CodeUnknownCard,
				"card "+string(id)+" cannot be placed in a zone", map[string]string{"card_id": string(id)})
		}
		u, err := uuid.NewRandomFromReader(src)
		if err != nil {
			return nil, gs, err
		}
		out = append(out, CardInstance{Card: card, InstanceID: u.String()})
	}
	return out, gs, nil
}
