package game

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/peterkuimelis/scarab/internal/counter"
	apperrors "github.com/peterkuimelis/scarab/internal/errors"
)

// StarterDeckKey is the key of the non-editable deck every collection
// starts with.
const StarterDeckKey = "startingDeck"

// NewGameState returns a fresh game: the starter collection, no run.
func NewGameState(seed uint64) GameState {
	return GameState{
		Collection: Collection{
			Cards: counter.Counter[CardID]{"score": 9, "starter-rules": 1},
			Decks: map[string]Deck{
				StarterDeckKey: {
					Name:      "Starter Deck",
					RulesCard: "starter-rules",
					Cards:     counter.Counter[CardID]{},
					Editable:  false,
				},
			},
		},
		Entropy: Entropy{Seed: seed},
	}
}

// DeckValidity is the outcome of each deck check.
type DeckValidity struct {
	HasCardsInCollection bool
	HasRulesCard         bool
	InSizeRange          bool
}

// Valid reports whether every check passed.
func (v DeckValidity) Valid() bool {
	return v.HasCardsInCollection && v.HasRulesCard && v.InSizeRange
}

func (v DeckValidity) String() string {
	var failed []string
	if !v.HasCardsInCollection {
		failed = append(failed, "cards missing from collection")
	}
	if !v.HasRulesCard {
		failed = append(failed, "no rules card")
	}
	if !v.InSizeRange {
		failed = append(failed, "size out of range")
	}
	if len(failed) == 0 {
		return "valid"
	}
	return strings.Join(failed, ", ")
}

// CheckDeckValidity runs every deck check against the collection.
func CheckDeckValidity(deck Deck, collection Collection) DeckValidity {
	_, hasRules := deckRules(deck)
	return DeckValidity{
		HasCardsInCollection: len(CardsNotInCollection(deck, collection)) == 0,
		HasRulesCard:         hasRules,
		InSizeRange:          DeckInSizeRange(deck),
	}
}

// DeckInSizeRange checks the deck size against its rules card. A deck
// without a rules card has no limits.
func DeckInSizeRange(deck Deck) bool {
	rules, ok := deckRules(deck)
	if !ok {
		return true
	}
	return rules.DeckLimits.Contains(counter.Total(deck.Cards))
}

// CardsNotInCollection counts the deck's cards the collection lacks.
func CardsNotInCollection(deck Deck, collection Collection) counter.Counter[CardID] {
	return counter.Missing(collection.Cards, deck.Cards)
}

func deckRules(deck Deck) (*Rules, bool) {
	if deck.RulesCard == "" {
		return nil, false
	}
	card, ok := FindCard(deck.RulesCard)
	if !ok {
		return nil, false
	}
	return card.RulesSpec()
}

var newDeckPattern = regexp.MustCompile(`^New Deck (\d+)$`)

// NewDeckName returns "New Deck N" for the smallest N not already taken.
func NewDeckName(names []string) string {
	taken := make(map[int]bool)
	for _, name := range names {
		if m := newDeckPattern.FindStringSubmatch(name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				taken[n] = true
			}
		}
	}
	n := 1
	for taken[n] {
		n++
	}
	return fmt.Sprintf("New Deck %d", n)
}

// DeckNames returns the display names of all saved decks, sorted.
func (c Collection) DeckNames() []string {
	names := make([]string, 0, len(c.Decks))
	for _, d := range c.Decks {
		names = append(names, d.Name)
	}
	slices.Sort(names)
	return names
}

// CreateDeck saves a new, empty, editable deck using rulesCard and returns
// its key.
func CreateDeck(gs GameState, rulesCard CardID) (GameState, string, error) {
	card, ok := FindCard(rulesCard)
	if !ok {
		return gs, "", apperrors.WithMetadata(apperrors.CodeUnknownCard,
			fmt.Sprintf("unknown card %s", rulesCard), map[string]string{"card_id": string(rulesCard)})
	}
	if _, ok := card.RulesSpec(); !ok {
		return gs, "", apperrors.ErrNoRulesCard
	}
	name := NewDeckName(gs.Collection.DeckNames())
	key := name
	decks := maps.Clone(gs.Collection.Decks)
	if decks == nil {
		decks = make(map[string]Deck)
	}
	decks[key] = Deck{Name: name, RulesCard: rulesCard, Cards: counter.Counter[CardID]{}, Editable: true}
	gs.Collection.Decks = decks
	return gs, key, nil
}

// RenameDeck changes a deck's display name. Unknown keys are ignored.
func RenameDeck(gs GameState, key, name string) GameState {
	deck, ok := gs.Collection.Decks[key]
	if !ok {
		return gs
	}
	deck.Name = name
	return gs.withDeck(key, deck)
}

// AddCardToDeck puts one more copy of id into a deck. The collection
// records ownership, so a deck may hold at most as many copies as are
// owned. It does nothing when the deck is unknown or every owned copy is
// already in the deck.
func AddCardToDeck(gs GameState, key string, id CardID) (GameState, error) {
	deck, ok := gs.Collection.Decks[key]
	if !ok || deck.Cards[id] >= gs.Collection.Cards[id] {
		return gs, nil
	}
	if !deck.Editable {
		return gs, apperrors.ErrDeckLocked
	}
	deck.Cards = counter.Add(deck.Cards, id, 1)
	return gs.withDeck(key, deck), nil
}

// RemoveCardFromDeck takes one copy of id out of a deck.
func RemoveCardFromDeck(gs GameState, key string, id CardID) (GameState, error) {
	deck, ok := gs.Collection.Decks[key]
	if !ok || deck.Cards[id] <= 0 {
		return gs, nil
	}
	if !deck.Editable {
		return gs, apperrors.ErrDeckLocked
	}
	deck.Cards = counter.Sub(deck.Cards, id, 1)
	return gs.withDeck(key, deck), nil
}

func (gs GameState) withDeck(key string, deck Deck) GameState {
	decks := maps.Clone(gs.Collection.Decks)
	decks[key] = deck
	gs.Collection.Decks = decks
	return gs
}

// GetCardChoices picks up to n distinct playable catalog cards carrying
// every tag in tags, at random without replacement.
func GetCardChoices(gs GameState, n int, tags []string) ([]CardID, GameState) {
	var pool []CardID
	for _, id := range CatalogIDs() {
		card := Catalog[id]
		if card.IsPlayable() && MatchesCard(card, CardMatcher{Tags: tags}) {
			pool = append(pool, id)
		}
	}
	if n <= 0 || len(pool) == 0 {
		return nil, gs
	}
	pool, gs = shuffled(gs, pool)
	return pool[:min(n, len(pool))], gs
}
