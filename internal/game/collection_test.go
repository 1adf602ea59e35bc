package game

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/scarab/internal/counter"
	apperrors "github.com/peterkuimelis/scarab/internal/errors"
)

func TestNewGameState(t *testing.T) {
	gs := NewGameState(3)
	assert.Nil(t, gs.Run)
	assert.False(t, gs.AwaitingChoice())
	assert.Equal(t, 9, gs.Collection.Cards["score"])

	starter, ok := gs.Collection.Decks[StarterDeckKey]
	require.True(t, ok)
	assert.False(t, starter.Editable)
	assert.True(t, CheckDeckValidity(starter, gs.Collection).Valid())
}

func TestCheckDeckValidity(t *testing.T) {
	collection := Collection{Cards: counter.Counter[CardID]{"score": 4, "dual-score": 1}}
	tests := []struct {
		name string
		deck Deck
		want DeckValidity
	}{
		{
			name: "valid",
			deck: Deck{RulesCard: "starter-rules", Cards: counter.Counter[CardID]{"score": 4}},
			want: DeckValidity{HasCardsInCollection: true, HasRulesCard: true, InSizeRange: true},
		},
		{
			name: "too many",
			deck: Deck{RulesCard: "starter-rules", Cards: counter.Counter[CardID]{"score": 4, "dual-score": 1}},
			want: DeckValidity{HasCardsInCollection: true, HasRulesCard: true, InSizeRange: false},
		},
		{
			name: "too few",
			deck: Deck{RulesCard: "focused-rules", Cards: counter.Counter[CardID]{"score": 3}},
			want: DeckValidity{HasCardsInCollection: true, HasRulesCard: true, InSizeRange: false},
		},
		{
			name: "not owned",
			deck: Deck{RulesCard: "starter-rules", Cards: counter.Counter[CardID]{"dual-score": 2}},
			want: DeckValidity{HasCardsInCollection: false, HasRulesCard: true, InSizeRange: true},
		},
		{
			name: "no rules has no size limit",
			deck: Deck{Cards: counter.Counter[CardID]{"score": 4, "dual-score": 1}},
			want: DeckValidity{HasCardsInCollection: true, HasRulesCard: false, InSizeRange: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckDeckValidity(tt.deck, collection)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == DeckValidity{true, true, true}, got.Valid())
		})
	}

	assert.Equal(t, "valid", DeckValidity{true, true, true}.String())
	assert.Equal(t, "no rules card, size out of range", DeckValidity{true, false, false}.String())
}

func TestCardsNotInCollection(t *testing.T) {
	collection := Collection{Cards: counter.Counter[CardID]{"score": 2}}
	deck := Deck{Cards: counter.Counter[CardID]{"score": 3, "debt": 1}}
	assert.Equal(t, counter.Counter[CardID]{"score": 1, "debt": 1}, CardsNotInCollection(deck, collection))
}

func TestNewDeckName(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{nil, "New Deck 1"},
		{[]string{"Starter Deck"}, "New Deck 1"},
		{[]string{"New Deck 1", "New Deck 2"}, "New Deck 3"},
		{[]string{"New Deck 1", "New Deck 3"}, "New Deck 2"},
		{[]string{"New Deck one", "New Deck 1 copy"}, "New Deck 1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewDeckName(tt.names), "%v", tt.names)
	}
}

func TestCreateAndRenameDeck(t *testing.T) {
	gs := NewGameState(1)
	gs, key, err := CreateDeck(gs, "focused-rules")
	require.NoError(t, err)
	assert.Equal(t, "New Deck 1", key)

	deck := gs.Collection.Decks[key]
	assert.True(t, deck.Editable)
	assert.Equal(t, CardID("focused-rules"), deck.RulesCard)
	assert.Empty(t, deck.Cards)

	gs, key2, err := CreateDeck(gs, "starter-rules")
	require.NoError(t, err)
	assert.Equal(t, "New Deck 2", key2)

	renamed := RenameDeck(gs, key, "Focus")
	assert.Equal(t, "Focus", renamed.Collection.Decks[key].Name)
	assert.Equal(t, "New Deck 1", gs.Collection.Decks[key].Name, "input state is unchanged")
	assert.Equal(t, []string{"Focus", "New Deck 2", "Starter Deck"}, renamed.Collection.DeckNames())
	assert.Equal(t, renamed, RenameDeck(renamed, "missing", "x"))

	_, _, err = CreateDeck(gs, "score")
	assert.ErrorIs(t, err, apperrors.ErrNoRulesCard)
	_, _, err = CreateDeck(gs, "nope")
	assert.ErrorIs(t, err, apperrors.ErrUnknownCard)
}

func TestAddAndRemoveDeckCards(t *testing.T) {
	gs, key, err := CreateDeck(NewGameState(1), "starter-rules")
	require.NoError(t, err)

	gs, err = AddCardToDeck(gs, key, "score")
	require.NoError(t, err)
	gs, err = AddCardToDeck(gs, key, "score")
	require.NoError(t, err)
	assert.Equal(t, 2, gs.Collection.Decks[key].Cards["score"])
	assert.Equal(t, 9, gs.Collection.Cards["score"], "owned copies are not consumed")

	gs, err = RemoveCardFromDeck(gs, key, "score")
	require.NoError(t, err)
	assert.Equal(t, 1, gs.Collection.Decks[key].Cards["score"])
	assert.Equal(t, 9, gs.Collection.Cards["score"])

	t.Run("nothing to move", func(t *testing.T) {
		same, err := AddCardToDeck(gs, key, "dual-score")
		require.NoError(t, err)
		assert.Equal(t, gs.Collection, same.Collection)

		same, err = RemoveCardFromDeck(gs, key, "dual-score")
		require.NoError(t, err)
		assert.Equal(t, gs.Collection, same.Collection)

		same, err = AddCardToDeck(gs, "missing", "score")
		require.NoError(t, err)
		assert.Equal(t, gs.Collection, same.Collection)
	})

	t.Run("locked deck", func(t *testing.T) {
		_, err := AddCardToDeck(gs, StarterDeckKey, "score")
		assert.ErrorIs(t, err, apperrors.ErrDeckLocked)
	})
}

func TestDeckFromSingleOwnedCopy(t *testing.T) {
	gs, _, err := HandleEffect(NewGameState(2), CollectCard{Cards: counter.Counter[CardID]{"dual-score": 1}})
	require.NoError(t, err)
	gs, key, err := CreateDeck(gs, "starter-rules")
	require.NoError(t, err)

	gs, err = AddCardToDeck(gs, key, "dual-score")
	require.NoError(t, err)
	same, err := AddCardToDeck(gs, key, "dual-score")
	require.NoError(t, err)
	assert.Equal(t, 1, same.Collection.Decks[key].Cards["dual-score"], "capped at owned copies")
	assert.Equal(t, 1, gs.Collection.Cards["dual-score"])

	deck := gs.Collection.Decks[key]
	assert.True(t, CheckDeckValidity(deck, gs.Collection).Valid())

	started, err := StartRun(gs, key)
	require.NoError(t, err)
	assert.Equal(t, 9, started.Run.Cards.Count(), "the deck's card plus the rules' game-start cards")
	dual := 0
	for _, zone := range AllZones {
		for _, card := range started.Run.Cards.Get(zone) {
			if card.ID() == "dual-score" {
				dual++
			}
		}
	}
	assert.Equal(t, 1, dual)
}

func TestGetCardChoices(t *testing.T) {
	gs := NewGameState(5)

	picks, next := GetCardChoices(gs, 3, []string{"basic"})
	require.Len(t, picks, 3)
	assert.Len(t, slices.Compact(slices.Sorted(slices.Values(picks))), 3, "picks are distinct")
	for _, id := range picks {
		card := LookupCard(id)
		assert.True(t, card.IsPlayable())
		assert.True(t, card.HasTag("basic"))
	}
	assert.NotEqual(t, gs.Entropy, next.Entropy)

	again, _ := GetCardChoices(gs, 3, []string{"basic"})
	assert.Equal(t, picks, again, "same entropy, same picks")

	curses, _ := GetCardChoices(gs, 3, []string{"curse"})
	assert.Equal(t, []CardID{"debt"}, curses)

	none, same := GetCardChoices(gs, 3, []string{"basic", "curse"})
	assert.Empty(t, none)
	assert.Equal(t, gs.Entropy, same.Entropy)

	zero, _ := GetCardChoices(gs, 0, nil)
	assert.Empty(t, zero)

	rules, _ := GetCardChoices(gs, 50, []string{"rules"})
	assert.Empty(t, rules, "rules cards are never offered")
}
