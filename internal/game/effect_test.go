package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/scarab/internal/counter"
	apperrors "github.com/peterkuimelis/scarab/internal/errors"
	"github.com/peterkuimelis/scarab/internal/log"
)

// bogusEffect satisfies Effect without being a known variant.
type bogusEffect struct{}

func (bogusEffect) effectKind() effectKind { return numEffectKinds }

func TestUpdateResource(t *testing.T) {
	tests := []struct {
		name   string
		start  int
		effect Effect
		want   int
	}{
		{"delta", 5, GainPoints(1), 6},
		{"negative delta", 5, GainPoints(-7), -2},
		{"set", 10, SetPoints(4), 4},
		{"compute", 3, ComputePoints(func(cur int, _ Run) int { return cur * 2 }), 6},
		{"compute sees run", 0, ComputePoints(func(cur int, run Run) int { return cur + run.Stats.Rounds }), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := newTestState(t, withPoints(tt.start))
			next, events, err := HandleEffect(gs, tt.effect)
			require.NoError(t, err)
			assert.Equal(t, tt.want, next.Run.Points())
			require.Len(t, events, 1)
			assert.Equal(t, log.EventResourceChange, events[0].Type)
			assert.Equal(t, tt.start, events[0].Old)
			assert.Equal(t, tt.want, events[0].New)
			assert.Equal(t, tt.want-tt.start, events[0].Delta)
		})
	}
}

// HandleEffect must leave its input untouched for every effect kind.
func TestHandleEffectIsPure(t *testing.T) {
	effects := []Effect{
		GainPoints(3),
		SetPoints(0),
		AddCards{Zone: ZoneDrawPile, Cards: counter.Counter[CardID]{"score": 2}},
		AddCards{Zone: ZoneHand, Cards: counter.Counter[CardID]{"debt": 1}, Placement: PlaceTop},
		AddCards{Zone: ZoneDrawPile, Cards: counter.Counter[CardID]{"debt": 1}, Placement: PlaceShuffle},
		CollectCard{Cards: counter.Counter[CardID]{"score": 1}},
		DestroyCard{Cards: counter.Counter[CardID]{"score": 1}},
		RemoveCard{InstanceID: "h1"},
		DrawCards{Amount: 1},
	}
	for _, effect := range effects {
		t.Run(EffectName(effect), func(t *testing.T) {
			gs := newTestState(t,
				withPoints(5),
				withHand(inst("score", "h1")),
				withDrawPile(inst("score", "d1"), inst("dual-score", "d2")),
			)
			gs.Collection.Cards = counter.Counter[CardID]{"score": 2}
			snapshot := cloneState(gs)

			_, _, err := HandleEffect(gs, effect)
			require.NoError(t, err)
			assert.Equal(t, snapshot, gs)
		})
	}
}

func TestAddCardsPlacement(t *testing.T) {
	existing := []CardInstance{inst("score", "a"), inst("score", "b")}
	add := counter.Counter[CardID]{"debt": 2}

	t.Run("bottom appends", func(t *testing.T) {
		gs := newTestState(t, withDrawPile(existing...))
		next, events, err := HandleEffect(gs, AddCards{Zone: ZoneDrawPile, Cards: add})
		require.NoError(t, err)
		pile := next.Run.Cards.DrawPile
		require.Len(t, pile, 4)
		assert.Equal(t, []string{"a", "b"}, instanceIDs(pile[:2]))
		assert.Equal(t, []CardID{"debt", "debt"}, cardIDs(pile[2:]))
		require.Len(t, events, 2)
		for i, e := range events {
			assert.Equal(t, log.EventCardAdd, e.Type)
			assert.Equal(t, "drawPile", e.To)
			assert.Equal(t, pile[2+i].InstanceID, e.InstanceID)
		}
	})

	t.Run("top prepends", func(t *testing.T) {
		gs := newTestState(t, withDrawPile(existing...))
		next, _, err := HandleEffect(gs, AddCards{Zone: ZoneDrawPile, Cards: add, Placement: PlaceTop})
		require.NoError(t, err)
		pile := next.Run.Cards.DrawPile
		assert.Equal(t, []CardID{"debt", "debt", "score", "score"}, cardIDs(pile))
		assert.Equal(t, []string{"a", "b"}, instanceIDs(pile[2:]))
	})

	t.Run("shuffle mixes in", func(t *testing.T) {
		gs := newTestState(t, withDrawPile(existing...))
		next, _, err := HandleEffect(gs, AddCards{Zone: ZoneDrawPile, Cards: add, Placement: PlaceShuffle})
		require.NoError(t, err)
		pile := next.Run.Cards.DrawPile
		require.Len(t, pile, 4)
		assert.Subset(t, instanceIDs(pile), []string{"a", "b"})
		assert.ElementsMatch(t, []CardID{"debt", "debt", "score", "score"}, cardIDs(pile))
	})
}

func TestAddCardsFreshInstanceIDs(t *testing.T) {
	gs := newTestState(t, withHand(inst("score", "h1")))
	next, _, err := HandleEffect(gs, AddCards{Zone: ZoneHand, Cards: counter.Counter[CardID]{"score": 5}})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, c := range next.Run.Cards.Hand {
		require.NotEmpty(t, c.InstanceID)
		assert.Falsef(t, seen[c.InstanceID], "instance id %s reused", c.InstanceID)
		seen[c.InstanceID] = true
	}
	assert.Len(t, seen, 6)
	assert.NotEqual(t, gs.Entropy, next.Entropy, "entropy must advance")
}

func TestAddCardsRejectsNonPlayable(t *testing.T) {
	gs := newTestState(t)
	_, _, err := HandleEffect(gs, AddCards{Zone: ZoneHand, Cards: counter.Counter[CardID]{"nope": 1}})
	assert.ErrorIs(t, err, apperrors.ErrUnknownCard)

	_, _, err = HandleEffect(gs, AddCards{Zone: ZoneHand, Cards: counter.Counter[CardID]{"starter-rules": 1}})
	assert.ErrorIs(t, err, apperrors.ErrUnknownCard)
}

func TestCollectAndDestroyCards(t *testing.T) {
	gs := newTestState(t)
	gs.Collection.Cards = counter.Counter[CardID]{"score": 1}

	next, events, err := HandleEffect(gs, CollectCard{Cards: counter.Counter[CardID]{"score": 2, "debt": 1}})
	require.NoError(t, err)
	assert.Equal(t, counter.Counter[CardID]{"score": 3, "debt": 1}, next.Collection.Cards)
	assert.Equal(t, []log.EventType{log.EventCardCollect, log.EventCardCollect}, eventTypes(events))

	next, _, err = HandleEffect(next, DestroyCard{Cards: counter.Counter[CardID]{"score": 5}})
	require.NoError(t, err)
	assert.Equal(t, counter.Counter[CardID]{"debt": 1}, next.Collection.Cards)
}

// Collection effects do not need a run.
func TestCollectWithoutRun(t *testing.T) {
	gs := NewGameState(1)
	next, events, err := HandleEffect(gs, CollectCard{Cards: counter.Counter[CardID]{"dual-score": 1}})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 1, next.Collection.Cards["dual-score"])
}

func TestRemoveCard(t *testing.T) {
	gs := newTestState(t,
		withHand(inst("score", "h1")),
		withDiscard(inst("score", "x1"), inst("debt", "x2")),
	)

	next, events, err := HandleEffect(gs, RemoveCard{InstanceID: "x2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x1"}, instanceIDs(next.Run.Cards.DiscardPile))
	require.Len(t, events, 1)
	assert.Equal(t, "discardPile", events[0].From)
	assert.Equal(t, "debt", events[0].CardID)

	// Missing ids are a silent no-op.
	same, events, err := HandleEffect(gs, RemoveCard{InstanceID: "missing"})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, gs, same)
}

func TestDrawCardsEffectClamps(t *testing.T) {
	gs := newTestState(t, withDrawPile(inst("score", "d1")))
	next, events, err := HandleEffect(gs, DrawCards{Amount: 3})
	require.NoError(t, err)
	assert.Empty(t, next.Run.Cards.DrawPile)
	assert.Equal(t, []string{"d1"}, instanceIDs(next.Run.Cards.Hand))
	assert.Equal(t, []log.EventType{log.EventCardDraw}, eventTypes(events))
}

func TestInteractiveEffectsAreRejected(t *testing.T) {
	gs := newTestState(t)
	for _, effect := range []Effect{
		CardChoice{Options: 3, Tags: []string{"basic"}},
		BuyCard{Tags: []string{"basic"}},
	} {
		_, _, err := HandleEffect(gs, effect)
		assert.ErrorIs(t, err, apperrors.ErrInteractiveEffect, EffectName(effect))
	}
}

func TestUnknownEffectIsFatal(t *testing.T) {
	_, _, err := HandleEffect(newTestState(t), bogusEffect{})
	require.ErrorIs(t, err, apperrors.ErrUnknownEffect)
	assert.Contains(t, err.Error(), "Unknown effect type")
	assert.True(t, apperrors.GetCode(err).Fatal())
}

func TestRunEffectsNeedRun(t *testing.T) {
	gs := NewGameState(1)
	for _, effect := range []Effect{GainPoints(1), DrawCards{Amount: 1}, RemoveCard{InstanceID: "x"}} {
		_, _, err := HandleEffect(gs, effect)
		assert.ErrorIs(t, err, apperrors.ErrNoActiveRun, EffectName(effect))
	}
}
