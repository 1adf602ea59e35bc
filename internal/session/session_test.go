package session

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peterkuimelis/scarab/internal/counter"
	apperrors "github.com/peterkuimelis/scarab/internal/errors"
	"github.com/peterkuimelis/scarab/internal/game"
	"github.com/peterkuimelis/scarab/internal/log"
	"github.com/peterkuimelis/scarab/internal/view"
)

// choiceState has an active starter-rules run with Collect Basic in hand.
func choiceState() game.GameState {
	gs := game.NewGameState(11)
	gs.Run = &game.Run{
		Deck: game.Deck{Name: "Test", RulesCard: "starter-rules"},
		Cards: game.Zones{
			Hand: []game.CardInstance{{Card: game.LookupCard("collect-basic"), InstanceID: "c1"}},
		},
		Resources: map[game.Resource]int{game.ResourcePoints: 0},
		Stats:     game.Stats{Turns: 1, Rounds: 1},
	}
	return gs
}

func TestStartRunReportsEvents(t *testing.T) {
	logger := log.NewMemoryLogger()
	s := New(game.NewGameState(3), WithLogger(logger))

	res, err := s.StartRun(game.StarterDeckKey)
	require.NoError(t, err)
	require.NotEmpty(t, res.Events)
	assert.Equal(t, log.EventRunStart, res.Events[0].Type)
	assert.Equal(t, res.Events, logger.Events())
	assert.Len(t, res.State.Run.Cards.Hand, 2)

	snap := s.Snapshot()
	assert.Empty(t, snap.Events, "events are reported once")
	assert.Equal(t, res.State.Run, snap.State.Run)

	hand := res.State.Run.Cards.Hand
	res, err = s.PlayCard(hand[0].InstanceID)
	require.NoError(t, err)
	require.NotEmpty(t, res.Events)
	assert.Equal(t, len(snap.State.Run.Events)+1, res.Events[0].Seq)
	assert.Equal(t, len(res.State.Run.Events), len(logger.Events()))
}

func TestFailedCommandKeepsState(t *testing.T) {
	s := New(game.NewGameState(3))
	_, err := s.StartRun(game.StarterDeckKey)
	require.NoError(t, err)
	before := s.State()

	res, err := s.PlayCard("nope")
	require.ErrorIs(t, err, apperrors.ErrCardNotFound)
	assert.Empty(t, res.Events)
	assert.Same(t, before.Run, s.State().Run)

	_, err = s.Execute(view.Command{Type: "dance"})
	assert.Equal(t, apperrors.CodeUnknown, apperrors.GetCode(err))
}

func TestChooseCardThroughExecute(t *testing.T) {
	s := New(choiceState())

	res, err := s.Execute(view.Command{Type: view.CmdPlayCard, InstanceID: "c1"})
	require.NoError(t, err)
	require.True(t, res.State.AwaitingChoice())
	options := res.State.View.CardOptions
	require.Len(t, options, 3)

	_, err = s.Execute(view.Command{Type: view.CmdNextTurn})
	assert.ErrorIs(t, err, apperrors.ErrAwaitingChoice)

	res, err = s.Execute(view.Command{Type: view.CmdChooseCard, CardID: string(options[1])})
	require.NoError(t, err)
	assert.False(t, res.State.AwaitingChoice())
	assert.Equal(t, 1, res.State.Collection.Cards[options[1]]-game.NewGameState(0).Collection.Cards[options[1]])
	assert.Contains(t, eventTypes(res.Events), log.EventCardCollect)
}

func TestEndRunResetsTracking(t *testing.T) {
	s := New(game.NewGameState(3))
	_, err := s.StartRun(game.StarterDeckKey)
	require.NoError(t, err)

	res := s.EndRun()
	assert.Nil(t, res.State.Run)
	assert.Empty(t, res.Events)

	res, err = s.Execute(view.Command{Type: view.CmdStartRun, Deck: game.StarterDeckKey})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Events[0].Seq, "a new run reports from its first event")
}

func TestDeckCommandsSaveCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decks.yaml")
	data, err := game.EncodeDeckFile(game.NewGameState(0).Collection)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := Load(path, 5, WithStore(path))
	require.NoError(t, err)

	res, err := s.Execute(view.Command{Type: view.CmdCreateDeck, Rules: "starter-rules"})
	require.NoError(t, err)
	assert.Equal(t, "New Deck 1", res.Deck)

	_, err = s.Execute(view.Command{Type: view.CmdAddDeckCard, Deck: res.Deck, CardID: "score"})
	require.NoError(t, err)
	_, err = s.Execute(view.Command{Type: view.CmdRenameDeck, Deck: res.Deck, Name: "Scores"})
	require.NoError(t, err)

	saved, err := game.LoadCollection(path)
	require.NoError(t, err)
	deck, ok := saved.Decks["New Deck 1"]
	require.True(t, ok)
	assert.Equal(t, "Scores", deck.Name)
	assert.Equal(t, counter.Counter[game.CardID]{"score": 1}, deck.Cards)
	assert.Equal(t, 8, saved.Cards["score"])

	_, err = s.Execute(view.Command{Type: view.CmdRemoveDeckCard, Deck: res.Deck, CardID: "score"})
	require.NoError(t, err)
	saved, err = game.LoadCollection(path)
	require.NoError(t, err)
	assert.Equal(t, 9, saved.Cards["score"])

	_, err = s.Execute(view.Command{Type: view.CmdAddDeckCard, Deck: game.StarterDeckKey, CardID: "score"})
	assert.ErrorIs(t, err, apperrors.ErrDeckLocked)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), 1)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConcurrentCommandsReportEachEventOnce(t *testing.T) {
	s := New(game.NewGameState(8))
	first, err := s.StartRun(game.StarterDeckKey)
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seqs []int
		wg   sync.WaitGroup
	)
	for _, e := range first.Events {
		seqs = append(seqs, e.Seq)
	}
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				var res Result
				if i%2 == 0 {
					res, _ = s.NextTurn()
				} else {
					res = s.Snapshot()
				}
				mu.Lock()
				for _, e := range res.Events {
					seqs = append(seqs, e.Seq)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	slices.Sort(seqs)
	total := len(s.State().Run.Events)
	require.Len(t, seqs, total)
	for i, seq := range seqs {
		assert.Equal(t, i+1, seq)
	}
}

func eventTypes(events []log.Event) []log.EventType {
	out := make([]log.EventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}
