// Package session hosts one game for a player interface. A Session owns the
// only mutable GameState, serialises commands against it and reports the
// run events each command produced.
package session

import (
	"fmt"
	"os"
	"reflect"
	"sync"

	apperrors "github.com/peterkuimelis/scarab/internal/errors"
	"github.com/peterkuimelis/scarab/internal/game"
	"github.com/peterkuimelis/scarab/internal/log"
	"github.com/peterkuimelis/scarab/internal/view"
)

// Result is the outcome of one command.
type Result struct {
	State  game.GameState
	Events []log.Event // run events appended by the command
	Deck   string      // key of a deck created by the command
}

// Session serialises access to a game.
type Session struct {
	mu     sync.Mutex
	state  game.GameState
	seen   int // run events already reported
	logger log.EventLogger
	store  string // decks file written after collection changes; empty disables
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sends every new run event to l.
func WithLogger(l log.EventLogger) Option {
	return func(s *Session) { s.logger = l }
}

// WithStore writes the collection back to path whenever it changes.
func WithStore(path string) Option {
	return func(s *Session) { s.store = path }
}

// New creates a session around gs.
func New(gs game.GameState, opts ...Option) *Session {
	s := &Session{state: gs}
	if gs.Run != nil {
		s.seen = len(gs.Run.Events)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load creates a session for the collection in a decks file.
func Load(path string, seed uint64, opts ...Option) (*Session, error) {
	c, err := game.LoadCollection(path)
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	return New(game.GameState{Collection: c, Entropy: game.Entropy{Seed: seed}}, opts...), nil
}

// State returns the current game state.
func (s *Session) State() game.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Execute runs one protocol command.
func (s *Session) Execute(cmd view.Command) (Result, error) {
	switch cmd.Type {
	case view.CmdGetState:
		return s.Snapshot(), nil
	case view.CmdStartRun:
		return s.StartRun(cmd.Deck)
	case view.CmdPlayCard:
		return s.PlayCard(cmd.InstanceID)
	case view.CmdActivateCard:
		return s.ActivateCard(cmd.InstanceID, cmd.Ability)
	case view.CmdChooseCard:
		return s.ChooseCard(game.CardID(cmd.CardID))
	case view.CmdNextTurn:
		return s.NextTurn()
	case view.CmdEndRun:
		return s.EndRun(), nil
	case view.CmdCreateDeck:
		return s.CreateDeck(game.CardID(cmd.Rules))
	case view.CmdRenameDeck:
		return s.RenameDeck(cmd.Deck, cmd.Name)
	case view.CmdAddDeckCard:
		return s.AddCardToDeck(cmd.Deck, game.CardID(cmd.CardID))
	case view.CmdRemoveDeckCard:
		return s.RemoveCardFromDeck(cmd.Deck, game.CardID(cmd.CardID))
	default:
		return s.Snapshot(), apperrors.WithMetadata(apperrors.CodeUnknown,
			fmt.Sprintf("unknown command %q", cmd.Type), map[string]string{"command": string(cmd.Type)})
	}
}

// Snapshot returns the state and any events not yet reported.
func (s *Session) Snapshot() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Result{State: s.state, Events: s.drain()}
}

// StartRun starts a run with the deck saved under key, replacing any run
// in progress.
func (s *Session) StartRun(key string) (Result, error) {
	return s.apply(true, func(gs game.GameState) (game.GameState, error) {
		return game.StartRun(gs, key)
	})
}

func (s *Session) PlayCard(instanceID string) (Result, error) {
	return s.apply(false, func(gs game.GameState) (game.GameState, error) {
		return game.PlayCard(gs, instanceID)
	})
}

func (s *Session) ActivateCard(instanceID string, ability int) (Result, error) {
	return s.apply(false, func(gs game.GameState) (game.GameState, error) {
		return game.ActivateCard(gs, instanceID, ability)
	})
}

// ChooseCard answers the pending card choice.
func (s *Session) ChooseCard(id game.CardID) (Result, error) {
	return s.apply(false, func(gs game.GameState) (game.GameState, error) {
		return game.ResolveChoice(gs, id)
	})
}

func (s *Session) NextTurn() (Result, error) {
	return s.apply(false, game.NextTurn)
}

// EndRun abandons the run. It cannot fail.
func (s *Session) EndRun() Result {
	res, _ := s.apply(true, func(gs game.GameState) (game.GameState, error) {
		return game.EndRun(gs), nil
	})
	return res
}

// CreateDeck saves a new deck and reports its key in Result.Deck.
func (s *Session) CreateDeck(rules game.CardID) (Result, error) {
	var key string
	res, err := s.apply(false, func(gs game.GameState) (game.GameState, error) {
		next, k, err := game.CreateDeck(gs, rules)
		key = k
		return next, err
	})
	res.Deck = key
	return res, err
}

func (s *Session) RenameDeck(key, name string) (Result, error) {
	return s.apply(false, func(gs game.GameState) (game.GameState, error) {
		return game.RenameDeck(gs, key, name), nil
	})
}

func (s *Session) AddCardToDeck(key string, id game.CardID) (Result, error) {
	return s.apply(false, func(gs game.GameState) (game.GameState, error) {
		return game.AddCardToDeck(gs, key, id)
	})
}

func (s *Session) RemoveCardFromDeck(key string, id game.CardID) (Result, error) {
	return s.apply(false, func(gs game.GameState) (game.GameState, error) {
		return game.RemoveCardFromDeck(gs, key, id)
	})
}

// apply runs fn against the state. On error the state is left untouched.
// newRun resets event tracking for commands that replace the run.
func (s *Session) apply(newRun bool, fn func(game.GameState) (game.GameState, error)) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.state)
	if err != nil {
		return Result{State: s.state}, err
	}
	collectionChanged := !sameCollection(s.state.Collection, next.Collection)
	s.state = next
	if newRun {
		s.seen = 0
	}
	res := Result{State: s.state, Events: s.drain()}
	if collectionChanged && s.store != "" {
		if err := s.save(); err != nil {
			return res, err
		}
	}
	return res, nil
}

// drain returns run events not yet reported and feeds them to the logger.
// Callers hold s.mu.
func (s *Session) drain() []log.Event {
	if s.state.Run == nil {
		s.seen = 0
		return nil
	}
	all := s.state.Run.Events
	if s.seen > len(all) {
		s.seen = 0
	}
	events := all[s.seen:len(all):len(all)]
	s.seen = len(all)
	if s.logger != nil {
		for _, e := range events {
			s.logger.Log(e)
		}
	}
	return events
}

func (s *Session) save() error {
	data, err := game.EncodeDeckFile(s.state.Collection)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnknown, "encode collection", err)
	}
	if err := os.WriteFile(s.store, data, 0o644); err != nil {
		return apperrors.Wrap(apperrors.CodeUnknown, "write collection", err)
	}
	return nil
}

func sameCollection(a, b game.Collection) bool {
	return reflect.DeepEqual(a, b)
}
