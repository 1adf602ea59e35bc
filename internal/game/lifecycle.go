package game

import (
	"fmt"
	"slices"

	apperrors "github.com/peterkuimelis/scarab/internal/errors"
	"github.com/peterkuimelis/scarab/internal/log"
)

// StepKind identifies one piece of run bookkeeping.
type StepKind int

const (
	StepApply       StepKind = iota // apply Effect on behalf of the rules
	StepAnnounce                    // dispatch a lifecycle event of type Event
	StepDraw                        // draw Amount cards, one per step
	StepDiscard                     // discard Amount cards from the front of the hand, one per step
	StepAdvanceTurn                 // move the turn counter on
	StepRefill                      // draw Amount and start the turn, or close the round on an empty pile
	StepCloseRound                  // count the round; end the run or reshuffle and open the next
)

var stepKindNames = [...]string{
	StepApply:       "apply",
	StepAnnounce:    "announce",
	StepDraw:        "draw",
	StepDiscard:     "discard",
	StepAdvanceTurn: "advance-turn",
	StepRefill:      "refill",
	StepCloseRound:  "close-round",
}

func (k StepKind) String() string {
	if k >= 0 && int(k) < len(stepKindNames) {
		return stepKindNames[k]
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// Step is a unit of turn or round bookkeeping. Lifecycle operations are
// lists of steps so that an ability waiting on a choice can pause them and
// ResolveChoice can pick up where they stopped.
type Step struct {
	Kind   StepKind
	Event  log.EventType
	Amount Amount
	Effect Effect
}

func announce(t log.EventType) Step { return Step{Kind: StepAnnounce, Event: t} }

func drawStep(n int) Step { return Step{Kind: StepDraw, Amount: AmountOf(n)} }

// openRoundSteps announce the round, draw the opening hand and start turn 1.
func openRoundSteps(rules *Rules) []Step {
	return []Step{
		announce(log.EventRoundStart),
		drawStep(rules.TurnStructure.DrawAmount),
		announce(log.EventTurnStart),
	}
}

func closeRoundSteps() []Step {
	return []Step{announce(log.EventRoundEnd), {Kind: StepCloseRound}}
}

func nextTurnSteps(rules *Rules) []Step {
	return []Step{
		announce(log.EventTurnEnd),
		{Kind: StepAdvanceTurn},
		{Kind: StepDiscard, Amount: rules.TurnStructure.DiscardAmount},
		{Kind: StepRefill, Amount: AmountOf(rules.TurnStructure.DrawAmount)},
	}
}

// runSteps executes steps in order. If a step leaves a choice open, the
// steps not yet run are parked on the continuation. Nothing runs after the
// run is over.
func runSteps(gs GameState, steps []Step) (GameState, error) {
	for len(steps) > 0 {
		if gs.Run == nil || gs.Run.Over {
			return gs, nil
		}
		if gs.AwaitingChoice() {
			return gs.parkSteps(steps), nil
		}
		var more []Step
		var err error
		if gs, more, err = runStep(gs, steps[0]); err != nil {
			return gs, err
		}
		steps = slices.Concat(more, steps[1:])
	}
	return gs, nil
}

// parkSteps appends steps to the open continuation.
func (gs GameState) parkSteps(steps []Step) GameState {
	pending := *gs.View.Pending
	pending.Steps = slices.Concat(pending.Steps, steps)
	gs.View.Pending = &pending
	return gs
}

// runStep executes one step and returns the steps it expands into, which
// run before anything queued after it.
func runStep(gs GameState, step Step) (GameState, []Step, error) {
	run := *gs.Run
	round, turn := run.Stats.Rounds, run.Stats.Turns

	switch step.Kind {
	case StepApply:
		next, triggered, err := applyEffect(gs, CardInstance{}, step.Effect)
		if err != nil {
			return gs, nil, err
		}
		next, err = runQueue(next, triggered)
		return next, nil, err

	case StepAnnounce:
		ev, err := lifecycleEvent(step.Event, round, turn)
		if err != nil {
			return gs, nil, err
		}
		next, err := HandleEvent(gs, ev)
		return next, nil, err

	case StepDraw:
		n := step.Amount.Count
		if step.Amount.All {
			n = len(run.Cards.DrawPile)
		}
		if n <= 0 || len(run.Cards.DrawPile) == 0 {
			return gs, nil, nil
		}
		card := run.Cards.DrawPile[0]
		run.Cards, _, _ = run.Cards.move(ZoneDrawPile, ZoneHand, card.InstanceID)
		next, err := HandleEvent(gs.withRun(run),
			log.NewCardDrawEvent(round, turn, string(card.ID()), card.InstanceID))
		return next, remaining(step, n), err

	case StepDiscard:
		n := step.Amount.Count
		if step.Amount.All {
			n = len(run.Cards.Hand)
		}
		if n <= 0 || len(run.Cards.Hand) == 0 {
			return gs, nil, nil
		}
		card := run.Cards.Hand[0]
		run.Cards, _, _ = run.Cards.move(ZoneHand, ZoneDiscardPile, card.InstanceID)
		next, err := HandleEvent(gs.withRun(run),
			log.NewCardDiscardEvent(round, turn, string(card.ID()), card.InstanceID))
		return next, remaining(step, n), err

	case StepAdvanceTurn:
		run.Stats.Turns++
		return gs.withRun(run), nil, nil

	case StepRefill:
		if len(run.Cards.DrawPile) == 0 {
			return gs, closeRoundSteps(), nil
		}
		return gs, []Step{{Kind: StepDraw, Amount: step.Amount}, announce(log.EventTurnStart)}, nil

	case StepCloseRound:
		rules, err := run.RulesCard()
		if err != nil {
			return gs, nil, err
		}
		run.Stats.Rounds++
		if run.Stats.Rounds >= rules.EndConditions.Rounds {
			run.Over = true
			return gs.withRun(run.record(log.NewRunEndEvent(run.Stats.Rounds, run.Stats.Turns, run.Points()))), nil, nil
		}
		// The draw pile is normally empty here; it is gathered anyway so no
		// instance is lost when a round is ended early.
		gathered := make([]CardInstance, 0, run.Cards.Count())
		for _, zone := range []Zone{ZoneDrawPile, ZoneHand, ZoneBoard, ZoneDiscardPile} {
			gathered = append(gathered, run.Cards.Get(zone)...)
		}
		var drawPile []CardInstance
		drawPile, gs = shuffled(gs, gathered)
		run.Cards = Zones{DrawPile: drawPile, Stack: run.Cards.Stack}
		run.Stats.Turns = 1
		return gs.withRun(run), openRoundSteps(rules), nil
	}
	return gs, nil, apperrors.New(apperrors.CodeUnknown, fmt.Sprintf("unknown step %s", step.Kind))
}

// remaining is what is left of a draw or discard step after one card of n.
func remaining(step Step, n int) []Step {
	if n <= 1 {
		return nil
	}
	return []Step{{Kind: step.Kind, Amount: AmountOf(n - 1)}}
}

func lifecycleEvent(t log.EventType, round, turn int) (log.Event, error) {
	switch t {
	case log.EventTurnStart:
		return log.NewTurnStartEvent(round, turn), nil
	case log.EventTurnEnd:
		return log.NewTurnEndEvent(round, turn), nil
	case log.EventRoundStart:
		return log.NewRoundStartEvent(round), nil
	case log.EventRoundEnd:
		return log.NewRoundEndEvent(round, turn), nil
	}
	return log.Event{}, apperrors.New(apperrors.CodeUnknown, fmt.Sprintf("%s is not a lifecycle event", t))
}
