package game

import (
	"github.com/peterkuimelis/scarab/internal/counter"
	"github.com/peterkuimelis/scarab/internal/log"
)

// onPlay is the ability every action card uses to resolve when played.
func onPlay(effects ...Effect) Ability {
	return Ability{
		Trigger: Trigger{On: log.EventCardPlay, Target: TargetSelf},
		Effects: effects,
	}
}

func collectOne(id CardID) Effect {
	return CollectCard{Cards: counter.Counter[CardID]{id: 1}}
}

// StarterRules is the rules card of the starter deck.
func StarterRules() *Card {
	return &Card{
		ID:          "starter-rules",
		Name:        "Starter Rules",
		Description: "Draw 2 each turn. Play any number. Discard your hand at the end of each turn.",
		Type:        CardTypeRules,
		Tags:        []string{"rules"},
		Rules: &Rules{
			DeckLimits: DeckLimits{Min: 0, Max: 4},
			TurnStructure: TurnStructure{
				DrawAmount:    2,
				PlayAmount:    AmountAll(),
				DiscardAmount: AmountAll(),
			},
			EndConditions: EndConditions{Rounds: 3},
			GameStart: []Effect{
				AddCards{
					Zone:  ZoneDrawPile,
					Cards: counter.Counter[CardID]{"score": 7, "collect-basic": 1},
				},
			},
		},
	}
}

// FocusedRules allows one play per turn and keeps most of the hand.
func FocusedRules() *Card {
	return &Card{
		ID:          "focused-rules",
		Name:        "Focused Rules",
		Description: "Draw 3 each turn. Play 1 card per turn. Discard 1 card at the end of each turn.",
		Type:        CardTypeRules,
		Tags:        []string{"rules"},
		Rules: &Rules{
			DeckLimits: DeckLimits{Min: 4, Max: 10},
			TurnStructure: TurnStructure{
				DrawAmount:    3,
				PlayAmount:    AmountOf(1),
				DiscardAmount: AmountOf(1),
			},
			EndConditions: EndConditions{Rounds: 2},
		},
	}
}

// Score: gain 1 point.
func Score() *Card {
	return &Card{
		ID:          "score",
		Name:        "Score",
		Description: "Gain 1 Point.",
		Tags:        []string{"basic", "score"},
		Cost:        0,
		Abilities:   []Ability{onPlay(GainPoints(1))},
	}
}

// DualScore: gain 2 points.
func DualScore() *Card {
	return &Card{
		ID:          "dual-score",
		Name:        "Dual Score",
		Description: "Gain 2 Points.",
		Tags:        []string{"basic", "score"},
		Cost:        4,
		Abilities:   []Ability{onPlay(GainPoints(2))},
	}
}

// PointReset sets points to exactly 4.
func PointReset() *Card {
	return &Card{
		ID:          "point-reset",
		Name:        "Point Reboot",
		Description: "Lose all points, then gain 4 points.",
		Tags:        []string{"basic"},
		Cost:        6,
		Abilities:   []Ability{onPlay(SetPoints(4))},
	}
}

func PointMultiply() *Card {
	return &Card{
		ID:          "point-multiply",
		Name:        "Point Multiplication",
		Description: "If you have 4 or less points, double them.",
		Tags:        []string{"basic"},
		Cost:        6,
		Abilities: []Ability{onPlay(ComputePoints(func(current int, _ Run) int {
			if current <= 4 {
				return current * 2
			}
			return current
		}))},
	}
}

func ZeroReward() *Card {
	return &Card{
		ID:          "zero-reward",
		Name:        "Starting Surge",
		Description: "If you have 0 points, gain 6 points.",
		Tags:        []string{"basic"},
		Cost:        4,
		Abilities: []Ability{onPlay(ComputePoints(func(current int, _ Run) int {
			if current == 0 {
				return 6
			}
			return current
		}))},
	}
}

// SaveReward pays off only in rounds without collection changes.
func SaveReward() *Card {
	return &Card{
		ID:          "save-reward",
		Name:        "A Penny Saved",
		Description: "If you haven't collected a card this round, gain 2 points.",
		Tags:        []string{"basic"},
		Cost:        4,
		Abilities: []Ability{onPlay(ComputePoints(func(current int, run Run) int {
			if len(run.EventsThisRound(log.EventCardCollect)) > 0 {
				return current
			}
			return current + 2
		}))},
	}
}

// ScoreSurge: 2 points per Score played this round, counting at most 4.
func ScoreSurge() *Card {
	return &Card{
		ID:          "score-surge",
		Name:        "Score Surge",
		Description: "Gain 2 points for each \"Score\" played this round (up to 4).",
		Tags:        []string{"rare"},
		Cost:        10,
		Abilities: []Ability{onPlay(ComputePoints(func(current int, run Run) int {
			plays := 0
			for _, e := range run.EventsThisRound(log.EventCardPlay) {
				if e.CardID == "score" {
					plays++
				}
			}
			return current + 2*min(plays, 4)
		}))},
	}
}

// ScoreSynergy: 1 point per Score in the run's deck, counting at most 6.
func ScoreSynergy() *Card {
	return &Card{
		ID:          "score-synergy",
		Name:        "Score Synergy",
		Description: "Gain 1 point for each \"Score\" in your deck (up to 6).",
		Tags:        []string{"rare"},
		Cost:        10,
		Abilities: []Ability{onPlay(ComputePoints(func(current int, run Run) int {
			return current + min(run.Deck.Cards["score"], 6)
		}))},
	}
}

// PointLoan gains 6 now and shuffles a Debt into the draw pile.
func PointLoan() *Card {
	return &Card{
		ID:          "point-loan",
		Name:        "Borrowed Points",
		Description: "Gain 6 points. Shuffle a Debt into your draw pile.",
		Tags:        []string{"rare"},
		Cost:        10,
		Abilities: []Ability{onPlay(
			GainPoints(6),
			AddCards{Zone: ZoneDrawPile, Cards: counter.Counter[CardID]{"debt": 1}, Placement: PlaceShuffle},
		)},
	}
}

// Debt costs 6 points (down to zero) the moment it is drawn.
func Debt() *Card {
	return &Card{
		ID:          "debt",
		Name:        "Debt",
		Description: "When you draw this, lose 6 points (down to zero).",
		Tags:        []string{"curse"},
		Cost:        0,
		Abilities: []Ability{{
			Trigger: Trigger{On: log.EventCardDraw, Target: TargetSelf, Locations: []Zone{ZoneHand}},
			Effects: []Effect{ComputePoints(func(current int, _ Run) int {
				return max(current-6, 0)
			})},
		}},
	}
}

// LastResort gains 8 points and removes itself from the run.
func LastResort() *Card {
	return &Card{
		ID:          "last-resort",
		Name:        "Last Resort",
		Description: "Gain 8 Points, then destroy this card.",
		Tags:        []string{"rare"},
		Cost:        12,
		Abilities:   []Ability{onPlay(GainPoints(8), RemoveCard{InstanceID: SelfInstance})},
	}
}

func CollectBasic() *Card {
	return &Card{
		ID:          "collect-basic",
		Name:        "Collect Basic",
		Description: "Choose 1 of 3 basic cards and add it to your collection.",
		Tags:        []string{"basic"},
		Cost:        2,
		Abilities: []Ability{onPlay(
			CardChoice{Options: 3, Tags: []string{"basic"}, Then: collectOne},
		)},
	}
}

// DoubleChoice offers two basic picks in a row.
func DoubleChoice() *Card {
	return &Card{
		ID:          "double-choice",
		Name:        "Double Collect",
		Description: "Choose 1 of 3 basic cards to collect. Do it again.",
		Tags:        []string{"rare"},
		Cost:        8,
		Abilities: []Ability{onPlay(
			CardChoice{Options: 3, Tags: []string{"basic"}, Then: collectOne},
			CardChoice{Options: 3, Tags: []string{"basic"}, Then: collectOne},
		)},
	}
}

// --- Assets ---

// PointEngine stays on the board and gains 1 point whenever another card is
// played.
func PointEngine() *Card {
	return &Card{
		ID:          "point-engine",
		Name:        "Point Engine",
		Description: "Asset. Whenever you play another card, gain 1 point.",
		Tags:        []string{"asset"},
		Cost:        8,
		Abilities: []Ability{{
			Trigger: Trigger{On: log.EventCardPlay, Target: TargetOther, Locations: []Zone{ZoneBoard}},
			Effects: []Effect{GainPoints(1)},
		}},
	}
}

func LuckyScarab() *Card {
	return &Card{
		ID:          "lucky-scarab",
		Name:        "Lucky Scarab",
		Description: "Asset. At the start of each turn, gain 1 point.",
		Tags:        []string{"asset"},
		Cost:        6,
		Abilities: []Ability{{
			Trigger: Trigger{On: log.EventTurnStart, Locations: []Zone{ZoneBoard}},
			Effects: []Effect{GainPoints(1)},
		}},
	}
}

// PointPress is an activated asset: pay 2 points to draw a card, once per
// turn.
func PointPress() *Card {
	return &Card{
		ID:          "point-press",
		Name:        "Point Press",
		Description: "Asset. Pay 2 points: draw a card. Use once per turn.",
		Tags:        []string{"asset"},
		Cost:        6,
		Abilities: []Ability{{
			Trigger: Trigger{
				On:        log.EventCardActivate,
				Target:    TargetSelf,
				Locations: []Zone{ZoneBoard},
				Costs:     map[Resource]int{ResourcePoints: 2},
				Limit:     Limit{PerTurn: 1},
			},
			Effects: []Effect{DrawCards{Amount: 1}},
		}},
	}
}

// ScoreCollector is an asset that rewards playing Score cards.
func ScoreCollector() *Card {
	return &Card{
		ID:          "score-collector",
		Name:        "Score Collector",
		Description: "Asset. Whenever you play a card tagged score costing 2 or less, gain 1 point.",
		Tags:        []string{"asset"},
		Cost:        8,
		Abilities: []Ability{{
			Trigger: Trigger{
				On:        log.EventCardPlay,
				Target:    CardMatcher{Tags: []string{"score"}, Cost: CostAtMost(2)},
				Locations: []Zone{ZoneBoard},
			},
			Effects: []Effect{GainPoints(1)},
		}},
	}
}
