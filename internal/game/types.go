package game

import (
	"fmt"
	"slices"

	"github.com/peterkuimelis/scarab/internal/log"
)

// CardID is the catalog key of a card.
type CardID string

// Resource names a run resource such as points.
type Resource string

const ResourcePoints Resource = "points"

// --- Enums ---

// Zone is a named container of card instances within a run.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneDrawPile
	ZoneHand
	ZoneBoard
	ZoneStack
	ZoneDiscardPile
)

func (z Zone) String() string {
	switch z {
	case ZoneDrawPile:
		return "drawPile"
	case ZoneHand:
		return "hand"
	case ZoneBoard:
		return "board"
	case ZoneStack:
		return "stack"
	case ZoneDiscardPile:
		return "discardPile"
	default:
		return "none"
	}
}

// ParseZone maps a zone name back to its Zone.
func ParseZone(s string) (Zone, error) {
	for _, z := range AllZones {
		if z.String() == s {
			return z, nil
		}
	}
	return ZoneNone, fmt.Errorf("unknown zone %q", s)
}

// AllZones lists every zone in storage order.
var AllZones = []Zone{ZoneDrawPile, ZoneHand, ZoneBoard, ZoneStack, ZoneDiscardPile}

// abilityScanOrder is the zone priority used when discovering abilities.
// It decides which card reacts first when several match one event.
var abilityScanOrder = []Zone{ZoneBoard, ZoneHand, ZoneStack, ZoneDiscardPile, ZoneDrawPile}

// removeSearchOrder is the order remove-card searches zones in.
var removeSearchOrder = []Zone{ZoneDrawPile, ZoneHand, ZoneBoard, ZoneStack, ZoneDiscardPile}

type CardType int

const (
	CardTypePlayable CardType = iota
	CardTypeRules
)

func (t CardType) String() string {
	switch t {
	case CardTypeRules:
		return "Rules"
	default:
		return "Playable"
	}
}

// --- Card (static catalog definition) ---

type Card struct {
	ID          CardID
	Name        string
	Description string
	Type        CardType
	Tags        []string
	Cost        int
	Art         string
	Abilities   []Ability
	Rules       *Rules // set only for CardTypeRules
}

func (c *Card) String() string {
	return c.Name
}

// HasTag reports whether the card carries tag.
func (c *Card) HasTag(tag string) bool {
	return slices.Contains(c.Tags, tag)
}

// IsPlayable reports whether instances of this card may occupy zones.
func (c *Card) IsPlayable() bool {
	return c != nil && c.Type == CardTypePlayable
}

// RulesSpec narrows a card to its rules definition.
func (c *Card) RulesSpec() (*Rules, bool) {
	if c == nil || c.Type != CardTypeRules || c.Rules == nil {
		return nil, false
	}
	return c.Rules, true
}

// Rules is the extra data a rules card carries.
type Rules struct {
	DeckLimits    DeckLimits
	TurnStructure TurnStructure
	EndConditions EndConditions
	GameStart     []Effect
}

// DeckLimits bounds the number of playable cards in a deck, inclusive.
// A zero Max means no upper bound.
type DeckLimits struct {
	Min int
	Max int
}

// Contains reports whether size falls inside the limits.
func (l DeckLimits) Contains(size int) bool {
	if size < l.Min {
		return false
	}
	return l.Max == 0 || size <= l.Max
}

type TurnStructure struct {
	DrawAmount    int
	PlayAmount    Amount // All means any number of plays
	DiscardAmount Amount // All means the whole hand
}

type EndConditions struct {
	Rounds int
}

// Amount is either a fixed count or "all" (unbounded).
type Amount struct {
	Count int
	All   bool
}

// AmountAll is the unbounded amount ("any" plays, "all" discards).
func AmountAll() Amount { return Amount{All: true} }

// AmountOf is a fixed amount.
func AmountOf(n int) Amount { return Amount{Count: n} }

func (a Amount) String() string {
	if a.All {
		return "all"
	}
	return fmt.Sprint(a.Count)
}

// --- CardInstance (runtime card in a zone) ---

type CardInstance struct {
	Card       *Card
	InstanceID string // unique within a game, never reused
}

// ID returns the catalog id of the instance.
func (ci CardInstance) ID() CardID {
	if ci.Card == nil {
		return ""
	}
	return ci.Card.ID
}

func (ci CardInstance) String() string {
	if ci.Card == nil {
		return "(empty)"
	}
	return fmt.Sprintf("%s [%s]", ci.Card.Name, shortID(ci.InstanceID))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// --- Abilities ---

// Ability pairs a trigger with the effects it runs, in order.
type Ability struct {
	Trigger Trigger
	Effects []Effect
}

// Trigger describes when an ability fires.
type Trigger struct {
	On        log.EventType
	Target    TargetSpec // nil skips target matching
	Locations []Zone     // empty means every zone
	When      func(TriggerContext) bool
	Costs     map[Resource]int
	Limit     Limit
}

// Limit caps how often an activated ability may be used. Zero fields are
// unlimited.
type Limit struct {
	PerTurn  int
	PerRound int
	PerRun   int
}

// TriggerContext is what a trigger's When predicate sees.
type TriggerContext struct {
	Event      log.Event
	SourceCard CardInstance
	TargetCard *CardInstance // nil when the event names no card or it left play
	Run        Run
}

// TargetSpec selects which card an event must be about. It is either a
// TargetKind or a CardMatcher.
type TargetSpec interface {
	isTargetSpec()
}

type TargetKind int

const (
	TargetSelf TargetKind = iota + 1
	TargetOther
	TargetAny
)

func (TargetKind) isTargetSpec() {}

func (k TargetKind) String() string {
	switch k {
	case TargetSelf:
		return "self"
	case TargetOther:
		return "other"
	case TargetAny:
		return "any"
	default:
		return "unknown"
	}
}

// CardMatcher tests catalog properties of a card. Every non-empty field must
// match; the zero matcher matches every card.
type CardMatcher struct {
	CardIDs []CardID
	Cost    *CostMatch
	Tags    []string // all required
	AnyTag  []string // at least one required
}

func (CardMatcher) isTargetSpec() {}

// CostMatch is an exact cost or an inclusive range.
type CostMatch struct {
	Exact *int
	Min   *int
	Max   *int
}

func CostExactly(n int) *CostMatch { return &CostMatch{Exact: &n} }

func CostBetween(lo, hi int) *CostMatch { return &CostMatch{Min: &lo, Max: &hi} }

func CostAtLeast(n int) *CostMatch { return &CostMatch{Min: &n} }

func CostAtMost(n int) *CostMatch { return &CostMatch{Max: &n} }
