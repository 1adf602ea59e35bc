package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging run events.
type EventLogger interface {
	Log(event Event)
	Events() []Event
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []Event
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event Event) {
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []Event {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []Event {
	return OfType(l.events, t)
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() Event {
	if len(l.events) == 0 {
		return Event{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event Event) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// OfType filters events by type, preserving order.
func OfType(events []Event, t EventType) []Event {
	var result []Event
	for _, e := range events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e Event) string {
	return fmt.Sprintf("R%-2d T%-2d %-16s| %s", e.Round, e.Turn, e.Type, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewRunStartEvent(deck string) Event {
	return Event{
		Type:    EventRunStart,
		Round:   1,
		Turn:    1,
		Details: fmt.Sprintf("=== Run started with %s ===", deck),
	}
}

func NewRunEndEvent(round, turn int, points int) Event {
	return Event{
		Type:     EventRunEnd,
		Round:    round,
		Turn:     turn,
		Resource: "points",
		New:      points,
		Details:  fmt.Sprintf("=== Run over: %d points ===", points),
	}
}

func NewRoundStartEvent(round int) Event {
	return Event{
		Type:    EventRoundStart,
		Round:   round,
		Turn:    1,
		Details: fmt.Sprintf("--- Round %d ---", round),
	}
}

func NewRoundEndEvent(round, turn int) Event {
	return Event{
		Type:    EventRoundEnd,
		Round:   round,
		Turn:    turn,
		Details: fmt.Sprintf("Round %d ends", round),
	}
}

func NewTurnStartEvent(round, turn int) Event {
	return Event{
		Type:    EventTurnStart,
		Round:   round,
		Turn:    turn,
		Details: fmt.Sprintf("Turn %d begins", turn),
	}
}

func NewTurnEndEvent(round, turn int) Event {
	return Event{
		Type:    EventTurnEnd,
		Round:   round,
		Turn:    turn,
		Details: fmt.Sprintf("Turn %d ends", turn),
	}
}

func NewCardPlayEvent(round, turn int, cardID, instanceID string) Event {
	return Event{
		Type:       EventCardPlay,
		Round:      round,
		Turn:       turn,
		CardID:     cardID,
		InstanceID: instanceID,
		Details:    fmt.Sprintf("Plays %s", cardID),
	}
}

func NewCardDrawEvent(round, turn int, cardID, instanceID string) Event {
	return Event{
		Type:       EventCardDraw,
		Round:      round,
		Turn:       turn,
		CardID:     cardID,
		InstanceID: instanceID,
		From:       "drawPile",
		To:         "hand",
		Details:    fmt.Sprintf("Draws %s", cardID),
	}
}

func NewCardActivateEvent(round, turn int, cardID, instanceID string, ability int) Event {
	return Event{
		Type:         EventCardActivate,
		Round:        round,
		Turn:         turn,
		CardID:       cardID,
		InstanceID:   instanceID,
		AbilityIndex: ability,
		Details:      fmt.Sprintf("Activates %s (ability %d)", cardID, ability),
	}
}

func NewCardAddEvent(round, turn int, cardID, instanceID, to string) Event {
	return Event{
		Type:       EventCardAdd,
		Round:      round,
		Turn:       turn,
		CardID:     cardID,
		InstanceID: instanceID,
		To:         to,
		Details:    fmt.Sprintf("%s added to %s", cardID, to),
	}
}

func NewCardDiscardEvent(round, turn int, cardID, instanceID string) Event {
	return Event{
		Type:       EventCardDiscard,
		Round:      round,
		Turn:       turn,
		CardID:     cardID,
		InstanceID: instanceID,
		From:       "hand",
		To:         "discardPile",
		Details:    fmt.Sprintf("Discards %s", cardID),
	}
}

func NewCardRemoveEvent(round, turn int, cardID, instanceID, from string) Event {
	return Event{
		Type:       EventCardRemove,
		Round:      round,
		Turn:       turn,
		CardID:     cardID,
		InstanceID: instanceID,
		From:       from,
		Details:    fmt.Sprintf("%s removed from %s", cardID, from),
	}
}

func NewCardMoveEvent(round, turn int, cardID, instanceID, from, to string) Event {
	return Event{
		Type:       EventCardMove,
		Round:      round,
		Turn:       turn,
		CardID:     cardID,
		InstanceID: instanceID,
		From:       from,
		To:         to,
		Details:    fmt.Sprintf("%s moves %s → %s", cardID, from, to),
	}
}

func NewCardCollectEvent(round, turn int, cardID string, count int) Event {
	return Event{
		Type:    EventCardCollect,
		Round:   round,
		Turn:    turn,
		CardID:  cardID,
		Delta:   count,
		Details: fmt.Sprintf("Collects %dx %s", count, cardID),
	}
}

func NewCardDestroyEvent(round, turn int, cardID string, count int) Event {
	return Event{
		Type:    EventCardDestroy,
		Round:   round,
		Turn:    turn,
		CardID:  cardID,
		Delta:   -count,
		Details: fmt.Sprintf("Destroys %dx %s", count, cardID),
	}
}

func NewResourceChangeEvent(round, turn int, resource string, old, new int) Event {
	delta := new - old
	return Event{
		Type:     EventResourceChange,
		Round:    round,
		Turn:     turn,
		Resource: resource,
		Old:      old,
		New:      new,
		Delta:    delta,
		Details:  fmt.Sprintf("%s %d → %d (%+d)", resource, old, new, delta),
	}
}
