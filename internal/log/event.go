package log

import "fmt"

// EventType enumerates all observable run events.
type EventType int

const (
	EventUnknown EventType = iota
	EventRunStart
	EventRunEnd
	EventRoundStart
	EventRoundEnd
	EventTurnStart
	EventTurnEnd
	EventCardPlay
	EventCardDraw
	EventCardActivate
	EventCardAdd
	EventCardDiscard
	EventCardRemove
	EventCardMove
	EventCardCollect
	EventCardDestroy
	EventResourceChange

	numEventTypes
)

var eventTypeNames = [numEventTypes]string{
	EventUnknown:        "unknown",
	EventRunStart:       "run-start",
	EventRunEnd:         "run-end",
	EventRoundStart:     "round-start",
	EventRoundEnd:       "round-end",
	EventTurnStart:      "turn-start",
	EventTurnEnd:        "turn-end",
	EventCardPlay:       "card-play",
	EventCardDraw:       "card-draw",
	EventCardActivate:   "card-activate",
	EventCardAdd:        "card-add",
	EventCardDiscard:    "card-discard",
	EventCardRemove:     "card-remove",
	EventCardMove:       "card-move",
	EventCardCollect:    "card-collect",
	EventCardDestroy:    "card-destroy",
	EventResourceChange: "resource-change",
}

func (e EventType) String() string {
	if e < 0 || e >= numEventTypes {
		return "unknown"
	}
	return eventTypeNames[e]
}

// ParseEventType maps a kebab-case name back to its EventType.
func ParseEventType(s string) (EventType, error) {
	for i, name := range eventTypeNames {
		if name == s && EventType(i) != EventUnknown {
			return EventType(i), nil
		}
	}
	return EventUnknown, fmt.Errorf("unknown event type %q", s)
}

// MarshalText encodes the event type by name.
func (e EventType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText decodes an event type name.
func (e *EventType) UnmarshalText(b []byte) error {
	t, err := ParseEventType(string(b))
	if err != nil {
		return err
	}
	*e = t
	return nil
}

// Event represents a single observable event in a run. Every event carries
// the round and turn it happened in; card events also carry the card and
// instance ids, and zone transitions name their From/To zones.
type Event struct {
	Seq          int       `json:"seq"`                    // position in the run's event log
	Type         EventType `json:"type"`                   // event type
	Round        int       `json:"round"`                  // 1-based round
	Turn         int       `json:"turn"`                   // 1-based turn within the round
	CardID       string    `json:"cardId,omitempty"`       // catalog id (card events)
	InstanceID   string    `json:"instanceId,omitempty"`   // runtime instance (card events)
	From         string    `json:"from,omitempty"`         // source zone
	To           string    `json:"to,omitempty"`           // destination zone
	Resource     string    `json:"resource,omitempty"`     // resource-change only
	Old          int       `json:"old"`                    // resource-change only
	New          int       `json:"new"`                    // resource-change only
	Delta        int       `json:"delta"`                  // resource-change only
	AbilityIndex int       `json:"abilityIndex,omitempty"` // card-activate only
	Details      string    `json:"details"`                // human-readable detail string
}

// HasInstance reports whether the event refers to a specific card instance.
func (e Event) HasInstance() bool {
	return e.InstanceID != ""
}
