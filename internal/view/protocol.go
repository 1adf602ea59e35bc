package view

// Message types for the JSON protocol spoken over the /ws endpoint.

// CommandType names a player command.
type CommandType string

const (
	CmdGetState       CommandType = "get_state"
	CmdStartRun       CommandType = "start_run"
	CmdPlayCard       CommandType = "play_card"
	CmdActivateCard   CommandType = "activate_card"
	CmdChooseCard     CommandType = "choose_card"
	CmdNextTurn       CommandType = "next_turn"
	CmdEndRun         CommandType = "end_run"
	CmdCreateDeck     CommandType = "create_deck"
	CmdRenameDeck     CommandType = "rename_deck"
	CmdAddDeckCard    CommandType = "add_deck_card"
	CmdRemoveDeckCard CommandType = "remove_deck_card"
)

// --- Client → Server ---

// Command is the envelope for every client-to-server message.
type Command struct {
	Type CommandType `json:"type"`

	// For "start_run" and the deck commands
	Deck string `json:"deck,omitempty"`

	// For "play_card" and "activate_card"
	InstanceID string `json:"instance_id,omitempty"`
	Ability    int    `json:"ability,omitempty"`

	// For "choose_card", "add_deck_card" and "remove_deck_card"
	CardID string `json:"card_id,omitempty"`

	// For "create_deck"
	Rules string `json:"rules,omitempty"`

	// For "rename_deck"
	Name string `json:"name,omitempty"`
}

// --- Server → Client ---

// Reply types.
const (
	ReplyState = "state"
	ReplyError = "error"
)

// Reply is the envelope for every server-to-client message.
type Reply struct {
	Type   string      `json:"type"`
	State  *StateView  `json:"state,omitempty"`
	Events []EventView `json:"events"`

	// For "create_deck"
	Deck string `json:"deck,omitempty"`

	// For "error"
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}
