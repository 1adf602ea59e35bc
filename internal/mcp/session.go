package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/peterkuimelis/scarab/internal/game"
	"github.com/peterkuimelis/scarab/internal/session"
	"github.com/peterkuimelis/scarab/internal/view"
)

// DecisionType identifies what the game is waiting for.
type DecisionType string

const (
	DecisionChooseAction DecisionType = "choose_action"
	DecisionChooseCard   DecisionType = "choose_card"
	DecisionRunOver      DecisionType = "run_over"
	DecisionNoRun        DecisionType = "no_run"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events  []view.EventView `json:"events"`
	State   *view.StateView  `json:"state,omitempty"`
	Pending *PendingView     `json:"pending,omitempty"`
	RunOver bool             `json:"run_over"`
	Points  int              `json:"points,omitempty"`
	Deck    string           `json:"deck,omitempty"`
}

// PendingView tells the caller which tool to use next.
type PendingView struct {
	Type    DecisionType    `json:"type"`
	Prompt  string          `json:"prompt,omitempty"`
	Options []view.CardView `json:"options,omitempty"`
}

// buildResponse turns a session result into the tool response.
func buildResponse(res session.Result) *ToolResponse {
	sv := view.BuildStateView(res.State)
	resp := &ToolResponse{
		Events:  view.BuildEventViews(res.Events),
		State:   sv,
		Pending: pendingFor(res.State, sv),
		Deck:    res.Deck,
	}
	if res.State.Run != nil {
		resp.RunOver = res.State.Run.Over
		resp.Points = res.State.Run.Points()
	}
	return resp
}

func pendingFor(gs game.GameState, sv *view.StateView) *PendingView {
	switch {
	case gs.AwaitingChoice():
		return &PendingView{
			Type:    DecisionChooseCard,
			Prompt:  "Choose one card to add to your collection with choose_card.",
			Options: sv.Options,
		}
	case gs.Run == nil:
		return &PendingView{Type: DecisionNoRun, Prompt: "Start a run with start_run."}
	case gs.Run.Over:
		return &PendingView{
			Type:   DecisionRunOver,
			Prompt: fmt.Sprintf("The run is over with %d points. Use end_run to close it.", gs.Run.Points()),
		}
	default:
		return &PendingView{
			Type:   DecisionChooseAction,
			Prompt: "Use play_card, activate_card or next_turn.",
		}
	}
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
