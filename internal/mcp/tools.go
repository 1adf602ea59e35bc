package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	apperrors "github.com/peterkuimelis/scarab/internal/errors"
	"github.com/peterkuimelis/scarab/internal/game"
	"github.com/peterkuimelis/scarab/internal/session"
	"github.com/peterkuimelis/scarab/internal/view"
)

// Tools exposes a session as MCP tools.
type Tools struct {
	sess        *session.Session
	defaultDeck string
}

// NewTools creates the tool set. start_run uses defaultDeck when the caller
// names no deck.
func NewTools(sess *session.Session, defaultDeck string) *Tools {
	return &Tools{sess: sess, defaultDeck: defaultDeck}
}

// RegisterTools adds all game tools to the MCP server.
func (t *Tools) RegisterTools(s *server.MCPServer) {
	s.AddTools(t.serverTools()...)
}

func (t *Tools) serverTools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: startRunTool(), Handler: t.handleStartRun},
		{Tool: playCardTool(), Handler: t.handlePlayCard},
		{Tool: activateCardTool(), Handler: t.handleActivateCard},
		{Tool: chooseCardTool(), Handler: t.handleChooseCard},
		{Tool: nextTurnTool(), Handler: t.handleNextTurn},
		{Tool: endRunTool(), Handler: t.handleEndRun},
		{Tool: getStateTool(), Handler: t.handleGetState},
		{Tool: listCardsTool(), Handler: t.handleListCards},
		{Tool: listDecksTool(), Handler: t.handleListDecks},
		{Tool: createDeckTool(), Handler: t.handleCreateDeck},
		{Tool: editDeckTool("add_deck_card", "Add one copy of an owned card to an editable deck. A deck holds at most the copies you own."), Handler: t.handleAddDeckCard},
		{Tool: editDeckTool("remove_deck_card", "Remove one copy of a card from an editable deck."), Handler: t.handleRemoveDeckCard},
	}
}

// --- Tool definitions ---

func startRunTool() mcp.Tool {
	return mcp.NewTool("start_run",
		mcp.WithDescription("Start a new run with a saved deck, replacing any run in progress. "+
			"Returns the opening state: the hand is drawn and game-start effects have resolved."),
		mcp.WithString("deck", mcp.Description("Key of the deck to play (see list_decks). Defaults to the configured deck.")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a card from the hand. Its abilities and every reaction resolve before the response."),
		mcp.WithString("instance_id", mcp.Required(), mcp.Description("instance_id of a card in state.run.hand")),
	)
}

func activateCardTool() mcp.Tool {
	return mcp.NewTool("activate_card",
		mcp.WithDescription("Use an activated ability of a card on the board. Usable abilities are listed in the card's activatable field."),
		mcp.WithString("instance_id", mcp.Required(), mcp.Description("instance_id of a card in state.run.board")),
		mcp.WithNumber("ability", mcp.Description("Ability index from the activatable list (default 0)")),
	)
}

func chooseCardTool() mcp.Tool {
	return mcp.NewTool("choose_card",
		mcp.WithDescription("Answer a pending card choice. Use this when pending.type is 'choose_card'."),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("id of one of pending.options")),
	)
}

func nextTurnTool() mcp.Tool {
	return mcp.NewTool("next_turn",
		mcp.WithDescription("End the turn: discard, then draw a new hand or, with an empty draw pile, end the round."),
	)
}

func endRunTool() mcp.Tool {
	return mcp.NewTool("end_run",
		mcp.WithDescription("Abandon or close the current run. Cards collected during the run stay in the collection."),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current state, events not yet reported and the pending decision. Read-only."),
	)
}

func listCardsTool() mcp.Tool {
	return mcp.NewTool("list_cards",
		mcp.WithDescription("List every card in the catalog. Read-only."),
	)
}

func listDecksTool() mcp.Tool {
	return mcp.NewTool("list_decks",
		mcp.WithDescription("List saved decks with their cards and whether they can start a run. Read-only."),
	)
}

func createDeckTool() mcp.Tool {
	return mcp.NewTool("create_deck",
		mcp.WithDescription("Create an empty editable deck. The response's deck field holds the new deck key."),
		mcp.WithString("rules", mcp.Required(), mcp.Description("id of a rules card, e.g. starter-rules")),
	)
}

func editDeckTool(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("deck", mcp.Required(), mcp.Description("Deck key")),
		mcp.WithString("card_id", mcp.Required(), mcp.Description("Card id")),
	)
}

// --- Tool handlers ---

func (t *Tools) handleStartRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deck := request.GetString("deck", t.defaultDeck)
	if deck == "" {
		deck = game.StarterDeckKey
	}
	return t.run(view.Command{Type: view.CmdStartRun, Deck: deck})
}

func (t *Tools) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("instance_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.run(view.Command{Type: view.CmdPlayCard, InstanceID: id})
}

func (t *Tools) handleActivateCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("instance_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ability := request.GetInt("ability", 0)
	if ability < 0 {
		return mcp.NewToolResultErrorf("Invalid ability %d. Must be >= 0.", ability), nil
	}
	return t.run(view.Command{Type: view.CmdActivateCard, InstanceID: id, Ability: ability})
}

func (t *Tools) handleChooseCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.run(view.Command{Type: view.CmdChooseCard, CardID: id})
}

func (t *Tools) handleNextTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(view.Command{Type: view.CmdNextTurn})
}

func (t *Tools) handleEndRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(view.Command{Type: view.CmdEndRun})
}

func (t *Tools) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.run(view.Command{Type: view.CmdGetState})
}

func (t *Tools) handleListCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(view.BuildCatalogView())
}

func (t *Tools) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(view.BuildDeckViews(t.sess.State().Collection))
}

func (t *Tools) handleCreateDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules, err := request.RequireString("rules")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.run(view.Command{Type: view.CmdCreateDeck, Rules: rules})
}

func (t *Tools) handleAddDeckCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.editDeck(view.CmdAddDeckCard, request)
}

func (t *Tools) handleRemoveDeckCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.editDeck(view.CmdRemoveDeckCard, request)
}

func (t *Tools) editDeck(cmd view.CommandType, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deck, err := request.RequireString("deck")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := request.RequireString("card_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return t.run(view.Command{Type: cmd, Deck: deck, CardID: id})
}

// run executes cmd on the session. Engine errors become tool errors so the
// caller can correct its move; they never fail the MCP request itself.
func (t *Tools) run(cmd view.Command) (*mcp.CallToolResult, error) {
	res, err := t.sess.Execute(cmd)
	if err != nil {
		return mcp.NewToolResultErrorf("%s: %v", apperrors.GetCode(err), err), nil
	}
	return mcp.NewToolResultText(respondJSON(buildResponse(res))), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultErrorf("marshal error: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
