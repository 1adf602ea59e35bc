package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterkuimelis/scarab/internal/view"
)

// errQuit ends the REPL without error.
var errQuit = errors.New("quit")

// Client is a terminal REPL over a Driver.
type Client struct {
	driver Driver
	in     *bufio.Reader
	out    io.Writer
	state  *view.StateView
}

// NewClient creates a REPL reading commands from in and writing to out.
func NewClient(driver Driver, in io.Reader, out io.Writer) *Client {
	return &Client{driver: driver, in: bufio.NewReader(in), out: out}
}

// RunREPL reads commands until quit or end of input. initial, when it has
// a state, is rendered first.
func (c *Client) RunREPL(ctx context.Context, initial view.Reply) error {
	if initial.State == nil {
		var err error
		if initial, err = c.driver.Execute(ctx, view.Command{Type: view.CmdGetState}); err != nil {
			return err
		}
	}
	c.handleReply(initial)
	fmt.Fprintln(c.out, "Type 'help' for commands.")

	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		cmd, err := parseCommand(strings.TrimSpace(line), c.state)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		if cmd == nil {
			continue
		}
		reply, err := c.driver.Execute(ctx, *cmd)
		if err != nil {
			return err
		}
		c.handleReply(reply)
	}
}

func (c *Client) handleReply(reply view.Reply) {
	if reply.Type == view.ReplyError {
		fmt.Fprintf(c.out, "Error [%s]: %s\n", reply.Code, reply.Error)
		return
	}
	for _, ev := range reply.Events {
		c.renderEvent(ev)
	}
	if reply.Deck != "" {
		fmt.Fprintf(c.out, "Created deck %q\n", reply.Deck)
	}
	if reply.State != nil {
		c.state = reply.State
		c.renderState(reply.State)
	}
}

func (c *Client) renderEvent(ev view.EventView) {
	fmt.Fprintf(c.out, "R%-2d T%-2d %-16s| %s\n", ev.Round, ev.Turn, ev.Type, ev.Details)
}

func (c *Client) renderState(sv *view.StateView) {
	run := sv.Run
	if run == nil {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "No run in progress. Decks:")
		for _, d := range sv.Decks {
			status := "ready"
			if !d.Valid {
				status = d.Problems
			}
			fmt.Fprintf(c.out, "  %-16s %-20s %2d cards  (%s)\n", d.Key, d.Name, d.Size, status)
		}
		return
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════════════╗")
	fmt.Fprintf(c.out, "║  %s  Round %d/%d  Turn %d  Points: %d\n", run.Deck, run.Round, run.Rounds, run.Turn, run.Points)
	fmt.Fprintf(c.out, "║  Draw pile: %d  Discard: %d", run.DrawPileCount, len(run.DiscardPile))
	if run.PlaysLeft >= 0 {
		fmt.Fprintf(c.out, "  Plays left: %d", run.PlaysLeft)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "║──────────────────────────────────────────────────────")
	fmt.Fprintf(c.out, "║  Board: ")
	for i, cv := range run.Board {
		fmt.Fprintf(c.out, "[%d] %s%s  ", i+1, cv.Name, formatActivatable(cv.Activatable))
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════════════╝")

	if run.Over {
		fmt.Fprintf(c.out, "Run over with %d points. Type 'end' to close it.\n", run.Points)
		return
	}
	if len(run.Hand) > 0 {
		fmt.Fprintf(c.out, "Hand: ")
		for i, cv := range run.Hand {
			fmt.Fprintf(c.out, "[%d] %s  ", i+1, cv.Name)
		}
		fmt.Fprintln(c.out)
	}
	if sv.Modal == "card-choice" {
		c.renderCardChoice(sv.Options)
	}
}

func formatActivatable(abilities []int) string {
	if len(abilities) == 0 {
		return ""
	}
	return "*"
}

func (c *Client) renderCardChoice(options []view.CardView) {
	fmt.Fprintln(c.out, "\nChoose a card to collect (choose N):")
	for i, cv := range options {
		fmt.Fprintf(c.out, "  %d) %s: %s\n", i+1, cv.Name, cv.Description)
	}
}

const helpText = `Commands:
  start [DECK]          start a run (default startingDeck)
  play N                play the Nth card in hand
  activate N [A]        use ability A (default 0) of the Nth board card
  choose N              pick the Nth offered card
  next                  end the turn
  end                   end the run
  state                 show the current state
  new RULES             create a deck with a rules card
  add DECK CARD         put an owned card into a deck
  remove DECK CARD      take a card out of a deck
  rename DECK NAME...   rename a deck
  quit                  leave`

// parseCommand turns an input line into a command. A nil command with a
// nil error means there is nothing to send.
func parseCommand(line string, sv *view.StateView) (*view.Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil, nil
	}
	args := parts[1:]
	switch strings.ToLower(parts[0]) {
	case "quit", "exit", "q":
		return nil, errQuit
	case "help", "h", "?":
		return nil, errors.New(helpText)
	case "state", "s":
		return &view.Command{Type: view.CmdGetState}, nil
	case "start":
		deck := "startingDeck"
		if len(args) > 0 {
			deck = strings.Join(args, " ")
		}
		return &view.Command{Type: view.CmdStartRun, Deck: deck}, nil
	case "play", "p":
		card, err := pick(args, "hand", runCards(sv, func(r *view.RunView) []view.CardView { return r.Hand }))
		if err != nil {
			return nil, err
		}
		return &view.Command{Type: view.CmdPlayCard, InstanceID: card.InstanceID}, nil
	case "activate", "a":
		card, err := pick(args, "board", runCards(sv, func(r *view.RunView) []view.CardView { return r.Board }))
		if err != nil {
			return nil, err
		}
		ability := 0
		if len(args) > 1 {
			if ability, err = strconv.Atoi(args[1]); err != nil || ability < 0 {
				return nil, fmt.Errorf("invalid ability %q", args[1])
			}
		} else if len(card.Activatable) > 0 {
			ability = card.Activatable[0]
		}
		return &view.Command{Type: view.CmdActivateCard, InstanceID: card.InstanceID, Ability: ability}, nil
	case "choose", "c":
		var options []view.CardView
		if sv != nil {
			options = sv.Options
		}
		card, err := pick(args, "options", options)
		if err != nil {
			return nil, err
		}
		return &view.Command{Type: view.CmdChooseCard, CardID: card.ID}, nil
	case "next", "n":
		return &view.Command{Type: view.CmdNextTurn}, nil
	case "end":
		return &view.Command{Type: view.CmdEndRun}, nil
	case "new":
		if len(args) != 1 {
			return nil, errors.New("usage: new RULES")
		}
		return &view.Command{Type: view.CmdCreateDeck, Rules: args[0]}, nil
	case "add", "remove":
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: %s DECK CARD", parts[0])
		}
		typ := view.CmdAddDeckCard
		if strings.ToLower(parts[0]) == "remove" {
			typ = view.CmdRemoveDeckCard
		}
		return &view.Command{Type: typ, Deck: args[0], CardID: args[1]}, nil
	case "rename":
		if len(args) < 2 {
			return nil, errors.New("usage: rename DECK NAME")
		}
		return &view.Command{Type: view.CmdRenameDeck, Deck: args[0], Name: strings.Join(args[1:], " ")}, nil
	default:
		return nil, fmt.Errorf("unknown command %q (try 'help')", parts[0])
	}
}

func runCards(sv *view.StateView, zone func(*view.RunView) []view.CardView) []view.CardView {
	if sv == nil || sv.Run == nil {
		return nil
	}
	return zone(sv.Run)
}

// pick resolves a 1-based position argument against cards.
func pick(args []string, where string, cards []view.CardView) (view.CardView, error) {
	if len(args) == 0 {
		return view.CardView{}, fmt.Errorf("which card? give a number from the %s", where)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(cards) {
		if len(cards) == 0 {
			return view.CardView{}, fmt.Errorf("no cards in %s", where)
		}
		return view.CardView{}, fmt.Errorf("enter a number between 1 and %d", len(cards))
	}
	return cards[n-1], nil
}
