package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	apperrors "github.com/peterkuimelis/scarab/internal/errors"
	"github.com/peterkuimelis/scarab/internal/session"
	"github.com/peterkuimelis/scarab/internal/view"
)

// Driver executes commands against a game, local or remote. Engine errors
// come back as error replies; a non-nil error means the game is unreachable.
type Driver interface {
	Execute(ctx context.Context, cmd view.Command) (view.Reply, error)
}

// LocalDriver drives an in-process session.
type LocalDriver struct {
	Session *session.Session
}

func (d LocalDriver) Execute(ctx context.Context, cmd view.Command) (view.Reply, error) {
	res, err := d.Session.Execute(cmd)
	if err != nil {
		return view.Reply{
			Type:   view.ReplyError,
			Code:   string(apperrors.GetCode(err)),
			Error:  err.Error(),
			Events: []view.EventView{},
		}, nil
	}
	return view.Reply{
		Type:   view.ReplyState,
		State:  view.BuildStateView(res.State),
		Events: view.BuildEventViews(res.Events),
		Deck:   res.Deck,
	}, nil
}

// RemoteDriver drives a game hosted by a web server over its /ws endpoint.
type RemoteDriver struct {
	conn  *websocket.Conn
	first view.Reply
}

// Dial connects to the web server at addr (host:port or a ws:// URL).
func Dial(ctx context.Context, addr string) (*RemoteDriver, error) {
	url := addr
	if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
		url = "ws://" + addr + "/ws"
	}
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	d := &RemoteDriver{conn: conn}
	if err := wsjson.Read(ctx, conn, &d.first); err != nil {
		conn.CloseNow()
		return nil, fmt.Errorf("read greeting: %w", err)
	}
	return d, nil
}

// Greeting is the state the server sent on connect.
func (d *RemoteDriver) Greeting() view.Reply {
	return d.first
}

func (d *RemoteDriver) Execute(ctx context.Context, cmd view.Command) (view.Reply, error) {
	if err := wsjson.Write(ctx, d.conn, cmd); err != nil {
		return view.Reply{}, fmt.Errorf("send %s: %w", cmd.Type, err)
	}
	var reply view.Reply
	if err := wsjson.Read(ctx, d.conn, &reply); err != nil {
		return view.Reply{}, fmt.Errorf("read reply: %w", err)
	}
	return reply, nil
}

// Close ends the connection.
func (d *RemoteDriver) Close() error {
	return d.conn.Close(websocket.StatusNormalClosure, "bye")
}
