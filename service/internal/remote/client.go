// Package remote connects an online table to its authoritative server over a
// websocket. Commands go out as JSON messages; snapshots come back either as
// pushes or as answers to sync requests.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/miguelartazos/Guinote-Mobile-APP-sub000/service/internal/models"
	"github.com/sirupsen/logrus"
)

// MessageType tags a websocket message.
type MessageType string

const (
	MsgCommand  MessageType = "command"
	MsgSnapshot MessageType = "snapshot"
	MsgError    MessageType = "error"
)

// Message is the envelope exchanged with the server.
type Message struct {
	Type     MessageType            `json:"type"`
	Command  *models.Command        `json:"command,omitempty"`
	Snapshot *models.ServerSnapshot `json:"snapshot,omitempty"`
	Error    string                 `json:"error,omitempty"`
	// CommandID echoes the command an error refers to.
	CommandID uuid.UUID `json:"command_id"`
}

// SnapshotHandler receives every snapshot the server sends.
type SnapshotHandler func(snap *models.ServerSnapshot)

// ErrClosed is returned by sends after Close.
var ErrClosed = errors.New("remote: client closed")

// readLimit bounds one incoming message; a full snapshot is a few KiB.
const readLimit = 1 << 20

// Client is the websocket link to one game on the authoritative server. It
// implements game.Authority. Sends are safe for concurrent use.
type Client struct {
	GameID uuid.UUID

	conn *websocket.Conn
	log  *logrus.Entry
}

// Dial opens the websocket at serverURL for gameID. token, when set, is sent
// as a bearer Authorization header.
func Dial(ctx context.Context, serverURL string, gameID uuid.UUID, token string) (*Client, error) {
	opts := &websocket.DialOptions{HTTPHeader: http.Header{}}
	if token != "" {
		opts.HTTPHeader.Set("Authorization", "Bearer "+token)
	}
	opts.HTTPHeader.Set("X-Game-Id", gameID.String())

	conn, _, err := websocket.Dial(ctx, serverURL, opts)
	if err != nil {
		return nil, fmt.Errorf("remote: dial %s: %w", serverURL, err)
	}
	conn.SetReadLimit(readLimit)
	return &Client{
		GameID: gameID,
		conn:   conn,
		log:    logrus.WithFields(logrus.Fields{"game_id": gameID, "component": "remote"}),
	}, nil
}

// Run reads messages until ctx ends or the connection closes, handing each
// snapshot to handle. A normal close returns nil.
func (c *Client) Run(ctx context.Context, handle SnapshotHandler) error {
	for {
		var msg Message
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			switch {
			case ctx.Err() != nil:
				return nil
			case websocket.CloseStatus(err) == websocket.StatusNormalClosure,
				websocket.CloseStatus(err) == websocket.StatusGoingAway:
				c.log.Info("Server closed the connection")
				return nil
			}
			return fmt.Errorf("remote: read: %w", err)
		}

		switch msg.Type {
		case MsgSnapshot:
			if msg.Snapshot == nil {
				c.log.Warn("Snapshot message without snapshot")
				continue
			}
			handle(msg.Snapshot)
		case MsgError:
			c.log.Warnf("Server rejected command %s: %s", msg.CommandID, msg.Error)
		default:
			c.log.Debugf("Ignoring message of type %q", msg.Type)
		}
	}
}

// Close closes the connection with a normal status.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "client closing")
}

func (c *Client) send(ctx context.Context, cmd models.Command) error {
	cmd.ID = uuid.New()
	cmd.GameID = c.GameID
	if err := wsjson.Write(ctx, c.conn, Message{Type: MsgCommand, Command: &cmd}); err != nil {
		if websocket.CloseStatus(err) != -1 {
			return ErrClosed
		}
		return fmt.Errorf("remote: send %s: %w", cmd.Type, err)
	}
	c.log.Debugf("Sent %s (%s)", cmd.Type, cmd.ID)
	return nil
}

func (c *Client) PlayCard(ctx context.Context, playerID uuid.UUID, cardID string) error {
	return c.send(ctx, models.Command{Type: models.CommandPlayCard, PlayerID: playerID, CardID: cardID})
}

func (c *Client) Cantar(ctx context.Context, playerID uuid.UUID, suit string) error {
	return c.send(ctx, models.Command{Type: models.CommandCantar, PlayerID: playerID, Suit: suit})
}

func (c *Client) Cambiar7(ctx context.Context, playerID uuid.UUID) error {
	return c.send(ctx, models.Command{Type: models.CommandCambiar7, PlayerID: playerID})
}

func (c *Client) DeclareVictory(ctx context.Context, playerID uuid.UUID) error {
	return c.send(ctx, models.Command{Type: models.CommandDeclareVictory, PlayerID: playerID})
}

func (c *Client) DeclareRenuncio(ctx context.Context, playerID uuid.UUID, reason string) error {
	return c.send(ctx, models.Command{Type: models.CommandDeclareRenuncio, PlayerID: playerID, Reason: reason})
}

// RequestSync asks for a full snapshot newer than sinceVersion.
func (c *Client) RequestSync(ctx context.Context, sinceVersion int64) error {
	return c.send(ctx, models.Command{Type: models.CommandRequestSync, Version: sinceVersion})
}
