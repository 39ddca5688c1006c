// internal/models/models.go
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Player is a participant at a Guiñote table.
type Player struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Seat      int       `json:"seat"` // local seat, 0..3
	Connected bool      `json:"connected"`
	IsBot     bool      `json:"isBot"`
}

// CardRecord is the wire form of a card. ID may be omitted by the server, in
// which case it is "<suit>_<value>".
type CardRecord struct {
	ID    string `json:"id,omitempty"`
	Suit  string `json:"suit"`
	Value int    `json:"value"`
}

// Key returns the card id, synthesizing "<suit>_<value>" when the server
// omitted it.
func (c CardRecord) Key() string {
	if c.ID != "" {
		return c.ID
	}
	return fmt.Sprintf("%s_%d", strings.ToLower(c.Suit), c.Value)
}

// TableCard is a card on the table together with the server seat that played it.
type TableCard struct {
	Position int        `json:"position"`
	Card     CardRecord `json:"card"`
}

// SnapshotAction describes the last action the server applied.
type SnapshotAction struct {
	Type        string      `json:"type"`
	PlayerIndex int         `json:"player_index"`
	Card        *CardRecord `json:"card,omitempty"`
	Suit        string      `json:"suit,omitempty"`
}

// MatchScoreRecord is the wire form of the partida/coto tally.
type MatchScoreRecord struct {
	Team1Partidas   int `json:"team1_partidas"`
	Team2Partidas   int `json:"team2_partidas"`
	Team1Cotos      int `json:"team1_cotos"`
	Team2Cotos      int `json:"team2_cotos"`
	CotosPerMatch   int `json:"cotos_per_match"`
	PartidasPerCoto int `json:"partidas_per_coto"`
}

// SeatAssignment binds a server seat to a player identity.
type SeatAssignment struct {
	Seat     int       `json:"seat"`
	PlayerID uuid.UUID `json:"player_id"`
}

// ServerSnapshot is the authoritative table state pushed or polled from the
// server. Seat indices are server seats; the receiving session maps them onto
// local seats. Deck[0] is the next card to be drawn and the face-up trump,
// while it is still in the deck, is the last entry.
type ServerSnapshot struct {
	GameID             uuid.UUID       `json:"game_id"`
	Version            int64           `json:"version"`
	HandsBySeat        [4][]CardRecord `json:"hands_by_seat"`
	Deck               []CardRecord    `json:"deck"`
	TrumpCard          *CardRecord     `json:"trump_card"`
	TrumpSuit          string          `json:"trump_suit"`
	CurrentPlayerIndex int             `json:"current_player_index"`
	DealerIndex        int             `json:"dealer_index"`
	TableCards         []TableCard     `json:"table_cards"`
	Phase              string          `json:"phase"`

	LastAction     *SnapshotAction   `json:"last_action,omitempty"`
	TeamScores     *[2]int           `json:"team_scores,omitempty"`
	TeamCardPoints *[2]int           `json:"team_card_points,omitempty"`
	IsVueltas      *bool             `json:"is_vueltas,omitempty"`
	MatchScore     *MatchScoreRecord `json:"match_score,omitempty"`
	WinnerTeam     *int              `json:"winner_team,omitempty"`
	Seats          []SeatAssignment  `json:"seats,omitempty"`
}

// CommandType names an operation mirrored to the authoritative server.
type CommandType string

const (
	CommandPlayCard        CommandType = "play_card"
	CommandCantar          CommandType = "cantar"
	CommandCambiar7        CommandType = "cambiar7"
	CommandDeclareVictory  CommandType = "declare_victory"
	CommandDeclareRenuncio CommandType = "declare_renuncio"
	CommandRequestSync     CommandType = "request_sync"
)

// Command is a client-to-server message.
type Command struct {
	ID       uuid.UUID   `json:"id"`
	Type     CommandType `json:"type"`
	GameID   uuid.UUID   `json:"game_id"`
	PlayerID uuid.UUID   `json:"player_id"`
	CardID   string      `json:"card_id,omitempty"`
	Suit     string      `json:"suit,omitempty"`
	Reason   string      `json:"reason,omitempty"`
	Version  int64       `json:"version,omitempty"` // last applied snapshot version
}

// GameResult is the persisted outcome of one finished deal.
type GameResult struct {
	GameID          uuid.UUID `json:"gameId"`
	DealIndex       int       `json:"dealIndex"`
	WinningTeam     int       `json:"winningTeam"`
	Team1Score      int       `json:"team1Score"`
	Team2Score      int       `json:"team2Score"`
	Team1CardPoints int       `json:"team1CardPoints"`
	Team2CardPoints int       `json:"team2CardPoints"`
	Vueltas         bool      `json:"vueltas"`
	Reason          string    `json:"reason"` // "scoring", "declaration", "renuncio"
	MatchOver       bool      `json:"matchOver"`
	Team1Cotos      int       `json:"team1Cotos"`
	Team2Cotos      int       `json:"team2Cotos"`
	FinishedAt      time.Time `json:"finishedAt"`
}
