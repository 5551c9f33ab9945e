package hub

import (
	"encoding/json"
	"fmt"
	"time"

	"squadup/backend/internal/models"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Kind names an event variant on the wire.
type Kind string

const (
	KindLobbyCreated Kind = "lobby_created"
	KindLobbyUpdated Kind = "lobby_updated"
	KindLobbyDeleted Kind = "lobby_deleted"
	KindMemberJoined Kind = "member_joined"
	KindMemberLeft   Kind = "member_left"
)

// Header is carried by every event.
type Header struct {
	ID      string      `json:"id"`
	LobbyID uuid.UUID   `json:"lobby_id"`
	Game    models.Game `json:"game"`
	At      time.Time   `json:"at"`
}

// Meta returns the event header.
func (h Header) Meta() Header { return h }

func (Header) sealed() {}

// NewHeader stamps a fresh event id for an event about lobby.
func NewHeader(lobby models.Lobby) Header {
	return Header{
		ID:      ulid.Make().String(),
		LobbyID: lobby.ID,
		Game:    lobby.Game,
		At:      time.Now().UTC(),
	}
}

// Event is one of LobbyCreated, LobbyUpdated, LobbyDeleted, MemberJoined or MemberLeft.
// The set is closed: only this package can add variants.
type Event interface {
	Kind() Kind
	Meta() Header
	sealed()
}

type LobbyCreated struct {
	Header
	Lobby       models.Lobby `json:"lobby"`
	MemberCount int          `json:"member_count"`
}

type LobbyUpdated struct {
	Header
	Lobby       models.Lobby `json:"lobby"`
	MemberCount int          `json:"member_count"`
	// PreviousGame is set when the update moved the lobby to another game.
	PreviousGame models.Game `json:"previous_game,omitempty"`
}

type LobbyDeleted struct {
	Header
}

type MemberJoined struct {
	Header
	UserID      uuid.UUID `json:"user_id"`
	MemberCount int       `json:"member_count"`
}

// LeaveReason tells apart a voluntary leave from a host removal.
type LeaveReason string

const (
	ReasonLeft   LeaveReason = "left"
	ReasonKicked LeaveReason = "kicked"
)

type MemberLeft struct {
	Header
	UserID      uuid.UUID   `json:"user_id"`
	MemberCount int         `json:"member_count"`
	Reason      LeaveReason `json:"reason"`
}

func (LobbyCreated) Kind() Kind { return KindLobbyCreated }
func (LobbyUpdated) Kind() Kind { return KindLobbyUpdated }
func (LobbyDeleted) Kind() Kind { return KindLobbyDeleted }
func (MemberJoined) Kind() Kind { return KindMemberJoined }
func (MemberLeft) Kind() Kind   { return KindMemberLeft }

// Envelope is the wire shape of an event.
type Envelope struct {
	Type    Kind  `json:"type"`
	Payload Event `json:"payload"`
}

// Encode serializes an event into its JSON envelope.
func Encode(e Event) ([]byte, error) {
	switch e.(type) {
	case LobbyCreated, LobbyUpdated, LobbyDeleted, MemberJoined, MemberLeft:
	default:
		return nil, fmt.Errorf("hub: unknown event %T", e)
	}
	return json.Marshal(Envelope{Type: e.Kind(), Payload: e})
}
