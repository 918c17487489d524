package chat

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// MessageType represents message type
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeImage MessageType = "image"
	// System messages announce booking events (appointment sent, rescheduled)
	MessageTypeSystem MessageType = "system"
)

// Room represents a direct chat between a client and an artist
type Room struct {
	ID       uuid.UUID `db:"id" json:"id"`
	ClientID uuid.UUID `db:"client_id" json:"client_id"`
	ArtistID uuid.UUID `db:"artist_id" json:"artist_id"`

	LastMessageAt      sql.NullTime   `db:"last_message_at" json:"last_message_at,omitempty"`
	LastMessagePreview sql.NullString `db:"last_message_preview" json:"last_message_preview,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// HasParticipant checks if user is in this room
func (r *Room) HasParticipant(userID uuid.UUID) bool {
	return r.ClientID == userID || r.ArtistID == userID
}

// OtherParticipant returns the other user in the room
func (r *Room) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if r.ClientID == userID {
		return r.ArtistID
	}
	return r.ClientID
}

// Message represents a chat message
type Message struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	RoomID      uuid.UUID     `db:"room_id" json:"room_id"`
	SenderID    uuid.NullUUID `db:"sender_id" json:"sender_id,omitempty"`
	Content     string        `db:"content" json:"content"`
	MessageType MessageType   `db:"message_type" json:"message_type"`

	// Booking the message refers to, set on system messages
	BookingID uuid.NullUUID `db:"booking_id" json:"booking_id,omitempty"`

	IsRead    bool         `db:"is_read" json:"is_read"`
	ReadAt    sql.NullTime `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
