package chat

import (
	"time"

	"github.com/google/uuid"
)

// CreateRoomRequest for POST /chat/rooms
type CreateRoomRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" validate:"required"`
	Message     string    `json:"message,omitempty" validate:"omitempty,max=4000"`
}

// SendMessageRequest for POST /chat/rooms/{id}/messages
type SendMessageRequest struct {
	Content     string `json:"content" validate:"required,min=1,max=4000"`
	MessageType string `json:"message_type,omitempty" validate:"omitempty,oneof=text image"`
}

// RoomResponse represents room in API
type RoomResponse struct {
	ID                 uuid.UUID `json:"id"`
	ClientID           uuid.UUID `json:"client_id"`
	ArtistID           uuid.UUID `json:"artist_id"`
	LastMessageAt      *string   `json:"last_message_at,omitempty"`
	LastMessagePreview *string   `json:"last_message_preview,omitempty"`
	UnreadCount        int       `json:"unread_count"`
	CreatedAt          string    `json:"created_at"`
}

// RoomResponseFromEntity converts entity to response
func RoomResponseFromEntity(r *Room, unreadCount int) *RoomResponse {
	resp := &RoomResponse{
		ID:          r.ID,
		ClientID:    r.ClientID,
		ArtistID:    r.ArtistID,
		UnreadCount: unreadCount,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}

	if r.LastMessageAt.Valid {
		s := r.LastMessageAt.Time.Format(time.RFC3339)
		resp.LastMessageAt = &s
	}
	if r.LastMessagePreview.Valid {
		resp.LastMessagePreview = &r.LastMessagePreview.String
	}

	return resp
}

// MessageResponse represents message in API
type MessageResponse struct {
	ID          uuid.UUID  `json:"id"`
	RoomID      uuid.UUID  `json:"room_id"`
	SenderID    *uuid.UUID `json:"sender_id,omitempty"`
	Content     string     `json:"content"`
	MessageType string     `json:"message_type"`
	BookingID   *uuid.UUID `json:"booking_id,omitempty"`
	IsRead      bool       `json:"is_read"`
	IsMine      bool       `json:"is_mine"`
	CreatedAt   string     `json:"created_at"`
}

// MessageResponseFromEntity converts entity to response
func MessageResponseFromEntity(m *Message, currentUserID uuid.UUID) *MessageResponse {
	resp := &MessageResponse{
		ID:          m.ID,
		RoomID:      m.RoomID,
		Content:     m.Content,
		MessageType: string(m.MessageType),
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
	}

	if m.SenderID.Valid {
		sender := m.SenderID.UUID
		resp.SenderID = &sender
		resp.IsMine = sender == currentUserID
	}
	if m.BookingID.Valid {
		bookingID := m.BookingID.UUID
		resp.BookingID = &bookingID
	}

	return resp
}
