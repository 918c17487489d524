package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines chat data access interface
type Repository interface {
	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (*Room, error)
	GetRoomByPair(ctx context.Context, clientID, artistID uuid.UUID) (*Room, error)
	ListRoomsForUser(ctx context.Context, userID uuid.UUID) ([]*Room, error)

	CreateMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Message, error)
	MarkRoomRead(ctx context.Context, roomID, readerID uuid.UUID) error
	CountUnreadByRoom(ctx context.Context, roomID, userID uuid.UUID) (int, error)
	CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new chat repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CreateRoom creates a new chat room
func (r *repository) CreateRoom(ctx context.Context, room *Room) error {
	query := `
		INSERT INTO chat_rooms (id, client_id, artist_id, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.ExecContext(ctx, query, room.ID, room.ClientID, room.ArtistID)
	if err != nil {
		return fmt.Errorf("chat repository create room: %w", err)
	}
	return nil
}

// GetRoom returns room by ID, nil when no row matches
func (r *repository) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	query := `SELECT * FROM chat_rooms WHERE id = $1`
	var room Room
	err := r.db.GetContext(ctx, &room, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// GetRoomByPair returns the room between a client and an artist, nil when none exists
func (r *repository) GetRoomByPair(ctx context.Context, clientID, artistID uuid.UUID) (*Room, error) {
	query := `SELECT * FROM chat_rooms WHERE client_id = $1 AND artist_id = $2`
	var room Room
	err := r.db.GetContext(ctx, &room, query, clientID, artistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// ListRoomsForUser returns all rooms the user participates in, most recent first
func (r *repository) ListRoomsForUser(ctx context.Context, userID uuid.UUID) ([]*Room, error) {
	query := `
		SELECT * FROM chat_rooms
		WHERE client_id = $1 OR artist_id = $1
		ORDER BY last_message_at DESC NULLS LAST, created_at DESC
	`
	var rooms []*Room
	if err := r.db.SelectContext(ctx, &rooms, query, userID); err != nil {
		return nil, err
	}
	return rooms, nil
}

// CreateMessage inserts a message and refreshes the room preview
func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO chat_messages (id, room_id, sender_id, content, message_type, booking_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	if _, err := tx.ExecContext(ctx, insert,
		msg.ID, msg.RoomID, msg.SenderID, msg.Content, msg.MessageType, msg.BookingID,
	); err != nil {
		return fmt.Errorf("chat repository create message: %w", err)
	}

	preview := msg.Content
	if len(preview) > 100 {
		preview = preview[:100]
	}
	update := `
		UPDATE chat_rooms
		SET last_message_at = NOW(), last_message_preview = $2
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, update, msg.RoomID, preview); err != nil {
		return fmt.Errorf("chat repository update preview: %w", err)
	}

	return tx.Commit()
}

// ListMessages returns room messages, newest first
func (r *repository) ListMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Message, error) {
	query := `
		SELECT * FROM chat_messages
		WHERE room_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var messages []*Message
	if err := r.db.SelectContext(ctx, &messages, query, roomID, limit, offset); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRoomRead marks all messages from the other participant as read
func (r *repository) MarkRoomRead(ctx context.Context, roomID, readerID uuid.UUID) error {
	query := `
		UPDATE chat_messages
		SET is_read = true, read_at = NOW()
		WHERE room_id = $1 AND is_read = false
		  AND (sender_id IS NULL OR sender_id <> $2)
	`
	_, err := r.db.ExecContext(ctx, query, roomID, readerID)
	return err
}

// CountUnreadByRoom counts unread messages for user in a room
func (r *repository) CountUnreadByRoom(ctx context.Context, roomID, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM chat_messages
		WHERE room_id = $1 AND is_read = false
		  AND (sender_id IS NULL OR sender_id <> $2)
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, roomID, userID)
	return count, err
}

// CountUnreadForUser counts unread messages across all the user's rooms
func (r *repository) CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM chat_messages m
		JOIN chat_rooms r ON r.id = m.room_id
		WHERE (r.client_id = $1 OR r.artist_id = $1)
		  AND m.is_read = false
		  AND (m.sender_id IS NULL OR m.sender_id <> $1)
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}
