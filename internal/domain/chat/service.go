package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/domain/user"
)

// RoomWithUnread pairs a room with its unread count for listings
type RoomWithUnread struct {
	Room        *Room
	UnreadCount int
}

// Service handles chat business logic
type Service struct {
	repo     Repository
	userRepo user.Repository
	hub      *Hub
}

// NewService creates chat service. hub may be nil.
func NewService(repo Repository, userRepo user.Repository, hub *Hub) *Service {
	return &Service{repo: repo, userRepo: userRepo, hub: hub}
}

// CreateOrGetRoom returns the direct room between the caller and the
// recipient, creating it when it does not exist. Exactly one side must
// be a client and the other an artist.
func (s *Service) CreateOrGetRoom(ctx context.Context, userID uuid.UUID, req *CreateRoomRequest) (*Room, error) {
	if userID == req.RecipientID {
		return nil, ErrCannotChatSelf
	}

	caller, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.userRepo.GetByID(ctx, req.RecipientID)
	if err != nil {
		return nil, err
	}
	if caller == nil || recipient == nil {
		return nil, ErrUserNotFound
	}
	if caller.Role == recipient.Role {
		return nil, ErrSameRole
	}

	clientID, artistID := userID, req.RecipientID
	if caller.IsArtist() {
		clientID, artistID = req.RecipientID, userID
	}

	room, err := s.repo.GetRoomByPair(ctx, clientID, artistID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		room = &Room{
			ID:       uuid.New(),
			ClientID: clientID,
			ArtistID: artistID,
		}
		if err := s.repo.CreateRoom(ctx, room); err != nil {
			return nil, err
		}
	}

	if req.Message != "" {
		if _, err := s.SendMessage(ctx, userID, room.ID, &SendMessageRequest{Content: req.Message}); err != nil {
			return nil, err
		}
	}

	return room, nil
}

// ListRooms returns the user's rooms with unread counts
func (s *Service) ListRooms(ctx context.Context, userID uuid.UUID) ([]*RoomWithUnread, error) {
	rooms, err := s.repo.ListRoomsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]*RoomWithUnread, len(rooms))
	for i, room := range rooms {
		unread, err := s.repo.CountUnreadByRoom(ctx, room.ID, userID)
		if err != nil {
			unread = 0
		}
		result[i] = &RoomWithUnread{Room: room, UnreadCount: unread}
	}
	return result, nil
}

// GetMessages returns room messages after a membership check
func (s *Service) GetMessages(ctx context.Context, userID, roomID uuid.UUID, limit, offset int) ([]*Message, error) {
	room, err := s.memberRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, room.ID, limit, offset)
}

// SendMessage posts a message to the room and broadcasts it
func (s *Service) SendMessage(ctx context.Context, userID, roomID uuid.UUID, req *SendMessageRequest) (*Message, error) {
	room, err := s.memberRoom(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}

	msgType := MessageTypeText
	if req.MessageType == string(MessageTypeImage) {
		msgType = MessageTypeImage
		if !isHTTPURL(req.Content) {
			return nil, ErrInvalidImageURL
		}
	}

	msg := &Message{
		ID:          uuid.New(),
		RoomID:      room.ID,
		SenderID:    uuid.NullUUID{UUID: userID, Valid: true},
		Content:     req.Content,
		MessageType: msgType,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.broadcast(room, msg)
	return msg, nil
}

// MarkAsRead marks the other participant's messages as read
func (s *Service) MarkAsRead(ctx context.Context, userID, roomID uuid.UUID) error {
	room, err := s.memberRoom(ctx, userID, roomID)
	if err != nil {
		return err
	}
	if err := s.repo.MarkRoomRead(ctx, room.ID, userID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(room.ID, &WSEvent{
			Type:     EventRead,
			RoomID:   room.ID,
			SenderID: userID,
		})
	}
	return nil
}

// GetUnreadCount returns total unread messages for the user
func (s *Service) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnreadForUser(ctx, userID)
}

// AppointmentScheduled posts a system message into the pair's room when
// an artist sends an appointment. The room is created on demand so the
// client always sees the notice.
func (s *Service) AppointmentScheduled(ctx context.Context, clientID, artistID, bookingID uuid.UUID) error {
	room, err := s.repo.GetRoomByPair(ctx, clientID, artistID)
	if err != nil {
		return err
	}
	if room == nil {
		room = &Room{ID: uuid.New(), ClientID: clientID, ArtistID: artistID}
		if err := s.repo.CreateRoom(ctx, room); err != nil {
			return err
		}
	}

	msg := &Message{
		ID:          uuid.New(),
		RoomID:      room.ID,
		Content:     "The artist has proposed an appointment. Open the booking to see the details.",
		MessageType: MessageTypeSystem,
		BookingID:   uuid.NullUUID{UUID: bookingID, Valid: true},
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return err
	}

	s.broadcast(room, msg)
	return nil
}

func (s *Service) memberRoom(ctx context.Context, userID, roomID uuid.UUID) (*Room, error) {
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if !room.HasParticipant(userID) {
		return nil, ErrNotRoomMember
	}
	return room, nil
}

func (s *Service) broadcast(room *Room, msg *Message) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom(room.ID, &WSEvent{
		Type:    EventNewMessage,
		RoomID:  room.ID,
		Message: msg,
	})
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
