package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/inkmatch/inkmatch-api/internal/domain/user"
)

type fakeChatRepo struct {
	rooms    map[uuid.UUID]*Room
	messages []*Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{rooms: make(map[uuid.UUID]*Room)}
}

func (r *fakeChatRepo) CreateRoom(ctx context.Context, room *Room) error {
	r.rooms[room.ID] = room
	return nil
}

func (r *fakeChatRepo) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	return r.rooms[id], nil
}

func (r *fakeChatRepo) GetRoomByPair(ctx context.Context, clientID, artistID uuid.UUID) (*Room, error) {
	for _, room := range r.rooms {
		if room.ClientID == clientID && room.ArtistID == artistID {
			return room, nil
		}
	}
	return nil, nil
}

func (r *fakeChatRepo) ListRoomsForUser(ctx context.Context, userID uuid.UUID) ([]*Room, error) {
	var out []*Room
	for _, room := range r.rooms {
		if room.HasParticipant(userID) {
			out = append(out, room)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, msg *Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeChatRepo) ListMessages(ctx context.Context, roomID uuid.UUID, limit, offset int) ([]*Message, error) {
	var out []*Message
	for _, m := range r.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) MarkRoomRead(ctx context.Context, roomID, readerID uuid.UUID) error {
	return nil
}

func (r *fakeChatRepo) CountUnreadByRoom(ctx context.Context, roomID, userID uuid.UUID) (int, error) {
	return 0, nil
}

func (r *fakeChatRepo) CountUnreadForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return 0, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.users[id], nil
}
func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeUserRepo) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	return nil
}

func seedUsers() (*fakeUserRepo, *user.User, *user.User) {
	client := &user.User{ID: uuid.New(), Role: user.RoleClient, DisplayName: "Avery"}
	artist := &user.User{ID: uuid.New(), Role: user.RoleArtist, DisplayName: "Inkwell"}
	return &fakeUserRepo{users: map[uuid.UUID]*user.User{
		client.ID: client,
		artist.ID: artist,
	}}, client, artist
}

func TestCreateOrGetRoomPairsClientWithArtist(t *testing.T) {
	repo := newFakeChatRepo()
	users, client, artist := seedUsers()
	svc := NewService(repo, users, nil)

	// Artist initiates; room sides still land on the right columns
	room, err := svc.CreateOrGetRoom(context.Background(), artist.ID, &CreateRoomRequest{RecipientID: client.ID})
	if err != nil {
		t.Fatalf("CreateOrGetRoom: %v", err)
	}
	if room.ClientID != client.ID || room.ArtistID != artist.ID {
		t.Errorf("room sides wrong: client=%s artist=%s", room.ClientID, room.ArtistID)
	}

	// Client initiates the same pair; existing room is reused
	again, err := svc.CreateOrGetRoom(context.Background(), client.ID, &CreateRoomRequest{RecipientID: artist.ID})
	if err != nil {
		t.Fatalf("second CreateOrGetRoom: %v", err)
	}
	if again.ID != room.ID {
		t.Errorf("expected room reuse, got new room")
	}
	if len(repo.rooms) != 1 {
		t.Errorf("rooms = %d, want 1", len(repo.rooms))
	}
}

func TestCreateOrGetRoomRejectsSelfAndSameRole(t *testing.T) {
	repo := newFakeChatRepo()
	users, client, _ := seedUsers()
	otherClient := &user.User{ID: uuid.New(), Role: user.RoleClient}
	users.users[otherClient.ID] = otherClient
	svc := NewService(repo, users, nil)

	if _, err := svc.CreateOrGetRoom(context.Background(), client.ID, &CreateRoomRequest{RecipientID: client.ID}); !errors.Is(err, ErrCannotChatSelf) {
		t.Errorf("self: err = %v, want ErrCannotChatSelf", err)
	}
	if _, err := svc.CreateOrGetRoom(context.Background(), client.ID, &CreateRoomRequest{RecipientID: otherClient.ID}); !errors.Is(err, ErrSameRole) {
		t.Errorf("same role: err = %v, want ErrSameRole", err)
	}
	if _, err := svc.CreateOrGetRoom(context.Background(), client.ID, &CreateRoomRequest{RecipientID: uuid.New()}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown recipient: err = %v, want ErrUserNotFound", err)
	}
}

func TestSendMessageRequiresMembership(t *testing.T) {
	repo := newFakeChatRepo()
	users, client, artist := seedUsers()
	svc := NewService(repo, users, nil)

	room, err := svc.CreateOrGetRoom(context.Background(), client.ID, &CreateRoomRequest{RecipientID: artist.ID})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.SendMessage(context.Background(), uuid.New(), room.ID, &SendMessageRequest{Content: "hey"}); !errors.Is(err, ErrNotRoomMember) {
		t.Errorf("outsider: err = %v, want ErrNotRoomMember", err)
	}

	msg, err := svc.SendMessage(context.Background(), client.ID, room.ID, &SendMessageRequest{Content: "got availability in April?"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.MessageType != MessageTypeText {
		t.Errorf("type = %s, want text", msg.MessageType)
	}
}

func TestSendMessageValidatesImageURL(t *testing.T) {
	repo := newFakeChatRepo()
	users, client, artist := seedUsers()
	svc := NewService(repo, users, nil)

	room, _ := svc.CreateOrGetRoom(context.Background(), client.ID, &CreateRoomRequest{RecipientID: artist.ID})

	_, err := svc.SendMessage(context.Background(), client.ID, room.ID, &SendMessageRequest{
		Content:     "not-a-url",
		MessageType: "image",
	})
	if !errors.Is(err, ErrInvalidImageURL) {
		t.Errorf("err = %v, want ErrInvalidImageURL", err)
	}
}

func TestAppointmentScheduledPostsSystemMessage(t *testing.T) {
	repo := newFakeChatRepo()
	users, client, artist := seedUsers()
	svc := NewService(repo, users, nil)

	bookingID := uuid.New()
	if err := svc.AppointmentScheduled(context.Background(), client.ID, artist.ID, bookingID); err != nil {
		t.Fatalf("AppointmentScheduled: %v", err)
	}

	// Room was created on demand
	if len(repo.rooms) != 1 {
		t.Fatalf("rooms = %d, want 1", len(repo.rooms))
	}
	if len(repo.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(repo.messages))
	}

	msg := repo.messages[0]
	if msg.MessageType != MessageTypeSystem {
		t.Errorf("type = %s, want system", msg.MessageType)
	}
	if msg.SenderID.Valid {
		t.Error("system message should have no sender")
	}
	if !msg.BookingID.Valid || msg.BookingID.UUID != bookingID {
		t.Errorf("booking link = %+v, want %s", msg.BookingID, bookingID)
	}

	// Second notice reuses the room
	if err := svc.AppointmentScheduled(context.Background(), client.ID, artist.ID, bookingID); err != nil {
		t.Fatal(err)
	}
	if len(repo.rooms) != 1 {
		t.Errorf("rooms = %d after second notice, want 1", len(repo.rooms))
	}
}
