package chat

import "errors"

var (
	ErrRoomNotFound    = errors.New("chat room not found")
	ErrNotRoomMember   = errors.New("you are not a member of this chat")
	ErrCannotChatSelf  = errors.New("cannot start chat with yourself")
	ErrSameRole        = errors.New("chat requires one client and one artist")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidImageURL = errors.New("invalid image URL - must be a valid HTTP(S) URL")
)
