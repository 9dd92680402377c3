package utils

/**
 * Room name formatting. Rooms are runtime-only broadcast groups owned by the
 * socket.io server; these helpers keep every package deriving the same name
 * for the same logical room.
 */

import "fmt"

func PrivateRoom(userID string) string {
	return fmt.Sprintf("private:%s", userID)
}

func GroupRoom(conversationID string) string {
	return fmt.Sprintf("group:%s", conversationID)
}

func GameRoom(gameID string) string {
	return fmt.Sprintf("game:%s", gameID)
}

func GameConvRoom(conversationID string) string {
	return fmt.Sprintf("gameConv:%s", conversationID)
}
