// Package realtime implements the websocket chat gateway: room membership, fan-out and the
// joinChat/sendMessage protocol.
package realtime

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// RoomID derives the room token shared by two users. Order does not matter and the token
// does not reveal either id.
func RoomID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	sum := sha256.Sum256([]byte(strings.Join([]string{a, b}, "$")))
	return hex.EncodeToString(sum[:])
}
