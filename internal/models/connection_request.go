package models

import (
	"strings"
	"time"
)

// ConnectionStatus is the state of a connection request.
type ConnectionStatus string

const (
	StatusInterested ConnectionStatus = "interested"
	StatusIgnored    ConnectionStatus = "ignored"
	StatusAccepted   ConnectionStatus = "accepted"
	StatusRejected   ConnectionStatus = "rejected"
)

// ParseConnectionStatus lowercases s and returns it as a status. It does not check membership.
func ParseConnectionStatus(s string) ConnectionStatus {
	return ConnectionStatus(strings.ToLower(strings.TrimSpace(s)))
}

// ConnectionRequest is a directed proposal from one user to another.
type ConnectionRequest struct {
	ID         string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FromUserID string           `json:"fromUserId" gorm:"type:varchar(36);index;not null"`
	ToUserID   string           `json:"toUserId" gorm:"type:varchar(36);index;not null"`
	Status     ConnectionStatus `json:"status" gorm:"type:varchar(20);index;not null"`
	PairKey    string           `json:"-" gorm:"type:varchar(80);uniqueIndex;not null"` // one record per unordered pair
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Involves reports whether userID is either endpoint of the request.
func (r *ConnectionRequest) Involves(userID string) bool {
	return r.FromUserID == userID || r.ToUserID == userID
}

// Counterpart returns the endpoint that is not userID.
func (r *ConnectionRequest) Counterpart(userID string) string {
	if r.FromUserID == userID {
		return r.ToUserID
	}
	return r.FromUserID
}

// PairKey returns the same key for (a, b) and (b, a).
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}
