package model

import "time"

// PrivateMessage is a directed message between a member and an admin.
type PrivateMessage struct {
	ID          uint64    `json:"id"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	SenderID    uint64    `json:"senderId"`
	RecipientID uint64    `json:"recipientId"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}
