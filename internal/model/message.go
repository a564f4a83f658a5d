package model

import "time"

// Message is a chat message posted to a group's room
type Message struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedOn time.Time `json:"created_on"`
}

// SendMessageRequest is the payload for posting a message
type SendMessageRequest struct {
	GroupID string `json:"group_id"`
	Content string `json:"content"`
}
