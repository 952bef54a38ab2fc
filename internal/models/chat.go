package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation as stored in the history repository.
type Message struct {
	ID             int       `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Reply is the agent's answer to a single chat turn.
type Reply struct {
	ConversationID string `json:"conversation_id"`
	Text           string `json:"text"`
	WeatherUsed    bool   `json:"weather_used"`
}
