package entity

import (
	"time"
)

type Reservation struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Date           string    `json:"date"`
	Time           string    `json:"time,omitempty"`
	PartySize      int       `json:"party_size"`
	CustomerName   string    `json:"customer_name,omitempty"`
	Contact        string    `json:"contact,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
