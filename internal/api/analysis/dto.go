package analysis

import (
	"time"
)

type TranscriptTurn struct {
	Speaker string `json:"speaker" validate:"required"`
	Text    string `json:"text" validate:"required"`
}

// AnalyzeRequest targets either a live conversation (conversation_id plus
// transcript) or a built-in sample (sample_id alone); the two are mutually
// exclusive.
type AnalyzeRequest struct {
	ConversationID   string           `json:"conversation_id,omitempty"`
	SampleID         string           `json:"sample_id,omitempty"`
	ConversationDate string           `json:"conversation_date,omitempty"`
	DurationSeconds  int              `json:"duration_seconds,omitempty" validate:"gte=0"`
	Transcript       []TranscriptTurn `json:"transcript,omitempty" validate:"dive"`
}

type StatusResponse struct {
	ConversationID string `json:"conversation_id"`
	Status         string `json:"status"`
}

type ConversationRef struct {
	ConversationID  string    `json:"conversation_id"`
	Timestamp       time.Time `json:"timestamp"`
	DurationSeconds int       `json:"duration_seconds"`
}

type ProductSummary struct {
	Product       string            `json:"product"`
	TotalQuantity int               `json:"total_quantity"`
	Conversations []ConversationRef `json:"conversations"`
}

type ReservationEntry struct {
	Origin         string `json:"origin"`
	ConversationID string `json:"conversation_id,omitempty"`
	Time           string `json:"time,omitempty"`
	PartySize      int    `json:"party_size"`
	CustomerName   string `json:"customer_name,omitempty"`
	Contact        string `json:"contact,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

type ReservationDay struct {
	Date    string             `json:"date"`
	Count   int                `json:"count"`
	Entries []ReservationEntry `json:"entries"`
}
