package entity

import (
	"time"
)

type ResultType string

const (
	ResultTypeOrder       ResultType = "order"
	ResultTypeReservation ResultType = "reservation"
	ResultTypeNoIntent    ResultType = "no_intent"
)

const (
	OutcomeCompletedOrder       = "completed_order"
	OutcomeCompletedReservation = "completed_reservation"
	OutcomeInformationOnly      = "information_only"
)

type OrderLineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type OrderResult struct {
	LineItems    []OrderLineItem `json:"line_items"`
	Fulfillment  string          `json:"fulfillment,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	Contact      string          `json:"contact,omitempty"`
}

type ReservationResult struct {
	Date         string `json:"date"`
	Time         string `json:"time,omitempty"`
	PartySize    int    `json:"party_size"`
	CustomerName string `json:"customer_name,omitempty"`
	Contact      string `json:"contact,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ExtractionResult is a tagged union: exactly one of Order or Reservation
// is set when Type is order or reservation, neither when Type is no_intent.
type ExtractionResult struct {
	Type        ResultType         `json:"type"`
	Order       *OrderResult       `json:"order,omitempty"`
	Reservation *ReservationResult `json:"reservation,omitempty"`
}

type AnalysisRecord struct {
	ConversationID  string             `json:"conversation_id"`
	ConversationAt  time.Time          `json:"conversation_at"`
	DurationSeconds int                `json:"duration_seconds"`
	Results         []ExtractionResult `json:"results"`
	Outcome         string             `json:"outcome"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}
