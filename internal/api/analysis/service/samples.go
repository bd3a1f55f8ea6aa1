package analysisService

import (
	"TrattoriaGolang/internal/api/analysis"
	"time"
)

// Sample conversations ship with the binary so the dashboard has data to
// show before the first real call comes in. Their analyses are memoized in
// memory and recomputed after every restart, never persisted.
type sampleConversation struct {
	ID               string
	ConversationDate string
	OccurredAt       time.Time
	DurationSeconds  int
	Transcript       []analysis.TranscriptTurn
}

func defaultSamples() ([]string, map[string]sampleConversation) {
	samples := []sampleConversation{
		{
			ID:               "sample-pickup-order",
			ConversationDate: "2025-06-12",
			OccurredAt:       time.Date(2025, 6, 12, 18, 42, 0, 0, time.UTC),
			DurationSeconds:  95,
			Transcript: []analysis.TranscriptTurn{
				{Speaker: "agent", Text: "Trattoria da Lina, good evening. How can I help you?"},
				{Speaker: "customer", Text: "Hi, I'd like to order two Margherita and one Diavola for pickup."},
				{Speaker: "agent", Text: "Two Margherita and one Diavola, of course. Anything else?"},
				{Speaker: "customer", Text: "Do you have a Hawaiian pizza?"},
				{Speaker: "agent", Text: "I'm afraid we don't carry that one."},
				{Speaker: "customer", Text: "No problem, that's everything then. Name's Anna."},
				{Speaker: "agent", Text: "Thanks Anna, ready for pickup in twenty minutes."},
			},
		},
		{
			ID:               "sample-evening-reservation",
			ConversationDate: "2025-06-13",
			OccurredAt:       time.Date(2025, 6, 13, 11, 15, 0, 0, time.UTC),
			DurationSeconds:  70,
			Transcript: []analysis.TranscriptTurn{
				{Speaker: "agent", Text: "Trattoria da Lina, hello."},
				{Speaker: "customer", Text: "Hello, I'd like a table for four this evening at half past seven."},
				{Speaker: "agent", Text: "A table for four at 19:30. Under what name?"},
				{Speaker: "customer", Text: "Marco. Could we have one by the window?"},
				{Speaker: "agent", Text: "Noted, Marco. See you tonight."},
			},
		},
		{
			ID:               "sample-opening-hours",
			ConversationDate: "2025-06-13",
			OccurredAt:       time.Date(2025, 6, 13, 15, 3, 0, 0, time.UTC),
			DurationSeconds:  25,
			Transcript: []analysis.TranscriptTurn{
				{Speaker: "agent", Text: "Trattoria da Lina, good afternoon."},
				{Speaker: "customer", Text: "Hi, are you open on Sundays?"},
				{Speaker: "agent", Text: "We are, from noon until ten in the evening."},
				{Speaker: "customer", Text: "Perfect, thank you. Bye!"},
			},
		},
		{
			ID:               "sample-order-and-table",
			ConversationDate: "2025-06-14",
			OccurredAt:       time.Date(2025, 6, 14, 12, 30, 0, 0, time.UTC),
			DurationSeconds:  140,
			Transcript: []analysis.TranscriptTurn{
				{Speaker: "agent", Text: "Trattoria da Lina, hello."},
				{Speaker: "customer", Text: "Hi, two things. First, one Calzone and a Tiramisu to take away."},
				{Speaker: "agent", Text: "One Calzone and one Tiramisu for pickup, done."},
				{Speaker: "customer", Text: "And I'd like to book a table for two on the sixteenth of June at eight."},
				{Speaker: "agent", Text: "Table for two on June 16th at 20:00. Your name?"},
				{Speaker: "customer", Text: "Giulia, my number is 335 1234567."},
				{Speaker: "agent", Text: "All set, Giulia. Thank you!"},
			},
		},
	}

	ids := make([]string, 0, len(samples))
	index := make(map[string]sampleConversation, len(samples))
	for _, sample := range samples {
		ids = append(ids, sample.ID)
		index[sample.ID] = sample
	}

	return ids, index
}
