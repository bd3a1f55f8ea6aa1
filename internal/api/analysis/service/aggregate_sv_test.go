package analysisService

import (
	"TrattoriaGolang/internal/api/analysis"
	"TrattoriaGolang/internal/entity"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProductSummaries(t *testing.T) {
	extractor := &fakeExtractor{payload: `[{"type":"order","line_items":[{"name":"Margherita","quantity":3}]}]`}
	env := createTestService(extractor)
	ctx := context.Background()

	_, err := env.svc.Analyze(ctx, analysis.AnalyzeRequest{
		ConversationID:   "conv-1",
		ConversationDate: "2025-06-10",
		DurationSeconds:  60,
		Transcript:       createTestTranscript(),
	})
	assert.NoError(t, err)

	extractor.mu.Lock()
	extractor.payload = testPayload
	extractor.mu.Unlock()

	summaries, err := env.svc.ProductSummaries(ctx)

	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "Margherita", summaries[0].Product)
	assert.Equal(t, 11, summaries[0].TotalQuantity)

	assert.Len(t, summaries[0].Conversations, 5)
	assert.Equal(t, "conv-1", summaries[0].Conversations[0].ConversationID)
	assert.Equal(t, "sample-pickup-order", summaries[0].Conversations[1].ConversationID)
	assert.Equal(t, "sample-evening-reservation", summaries[0].Conversations[2].ConversationID)
	assert.Equal(t, "sample-opening-hours", summaries[0].Conversations[3].ConversationID)
	assert.Equal(t, "sample-order-and-table", summaries[0].Conversations[4].ConversationID)
}

func TestProductSummaries_MergesSpellingVariants(t *testing.T) {
	env := createTestService(&fakeExtractor{payload: testPayload})
	ctx := context.Background()

	legacy := entity.AnalysisRecord{
		ConversationID: "conv-legacy",
		ConversationAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Results: []entity.ExtractionResult{
			{
				Type: entity.ResultTypeOrder,
				Order: &entity.OrderResult{
					LineItems: []entity.OrderLineItem{{Name: "margherita", Quantity: 5}},
				},
			},
		},
		Outcome: entity.OutcomeCompletedOrder,
	}
	env.analyses.records["conv-legacy"] = legacy
	env.analyses.order = append(env.analyses.order, "conv-legacy")

	summaries, err := env.svc.ProductSummaries(ctx)

	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, 13, summaries[0].TotalQuantity)
	assert.Len(t, summaries[0].Conversations, 5)
	assert.Equal(t, "conv-legacy", summaries[0].Conversations[0].ConversationID)
}

func TestProductSummaries_SkipsFailingSamples(t *testing.T) {
	extractor := &fakeExtractor{payload: `[{"type":"order","line_items":[{"name":"Diavola","quantity":2}]}]`}
	env := createTestService(extractor)
	ctx := context.Background()

	_, err := env.svc.Analyze(ctx, analysis.AnalyzeRequest{
		ConversationID:   "conv-1",
		ConversationDate: "2025-06-10",
		Transcript:       createTestTranscript(),
	})
	assert.NoError(t, err)

	extractor.mu.Lock()
	extractor.err = errors.New("connection reset")
	extractor.mu.Unlock()

	summaries, err := env.svc.ProductSummaries(ctx)

	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "Diavola", summaries[0].Product)
	assert.Equal(t, 2, summaries[0].TotalQuantity)
	assert.Len(t, summaries[0].Conversations, 1)
}

func TestReservationsByDay(t *testing.T) {
	env := createTestService(&fakeExtractor{payload: testPayload})
	ctx := context.Background()

	env.reservations.reservations = append(env.reservations.reservations, entity.Reservation{
		ID:             "01JRESV",
		ConversationID: "conv-1",
		Date:           "2025-06-13",
		Time:           "18:00",
		PartySize:      6,
		CustomerName:   "Sara",
	})

	days, err := env.svc.ReservationsByDay(ctx)

	assert.NoError(t, err)
	assert.Len(t, days, 3)

	assert.Equal(t, "2025-06-12", days[0].Date)
	assert.Equal(t, 1, days[0].Count)
	assert.Equal(t, "sample", days[0].Entries[0].Origin)
	assert.Equal(t, "sample-pickup-order", days[0].Entries[0].ConversationID)

	assert.Equal(t, "2025-06-13", days[1].Date)
	assert.Equal(t, 3, days[1].Count)
	assert.Equal(t, "durable", days[1].Entries[0].Origin)
	assert.Equal(t, "conv-1", days[1].Entries[0].ConversationID)
	assert.Equal(t, "18:00", days[1].Entries[0].Time)
	assert.Equal(t, 6, days[1].Entries[0].PartySize)
	assert.Equal(t, "sample-evening-reservation", days[1].Entries[1].ConversationID)
	assert.Equal(t, "sample-opening-hours", days[1].Entries[2].ConversationID)

	assert.Equal(t, "2025-06-14", days[2].Date)
	assert.Equal(t, 1, days[2].Count)
	assert.Equal(t, "sample", days[2].Entries[0].Origin)
}

func TestReservationsByDay_DurableOnlyWhenSamplesFail(t *testing.T) {
	env := createTestService(&fakeExtractor{err: errors.New("connection reset")})
	ctx := context.Background()

	env.reservations.reservations = append(env.reservations.reservations, entity.Reservation{
		ID:             "01JRESV",
		ConversationID: "conv-1",
		Date:           "2025-06-13",
		Time:           "18:00",
		PartySize:      6,
	})

	days, err := env.svc.ReservationsByDay(ctx)

	assert.NoError(t, err)
	assert.Len(t, days, 1)
	assert.Equal(t, "2025-06-13", days[0].Date)
	assert.Equal(t, 1, days[0].Count)
	assert.Equal(t, "durable", days[0].Entries[0].Origin)
}
