package analysisRepository

import (
	"TrattoriaGolang/internal/api/analysis"
	"TrattoriaGolang/internal/entity"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func createTestClient(t *testing.T) (Client, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := New(sqlxDB, logrus.New())

	client, err := repo.NewClient(false)
	assert.NoError(t, err)

	return client, mock
}

func createTestRecord() entity.AnalysisRecord {
	return entity.AnalysisRecord{
		ConversationID:  "conv-1",
		ConversationAt:  time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		DurationSeconds: 95,
		Results: []entity.ExtractionResult{
			{
				Type: entity.ResultTypeOrder,
				Order: &entity.OrderResult{
					LineItems: []entity.OrderLineItem{{Name: "Margherita", Quantity: 2}},
				},
			},
		},
		Outcome: entity.OutcomeCompletedOrder,
	}
}

func TestUpsertAnalysis(t *testing.T) {
	client, mock := createTestClient(t)
	record := createTestRecord()

	createdAt := time.Date(2025, 6, 12, 18, 0, 0, 0, time.UTC)
	updatedAt := time.Date(2025, 6, 12, 19, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO conversation_analyses").
		WithArgs("conv-1", sqlmock.AnyArg(), 95, sqlmock.AnyArg(), entity.OutcomeCompletedOrder, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(createdAt, updatedAt))

	stored, err := client.Analyses.UpsertAnalysis(context.Background(), record)

	assert.NoError(t, err)
	assert.Equal(t, createdAt, stored.CreatedAt)
	assert.Equal(t, updatedAt, stored.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAnalysis_DatabaseError(t *testing.T) {
	client, mock := createTestClient(t)

	mock.ExpectQuery("INSERT INTO conversation_analyses").
		WillReturnError(errors.New("connection refused"))

	_, err := client.Analyses.UpsertAnalysis(context.Background(), createTestRecord())

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAnalysis(t *testing.T) {
	client, mock := createTestClient(t)

	conversationAt := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 6, 12, 18, 0, 0, 0, time.UTC)

	resultsJSON := `[{"type":"order","order":{"line_items":[{"name":"Margherita","quantity":2}]}}]`
	rows := sqlmock.NewRows([]string{
		"conversation_id", "conversation_at", "duration_seconds",
		"results", "outcome", "created_at", "updated_at",
	}).AddRow("conv-1", conversationAt, int64(95), resultsJSON, entity.OutcomeCompletedOrder, createdAt, createdAt)

	mock.ExpectQuery("SELECT (.+) FROM conversation_analyses").
		WithArgs("conv-1").
		WillReturnRows(rows)

	record, err := client.Analyses.GetAnalysis(context.Background(), "conv-1")

	assert.NoError(t, err)
	assert.Equal(t, "conv-1", record.ConversationID)
	assert.Equal(t, 95, record.DurationSeconds)
	assert.Equal(t, entity.OutcomeCompletedOrder, record.Outcome)
	assert.Len(t, record.Results, 1)
	assert.Equal(t, entity.ResultTypeOrder, record.Results[0].Type)
	assert.Equal(t, "Margherita", record.Results[0].Order.LineItems[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAnalysis_NotFound(t *testing.T) {
	client, mock := createTestClient(t)

	mock.ExpectQuery("SELECT (.+) FROM conversation_analyses").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := client.Analyses.GetAnalysis(context.Background(), "missing")

	assert.True(t, errors.Is(err, analysis.ErrAnalysisNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAnalyses(t *testing.T) {
	client, mock := createTestClient(t)

	conversationAt := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"conversation_id", "conversation_at", "duration_seconds",
		"results", "outcome", "created_at", "updated_at",
	}).
		AddRow("conv-1", conversationAt, int64(95), `[{"type":"no_intent"}]`, entity.OutcomeInformationOnly, conversationAt, conversationAt).
		AddRow("conv-2", conversationAt.Add(time.Hour), int64(60), `[]`, entity.OutcomeInformationOnly, conversationAt, conversationAt)

	mock.ExpectQuery("SELECT (.+) FROM conversation_analyses").
		WillReturnRows(rows)

	records, err := client.Analyses.ListAnalyses(context.Background())

	assert.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, "conv-1", records[0].ConversationID)
	assert.Equal(t, "conv-2", records[1].ConversationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertReservation(t *testing.T) {
	client, mock := createTestClient(t)

	reservation := entity.Reservation{
		ID:             "01J0TEST",
		ConversationID: "conv-1",
		Date:           "2025-06-20",
		Time:           "19:30",
		PartySize:      4,
		CustomerName:   "Marco",
	}

	mock.ExpectExec("INSERT INTO reservations").
		WithArgs("01J0TEST", "conv-1", "2025-06-20", "19:30", 4, "Marco", "", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := client.Reservations.UpsertReservation(context.Background(), reservation)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAnalysis_CorruptResultsColumn(t *testing.T) {
	client, mock := createTestClient(t)

	conversationAt := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"conversation_id", "conversation_at", "duration_seconds",
		"results", "outcome", "created_at", "updated_at",
	}).AddRow("conv-1", conversationAt, int64(95), `{not json`, entity.OutcomeCompletedOrder, conversationAt, conversationAt)

	mock.ExpectQuery("SELECT (.+) FROM conversation_analyses").
		WithArgs("conv-1").
		WillReturnRows(rows)

	record, err := client.Analyses.GetAnalysis(context.Background(), "conv-1")

	assert.NoError(t, err)
	assert.Equal(t, "conv-1", record.ConversationID)
	assert.Empty(t, record.Results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReservationsByConversation(t *testing.T) {
	client, mock := createTestClient(t)

	mock.ExpectExec("DELETE FROM reservations").
		WithArgs("conv-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := client.Reservations.DeleteReservationsByConversation(context.Background(), "conv-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReservations(t *testing.T) {
	client, mock := createTestClient(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "conversation_id", "reservation_date", "reservation_time",
		"party_size", "customer_name", "contact", "notes",
		"created_at", "updated_at",
	}).AddRow("01J0TEST", "conv-1", "2025-06-20", "19:30", int64(4), "Marco", "", "window table", now, now)

	mock.ExpectQuery("SELECT (.+) FROM reservations").
		WillReturnRows(rows)

	reservations, err := client.Reservations.ListReservations(context.Background())

	assert.NoError(t, err)
	assert.Len(t, reservations, 1)
	assert.Equal(t, "2025-06-20", reservations[0].Date)
	assert.Equal(t, 4, reservations[0].PartySize)
	assert.Equal(t, "window table", reservations[0].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
