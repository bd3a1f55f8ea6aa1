package analysisRepository

import (
	"TrattoriaGolang/internal/api/analysis"
	"TrattoriaGolang/internal/entity"
	contextPkg "TrattoriaGolang/pkg/context"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sirupsen/logrus"
)

type AnalysisDB struct {
	ConversationID  sql.NullString `db:"conversation_id"`
	ConversationAt  time.Time      `db:"conversation_at"`
	DurationSeconds sql.NullInt64  `db:"duration_seconds"`
	Results         sql.NullString `db:"results"`
	Outcome         sql.NullString `db:"outcome"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// UpsertAnalysis writes the analysis for a conversation, replacing any
// previous one. The conversation_id conflict target keeps the row unique
// under concurrent re-analysis; created_at survives the overwrite.
func (r *analysisRepository) UpsertAnalysis(ctx context.Context, record entity.AnalysisRecord) (entity.AnalysisRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)

	resultsJSON, err := json.Marshal(record.Results)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal extraction results")
		return entity.AnalysisRecord{}, err
	}

	now := time.Now()
	argsKV := map[string]interface{}{
		"conversation_id":  record.ConversationID,
		"conversation_at":  record.ConversationAt,
		"duration_seconds": record.DurationSeconds,
		"results":          string(resultsJSON),
		"outcome":          record.Outcome,
		"created_at":       now,
		"updated_at":       now,
	}

	query, args, err := sqlx.Named(queryUpsertAnalysis, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("UpsertAnalysis named query preparation err")
		return entity.AnalysisRecord{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&record.CreatedAt, &record.UpdatedAt); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when upserting analysis")
		return entity.AnalysisRecord{}, err
	}

	return record, nil
}

func (r *analysisRepository) GetAnalysis(ctx context.Context, conversationID string) (entity.AnalysisRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var analysisDB AnalysisDB

	argsKV := map[string]interface{}{
		"conversation_id": conversationID,
	}

	query, args, err := sqlx.Named(queryGetAnalysis, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAnalysis named query preparation err")
		return entity.AnalysisRecord{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&analysisDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id":      requestID,
				"conversation_id": conversationID,
			}).Warn("GetAnalysis no rows found")
			return entity.AnalysisRecord{}, analysis.ErrAnalysisNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetAnalysis execution err")
		return entity.AnalysisRecord{}, err
	}

	return r.makeAnalysisRecord(analysisDB), nil
}

func (r *analysisRepository) ListAnalyses(ctx context.Context) ([]entity.AnalysisRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []AnalysisDB

	query := r.q.Rebind(queryListAnalyses)

	if err := r.q.SelectContext(ctx, &rows, query); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListAnalyses execution err")
		return nil, err
	}

	records := make([]entity.AnalysisRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, r.makeAnalysisRecord(row))
	}

	return records, nil
}

func (r *analysisRepository) makeAnalysisRecord(analysisDB AnalysisDB) entity.AnalysisRecord {
	var results []entity.ExtractionResult
	if analysisDB.Results.Valid && analysisDB.Results.String != "" {
		if err := json.Unmarshal([]byte(analysisDB.Results.String), &results); err != nil {
			r.log.WithFields(logrus.Fields{
				"conversation_id": analysisDB.ConversationID.String,
				"error":           err.Error(),
			}).Error("Failed to unmarshal stored extraction results")
		}
	}

	return entity.AnalysisRecord{
		ConversationID:  analysisDB.ConversationID.String,
		ConversationAt:  analysisDB.ConversationAt,
		DurationSeconds: int(analysisDB.DurationSeconds.Int64),
		Results:         results,
		Outcome:         analysisDB.Outcome.String,
		CreatedAt:       analysisDB.CreatedAt,
		UpdatedAt:       analysisDB.UpdatedAt,
	}
}
