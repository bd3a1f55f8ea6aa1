package analysisService

import (
	"TrattoriaGolang/internal/api/analysis"
	analysisRepository "TrattoriaGolang/internal/api/analysis/repository"
	"TrattoriaGolang/internal/entity"
	contextPkg "TrattoriaGolang/pkg/context"
	"TrattoriaGolang/pkg/gemini"
	"TrattoriaGolang/pkg/nlp"
	chatGPT "TrattoriaGolang/pkg/openai"
	"TrattoriaGolang/pkg/redis"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const statusTTL = 24 * time.Hour

func (s *analysisService) Analyze(ctx context.Context, req analysis.AnalyzeRequest) (entity.AnalysisRecord, error) {
	switch {
	case req.SampleID != "":
		return s.analyzeSample(ctx, req.SampleID)
	case req.ConversationID != "":
		return s.analyzeConversation(ctx, req)
	default:
		return entity.AnalysisRecord{}, analysis.ErrMissingTarget
	}
}

// analyzeConversation runs the full durable path: extract, normalize,
// upsert, then fan out completion signals. A failed extraction returns
// before the upsert, so a previously stored analysis is never clobbered by
// a failed re-run.
func (s *analysisService) analyzeConversation(ctx context.Context, req analysis.AnalyzeRequest) (entity.AnalysisRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if len(req.Transcript) == 0 {
		return entity.AnalysisRecord{}, analysis.ErrEmptyTranscript
	}

	conversationDate := req.ConversationDate
	if conversationDate == "" {
		conversationDate = time.Now().Format("2006-01-02")
	}

	if err := s.statusStore.SetAnalysisStatus(ctx, req.ConversationID, redis.StatusAnalyzing, statusTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":      requestID,
			"conversation_id": req.ConversationID,
		}).Warn("Failed to flag analysis as in progress")
	}

	results, outcome, err := s.runExtraction(ctx, req.Transcript, conversationDate)
	if err != nil {
		if statusErr := s.statusStore.SetAnalysisStatus(ctx, req.ConversationID, redis.StatusFailed, statusTTL); statusErr != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":      requestID,
				"conversation_id": req.ConversationID,
			}).Warn("Failed to flag analysis as failed")
		}
		return entity.AnalysisRecord{}, err
	}

	record := entity.AnalysisRecord{
		ConversationID:  req.ConversationID,
		ConversationAt:  conversationTimestamp(conversationDate),
		DurationSeconds: req.DurationSeconds,
		Results:         results,
		Outcome:         outcome,
	}

	client, err := s.repo.NewClient(false)
	if err != nil {
		return entity.AnalysisRecord{}, err
	}

	stored, err := client.Analyses.UpsertAnalysis(ctx, record)
	if err != nil {
		return entity.AnalysisRecord{}, err
	}

	s.persistReservations(ctx, client, stored)

	if err := s.statusStore.SetAnalysisStatus(ctx, req.ConversationID, redis.StatusComplete, statusTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":      requestID,
			"conversation_id": req.ConversationID,
		}).Warn("Failed to flag analysis as complete")
	}

	s.eventHub.PublishAnalysisComplete(stored.ConversationID, stored.Outcome)
	s.notifyReservations(ctx, stored)

	s.log.WithFields(logrus.Fields{
		"request_id":      requestID,
		"conversation_id": stored.ConversationID,
		"outcome":         stored.Outcome,
		"results":         len(stored.Results),
	}).Info("Conversation analysis stored")

	return stored, nil
}

// analyzeSample memoizes per sample ID: the completion call runs once per
// process lifetime and the record never reaches the database.
func (s *analysisService) analyzeSample(ctx context.Context, sampleID string) (entity.AnalysisRecord, error) {
	sample, ok := s.samples[sampleID]
	if !ok {
		return entity.AnalysisRecord{}, analysis.ErrSampleNotFound
	}

	return s.cache.GetOrCompute(sampleID, func() (entity.AnalysisRecord, error) {
		results, outcome, err := s.runExtraction(ctx, sample.Transcript, sample.ConversationDate)
		if err != nil {
			return entity.AnalysisRecord{}, err
		}

		now := time.Now()
		return entity.AnalysisRecord{
			ConversationID:  sample.ID,
			ConversationAt:  sample.OccurredAt,
			DurationSeconds: sample.DurationSeconds,
			Results:         results,
			Outcome:         outcome,
			CreatedAt:       now,
			UpdatedAt:       now,
		}, nil
	})
}

func (s *analysisService) runExtraction(ctx context.Context, transcript []analysis.TranscriptTurn, conversationDate string) ([]entity.ExtractionResult, string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	raw, err := s.extractor.ExtractIntent(ctx, flattenTranscript(transcript), conversationDate)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Extraction call failed")
		return nil, "", mapExtractionErr(err)
	}

	results, err := nlp.Normalize(raw, s.catalog, conversationDate)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Extraction payload failed normalization")
		return nil, "", analysis.ErrExtractionFormat
	}

	return results, nlp.DeriveOutcome(results), nil
}

// persistReservations mirrors reservation results into the reservation
// book. The conversation's old mirror rows go first, so a re-analysis that
// retracted its reservation also removes the booking instead of leaving it
// behind. Best effort: the analysis record is already stored.
func (s *analysisService) persistReservations(ctx context.Context, client analysisRepository.Client, record entity.AnalysisRecord) {
	requestID := contextPkg.GetRequestID(ctx)

	if err := client.Reservations.DeleteReservationsByConversation(ctx, record.ConversationID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":      requestID,
			"conversation_id": record.ConversationID,
			"error":           err.Error(),
		}).Error("Failed to clear old reservation mirror rows")
		return
	}

	for _, result := range record.Results {
		if result.Type != entity.ResultTypeReservation || result.Reservation == nil {
			continue
		}

		id, err := s.utils.NewULIDFromTimestamp(time.Now())
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to generate reservation ID")
			continue
		}

		reservation := entity.Reservation{
			ID:             id,
			ConversationID: record.ConversationID,
			Date:           result.Reservation.Date,
			Time:           result.Reservation.Time,
			PartySize:      result.Reservation.PartySize,
			CustomerName:   result.Reservation.CustomerName,
			Contact:        result.Reservation.Contact,
			Notes:          result.Reservation.Notes,
		}

		if err := client.Reservations.UpsertReservation(ctx, reservation); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":      requestID,
				"conversation_id": record.ConversationID,
				"error":           err.Error(),
			}).Error("Failed to mirror reservation into reservation book")
		}
	}
}

func (s *analysisService) notifyReservations(ctx context.Context, record entity.AnalysisRecord) {
	if s.notifier == nil {
		return
	}

	requestID := contextPkg.GetRequestID(ctx)
	for _, result := range record.Results {
		if result.Type != entity.ResultTypeReservation || result.Reservation == nil {
			continue
		}

		if err := s.notifier.NotifyReservation(ctx, record.ConversationID, *result.Reservation); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id":      requestID,
				"conversation_id": record.ConversationID,
				"error":           err.Error(),
			}).Warn("Failed to notify owner about reservation")
		}
	}
}

func (s *analysisService) GetAnalysis(ctx context.Context, conversationID string) (entity.AnalysisRecord, error) {
	client, err := s.repo.NewClient(false)
	if err != nil {
		return entity.AnalysisRecord{}, err
	}

	return client.Analyses.GetAnalysis(ctx, conversationID)
}

// GetAnalysisStatus prefers the live flag; when it already expired, a
// stored record still answers "complete".
func (s *analysisService) GetAnalysisStatus(ctx context.Context, conversationID string) (analysis.StatusResponse, error) {
	status, err := s.statusStore.GetAnalysisStatus(ctx, conversationID)
	if err == nil {
		return analysis.StatusResponse{ConversationID: conversationID, Status: status}, nil
	}

	if !redis.IsMissing(err) {
		s.log.WithFields(logrus.Fields{
			"request_id":      contextPkg.GetRequestID(ctx),
			"conversation_id": conversationID,
			"error":           err.Error(),
		}).Warn("Status store unavailable, falling back to analysis store")
	}

	if _, err := s.GetAnalysis(ctx, conversationID); err != nil {
		return analysis.StatusResponse{}, err
	}

	return analysis.StatusResponse{ConversationID: conversationID, Status: redis.StatusComplete}, nil
}

func mapExtractionErr(err error) error {
	if errors.Is(err, chatGPT.ErrEmptyCompletion) || errors.Is(err, gemini.ErrEmptyCompletion) {
		return analysis.ErrExtractionFormat
	}
	return analysis.ErrExtractionTransport
}

func flattenTranscript(turns []analysis.TranscriptTurn) string {
	var sb strings.Builder
	for _, turn := range turns {
		sb.WriteString(fmt.Sprintf("%s: %s\n", turn.Speaker, turn.Text))
	}
	return sb.String()
}

func conversationTimestamp(conversationDate string) time.Time {
	t, err := time.Parse("2006-01-02", conversationDate)
	if err != nil {
		return time.Now()
	}
	return t
}
