package analysisService

import (
	"TrattoriaGolang/internal/api/analysis"
	analysisRepository "TrattoriaGolang/internal/api/analysis/repository"
	"TrattoriaGolang/internal/entity"
	contextPkg "TrattoriaGolang/pkg/context"
	"TrattoriaGolang/pkg/menu"
	"context"
	"sort"

	"github.com/sirupsen/logrus"
)

// AnalysisSource feeds the aggregate views. Durable analyses and memoized
// samples implement the same contract so the aggregation code never knows
// where a record lives.
type AnalysisSource interface {
	ListAll(ctx context.Context) ([]entity.AnalysisRecord, error)
}

type durableSource struct {
	repo analysisRepository.Repository
}

func (d *durableSource) ListAll(ctx context.Context) ([]entity.AnalysisRecord, error) {
	client, err := d.repo.NewClient(false)
	if err != nil {
		return nil, err
	}
	return client.Analyses.ListAnalyses(ctx)
}

// sampleSource computes missing sample analyses on demand; a sample whose
// extraction fails is skipped so one bad completion cannot blank the whole
// dashboard.
type sampleSource struct {
	svc *analysisService
}

func (s *sampleSource) ListAll(ctx context.Context) ([]entity.AnalysisRecord, error) {
	records := make([]entity.AnalysisRecord, 0, len(s.svc.sampleIDs))
	for _, id := range s.svc.sampleIDs {
		record, err := s.svc.analyzeSample(ctx, id)
		if err != nil {
			s.svc.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"sample_id":  id,
				"error":      err.Error(),
			}).Warn("Skipping sample in aggregation")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *analysisService) sources() []AnalysisSource {
	return []AnalysisSource{
		&durableSource{repo: s.repo},
		&sampleSource{svc: s},
	}
}

type productAgg struct {
	display       string
	totalQuantity int
	seen          map[string]bool
	conversations []analysis.ConversationRef
}

func (s *analysisService) ProductSummaries(ctx context.Context) ([]analysis.ProductSummary, error) {
	byKey := make(map[string]*productAgg)

	for _, source := range s.sources() {
		records, err := source.ListAll(ctx)
		if err != nil {
			return nil, err
		}

		for _, record := range records {
			for _, result := range record.Results {
				if result.Type != entity.ResultTypeOrder || result.Order == nil {
					continue
				}

				for _, li := range result.Order.LineItems {
					key := menu.MergeKey(li.Name)
					agg, ok := byKey[key]
					if !ok {
						agg = &productAgg{
							display: s.displayName(li.Name),
							seen:    make(map[string]bool),
						}
						byKey[key] = agg
					}

					agg.totalQuantity += li.Quantity
					if !agg.seen[record.ConversationID] {
						agg.seen[record.ConversationID] = true
						agg.conversations = append(agg.conversations, analysis.ConversationRef{
							ConversationID:  record.ConversationID,
							Timestamp:       record.ConversationAt,
							DurationSeconds: record.DurationSeconds,
						})
					}
				}
			}
		}
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	summaries := make([]analysis.ProductSummary, 0, len(keys))
	for _, key := range keys {
		agg := byKey[key]
		sort.Slice(agg.conversations, func(i, j int) bool {
			if agg.conversations[i].Timestamp.Equal(agg.conversations[j].Timestamp) {
				return agg.conversations[i].ConversationID < agg.conversations[j].ConversationID
			}
			return agg.conversations[i].Timestamp.Before(agg.conversations[j].Timestamp)
		})

		summaries = append(summaries, analysis.ProductSummary{
			Product:       agg.display,
			TotalQuantity: agg.totalQuantity,
			Conversations: agg.conversations,
		})
	}

	return summaries, nil
}

// displayName canonicalizes to the current catalog spelling; rows written
// under a spelling that has since left the menu keep their stored name.
func (s *analysisService) displayName(name string) string {
	if item, ok := s.catalog.Lookup(name); ok {
		return item.Name
	}
	return name
}

// ReservationsByDay merges the durable reservation book with reservation
// results from memoized samples, grouped by resolved calendar day. Every
// day ever booked stays in the view; pruning is the dashboard's call.
func (s *analysisService) ReservationsByDay(ctx context.Context) ([]analysis.ReservationDay, error) {
	byDay := make(map[string][]analysis.ReservationEntry)

	client, err := s.repo.NewClient(false)
	if err != nil {
		return nil, err
	}

	reservations, err := client.Reservations.ListReservations(ctx)
	if err != nil {
		return nil, err
	}

	for _, r := range reservations {
		byDay[r.Date] = append(byDay[r.Date], analysis.ReservationEntry{
			Origin:         "durable",
			ConversationID: r.ConversationID,
			Time:           r.Time,
			PartySize:      r.PartySize,
			CustomerName:   r.CustomerName,
			Contact:        r.Contact,
			Notes:          r.Notes,
		})
	}

	sampleRecords, err := (&sampleSource{svc: s}).ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, record := range sampleRecords {
		for _, result := range record.Results {
			if result.Type != entity.ResultTypeReservation || result.Reservation == nil {
				continue
			}

			byDay[result.Reservation.Date] = append(byDay[result.Reservation.Date], analysis.ReservationEntry{
				Origin:         "sample",
				ConversationID: record.ConversationID,
				Time:           result.Reservation.Time,
				PartySize:      result.Reservation.PartySize,
				CustomerName:   result.Reservation.CustomerName,
				Contact:        result.Reservation.Contact,
				Notes:          result.Reservation.Notes,
			})
		}
	}

	dates := make([]string, 0, len(byDay))
	for date := range byDay {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	days := make([]analysis.ReservationDay, 0, len(dates))
	for _, date := range dates {
		entries := byDay[date]
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Time == entries[j].Time {
				return entries[i].ConversationID < entries[j].ConversationID
			}
			return entries[i].Time < entries[j].Time
		})

		days = append(days, analysis.ReservationDay{
			Date:    date,
			Count:   len(entries),
			Entries: entries,
		})
	}

	return days, nil
}
