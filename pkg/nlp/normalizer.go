package nlp

import (
	"TrattoriaGolang/internal/entity"
	"TrattoriaGolang/pkg/menu"
	"errors"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var ErrMalformedPayload = errors.New("extraction payload is not valid JSON")

const (
	minPartySize = 1
	maxPartySize = 20
	maxResults   = 2
)

type rawLineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type rawResult struct {
	Type         string        `json:"type"`
	LineItems    []rawLineItem `json:"line_items"`
	Fulfillment  string        `json:"fulfillment"`
	CustomerName string        `json:"customer_name"`
	Contact      string        `json:"contact"`
	Date         string        `json:"date"`
	Time         string        `json:"time"`
	PartySize    int           `json:"party_size"`
	Notes        string        `json:"notes"`
}

// Normalize turns a raw completion payload into validated extraction
// results. It is a pure function: the same payload, catalog and
// conversation date always produce the same results.
//
// Validation never fails the whole payload. Line items that are not spelled
// exactly like a catalog entry are dropped silently; an order with a
// non-positive quantity or a reservation with an out-of-range party size
// collapses to a no_intent result, leaving sibling results untouched.
func Normalize(raw string, catalog *menu.Catalog, conversationDate string) ([]entity.ExtractionResult, error) {
	rawResults, err := parsePayload(raw)
	if err != nil {
		return nil, err
	}

	if len(rawResults) > maxResults {
		rawResults = rawResults[:maxResults]
	}

	results := make([]entity.ExtractionResult, 0, len(rawResults))
	for _, rr := range rawResults {
		results = append(results, normalizeOne(rr, catalog, conversationDate))
	}

	if len(results) == 0 {
		results = append(results, entity.ExtractionResult{Type: entity.ResultTypeNoIntent})
	}

	return results, nil
}

type rawEnvelope struct {
	Results []rawResult `json:"results"`
}

// parsePayload accepts the prompted {"results":[...]} envelope, a bare JSON
// array of results, or a bare result object. JSON-object completion mode
// cannot emit a top-level array, and models flip between the other shapes;
// all three are fine.
func parsePayload(raw string) ([]rawResult, error) {
	trimmed := stripCodeFence(raw)

	var list []rawResult
	if err := jsoniter.UnmarshalFromString(trimmed, &list); err == nil {
		return list, nil
	}

	var envelope rawEnvelope
	if err := jsoniter.UnmarshalFromString(trimmed, &envelope); err == nil && envelope.Results != nil {
		return envelope.Results, nil
	}

	var single rawResult
	if err := jsoniter.UnmarshalFromString(trimmed, &single); err == nil {
		return []rawResult{single}, nil
	}

	return nil, ErrMalformedPayload
}

func stripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func normalizeOne(rr rawResult, catalog *menu.Catalog, conversationDate string) entity.ExtractionResult {
	switch rr.Type {
	case string(entity.ResultTypeOrder):
		return normalizeOrder(rr, catalog)
	case string(entity.ResultTypeReservation):
		return normalizeReservation(rr, conversationDate)
	default:
		return entity.ExtractionResult{Type: entity.ResultTypeNoIntent}
	}
}

func normalizeOrder(rr rawResult, catalog *menu.Catalog) entity.ExtractionResult {
	lineItems := make([]entity.OrderLineItem, 0, len(rr.LineItems))
	for _, li := range rr.LineItems {
		item, ok := catalog.Lookup(li.Name)
		if !ok {
			continue
		}

		if li.Quantity < 1 {
			return entity.ExtractionResult{Type: entity.ResultTypeNoIntent}
		}

		lineItems = append(lineItems, entity.OrderLineItem{
			Name:     item.Name,
			Quantity: li.Quantity,
		})
	}

	return entity.ExtractionResult{
		Type: entity.ResultTypeOrder,
		Order: &entity.OrderResult{
			LineItems:    lineItems,
			Fulfillment:  clearSentinel(rr.Fulfillment),
			CustomerName: clearSentinel(rr.CustomerName),
			Contact:      clearSentinel(rr.Contact),
		},
	}
}

func normalizeReservation(rr rawResult, conversationDate string) entity.ExtractionResult {
	if rr.PartySize < minPartySize || rr.PartySize > maxPartySize {
		return entity.ExtractionResult{Type: entity.ResultTypeNoIntent}
	}

	// The date fallback is unconditional: a caller who never named a day
	// means the day of the call.
	date := rr.Date
	if date == "" || date == NotProvided {
		date = conversationDate
	}

	return entity.ExtractionResult{
		Type: entity.ResultTypeReservation,
		Reservation: &entity.ReservationResult{
			Date:         date,
			Time:         clearSentinel(rr.Time),
			PartySize:    rr.PartySize,
			CustomerName: clearSentinel(rr.CustomerName),
			Contact:      clearSentinel(rr.Contact),
			Notes:        clearSentinel(rr.Notes),
		},
	}
}

func clearSentinel(value string) string {
	if value == NotProvided {
		return ""
	}
	return value
}

// DeriveOutcome classifies a conversation by its strongest signal: an order
// with at least one surviving line item wins over a reservation, a
// reservation wins over nothing.
func DeriveOutcome(results []entity.ExtractionResult) string {
	hasReservation := false
	for _, r := range results {
		switch r.Type {
		case entity.ResultTypeOrder:
			if r.Order != nil && len(r.Order.LineItems) > 0 {
				return entity.OutcomeCompletedOrder
			}
		case entity.ResultTypeReservation:
			hasReservation = true
		}
	}

	if hasReservation {
		return entity.OutcomeCompletedReservation
	}
	return entity.OutcomeInformationOnly
}
