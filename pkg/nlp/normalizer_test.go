package nlp

import (
	"TrattoriaGolang/internal/entity"
	"TrattoriaGolang/pkg/menu"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func createTestCatalog() *menu.Catalog {
	return menu.FromItems([]entity.CatalogItem{
		{Name: "Margherita", UnitPrice: 9.50},
		{Name: "Diavola", UnitPrice: 11.00},
		{Name: "Calzone", UnitPrice: 10.50},
		{Name: "Tiramisu", UnitPrice: 5.50},
	})
}

func TestNormalize_OrderCatalogFilter(t *testing.T) {
	catalog := createTestCatalog()

	tests := []struct {
		name      string
		raw       string
		wantItems []entity.OrderLineItem
	}{
		{
			name: "unknown item dropped silently",
			raw:  `[{"type":"order","line_items":[{"name":"Margherita","quantity":2},{"name":"Hawaiian","quantity":1}]}]`,
			wantItems: []entity.OrderLineItem{
				{Name: "Margherita", Quantity: 2},
			},
		},
		{
			name:      "case mismatch is not a match",
			raw:       `[{"type":"order","line_items":[{"name":"margherita","quantity":2}]}]`,
			wantItems: []entity.OrderLineItem{},
		},
		{
			name:      "all items unknown keeps empty order",
			raw:       `[{"type":"order","line_items":[{"name":"Hawaiian","quantity":1},{"name":"Pepperoni","quantity":2}]}]`,
			wantItems: []entity.OrderLineItem{},
		},
		{
			name: "multiple known items survive",
			raw:  `[{"type":"order","line_items":[{"name":"Calzone","quantity":1},{"name":"Tiramisu","quantity":3}]}]`,
			wantItems: []entity.OrderLineItem{
				{Name: "Calzone", Quantity: 1},
				{Name: "Tiramisu", Quantity: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Normalize(tt.raw, catalog, "2025-06-12")

			assert.NoError(t, err)
			assert.Len(t, results, 1)
			assert.Equal(t, entity.ResultTypeOrder, results[0].Type)
			assert.NotNil(t, results[0].Order)
			assert.Equal(t, tt.wantItems, results[0].Order.LineItems)
		})
	}
}

func TestNormalize_OrderQuantityDowngrade(t *testing.T) {
	catalog := createTestCatalog()

	raw := `[{"type":"order","line_items":[{"name":"Margherita","quantity":0}]}]`
	results, err := Normalize(raw, catalog, "2025-06-12")

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, entity.ResultTypeNoIntent, results[0].Type)
	assert.Nil(t, results[0].Order)
}

func TestNormalize_OrderDowngradeLeavesSiblingIntact(t *testing.T) {
	catalog := createTestCatalog()

	raw := `[
		{"type":"order","line_items":[{"name":"Margherita","quantity":-1}]},
		{"type":"reservation","date":"2025-06-20","time":"20:00","party_size":2}
	]`
	results, err := Normalize(raw, catalog, "2025-06-12")

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, entity.ResultTypeNoIntent, results[0].Type)
	assert.Equal(t, entity.ResultTypeReservation, results[1].Type)
	assert.Equal(t, "2025-06-20", results[1].Reservation.Date)
	assert.Equal(t, 2, results[1].Reservation.PartySize)
}

func TestNormalize_ReservationDateFallback(t *testing.T) {
	catalog := createTestCatalog()

	tests := []struct {
		name     string
		raw      string
		wantDate string
	}{
		{
			name:     "sentinel date falls back to conversation date",
			raw:      `[{"type":"reservation","date":"not_provided","party_size":4}]`,
			wantDate: "2025-06-12",
		},
		{
			name:     "empty date falls back to conversation date",
			raw:      `[{"type":"reservation","date":"","party_size":4}]`,
			wantDate: "2025-06-12",
		},
		{
			name:     "explicit date kept verbatim",
			raw:      `[{"type":"reservation","date":"2025-07-01","party_size":4}]`,
			wantDate: "2025-07-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Normalize(tt.raw, catalog, "2025-06-12")

			assert.NoError(t, err)
			assert.Len(t, results, 1)
			assert.Equal(t, entity.ResultTypeReservation, results[0].Type)
			assert.Equal(t, tt.wantDate, results[0].Reservation.Date)
		})
	}
}

func TestNormalize_PartySizeRange(t *testing.T) {
	catalog := createTestCatalog()

	tests := []struct {
		name      string
		partySize int
		wantType  entity.ResultType
	}{
		{name: "zero downgrades", partySize: 0, wantType: entity.ResultTypeNoIntent},
		{name: "lower bound kept", partySize: 1, wantType: entity.ResultTypeReservation},
		{name: "upper bound kept", partySize: 20, wantType: entity.ResultTypeReservation},
		{name: "above upper bound downgrades", partySize: 21, wantType: entity.ResultTypeNoIntent},
		{name: "negative downgrades", partySize: -3, wantType: entity.ResultTypeNoIntent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `[{"type":"reservation","date":"2025-06-20","party_size":` + strconv.Itoa(tt.partySize) + `}]`
			results, err := Normalize(raw, catalog, "2025-06-12")

			assert.NoError(t, err)
			assert.Len(t, results, 1)
			assert.Equal(t, tt.wantType, results[0].Type)
		})
	}
}

func TestNormalize_SentinelFieldsCleared(t *testing.T) {
	catalog := createTestCatalog()

	raw := `[{"type":"reservation","date":"2025-06-20","time":"not_provided","party_size":4,"customer_name":"not_provided","contact":"not_provided","notes":"window table"}]`
	results, err := Normalize(raw, catalog, "2025-06-12")

	assert.NoError(t, err)
	res := results[0].Reservation
	assert.Equal(t, "", res.Time)
	assert.Equal(t, "", res.CustomerName)
	assert.Equal(t, "", res.Contact)
	assert.Equal(t, "window table", res.Notes)
}

func TestNormalize_PayloadShapes(t *testing.T) {
	catalog := createTestCatalog()

	t.Run("bare object accepted", func(t *testing.T) {
		results, err := Normalize(`{"type":"no_intent"}`, catalog, "2025-06-12")

		assert.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, entity.ResultTypeNoIntent, results[0].Type)
	})

	t.Run("results envelope accepted", func(t *testing.T) {
		raw := `{"results":[{"type":"order","line_items":[{"name":"Margherita","quantity":2}]},{"type":"reservation","date":"2025-06-20","time":"19:30","party_size":4}]}`
		results, err := Normalize(raw, catalog, "2025-06-12")

		assert.NoError(t, err)
		assert.Len(t, results, 2)
		assert.Equal(t, entity.ResultTypeOrder, results[0].Type)
		assert.Equal(t, []entity.OrderLineItem{{Name: "Margherita", Quantity: 2}}, results[0].Order.LineItems)
		assert.Equal(t, entity.ResultTypeReservation, results[1].Type)
		assert.Equal(t, "2025-06-20", results[1].Reservation.Date)
		assert.Equal(t, 4, results[1].Reservation.PartySize)
	})

	t.Run("empty envelope becomes no intent", func(t *testing.T) {
		results, err := Normalize(`{"results":[]}`, catalog, "2025-06-12")

		assert.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, entity.ResultTypeNoIntent, results[0].Type)
	})

	t.Run("fenced payload accepted", func(t *testing.T) {
		raw := "```json\n[{\"type\":\"order\",\"line_items\":[{\"name\":\"Diavola\",\"quantity\":1}]}]\n```"
		results, err := Normalize(raw, catalog, "2025-06-12")

		assert.NoError(t, err)
		assert.Equal(t, entity.ResultTypeOrder, results[0].Type)
		assert.Len(t, results[0].Order.LineItems, 1)
	})

	t.Run("more than two results truncated", func(t *testing.T) {
		raw := `[{"type":"no_intent"},{"type":"no_intent"},{"type":"no_intent"}]`
		results, err := Normalize(raw, catalog, "2025-06-12")

		assert.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("empty array becomes no intent", func(t *testing.T) {
		results, err := Normalize(`[]`, catalog, "2025-06-12")

		assert.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, entity.ResultTypeNoIntent, results[0].Type)
	})

	t.Run("unknown type treated as no intent", func(t *testing.T) {
		results, err := Normalize(`[{"type":"complaint"}]`, catalog, "2025-06-12")

		assert.NoError(t, err)
		assert.Equal(t, entity.ResultTypeNoIntent, results[0].Type)
	})

	t.Run("malformed payload rejected", func(t *testing.T) {
		_, err := Normalize(`the customer ordered two pizzas`, catalog, "2025-06-12")

		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})
}

func TestNormalize_Deterministic(t *testing.T) {
	catalog := createTestCatalog()
	raw := `[{"type":"order","line_items":[{"name":"Margherita","quantity":2},{"name":"Hawaiian","quantity":1}]},{"type":"reservation","date":"not_provided","party_size":6}]`

	first, err := Normalize(raw, catalog, "2025-06-12")
	assert.NoError(t, err)

	second, err := Normalize(raw, catalog, "2025-06-12")
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDeriveOutcome(t *testing.T) {
	tests := []struct {
		name    string
		results []entity.ExtractionResult
		want    string
	}{
		{
			name: "order with items wins",
			results: []entity.ExtractionResult{
				{Type: entity.ResultTypeOrder, Order: &entity.OrderResult{LineItems: []entity.OrderLineItem{{Name: "Margherita", Quantity: 1}}}},
				{Type: entity.ResultTypeReservation, Reservation: &entity.ReservationResult{Date: "2025-06-20", PartySize: 2}},
			},
			want: entity.OutcomeCompletedOrder,
		},
		{
			name: "emptied order falls through to reservation",
			results: []entity.ExtractionResult{
				{Type: entity.ResultTypeOrder, Order: &entity.OrderResult{LineItems: []entity.OrderLineItem{}}},
				{Type: entity.ResultTypeReservation, Reservation: &entity.ReservationResult{Date: "2025-06-20", PartySize: 2}},
			},
			want: entity.OutcomeCompletedReservation,
		},
		{
			name: "no intent only",
			results: []entity.ExtractionResult{
				{Type: entity.ResultTypeNoIntent},
			},
			want: entity.OutcomeInformationOnly,
		},
		{
			name: "emptied order alone is information only",
			results: []entity.ExtractionResult{
				{Type: entity.ResultTypeOrder, Order: &entity.OrderResult{LineItems: []entity.OrderLineItem{}}},
			},
			want: entity.OutcomeInformationOnly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveOutcome(tt.results))
		})
	}
}
