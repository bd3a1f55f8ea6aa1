package nlp

import (
	"TrattoriaGolang/internal/entity"
	"fmt"
	"strings"
)

// NotProvided is the sentinel the completion model must emit for any field
// the caller never stated. Guessing is worse than admitting absence: a wrong
// guess looks exactly like real data downstream.
const NotProvided = "not_provided"

// ExtractionInstruction builds the system instruction for one extraction
// call. The menu and the calendar date of the conversation are embedded so
// the model can ground item names and resolve relative dates.
func ExtractionInstruction(items []entity.CatalogItem, conversationDate string) string {
	var menuList strings.Builder
	for _, item := range items {
		menuList.WriteString(fmt.Sprintf("- %s\n", item.Name))
	}

	return fmt.Sprintf(`You are an order and reservation extractor for a pizzeria phone agent. Analyze the call transcript and extract what the customer actually committed to.

IMPORTANT: Return ONLY valid JSON, nothing else. The output is a single JSON object of the form {"results":[...]} where "results" holds one or two result objects.

Result formats:
{"type":"order","line_items":[{"name":"Margherita","quantity":2}],"fulfillment":"pickup","customer_name":"Anna","contact":"not_provided"}
{"type":"reservation","date":"2025-03-14","time":"19:30","party_size":4,"customer_name":"Marco","contact":"+39055123456","notes":"window table"}
{"type":"no_intent"}

Example output:
{"results":[{"type":"order","line_items":[{"name":"Margherita","quantity":2}],"fulfillment":"pickup","customer_name":"Anna","contact":"not_provided"}]}

Rules:
- Extract ONLY items the customer explicitly confirmed. Items that were discussed, asked about, or declined are NOT part of the order.
- Item names must be spelled exactly as they appear in the menu below. Never invent items.
- The conversation took place on %s. Resolve relative dates like "tomorrow" or "Friday" against that date and output them as YYYY-MM-DD.
- When the customer never stated a value, use the string "not_provided" for text fields and 0 for party_size. Never guess.
- A call can produce at most one order and at most one reservation. A call with neither produces a single no_intent result in "results".
- fulfillment is "pickup" or "delivery".
- time is 24-hour HH:MM.

Menu:
%s`, conversationDate, menuList.String())
}
