package menu

import (
	"TrattoriaGolang/internal/entity"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Catalog is the canonical list of sellable items. It is loaded once at
// startup and never mutated afterwards; lookups are case-sensitive against
// the exact catalog spelling.
type Catalog struct {
	items []entity.CatalogItem
	index map[string]entity.CatalogItem
}

func defaultItems() []entity.CatalogItem {
	return []entity.CatalogItem{
		{Name: "Margherita", UnitPrice: 9.50},
		{Name: "Marinara", UnitPrice: 8.00},
		{Name: "Quattro Formaggi", UnitPrice: 12.50},
		{Name: "Diavola", UnitPrice: 11.00},
		{Name: "Capricciosa", UnitPrice: 12.00},
		{Name: "Prosciutto e Funghi", UnitPrice: 11.50},
		{Name: "Calzone", UnitPrice: 10.50},
		{Name: "Insalata Mista", UnitPrice: 6.00},
		{Name: "Tiramisu", UnitPrice: 5.50},
		{Name: "Sprite", UnitPrice: 2.50},
		{Name: "Coca-Cola", UnitPrice: 2.50},
		{Name: "Acqua Naturale", UnitPrice: 1.50},
	}
}

// New builds the catalog from the MENU_FILE JSON override when set,
// otherwise from the built-in menu.
func New() (*Catalog, error) {
	items := defaultItems()

	if menuFile := os.Getenv("MENU_FILE"); menuFile != "" {
		data, err := os.ReadFile(menuFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read menu file: %w", err)
		}

		var fileItems []entity.CatalogItem
		if err := jsoniter.Unmarshal(data, &fileItems); err != nil {
			return nil, fmt.Errorf("failed to parse menu file: %w", err)
		}
		if len(fileItems) == 0 {
			return nil, fmt.Errorf("menu file %s contains no items", menuFile)
		}
		items = fileItems
	}

	return FromItems(items), nil
}

func FromItems(items []entity.CatalogItem) *Catalog {
	index := make(map[string]entity.CatalogItem, len(items))
	for _, item := range items {
		index[item.Name] = item
	}

	return &Catalog{
		items: items,
		index: index,
	}
}

func (c *Catalog) Items() []entity.CatalogItem {
	out := make([]entity.CatalogItem, len(c.items))
	copy(out, c.items)
	return out
}

// Lookup matches the exact catalog spelling, including case.
func (c *Catalog) Lookup(name string) (entity.CatalogItem, bool) {
	item, ok := c.index[name]
	return item, ok
}

// MergeKey folds a catalog name for aggregation so that rows written with
// historic spellings of the same product collapse into one bucket.
func MergeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
