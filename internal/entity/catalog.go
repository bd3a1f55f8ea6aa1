package entity

type CatalogItem struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
}
