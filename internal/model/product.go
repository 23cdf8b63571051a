package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices render as JSON numbers rather than quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents an item in the catalogue. Products are immutable once seeded;
// Stock is informational and is never decremented by orders.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Category    string          `json:"category" db:"category"`
	ImageURL    string          `json:"imageUrl" db:"image_url"`
	Stock       int             `json:"stock" db:"stock"`
	Rating      float64         `json:"rating" db:"rating"`
	Reviews     int             `json:"reviews" db:"reviews"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}
