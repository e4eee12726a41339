package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID         int64           `json:"id"`
	SerialNo   string          `json:"serialNo"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	CategoryID int64           `json:"categoryId"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ListQuery drives cursor-based product pagination. Cursor is the last seen
// product id; zero means start from the beginning.
type ListQuery struct {
	Take       int
	Cursor     int64
	CategoryID int64
	Name       string
	SerialNo   string
}
