package store

import (
	"time"
)

type Product struct {
	ID        string
	SellerID  string
	Title     string
	ImageURL  string
	UnitPrice string
	Stock     int
	CreatedAt time.Time
}

func (p *Product) InStock(quantity int) bool {
	return p.Stock >= quantity
}
