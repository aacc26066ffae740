package store

import (
	"time"

	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
)

type Cart struct {
	ID        string
	BuyerID   string
	Bags      []*Bag
	CreatedAt time.Time
}

// Bag groups a buyer's cart line items by seller. Selected marks the bag
// for the current checkout; CheckedOut marks it as already ordered.
type Bag struct {
	ID         string
	CartID     string
	SellerID   string
	Selected   bool
	CheckedOut bool
	Items      []*Item
	CreatedAt  time.Time
}

type Item struct {
	ID        string
	BagID     string
	ProductID string
	Title     string
	ImageURL  string
	UnitPrice string
	ItemCount int
	CreatedAt time.Time
}

// QuantityBounds carries the configured min/max line item count.
type QuantityBounds struct {
	Min int
	Max int
}

func DefaultQuantityBounds() QuantityBounds {
	return QuantityBounds{Min: 1, Max: 10}
}

func (b QuantityBounds) Validate(count int) error {
	if count < b.Min || count > b.Max {
		return domainErrors.ErrItemCountOutOfRange
	}
	return nil
}

// EligibleForCheckout holds while the bag is selected and not yet ordered.
func (b *Bag) EligibleForCheckout() bool {
	return b.Selected && !b.CheckedOut
}

func (b *Bag) MarkCheckedOut() {
	b.CheckedOut = true
	b.Selected = false
}

func (c *Cart) EligibleBags() []*Bag {
	var eligible []*Bag
	for _, bag := range c.Bags {
		if bag.EligibleForCheckout() {
			eligible = append(eligible, bag)
		}
	}
	return eligible
}

func (i *Item) LineTotalCents() (int64, error) {
	unit, err := ToCents(i.UnitPrice)
	if err != nil {
		return 0, err
	}
	return unit * int64(i.ItemCount), nil
}
