package store

import (
	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
)

// SellerGroup is one seller's slice of the checkout: the eligible bag
// items and their subtotal in cents.
type SellerGroup struct {
	SellerID      string   `json:"seller_id"`
	BagIDs        []string `json:"bag_ids"`
	Items         []*Item  `json:"items"`
	SubtotalCents int64    `json:"subtotal_cents"`
}

// CartSnapshot is the read model the checkout runs against: every
// selected, not-yet-ordered bag grouped by seller, plus flattened lines
// and the grand total.
type CartSnapshot struct {
	CartID     string         `json:"cart_id"`
	Groups     []*SellerGroup `json:"groups"`
	TotalCents int64          `json:"total_cents"`
}

// BuildSnapshot groups eligible bags by seller. Group order follows the
// first appearance of each seller so checkout output is deterministic.
func BuildSnapshot(cartID string, bags []*Bag) (*CartSnapshot, error) {
	snapshot := &CartSnapshot{CartID: cartID}
	groupsBySeller := make(map[string]*SellerGroup)

	for _, bag := range bags {
		if !bag.EligibleForCheckout() {
			continue
		}

		group, ok := groupsBySeller[bag.SellerID]
		if !ok {
			group = &SellerGroup{SellerID: bag.SellerID}
			groupsBySeller[bag.SellerID] = group
			snapshot.Groups = append(snapshot.Groups, group)
		}

		group.BagIDs = append(group.BagIDs, bag.ID)
		for _, item := range bag.Items {
			lineTotal, err := item.LineTotalCents()
			if err != nil {
				return nil, err
			}
			group.Items = append(group.Items, item)
			group.SubtotalCents += lineTotal
			snapshot.TotalCents += lineTotal
		}
	}

	if len(snapshot.Groups) == 0 {
		return nil, domainErrors.ErrNoEligibleItems
	}

	return snapshot, nil
}

// Lines flattens every group's items in group order, one catalog line per
// item, ready to hand to the payment gateway.
func (s *CartSnapshot) Lines() []*Item {
	var lines []*Item
	for _, group := range s.Groups {
		lines = append(lines, group.Items...)
	}
	return lines
}
