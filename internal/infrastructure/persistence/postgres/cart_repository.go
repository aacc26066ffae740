package postgres

import (
	"context"
	"database/sql"

	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
	"github.com/andrusov/storefront-service/internal/domain/store"
	"github.com/andrusov/storefront-service/internal/infrastructure/monitoring"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(conn *Connection) *CartRepository {
	return &CartRepository{
		db: conn.GetDB(),
	}
}

func (r *CartRepository) GetCartIDByBuyer(ctx context.Context, buyerID string) (string, error) {
	query := `
		SELECT id
		FROM carts
		WHERE buyer_id = $1
	`

	var cartID string
	row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "carts", query, buyerID)
	err := row.Scan(&cartID)

	if err == nil {
		return cartID, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	var exists bool
	buyerQuery := `SELECT EXISTS (SELECT 1 FROM buyers WHERE id = $1)`
	row = monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "buyers", buyerQuery, buyerID)
	if err := row.Scan(&exists); err != nil {
		return "", err
	}
	if !exists {
		return "", domainErrors.ErrBuyerNotFound
	}

	return "", domainErrors.ErrCartNotFound
}

func (r *CartRepository) GetCart(ctx context.Context, cartID string) (*store.Cart, error) {
	query := `
		SELECT id, buyer_id, created_at
		FROM carts
		WHERE id = $1
	`

	var cart store.Cart
	row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "carts", query, cartID)
	if err := row.Scan(&cart.ID, &cart.BuyerID, &cart.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domainErrors.ErrCartNotFound
		}
		return nil, err
	}

	bags, err := r.loadBags(ctx, cartID, false)
	if err != nil {
		return nil, err
	}
	cart.Bags = bags

	return &cart, nil
}

func (r *CartRepository) GetEligibleBags(ctx context.Context, cartID string) ([]*store.Bag, error) {
	return r.loadBags(ctx, cartID, true)
}

func (r *CartRepository) loadBags(ctx context.Context, cartID string, eligibleOnly bool) ([]*store.Bag, error) {
	bagQuery := `
		SELECT id, cart_id, seller_id, selected, checked_out, created_at
		FROM bags
		WHERE cart_id = $1
		ORDER BY created_at
	`
	if eligibleOnly {
		bagQuery = `
			SELECT id, cart_id, seller_id, selected, checked_out, created_at
			FROM bags
			WHERE cart_id = $1 AND selected = TRUE AND checked_out = FALSE
			ORDER BY created_at
		`
	}

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "bags", bagQuery, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bags []*store.Bag
	bagsByID := make(map[string]*store.Bag)
	for rows.Next() {
		var bag store.Bag
		if err := rows.Scan(&bag.ID, &bag.CartID, &bag.SellerID, &bag.Selected, &bag.CheckedOut, &bag.CreatedAt); err != nil {
			return nil, err
		}
		bags = append(bags, &bag)
		bagsByID[bag.ID] = &bag
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(bags) == 0 {
		return bags, nil
	}

	itemQuery := `
		SELECT i.id, i.bag_id, i.product_id, i.title, i.image_url, i.unit_price, i.item_count, i.created_at
		FROM bag_items i
		JOIN bags b ON i.bag_id = b.id
		WHERE b.cart_id = $1
		ORDER BY i.created_at
	`

	itemRows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "bag_items", itemQuery, cartID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item store.Item
		if err := itemRows.Scan(&item.ID, &item.BagID, &item.ProductID, &item.Title, &item.ImageURL, &item.UnitPrice, &item.ItemCount, &item.CreatedAt); err != nil {
			return nil, err
		}
		if bag, ok := bagsByID[item.BagID]; ok {
			bag.Items = append(bag.Items, &item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	return bags, nil
}

func (r *CartRepository) UpdateItemCount(ctx context.Context, itemID string, count int) error {
	query := `
		UPDATE bag_items
		SET item_count = $2
		WHERE id = $1
	`

	result, err := monitoring.InstrumentExec(ctx, r.db, "UPDATE", "bag_items", query, itemID, count)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domainErrors.ErrItemNotFound
	}

	return nil
}

func (r *CartRepository) SetBagSelected(ctx context.Context, bagID string, selected bool) error {
	query := `
		UPDATE bags
		SET selected = $2
		WHERE id = $1 AND checked_out = FALSE
	`

	result, err := monitoring.InstrumentExec(ctx, r.db, "UPDATE", "bags", query, bagID, selected)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domainErrors.ErrBagNotFound
	}

	return nil
}
