package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/andrusov/storefront-service/internal/application/ports"
	domainErrors "github.com/andrusov/storefront-service/internal/domain/errors"
	"github.com/andrusov/storefront-service/internal/domain/store"
	"github.com/andrusov/storefront-service/internal/infrastructure/monitoring"
)

// OrderRepository persists payments, orders and their stock effects.
// BeginTx returns a transactional view; the checkout and reconcile
// sequences always run against one.
type OrderRepository struct {
	db   *sql.DB
	tx   *sql.Tx
	isTx bool
}

func NewOrderRepository(conn *Connection) *OrderRepository {
	return &OrderRepository{
		db:   conn.GetDB(),
		isTx: false,
	}
}

func (r *OrderRepository) CreatePayment(ctx context.Context, payment *store.Payment) error {
	query := `
		INSERT INTO payments (id, ref_id, status, created_at)
		VALUES ($1, $2, $3, $4)
	`

	var err error

	if r.isTx {
		_, err = r.tx.ExecContext(ctx, query,
			payment.ID, payment.RefID, payment.Status, payment.CreatedAt,
		)
	} else {
		_, err = monitoring.InstrumentExec(ctx, r.db, "INSERT", "payments", query,
			payment.ID, payment.RefID, payment.Status, payment.CreatedAt,
		)
	}

	return err
}

func (r *OrderRepository) GetPaymentByRef(ctx context.Context, refID string) (*store.Payment, error) {
	query := `
		SELECT id, ref_id, status, created_at
		FROM payments
		WHERE ref_id = $1
	`

	var payment store.Payment
	var err error

	if r.isTx {
		err = r.tx.QueryRowContext(ctx, query, refID).Scan(
			&payment.ID, &payment.RefID, &payment.Status, &payment.CreatedAt,
		)
	} else {
		row := monitoring.InstrumentQueryRow(ctx, r.db, "SELECT", "payments", query, refID)
		err = row.Scan(&payment.ID, &payment.RefID, &payment.Status, &payment.CreatedAt)
	}

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domainErrors.ErrPaymentNotFound
		}
		return nil, err
	}

	return &payment, nil
}

func (r *OrderRepository) GetPendingPaymentRefs(ctx context.Context, olderThan time.Time, limit int) ([]string, error) {
	query := `
		SELECT ref_id
		FROM payments
		WHERE status = 'PENDING' AND created_at < $1
		ORDER BY created_at
		LIMIT $2
	`

	var rows *sql.Rows
	var err error

	if r.isTx {
		rows, err = r.tx.QueryContext(ctx, query, olderThan, limit)
	} else {
		rows, err = monitoring.InstrumentQuery(ctx, r.db, "SELECT", "payments", query, olderThan, limit)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}

	return refs, rows.Err()
}

// SettlePayment performs the conditional PENDING to SUCCESS flip. A false
// return means another caller already settled this payment; the caller
// must skip the stock decrements.
func (r *OrderRepository) SettlePayment(ctx context.Context, paymentID string) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'SUCCESS'
		WHERE id = $1 AND status = 'PENDING'
	`

	var result sql.Result
	var err error

	if r.isTx {
		result, err = r.tx.ExecContext(ctx, query, paymentID)
	} else {
		result, err = monitoring.InstrumentExec(ctx, r.db, "UPDATE", "payments", query, paymentID)
	}

	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	settled := rowsAffected > 0
	if settled {
		monitoring.RecordPaymentSettled(paymentID)
	}

	return settled, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *store.Order) error {
	var tx *sql.Tx
	var err error

	if r.isTx {
		tx = r.tx
	} else {
		tx, err = r.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() {
			if err != nil {
				tx.Rollback()
			}
		}()
	}

	orderQuery := `
		INSERT INTO orders (id, address_id, buyer_id, seller_id, payment_id, total_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(ctx, orderQuery,
		order.ID, order.AddressID, order.BuyerID, order.SellerID, order.PaymentID, order.TotalCents, order.CreatedAt,
	)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (order_id, bag_item_id)
		VALUES ($1, $2)
	`

	for _, item := range order.Items {
		if _, err = tx.ExecContext(ctx, itemQuery, order.ID, item.ID); err != nil {
			return err
		}
	}

	if !r.isTx {
		return tx.Commit()
	}

	return nil
}

func (r *OrderRepository) GetOrdersByBuyer(ctx context.Context, buyerID string) ([]*store.Order, error) {
	query := `
		SELECT id, address_id, buyer_id, seller_id, payment_id, total_cents, created_at
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
	`

	var rows *sql.Rows
	var err error

	if r.isTx {
		rows, err = r.tx.QueryContext(ctx, query, buyerID)
	} else {
		rows, err = monitoring.InstrumentQuery(ctx, r.db, "SELECT", "orders", query, buyerID)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*store.Order
	ordersByID := make(map[string]*store.Order)
	for rows.Next() {
		var order store.Order
		if err := rows.Scan(&order.ID, &order.AddressID, &order.BuyerID, &order.SellerID, &order.PaymentID, &order.TotalCents, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, &order)
		ordersByID[order.ID] = &order
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return orders, nil
	}

	itemQuery := `
		SELECT oi.order_id, bi.id, bi.bag_id, bi.product_id, bi.title, bi.image_url, bi.unit_price, bi.item_count, bi.created_at
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		JOIN bag_items bi ON oi.bag_item_id = bi.id
		WHERE o.buyer_id = $1
		ORDER BY bi.created_at
	`

	var itemRows *sql.Rows
	if r.isTx {
		itemRows, err = r.tx.QueryContext(ctx, itemQuery, buyerID)
	} else {
		itemRows, err = monitoring.InstrumentQuery(ctx, r.db, "SELECT", "order_items", itemQuery, buyerID)
	}
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID string
		var item store.Item
		if err := itemRows.Scan(&orderID, &item.ID, &item.BagID, &item.ProductID, &item.Title, &item.ImageURL, &item.UnitPrice, &item.ItemCount, &item.CreatedAt); err != nil {
			return nil, err
		}
		if order, ok := ordersByID[orderID]; ok {
			order.Items = append(order.Items, &item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *OrderRepository) GetStockDecrements(ctx context.Context, paymentID string) ([]store.StockDecrement, error) {
	query := `
		SELECT bi.product_id, bi.item_count
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		JOIN bag_items bi ON oi.bag_item_id = bi.id
		WHERE o.payment_id = $1
		ORDER BY bi.created_at
	`

	var rows *sql.Rows
	var err error

	if r.isTx {
		rows, err = r.tx.QueryContext(ctx, query, paymentID)
	} else {
		rows, err = monitoring.InstrumentQuery(ctx, r.db, "SELECT", "order_items", query, paymentID)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decrements []store.StockDecrement
	for rows.Next() {
		var dec store.StockDecrement
		if err := rows.Scan(&dec.ProductID, &dec.Quantity); err != nil {
			return nil, err
		}
		decrements = append(decrements, dec)
	}

	return decrements, rows.Err()
}

func (r *OrderRepository) DecrementProductStock(ctx context.Context, productID string, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock - $2
		WHERE id = $1
	`

	var result sql.Result
	var err error

	if r.isTx {
		result, err = r.tx.ExecContext(ctx, query, productID, quantity)
	} else {
		result, err = monitoring.InstrumentExec(ctx, r.db, "UPDATE", "products", query, productID, quantity)
	}

	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domainErrors.ErrProductNotFound
	}

	monitoring.RecordStockDecrement(productID, quantity)

	return nil
}

func (r *OrderRepository) MarkBagsCheckedOut(ctx context.Context, cartID string) (int64, error) {
	query := `
		UPDATE bags
		SET checked_out = TRUE, selected = FALSE
		WHERE cart_id = $1 AND checked_out = FALSE AND selected = TRUE
	`

	var result sql.Result
	var err error

	if r.isTx {
		result, err = r.tx.ExecContext(ctx, query, cartID)
	} else {
		result, err = monitoring.InstrumentExec(ctx, r.db, "UPDATE", "bags", query, cartID)
	}

	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *OrderRepository) BeginTx(ctx context.Context) (ports.OrderRepository, error) {
	if r.isTx {
		return nil, errors.New("transaction already started")
	}

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return nil, err
	}

	return &OrderRepository{
		db:   r.db,
		tx:   tx,
		isTx: true,
	}, nil
}

func (r *OrderRepository) CommitTx(ctx context.Context) error {
	if !r.isTx || r.tx == nil {
		return errors.New("no transaction to commit")
	}

	return r.tx.Commit()
}

func (r *OrderRepository) RollbackTx(ctx context.Context) error {
	if !r.isTx || r.tx == nil {
		return errors.New("no transaction to rollback")
	}

	return r.tx.Rollback()
}
