package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/sales-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/log"
)

const (
	ordersTable = "orders o"

	// upsertBatchSize limita a quantidade de linhas por INSERT
	upsertBatchSize = 50
)

var orderColumns = []string{
	"user_id", "account_id", "platform", "order_id", "sale_date", "status",
	"gross_amount", "platform_fee", "shipping_cost", "quantity", "unit_price",
	"sku", "product_title", "buyer", "listing_type", "logistics_type", "shipment_id",
}

//go:generate mockgen -source=order.go -destination=mocks/order.go -package=mocks
type OrderRepository interface {
	UpsertOrders(ctx context.Context, orders []*domain.Order) (int, error)
	FindOrders(ctx context.Context, query domain.OrderQuery) ([]*domain.Order, error)
	LatestSaleDate(ctx context.Context, accountID string) (*time.Time, error)
}

type orderRepository struct {
	conn *postgres.Connection
}

func NewOrderRepository(conn *postgres.Connection) OrderRepository {
	return &orderRepository{
		conn: conn,
	}
}

// UpsertOrders grava os pedidos pela chave (platform, order_id), última escrita vence.
// Pedidos sem identificador não podem ser gravados e são descartados.
func (r *orderRepository) UpsertOrders(ctx context.Context, orders []*domain.Order) (int, error) {
	valid := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		if _, ok := o.BusinessKey(); !ok {
			log.ForContext(ctx).WithField("account_id", o.AccountID).Warn("Pedido sem identificador ignorado no upsert")
			continue
		}
		valid = append(valid, o)
	}

	total := 0
	for start := 0; start < len(valid); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(valid) {
			end = len(valid)
		}

		batch := uniqueByKey(valid[start:end])

		err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
			return r.upsertBatch(ctx, tx, batch)
		})
		if err != nil {
			return total, fmt.Errorf("erro ao gravar lote de pedidos: %w", err)
		}

		total += len(batch)
	}

	return total, nil
}

// uniqueByKey mantém a última ocorrência de cada chave. O Postgres recusa um
// INSERT ... ON CONFLICT que atualize a mesma linha duas vezes.
func uniqueByKey(orders []*domain.Order) []*domain.Order {
	position := make(map[string]int, len(orders))
	out := make([]*domain.Order, 0, len(orders))

	for _, o := range orders {
		key, _ := o.BusinessKey()
		if idx, seen := position[key]; seen {
			out[idx] = o
			continue
		}
		position[key] = len(out)
		out = append(out, o)
	}

	return out
}

func (r *orderRepository) upsertBatch(ctx context.Context, q postgres.Queryer, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	query := squirrel.StatementBuilder.
		Insert("orders").
		Columns(orderColumns...)

	for _, o := range orders {
		var saleDate interface{}
		if o.SaleDate != nil {
			saleDate = *o.SaleDate
		}

		query = query.Values(
			o.UserID,
			o.AccountID,
			o.PlatformLabel(),
			o.OrderID,
			saleDate,
			o.Status,
			o.GrossAmount,
			o.PlatformFee,
			o.ShippingCost,
			o.Quantity,
			o.UnitPrice,
			o.SKU,
			o.ProductTitle,
			o.Buyer,
			o.ListingType,
			o.LogisticsType,
			o.ShipmentID,
		)
	}

	query = query.Suffix(`
		ON CONFLICT (platform, order_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			account_id = EXCLUDED.account_id,
			sale_date = EXCLUDED.sale_date,
			status = EXCLUDED.status,
			gross_amount = EXCLUDED.gross_amount,
			platform_fee = EXCLUDED.platform_fee,
			shipping_cost = EXCLUDED.shipping_cost,
			quantity = EXCLUDED.quantity,
			unit_price = EXCLUDED.unit_price,
			sku = EXCLUDED.sku,
			product_title = EXCLUDED.product_title,
			buyer = EXCLUDED.buyer,
			listing_type = EXCLUDED.listing_type,
			logistics_type = EXCLUDED.logistics_type,
			shipment_id = EXCLUDED.shipment_id,
			updated_at = NOW()
	`).PlaceholderFormat(squirrel.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := q.ExecContext(ctx, sqlStr, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro do postgres (%s): %s", pqErr.Code, pqErr.Message)
		}
		return err
	}

	return nil
}

// FindOrders lê os pedidos do escopo com DISTINCT ON pela chave de negócio,
// ordenados da venda mais recente para a mais antiga
func (r *orderRepository) FindOrders(ctx context.Context, q domain.OrderQuery) ([]*domain.Order, error) {
	inner := squirrel.
		Select(`DISTINCT ON (o.platform, o.order_id) o.id, o.user_id, o.account_id, o.platform, o.order_id,
			o.sale_date, o.status, o.gross_amount, o.platform_fee, o.shipping_cost, o.quantity, o.unit_price,
			COALESCE(o.sku, '') AS sku, COALESCE(o.product_title, '') AS product_title, COALESCE(o.buyer, '') AS buyer,
			COALESCE(o.listing_type, '') AS listing_type, COALESCE(o.logistics_type, '') AS logistics_type,
			COALESCE(o.shipment_id, '') AS shipment_id, o.updated_at`).
		From(ordersTable).
		Where(squirrel.Eq{"o.user_id": q.UserID})

	if len(q.AccountIDs) > 0 {
		inner = inner.Where(squirrel.Expr("o.account_id = ANY(?)", pq.Array(q.AccountIDs)))
	}
	if len(q.Platforms) > 0 {
		inner = inner.Where(squirrel.Expr("o.platform = ANY(?)", pq.Array(q.Platforms)))
	}
	if q.Start != nil {
		inner = inner.Where(squirrel.GtOrEq{"o.sale_date": *q.Start})
	}
	if q.End != nil {
		inner = inner.Where(squirrel.LtOrEq{"o.sale_date": *q.End})
	}
	if q.PaidOnly {
		inner = inner.Where("(LOWER(o.status) LIKE '%paid%' OR LOWER(o.status) LIKE '%completed%')")
	}

	inner = inner.OrderBy("o.platform", "o.order_id", "o.updated_at DESC")

	sqlStr, args, err := squirrel.
		Select("*").
		FromSelect(inner, "d").
		OrderBy("d.sale_date DESC NULLS LAST", "d.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear pedido: %w", err)
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return orders, nil
}

func scanOrder(rows *sql.Rows) (*domain.Order, error) {
	o := &domain.Order{}
	var saleDate sql.NullTime

	if err := rows.Scan(
		&o.ID,
		&o.UserID,
		&o.AccountID,
		&o.Platform,
		&o.OrderID,
		&saleDate,
		&o.Status,
		&o.GrossAmount,
		&o.PlatformFee,
		&o.ShippingCost,
		&o.Quantity,
		&o.UnitPrice,
		&o.SKU,
		&o.ProductTitle,
		&o.Buyer,
		&o.ListingType,
		&o.LogisticsType,
		&o.ShipmentID,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if saleDate.Valid {
		t := saleDate.Time
		o.SaleDate = &t
	}

	return o, nil
}

func (r *orderRepository) LatestSaleDate(ctx context.Context, accountID string) (*time.Time, error) {
	sqlStr, args, err := squirrel.
		Select("MAX(o.sale_date)").
		From(ordersTable).
		Where(squirrel.Eq{"o.account_id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var latest sql.NullTime
	if err := r.conn.QueryRowContext(ctx, sqlStr, args...).Scan(&latest); err != nil {
		return nil, fmt.Errorf("erro ao buscar data da última venda: %w", err)
	}

	if !latest.Valid {
		return nil, nil
	}

	return &latest.Time, nil
}
