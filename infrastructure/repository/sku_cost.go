package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-sync-api/infrastructure/database/postgres"
)

//go:generate mockgen -source=sku_cost.go -destination=mocks/sku_cost.go -package=mocks
type SKUCostRepository interface {
	FindUnitCosts(ctx context.Context, userID string, skus []string) (map[string]float64, error)
}

type skuCostRepository struct {
	conn *postgres.Connection
}

func NewSKUCostRepository(conn *postgres.Connection) SKUCostRepository {
	return &skuCostRepository{
		conn: conn,
	}
}

// FindUnitCosts retorna o custo unitário dos SKUs encontrados. SKUs sem custo
// ficam fora do mapa.
func (r *skuCostRepository) FindUnitCosts(ctx context.Context, userID string, skus []string) (map[string]float64, error) {
	costs := make(map[string]float64, len(skus))
	if len(skus) == 0 {
		return costs, nil
	}

	sqlStr, args, err := squirrel.
		Select("s.sku, s.unit_cost").
		From("sku_costs s").
		Where(squirrel.Eq{"s.user_id": userID, "s.sku": skus}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar custos de SKU: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sku string
		var cost float64
		if err := rows.Scan(&sku, &cost); err != nil {
			return nil, fmt.Errorf("erro ao escanear custo de SKU: %w", err)
		}
		costs[sku] = cost
	}

	return costs, rows.Err()
}
