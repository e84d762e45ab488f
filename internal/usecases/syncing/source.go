package syncing

import (
	"context"

	"github.com/vfg2006/sales-sync-api/internal/domain"
)

//go:generate mockgen -source=source.go -destination=mocks/source.go -package=mocks

// OrderSource busca pedidos de uma plataforma remota já convertidos para o domínio
type OrderSource interface {
	Platform() domain.Platform
	FetchOrders(ctx context.Context, account *domain.Account, params domain.FetchParams, reporter domain.FetchReporter) ([]*domain.Order, error)
}
