package bling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-sync-api/infrastructure/integrator/bling/blingclient"
	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

const PageLimit = 100

type BlingService struct {
	cfg    *config.Config
	Client blingclient.Client
	loc    *time.Location
}

func New(cfg *config.Config, client blingclient.Client) *BlingService {
	return &BlingService{
		cfg:    cfg,
		Client: client,
		loc:    cfg.Location(),
	}
}

func (s *BlingService) Platform() domain.Platform {
	return domain.PlatformBling
}

// FetchOrders pagina /pedidos/vendas até uma página vazia e busca o detalhe
// de cada pedido, já que a listagem não traz itens nem taxas.
func (s *BlingService) FetchOrders(ctx context.Context, account *domain.Account, params domain.FetchParams, reporter domain.FetchReporter) ([]*domain.Order, error) {
	orderIDs := params.OrderIDs
	if len(orderIDs) == 0 {
		ids, err := s.listOrderIDs(ctx, account, params, reporter)
		if err != nil {
			return nil, err
		}
		orderIDs = ids
	}

	orders := make([]*domain.Order, 0, len(orderIDs))
	for i, orderID := range orderIDs {
		detail, err := s.Client.GetOrder(ctx, account, orderID)
		switch {
		case err == nil:
			orders = append(orders, FactoryOrder(account, detail, s.loc))
		case isInvalidRequest(err) && ctx.Err() == nil:
			logrus.WithError(err).WithField("account_id", account.ID).Warnf("Pedido %s não encontrado no Bling, ignorando", orderID)
		default:
			return orders, err
		}

		if (i+1)%PageLimit == 0 || i == len(orderIDs)-1 {
			reporter.Progress(len(orders), len(orderIDs), false, fmt.Sprintf("%d de %d pedidos", i+1, len(orderIDs)))
		}
	}

	return orders, nil
}

func (s *BlingService) listOrderIDs(ctx context.Context, account *domain.Account, params domain.FetchParams, reporter domain.FetchReporter) ([]string, error) {
	until := params.Until
	if until.IsZero() {
		until = time.Now()
	}
	since := until.AddDate(0, 0, -s.historyDays())
	if params.Since != nil && !params.FullSync {
		since = *params.Since
	}

	var ids []string
	for page := 1; ; page++ {
		orders, err := s.Client.ListOrders(ctx, account, blingclient.ListOrdersParams{
			Page:      page,
			Limit:     PageLimit,
			StartDate: since.In(s.loc),
			EndDate:   until.In(s.loc),
		})
		if err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			return ids, nil
		}

		for i := range orders {
			if id := orders[i].IDString(); id != "" {
				ids = append(ids, id)
			}
		}
		reporter.Progress(0, len(ids), false, fmt.Sprintf("Página %d: %d pedidos listados", page, len(ids)))
	}
}

func (s *BlingService) historyDays() int {
	if s.cfg.Sync.HistoryDays <= 0 {
		return 180
	}
	return s.cfg.Sync.HistoryDays
}

func isInvalidRequest(err error) bool {
	var remoteErr *domain.RemoteAccountError
	if errors.As(err, &remoteErr) {
		return remoteErr.Kind == domain.RemoteErrorInvalidRequest
	}
	return false
}
