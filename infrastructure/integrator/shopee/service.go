package shopee

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-sync-api/infrastructure/integrator/shopee/shopeeclient"
	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

const (
	// A Shopee aceita no máximo 15 dias por consulta de lista
	MaxWindow       = 15 * 24 * time.Hour
	ListPageSize    = 100
	DetailBatchSize = 50
)

type ShopeeService struct {
	cfg    *config.Config
	Client shopeeclient.Client
}

func New(cfg *config.Config, client shopeeclient.Client) *ShopeeService {
	return &ShopeeService{
		cfg:    cfg,
		Client: client,
	}
}

func (s *ShopeeService) Platform() domain.Platform {
	return domain.PlatformShopee
}

// FetchOrders percorre o período em janelas de 15 dias, lista os pedidos por
// cursor, busca os detalhes em lotes de 50 e enriquece cada pedido com o
// extrato financeiro (escrow).
func (s *ShopeeService) FetchOrders(ctx context.Context, account *domain.Account, params domain.FetchParams, reporter domain.FetchReporter) ([]*domain.Order, error) {
	if len(params.OrderIDs) > 0 {
		return s.fetchDetails(ctx, account, params.OrderIDs, reporter)
	}

	until := params.Until
	if until.IsZero() {
		until = time.Now()
	}
	since := until.AddDate(0, 0, -s.historyDays())
	if params.Since != nil && !params.FullSync {
		since = *params.Since
	}

	var orderSNs []string
	windows := 0
	for windowStart := since; windowStart.Before(until); {
		windowEnd := windowStart.Add(MaxWindow)
		if windowEnd.After(until) {
			windowEnd = until
		}

		if windows > 0 {
			reporter.Progress(0, len(orderSNs), true, fmt.Sprintf("Buscando janela %s a %s", windowStart.Format(time.DateOnly), windowEnd.Format(time.DateOnly)))
		}

		found, err := s.listWindow(ctx, account, windowStart, windowEnd)
		if err != nil {
			if !isInvalidRequest(err) {
				return nil, err
			}
			logrus.WithError(err).WithField("account_id", account.ID).Warn("Janela rejeitada pela Shopee, pulando")
			reporter.Warning(domain.WarningInvalidWindow, fmt.Sprintf("Janela %s a %s rejeitada pela Shopee", windowStart.Format(time.DateOnly), windowEnd.Format(time.DateOnly)))
		}
		orderSNs = append(orderSNs, found...)

		windows++
		windowStart = windowEnd.Add(time.Second)
	}

	logrus.WithFields(logrus.Fields{
		"account_id": account.ID,
		"orders":     len(orderSNs),
	}).Info("Pedidos listados na Shopee")

	return s.fetchDetails(ctx, account, orderSNs, reporter)
}

func (s *ShopeeService) listWindow(ctx context.Context, account *domain.Account, from, to time.Time) ([]string, error) {
	var (
		orderSNs []string
		cursor   string
	)

	for {
		resp, err := s.Client.GetOrderList(ctx, account, shopeeclient.OrderListParams{
			From:     from,
			To:       to,
			PageSize: ListPageSize,
			Cursor:   cursor,
		})
		if err != nil {
			return orderSNs, err
		}

		for _, o := range resp.Response.OrderList {
			orderSNs = append(orderSNs, o.OrderSN)
		}

		if !resp.Response.More || resp.Response.NextCursor == "" {
			return orderSNs, nil
		}
		cursor = resp.Response.NextCursor
	}
}

func (s *ShopeeService) fetchDetails(ctx context.Context, account *domain.Account, orderSNs []string, reporter domain.FetchReporter) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(orderSNs))

	for i := 0; i < len(orderSNs); i += DetailBatchSize {
		end := i + DetailBatchSize
		if end > len(orderSNs) {
			end = len(orderSNs)
		}

		details, err := s.Client.GetOrderDetail(ctx, account, orderSNs[i:end])
		if err != nil {
			return orders, err
		}

		for j := range details {
			detail := &details[j]
			income, err := s.Client.GetEscrowDetail(ctx, account, detail.OrderSN)
			if err != nil {
				if domain.IsReconnectionRequired(err) {
					return orders, err
				}
				logrus.WithError(err).WithField("account_id", account.ID).Warnf("Falha ao buscar escrow para %s", detail.OrderSN)
			}
			detail.Escrow = income
			orders = append(orders, FactoryOrder(account, detail))
		}

		reporter.Progress(len(orders), len(orderSNs), false, fmt.Sprintf("%d de %d pedidos", len(orders), len(orderSNs)))

		if end < len(orderSNs) {
			if err := s.wait(ctx); err != nil {
				return orders, err
			}
		}
	}

	return orders, nil
}

func (s *ShopeeService) wait(ctx context.Context) error {
	delay := time.Duration(s.cfg.Sync.RequestDelayMs) * time.Millisecond
	if delay <= 0 {
		return ctx.Err()
	}

	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ShopeeService) historyDays() int {
	if s.cfg.Sync.HistoryDays <= 0 {
		return 180
	}
	return s.cfg.Sync.HistoryDays
}
