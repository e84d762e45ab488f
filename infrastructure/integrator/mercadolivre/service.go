package mercadolivre

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	melidomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/mercadolivre/domain"
	"github.com/vfg2006/sales-sync-api/infrastructure/integrator/mercadolivre/meliclient"
	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

const (
	PageLimit = 50
	// MaxOffset é o último offset seguro antes do limite de 10 mil da busca
	MaxOffset = 9950
	// Janelas menores que isso não são mais divididas
	minWindow = time.Hour
)

type window struct {
	from time.Time
	to   time.Time
}

type MercadoLivreService struct {
	cfg    *config.Config
	Client meliclient.Client
	loc    *time.Location
}

func New(cfg *config.Config, client meliclient.Client) *MercadoLivreService {
	return &MercadoLivreService{
		cfg:    cfg,
		Client: client,
		loc:    cfg.Location(),
	}
}

func (s *MercadoLivreService) Platform() domain.Platform {
	return domain.PlatformMercadoLivre
}

// FetchOrders busca os pedidos da conta. Com OrderIDs informados busca apenas
// esses pedidos; caso contrário pagina /orders/search dividindo o período em
// janelas menores sempre que o total passa do offset máximo.
func (s *MercadoLivreService) FetchOrders(ctx context.Context, account *domain.Account, params domain.FetchParams, reporter domain.FetchReporter) ([]*domain.Order, error) {
	if len(params.OrderIDs) > 0 {
		return s.fetchByIDs(ctx, account, params.OrderIDs, reporter)
	}

	until := params.Until
	if until.IsZero() {
		until = time.Now()
	}
	from := until.AddDate(0, 0, -s.historyDays())
	if params.Since != nil && !params.FullSync {
		from = *params.Since
	}
	if !from.Before(until) {
		reporter.Warning(domain.WarningInvalidWindow, fmt.Sprintf("Período inválido: %s a %s", from.Format(time.RFC3339), until.Format(time.RFC3339)))
		return nil, nil
	}

	var (
		orders   []*domain.Order
		expected int
		queue    = []window{{from: from, to: until}}
	)

	for len(queue) > 0 {
		w := queue[0]
		queue = queue[1:]

		first, err := s.Client.SearchOrders(ctx, account, meliclient.SearchParams{From: w.from, To: w.to, Limit: PageLimit})
		if err != nil {
			if skip := s.warnInvalidRequest(account, err, w, reporter); skip {
				continue
			}
			return orders, err
		}

		total := first.Paging.Total
		if total > MaxOffset+PageLimit && w.to.Sub(w.from) > minWindow {
			left, right := split(w)
			queue = append([]window{left, right}, queue...)
			logrus.WithFields(logrus.Fields{
				"account_id": account.ID,
				"total":      total,
			}).Infof("Período com mais de %d vendas, dividindo em sub-períodos", MaxOffset)
			reporter.Progress(len(orders), expected, true, fmt.Sprintf("Período com %d vendas, dividindo em sub-períodos", total))
			continue
		}

		reachable := total
		if reachable > MaxOffset+PageLimit {
			reachable = MaxOffset + PageLimit
			reporter.Warning(domain.WarningMaxOffsetReached, fmt.Sprintf(
				"Limite de 10.000 vendas por intervalo atingido (%s a %s). Sincronizadas %d de %d vendas disponíveis.",
				w.from.In(s.loc).Format(time.DateOnly), w.to.In(s.loc).Format(time.DateOnly), reachable, total))
		}
		expected += reachable

		page := first
		for offset := 0; ; {
			for i := range page.Results {
				orders = append(orders, s.convert(ctx, account, &page.Results[i]))
			}
			reporter.Progress(len(orders), expected, false, fmt.Sprintf("Página %d: %d de %d vendas", offset/PageLimit+1, len(orders), expected))

			offset += PageLimit
			if len(page.Results) < PageLimit || offset >= total || offset > MaxOffset {
				break
			}

			if err := s.wait(ctx); err != nil {
				return orders, err
			}

			page, err = s.Client.SearchOrders(ctx, account, meliclient.SearchParams{From: w.from, To: w.to, Offset: offset, Limit: PageLimit})
			if err != nil {
				if skip := s.warnInvalidRequest(account, err, w, reporter); skip {
					break
				}
				return orders, err
			}
		}
	}

	return orders, nil
}

func (s *MercadoLivreService) fetchByIDs(ctx context.Context, account *domain.Account, orderIDs []string, reporter domain.FetchReporter) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(orderIDs))

	for i, orderID := range orderIDs {
		order, err := s.Client.GetOrder(ctx, account, orderID)
		if err != nil {
			if domain.IsReconnectionRequired(err) || ctx.Err() != nil {
				return orders, err
			}
			logrus.WithError(err).WithFields(logrus.Fields{
				"account_id": account.ID,
				"order_id":   orderID,
			}).Warn("Pedido não encontrado, ignorando")
			continue
		}

		orders = append(orders, s.convert(ctx, account, order))
		reporter.Progress(i+1, len(orderIDs), false, fmt.Sprintf("%d de %d pedidos", i+1, len(orderIDs)))
	}

	return orders, nil
}

// warnInvalidRequest transforma um 400 da busca em aviso e pula a janela
func (s *MercadoLivreService) warnInvalidRequest(account *domain.Account, err error, w window, reporter domain.FetchReporter) bool {
	remoteErr, ok := asRemoteError(err)
	if !ok || remoteErr.Kind != domain.RemoteErrorInvalidRequest {
		return false
	}

	logrus.WithError(err).WithField("account_id", account.ID).Warn("Busca de pedidos rejeitada, pulando intervalo")
	reporter.Warning(fmt.Sprintf("%d", remoteErr.StatusCode), fmt.Sprintf(
		"Erro HTTP %d no intervalo %s a %s", remoteErr.StatusCode,
		w.from.In(s.loc).Format(time.DateOnly), w.to.In(s.loc).Format(time.DateOnly)))
	return true
}

func (s *MercadoLivreService) convert(ctx context.Context, account *domain.Account, order *melidomain.Order) *domain.Order {
	var shipment *melidomain.Shipment
	if order.Shipping.ID != 0 {
		sh, err := s.Client.GetShipment(ctx, account, order.Shipping.ID)
		if err != nil {
			logrus.WithError(err).WithField("account_id", account.ID).Warnf("Envio %d indisponível, continuando sem dados de envio", order.Shipping.ID)
		} else {
			shipment = sh
		}
	}

	return FactoryOrder(account, order, shipment)
}

func (s *MercadoLivreService) wait(ctx context.Context) error {
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

func (s *MercadoLivreService) historyDays() int {
	if s.cfg.Sync.HistoryDays <= 0 {
		return 180
	}
	return s.cfg.Sync.HistoryDays
}

func split(w window) (window, window) {
	mid := w.from.Add(w.to.Sub(w.from) / 2)
	return window{from: w.from, to: mid}, window{from: mid.Add(time.Millisecond), to: w.to}
}
