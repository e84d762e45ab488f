package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/sales-sync-api/infrastructure/repository"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/internal/usecases/taxing"
	"github.com/vfg2006/sales-sync-api/pkg/log"
	"github.com/vfg2006/sales-sync-api/pkg/utils"
)

const defaultTopProductsLimit = 10

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

type DashboardService interface {
	GetStats(ctx context.Context, userID string, filters domain.DashboardFilters) (*domain.AggregationResult, error)
	TopProducts(ctx context.Context, userID string, filters domain.DashboardFilters, limit int) ([]domain.ProductRevenue, error)
	RevenueBreakdown(ctx context.Context, userID string, filters domain.DashboardFilters) (*domain.RevenueBreakdown, error)
}

// Service monta as consultas do dashboard a partir da base de pedidos
type Service struct {
	orderRepository       repository.OrderRepository
	skuCostRepository     repository.SKUCostRepository
	taxScheduleRepository repository.TaxScheduleRepository
	loc                   *time.Location
	now                   func() time.Time
}

func NewService(
	orderRepository repository.OrderRepository,
	skuCostRepository repository.SKUCostRepository,
	taxScheduleRepository repository.TaxScheduleRepository,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		orderRepository:       orderRepository,
		skuCostRepository:     skuCostRepository,
		taxScheduleRepository: taxScheduleRepository,
		loc:                   loc,
		now:                   time.Now,
	}
}

// GetStats calcula as métricas financeiras do período filtrado
func (s *Service) GetStats(ctx context.Context, userID string, filters domain.DashboardFilters) (*domain.AggregationResult, error) {
	orders, timeRange, err := s.loadOrders(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	unitCosts, err := s.unitCosts(ctx, userID, orders)
	if err != nil {
		return nil, err
	}

	result := Aggregate(orders, unitCosts)
	result.Period = EchoPeriod(timeRange)

	if timeRange != nil {
		taxTotal, gaps, err := s.allocateTax(ctx, userID, orders)
		if err != nil {
			return nil, err
		}
		ApplyTax(&result, taxTotal)
		result.TaxGaps = gaps
	}

	trend, err := s.revenueTrend(ctx, userID)
	if err != nil {
		return nil, err
	}
	result.RevenueTrendPercent = trend

	log.ForContext(ctx).WithFields(log.Fields{
		"user_id":      userID,
		"orders":       result.OrderCount,
		"gross":        result.GrossRevenue,
		"bounded":      timeRange != nil,
		"trend":        trend,
		"tax_gaps":     len(result.TaxGaps),
		"status":       string(filters.Status),
		"channel":      string(filters.Channel),
		"listing_type": filters.ListingType,
	}).Debug("Dashboard calculado")

	return &result, nil
}

// TopProducts retorna os produtos com maior faturamento no período
func (s *Service) TopProducts(ctx context.Context, userID string, filters domain.DashboardFilters, limit int) ([]domain.ProductRevenue, error) {
	if limit <= 0 {
		limit = defaultTopProductsLimit
	}

	orders, _, err := s.loadOrders(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	unitCosts, err := s.unitCosts(ctx, userID, orders)
	if err != nil {
		return nil, err
	}

	return TopProducts(orders, unitCosts, limit), nil
}

// RevenueBreakdown retorna o faturamento por plataforma, tipo de anúncio e modalidade
func (s *Service) RevenueBreakdown(ctx context.Context, userID string, filters domain.DashboardFilters) (*domain.RevenueBreakdown, error) {
	orders, timeRange, err := s.loadOrders(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	breakdown := Breakdown(orders)
	breakdown.Period = EchoPeriod(timeRange)

	return &breakdown, nil
}

// loadOrders lê a base com os filtros de escopo e aplica deduplicação e os
// filtros restantes em memória
func (s *Service) loadOrders(ctx context.Context, userID string, filters domain.DashboardFilters) ([]*domain.Order, *domain.TimeRange, error) {
	timeRange, err := ResolvePeriod(filters.Period, s.now(), s.loc)
	if err != nil {
		return nil, nil, err
	}

	query := domain.OrderQuery{
		UserID:     userID,
		AccountIDs: filters.AccountIDs,
	}
	if filters.Channel != "" {
		query.Platforms = []string{filters.Channel.Label()}
	}
	if timeRange != nil {
		query.Start = &timeRange.Start
		query.End = &timeRange.End
	}

	orders, err := s.orderRepository.FindOrders(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrAggregation, err)
	}

	return FilterOrders(Dedup(orders), filters), timeRange, nil
}

func (s *Service) unitCosts(ctx context.Context, userID string, orders []*domain.Order) (map[string]float64, error) {
	seen := make(map[string]struct{})
	skus := make([]string, 0)
	for _, order := range orders {
		if order.SKU == "" {
			continue
		}
		if _, ok := seen[order.SKU]; ok {
			continue
		}
		seen[order.SKU] = struct{}{}
		skus = append(skus, order.SKU)
	}

	if len(skus) == 0 {
		return map[string]float64{}, nil
	}

	costs, err := s.skuCostRepository.FindUnitCosts(ctx, userID, skus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAggregation, err)
	}
	return costs, nil
}

func (s *Service) allocateTax(ctx context.Context, userID string, orders []*domain.Order) (float64, []string, error) {
	schedules, err := s.taxScheduleRepository.ListByUser(ctx, userID, true)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrAggregation, err)
	}
	if len(schedules) == 0 {
		return 0, nil, nil
	}

	total, gaps := taxing.AllocateTax(orders, schedules, s.loc)
	return total, gaps, nil
}

// revenueTrend compara o faturamento pago do último mês com o do penúltimo,
// somando todas as plataformas do usuário
func (s *Service) revenueTrend(ctx context.Context, userID string) (float64, error) {
	window := TrendWindowAt(s.now(), s.loc)

	orders, err := s.orderRepository.FindOrders(ctx, domain.OrderQuery{
		UserID:   userID,
		Start:    &window.PenultimateStart,
		End:      &window.LastEnd,
		PaidOnly: true,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrAggregation, err)
	}

	last := make([]*domain.Order, 0)
	penultimate := make([]*domain.Order, 0)
	for _, order := range Dedup(orders) {
		if order.SaleDate == nil {
			continue
		}
		if order.SaleDate.Before(window.LastStart) {
			penultimate = append(penultimate, order)
		} else {
			last = append(last, order)
		}
	}

	trend := utils.PercentChange(PaidRevenue(last), PaidRevenue(penultimate))
	return utils.RoundWithTwoDecimalPlace(trend), nil
}
