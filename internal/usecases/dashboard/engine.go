package dashboard

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/log"
	"github.com/vfg2006/sales-sync-api/pkg/utils"
)

// Dedup mantém a primeira ocorrência de cada chave de negócio na ordem recebida.
// Pedidos sem chave nunca são descartados.
func Dedup(orders []*domain.Order) []*domain.Order {
	seen := make(map[string]struct{}, len(orders))
	out := make([]*domain.Order, 0, len(orders))

	for _, order := range orders {
		if order == nil {
			continue
		}
		key, ok := order.BusinessKey()
		if !ok {
			out = append(out, order)
			continue
		}
		if _, dup := seen[key]; dup {
			log.L.WithFields(log.Fields{
				"account_id":   order.AccountID,
				"business_key": key,
			}).Debug("duplicate-removed: pedido repetido descartado")
			continue
		}
		seen[key] = struct{}{}
		out = append(out, order)
	}

	return out
}

// FilterOrders aplica em memória os filtros de status, canal, tipo de anúncio e modalidade
func FilterOrders(orders []*domain.Order, filters domain.DashboardFilters) []*domain.Order {
	status := filters.Status
	if status == "" {
		status = domain.StatusFilterPaid
	}

	out := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if !status.Match(order.Status) {
			continue
		}
		if filters.Channel != "" && order.PlatformLabel() != filters.Channel.Label() {
			continue
		}
		if filters.ListingType != "" && listingTypeOf(order) != filters.ListingType {
			continue
		}
		if filters.Fulfillment != "" && order.Fulfillment() != filters.Fulfillment {
			continue
		}
		out = append(out, order)
	}

	return out
}

func listingTypeOf(order *domain.Order) string {
	if strings.EqualFold(order.ListingType, domain.ListingTypeCatalog) {
		return domain.ListingTypeCatalog
	}
	return domain.ListingTypeOwn
}

func money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(utils.SafeNumber(f))
}

func toFloat(d decimal.Decimal) float64 {
	return utils.SafeNumber(d.Round(2).InexactFloat64())
}

// Aggregate calcula as métricas financeiras de um conjunto de pedidos.
// Custos unitários ausentes valem zero.
func Aggregate(orders []*domain.Order, unitCosts map[string]float64) domain.AggregationResult {
	orders = Dedup(orders)

	var (
		gross, net, cogs, fees, shipping = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
		units                            int
	)
	feesByPlatform := make(map[string]decimal.Decimal)
	shippingByPlatform := make(map[string]decimal.Decimal)

	for _, order := range orders {
		amount := money(order.GrossAmount)
		fee := money(order.PlatformFee)
		freight := money(order.ShippingCost)
		qty := order.Quantity
		if qty < 0 {
			qty = 0
		}

		gross = gross.Add(amount)
		net = net.Add(amount).Add(fee).Add(freight)

		if order.SKU != "" {
			unitCost := money(unitCosts[order.SKU])
			cogs = cogs.Add(unitCost.Mul(decimal.NewFromInt(int64(qty))))
		}
		units += qty

		label := order.PlatformLabel()
		fees = fees.Add(fee.Abs())
		shipping = shipping.Add(freight.Abs())
		feesByPlatform[label] = feesByPlatform[label].Add(fee.Abs())
		shippingByPlatform[label] = shippingByPlatform[label].Add(freight.Abs())
	}

	result := domain.AggregationResult{
		GrossRevenue:       toFloat(gross),
		NetRevenue:         toFloat(net),
		COGS:               toFloat(cogs),
		GrossProfit:        toFloat(net.Sub(cogs)),
		FeesTotal:          toFloat(fees),
		FeesByPlatform:     toFloatMap(feesByPlatform),
		ShippingTotal:      toFloat(shipping),
		ShippingByPlatform: toFloatMap(shippingByPlatform),
		OrderCount:         len(orders),
		UnitsSold:          units,
	}
	ApplyTax(&result, 0)

	return result
}

// ApplyTax recalcula lucro líquido e margem a partir do imposto do período
func ApplyTax(result *domain.AggregationResult, taxTotal float64) {
	result.TaxTotal = utils.RoundWithTwoDecimalPlace(taxTotal)
	result.NetProfit = utils.RoundWithTwoDecimalPlace(result.GrossProfit - result.TaxTotal)

	result.MarginPercent = 0
	if result.GrossRevenue != 0 {
		result.MarginPercent = utils.RoundWithTwoDecimalPlace(result.NetProfit / result.GrossRevenue * 100)
	}
}

func toFloatMap(in map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = toFloat(v)
	}
	return out
}

// PaidRevenue soma o faturamento bruto dos pedidos pagos
func PaidRevenue(orders []*domain.Order) float64 {
	total := decimal.Zero
	for _, order := range orders {
		if order.IsPaid() {
			total = total.Add(money(order.GrossAmount))
		}
	}
	return toFloat(total)
}

// TopProducts agrupa por SKU (ou título quando não há SKU) e ordena por faturamento
func TopProducts(orders []*domain.Order, unitCosts map[string]float64, limit int) []domain.ProductRevenue {
	type acc struct {
		row     domain.ProductRevenue
		revenue decimal.Decimal
		cost    decimal.Decimal
	}

	groups := make(map[string]*acc)
	keys := make([]string, 0)

	for _, order := range Dedup(orders) {
		key := order.SKU
		if key == "" {
			key = order.ProductTitle
		}
		if key == "" {
			continue
		}

		g, ok := groups[key]
		if !ok {
			g = &acc{row: domain.ProductRevenue{SKU: order.SKU, Title: order.ProductTitle}}
			groups[key] = g
			keys = append(keys, key)
		}
		if g.row.Title == "" {
			g.row.Title = order.ProductTitle
		}

		qty := order.Quantity
		if qty < 0 {
			qty = 0
		}
		g.revenue = g.revenue.Add(money(order.GrossAmount))
		g.cost = g.cost.Add(money(unitCosts[order.SKU]).Mul(decimal.NewFromInt(int64(qty))))
		g.row.UnitsSold += qty
		g.row.OrderCount++
	}

	out := make([]domain.ProductRevenue, 0, len(groups))
	for _, key := range keys {
		g := groups[key]
		g.row.Revenue = toFloat(g.revenue)
		g.row.Cost = toFloat(g.cost)
		g.row.Margin = toFloat(g.revenue.Sub(g.cost))
		out = append(out, g.row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue > out[j].Revenue
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out
}

// Breakdown soma o faturamento por plataforma, tipo de anúncio e modalidade logística
func Breakdown(orders []*domain.Order) domain.RevenueBreakdown {
	byPlatform := make(map[string]decimal.Decimal)
	byListing := map[string]decimal.Decimal{
		domain.ListingTypeCatalog: decimal.Zero,
		domain.ListingTypeOwn:     decimal.Zero,
	}
	byFulfillment := map[string]decimal.Decimal{
		domain.FulfillmentFull: decimal.Zero,
		domain.FulfillmentFlex: decimal.Zero,
		domain.FulfillmentME:   decimal.Zero,
	}

	for _, order := range Dedup(orders) {
		amount := money(order.GrossAmount)
		label := order.PlatformLabel()
		byPlatform[label] = byPlatform[label].Add(amount)
		lt := listingTypeOf(order)
		byListing[lt] = byListing[lt].Add(amount)
		ft := order.Fulfillment()
		byFulfillment[ft] = byFulfillment[ft].Add(amount)
	}

	return domain.RevenueBreakdown{
		ByPlatform:    toFloatMap(byPlatform),
		ByListingType: toFloatMap(byListing),
		ByFulfillment: toFloatMap(byFulfillment),
	}
}
