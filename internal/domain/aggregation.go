package domain

import "time"

type StatusFilter string

const (
	StatusFilterPaid      StatusFilter = "paid"
	StatusFilterCancelled StatusFilter = "cancelled"
	StatusFilterAll       StatusFilter = "all"
)

// ParseStatusFilter aceita também os nomes usados pelo painel (pagos, cancelados, todos)
func ParseStatusFilter(s string) StatusFilter {
	switch s {
	case "cancelled", "cancelados":
		return StatusFilterCancelled
	case "all", "todos":
		return StatusFilterAll
	default:
		return StatusFilterPaid
	}
}

// Match aplica o filtro de status ao status bruto do pedido
func (f StatusFilter) Match(status string) bool {
	switch f {
	case StatusFilterAll:
		return true
	case StatusFilterCancelled:
		return IsCancelledStatus(status)
	default:
		return IsPaidStatus(status)
	}
}

// DashboardFilters são os filtros aceitos pela consulta do dashboard
type DashboardFilters struct {
	Period      Period
	Status      StatusFilter
	Channel     Platform
	ListingType string
	Fulfillment string
	AccountIDs  []string
}

// ResolvedPeriod é o período ecoado na resposta em ISO-8601
type ResolvedPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AggregationResult são as métricas financeiras do dashboard
type AggregationResult struct {
	GrossRevenue        float64            `json:"grossRevenue"`
	NetRevenue          float64            `json:"netRevenue"`
	COGS                float64            `json:"cogs"`
	GrossProfit         float64            `json:"grossProfit"`
	FeesTotal           float64            `json:"feesTotal"`
	FeesByPlatform      map[string]float64 `json:"feesByPlatform"`
	ShippingTotal       float64            `json:"shippingTotal"`
	ShippingByPlatform  map[string]float64 `json:"shippingByPlatform"`
	TaxTotal            float64            `json:"taxTotal"`
	NetProfit           float64            `json:"netProfit"`
	MarginPercent       float64            `json:"marginPercent"`
	OrderCount          int                `json:"orderCount"`
	UnitsSold           int                `json:"unitsSold"`
	RevenueTrendPercent float64            `json:"revenueTrendPercent"`
	Period              *ResolvedPeriod    `json:"period"`
	TaxGaps             []string           `json:"taxGaps,omitempty"`
}

// ProductRevenue é uma linha do ranking de produtos
type ProductRevenue struct {
	SKU        string  `json:"sku"`
	Title      string  `json:"title"`
	Revenue    float64 `json:"revenue"`
	UnitsSold  int     `json:"unitsSold"`
	OrderCount int     `json:"orderCount"`
	Cost       float64 `json:"cost"`
	Margin     float64 `json:"margin"`
}

// RevenueBreakdown agrupa o faturamento por plataforma e por tipo de anúncio
type RevenueBreakdown struct {
	ByPlatform    map[string]float64 `json:"byPlatform"`
	ByListingType map[string]float64 `json:"byListingType"`
	ByFulfillment map[string]float64 `json:"byFulfillment"`
	Period        *ResolvedPeriod    `json:"period"`
}

// TrendWindow delimita os dois meses usados no cálculo de tendência
type TrendWindow struct {
	LastStart        time.Time
	LastEnd          time.Time
	PenultimateStart time.Time
	PenultimateEnd   time.Time
}
