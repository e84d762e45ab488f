package shopee

import (
	"errors"
	"time"

	shopeedomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/shopee/domain"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/utils"
)

// FactoryOrder projeta o pedido da Shopee no pedido de domínio.
// Taxa (comissão + serviço) e frete líquido são custos e ficam negativos.
func FactoryOrder(account *domain.Account, o *shopeedomain.Order) *domain.Order {
	order := &domain.Order{
		UserID:      account.UserID,
		AccountID:   account.ID,
		Platform:    domain.PlatformLabelShopee,
		OrderID:     o.OrderSN,
		Status:      o.OrderStatus,
		Buyer:       o.BuyerUsername,
		ListingType: domain.ListingTypeOwn,
	}
	if order.Status == "" {
		order.Status = "DESCONHECIDO"
	}
	if order.Buyer == "" {
		order.Buyer = "Comprador"
	}
	if o.CreateTime > 0 {
		saleDate := time.Unix(o.CreateTime, 0).UTC()
		order.SaleDate = &saleDate
	}

	quantity := 0.0
	for _, item := range o.ItemList {
		quantity += value(item.ModelQuantityPurchased)
	}

	total := value(o.TotalAmount)
	order.GrossAmount = utils.RoundWithTwoDecimalPlace(total)
	order.Quantity = int(quantity)
	if order.Quantity == 0 {
		order.Quantity = 1
	}

	switch {
	case quantity > 0:
		order.UnitPrice = utils.RoundWithTwoDecimalPlace(total / quantity)
	case len(o.ItemList) > 0:
		order.UnitPrice = utils.RoundWithTwoDecimalPlace(value(o.ItemList[0].ModelOriginalPrice))
	}

	if len(o.ItemList) > 0 {
		order.ProductTitle = o.ItemList[0].ItemName
		order.SKU = o.ItemList[0].SKU()
	}
	if order.ProductTitle == "" {
		order.ProductTitle = "Pedido"
	}

	order.LogisticsType = o.ShippingCarrier
	if len(o.PackageList) > 0 {
		pkg := o.PackageList[0]
		order.ShipmentID = pkg.TrackingNumber
		if pkg.ShippingCarrier != "" {
			order.LogisticsType = pkg.ShippingCarrier
		}
	}

	if o.Escrow != nil {
		fee := value(o.Escrow.CommissionFee) + value(o.Escrow.ServiceFee)
		order.PlatformFee = -utils.RoundWithTwoDecimalPlace(fee)
		order.ShippingCost = -utils.RoundWithTwoDecimalPlace(NetShippingCost(o.Escrow))
	}

	return order
}

// NetShippingCost calcula o frete líquido do vendedor:
// (actual + reverse) - (rebate + buyer paid).
// Sem rebate informado e com custo implícito abaixo de um centavo, o frete é
// considerado subsidiado pela Shopee.
func NetShippingCost(income *shopeedomain.OrderIncome) float64 {
	actual := value(income.ActualShippingFee)
	reverse := value(income.ReverseShippingFee)
	rebate := value(income.ShopeeShippingRebate)
	buyerPaid := value(income.BuyerPaidShippingFee)

	if actual > 0 && rebate == 0 {
		if implicit := actual - buyerPaid; implicit < 0.01 {
			rebate = implicit
		}
	}

	return (actual + reverse) - (rebate + buyerPaid)
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return utils.SafeNumber(*v)
}

func isInvalidRequest(err error) bool {
	var remoteErr *domain.RemoteAccountError
	if errors.As(err, &remoteErr) {
		return remoteErr.Kind == domain.RemoteErrorInvalidRequest
	}
	return false
}
