package bling

import (
	"time"

	blingdomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/bling/domain"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/utils"
)

// FactoryOrder projeta o pedido de venda do Bling no pedido de domínio.
// A data do Bling não tem horário e é interpretada no fuso de negócio.
func FactoryOrder(account *domain.Account, o *blingdomain.Order, loc *time.Location) *domain.Order {
	order := &domain.Order{
		UserID:      account.UserID,
		AccountID:   account.ID,
		Platform:    domain.PlatformLabelBling,
		OrderID:     o.IDString(),
		Status:      o.Situacao.Status(),
		Buyer:       o.Contato.Nome,
		ListingType: domain.ListingTypeOwn,
	}

	if saleDate, err := utils.ParseDate(o.Data, loc); err == nil && saleDate != nil {
		order.SaleDate = saleDate
	}

	quantity := 0.0
	for _, item := range o.Itens {
		quantity += value(item.Quantidade)
	}
	order.Quantity = int(quantity)

	total := value(o.Total)
	order.GrossAmount = utils.RoundWithTwoDecimalPlace(total)

	if len(o.Itens) > 0 {
		order.SKU = o.Itens[0].Codigo
		order.ProductTitle = o.Itens[0].Descricao
		order.UnitPrice = utils.RoundWithTwoDecimalPlace(value(o.Itens[0].Valor))
	}
	if order.UnitPrice == 0 && quantity > 0 {
		order.UnitPrice = utils.RoundWithTwoDecimalPlace(total / quantity)
	}

	if fee := value(o.Taxas.TaxaComissao); fee != 0 {
		order.PlatformFee = -utils.RoundWithTwoDecimalPlace(abs(fee))
	}
	if freight := value(o.Taxas.CustoFrete); freight != 0 {
		order.ShippingCost = -utils.RoundWithTwoDecimalPlace(abs(freight))
	}

	return order
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return utils.SafeNumber(*v)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
