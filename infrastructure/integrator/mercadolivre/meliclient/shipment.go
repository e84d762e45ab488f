package meliclient

import (
	"context"
	"strconv"

	melidomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/mercadolivre/domain"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

func (c *MeliClient) GetShipment(ctx context.Context, account *domain.Account, shipmentID int64) (*melidomain.Shipment, error) {
	var shipment melidomain.Shipment
	if err := c.get(ctx, account, "/shipments/"+strconv.FormatInt(shipmentID, 10), nil, &shipment); err != nil {
		return nil, err
	}

	return &shipment, nil
}
