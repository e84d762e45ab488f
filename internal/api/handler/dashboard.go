package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/internal/usecases/dashboard"
	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
	"github.com/vfg2006/sales-sync-api/pkg/log"
	"github.com/vfg2006/sales-sync-api/pkg/utils"
)

// parseDashboardFilters lê os filtros da query string.
// Datas aceitam YYYY-MM-DD (no fuso de negócio) ou RFC3339.
func parseDashboardFilters(query url.Values, loc *time.Location) (domain.DashboardFilters, error) {
	filters := domain.DashboardFilters{
		Status:      domain.ParseStatusFilter(query.Get("status")),
		ListingType: query.Get("listingType"),
		Fulfillment: query.Get("fulfillment"),
		Period:      domain.Period{Preset: query.Get("period")},
	}

	switch channel := query.Get("channel"); channel {
	case "", "all", "todos":
	default:
		platform := domain.Platform(channel)
		if !platform.Valid() {
			return filters, fmt.Errorf("canal inválido: %s", channel)
		}
		filters.Channel = platform
	}

	switch filters.ListingType {
	case "", domain.ListingTypeCatalog, domain.ListingTypeOwn:
	case "all", "todos":
		filters.ListingType = ""
	default:
		return filters, fmt.Errorf("tipo de anúncio inválido: %s", filters.ListingType)
	}

	switch filters.Fulfillment {
	case "", domain.FulfillmentFull, domain.FulfillmentFlex, domain.FulfillmentME:
	case "all", "todos":
		filters.Fulfillment = ""
	default:
		return filters, fmt.Errorf("modalidade de envio inválida: %s", filters.Fulfillment)
	}

	start, err := parseQueryTime(query.Get("start"), loc)
	if err != nil {
		return filters, fmt.Errorf("data inicial inválida: %w", err)
	}
	end, err := parseQueryTime(query.Get("end"), loc)
	if err != nil {
		return filters, fmt.Errorf("data final inválida: %w", err)
	}
	if (start == nil) != (end == nil) {
		return filters, errors.New("informe data inicial e final")
	}
	filters.Period.Start = start
	filters.Period.End = end

	for _, raw := range query["accountIds"] {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filters.AccountIDs = append(filters.AccountIDs, id)
			}
		}
	}

	return filters, nil
}

func parseQueryTime(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	return utils.ParseDate(value, loc)
}

func writeDashboardError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, dashboard.ErrInvalidPeriod) {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error("dashboard: falha ao processar")
	apiErrors.WriteError(w, apiErrors.ErrAggregation, err.Error(), nil)
}

// dashboardRequest valida a autenticação antes de qualquer leitura da base
func dashboardRequest(w http.ResponseWriter, r *http.Request, loc *time.Location) (string, domain.DashboardFilters, bool) {
	claims, ok := currentUser(w, r)
	if !ok {
		return "", domain.DashboardFilters{}, false
	}

	filters, err := parseDashboardFilters(r.URL.Query(), loc)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, err.Error(), nil)
		return "", domain.DashboardFilters{}, false
	}

	return claims.UserID, filters, true
}

func GetDashboardStats(service dashboard.DashboardService, loc *time.Location) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, filters, ok := dashboardRequest(w, r, loc)
		if !ok {
			return
		}

		result, err := service.GetStats(r.Context(), userID, filters)
		if err != nil {
			writeDashboardError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, result)
	})
}

func GetTopProducts(service dashboard.DashboardService, loc *time.Location) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, filters, ok := dashboardRequest(w, r, loc)
		if !ok {
			return
		}

		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Limite inválido", nil)
				return
			}
			limit = parsed
		}

		products, err := service.TopProducts(r.Context(), userID, filters, limit)
		if err != nil {
			writeDashboardError(w, r, err)
			return
		}
		if products == nil {
			products = []domain.ProductRevenue{}
		}

		writeJSON(w, r, http.StatusOK, map[string]any{"products": products})
	})
}

func GetRevenueBreakdown(service dashboard.DashboardService, loc *time.Location) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, filters, ok := dashboardRequest(w, r, loc)
		if !ok {
			return
		}

		breakdown, err := service.RevenueBreakdown(r.Context(), userID, filters)
		if err != nil {
			writeDashboardError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, breakdown)
	})
}
