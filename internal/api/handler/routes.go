package handler

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vfg2006/sales-sync-api/internal/api/handler/router"
	"github.com/vfg2006/sales-sync-api/internal/usecases/account"
	"github.com/vfg2006/sales-sync-api/internal/usecases/dashboard"
	"github.com/vfg2006/sales-sync-api/internal/usecases/progress"
	"github.com/vfg2006/sales-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/sales-sync-api/internal/usecases/taxing"
	"github.com/vfg2006/sales-sync-api/pkg/middleware"
)

type middlewares = []func(http.Handler) http.Handler

func Healthcheck(hub *progress.Hub, startedAt time.Time) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(hub, startedAt),
		},
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: promhttp.Handler(),
		},
	}
}

func Sync(service syncing.Syncer, hub *progress.Hub, heartbeat time.Duration) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/sync",
			Method:      http.MethodPost,
			Handler:     TriggerSync(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/sync/progress",
			Method:      http.MethodGet,
			Handler:     SyncProgress(hub, heartbeat),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/sync/jobs",
			Method:      http.MethodGet,
			Handler:     ListSyncJobs(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
	}
}

func Dashboard(service dashboard.DashboardService, loc *time.Location) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/dashboard/stats",
			Method:      http.MethodGet,
			Handler:     GetDashboardStats(service, loc),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/dashboard/top-products",
			Method:      http.MethodGet,
			Handler:     GetTopProducts(service, loc),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/dashboard/revenue-breakdown",
			Method:      http.MethodGet,
			Handler:     GetRevenueBreakdown(service, loc),
			Middlewares: middlewares{middleware.AllRoles()},
		},
	}
}

func TaxSchedules(service taxing.ScheduleManager) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/tax-schedules",
			Method:      http.MethodGet,
			Handler:     ListTaxSchedules(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/tax-schedules",
			Method:      http.MethodPost,
			Handler:     CreateTaxSchedule(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/tax-schedules/:id",
			Method:      http.MethodPut,
			Handler:     UpdateTaxSchedule(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
		{
			Path:        "/v1/tax-schedules/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteTaxSchedule(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
	}
}

func Accounts(service account.AccountService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts",
			Method:      http.MethodGet,
			Handler:     ListAccounts(service),
			Middlewares: middlewares{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/run/:type",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: middlewares{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: middlewares{middleware.AdminOrSupervisor()},
		},
	}
}
