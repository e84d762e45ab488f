package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/sales-sync-api/internal/usecases/progress"
)

type healthcheckResponse struct {
	Status         string    `json:"status"`
	Time           time.Time `json:"time"`
	Uptime         string    `json:"uptime"`
	ProgressStream int       `json:"progressStreams"`
}

// HealthcheckHandler responde com o tempo no ar e a quantidade de streams de
// progresso abertos nesta instância
func HealthcheckHandler(hub *progress.Hub, startedAt time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		resp := healthcheckResponse{
			Status: "ok",
			Time:   now,
			Uptime: now.Sub(startedAt).Round(time.Second).String(),
		}
		if hub != nil {
			resp.ProgressStream = hub.TotalSubscribers()
		}

		writeJSON(w, r, http.StatusOK, resp)
	})
}
