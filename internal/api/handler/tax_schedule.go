package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/internal/usecases/taxing"
	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
	"github.com/vfg2006/sales-sync-api/pkg/log"
)

func writeTaxError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, taxing.ErrOverlappingSchedule):
		apiErrors.WriteError(w, apiErrors.ErrOverlappingSchedule, err.Error(), nil)
	case errors.Is(err, taxing.ErrScheduleNotFound):
		apiErrors.WriteError(w, apiErrors.ErrScheduleNotFound, err.Error(), nil)
	case errors.Is(err, taxing.ErrInvalidSchedule):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
	default:
		log.ForContext(r.Context()).WithError(err).Error("tax: erro ao processar alíquota")
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao processar alíquota", nil)
	}
}

func scheduleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := httprouter.ParamsFromContext(r.Context()).ByName("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID da alíquota inválido", nil)
		return 0, false
	}
	return id, true
}

func decodeScheduleRequest(w http.ResponseWriter, r *http.Request) (domain.TaxScheduleRequest, bool) {
	var req domain.TaxScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
		return req, false
	}
	return req, true
}

func ListTaxSchedules(service taxing.ScheduleManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}

		activeOnly := r.URL.Query().Get("active") == "true"
		schedules, err := service.ListSchedules(r.Context(), claims.UserID, activeOnly)
		if err != nil {
			writeTaxError(w, r, err)
			return
		}
		if schedules == nil {
			schedules = []*domain.TaxRateSchedule{}
		}

		writeJSON(w, r, http.StatusOK, map[string]any{"schedules": schedules})
	})
}

func CreateTaxSchedule(service taxing.ScheduleManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}

		req, ok := decodeScheduleRequest(w, r)
		if !ok {
			return
		}

		schedule, err := service.CreateSchedule(r.Context(), claims.UserID, req)
		if err != nil {
			writeTaxError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, schedule)
	})
}

func UpdateTaxSchedule(service taxing.ScheduleManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := scheduleID(w, r)
		if !ok {
			return
		}

		req, ok := decodeScheduleRequest(w, r)
		if !ok {
			return
		}

		schedule, err := service.UpdateSchedule(r.Context(), claims.UserID, id, req)
		if err != nil {
			writeTaxError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, schedule)
	})
}

func DeleteTaxSchedule(service taxing.ScheduleManager) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}

		id, ok := scheduleID(w, r)
		if !ok {
			return
		}

		if err := service.DeleteSchedule(r.Context(), claims.UserID, id); err != nil {
			writeTaxError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}
