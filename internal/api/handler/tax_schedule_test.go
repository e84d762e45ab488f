package handler

import (
	"net/http"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/internal/usecases/taxing"
	"github.com/vfg2006/sales-sync-api/internal/usecases/taxing/mocks"
	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
)

func TestCreateTaxSchedule(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(s *mocks.MockScheduleManager)
		wantStatus int
		wantCode   string
	}{
		{
			name: "Cria alíquota",
			body: `{"ratePercent":6,"effectiveFrom":"2024-01-01"}`,
			setup: func(s *mocks.MockScheduleManager) {
				s.EXPECT().CreateSchedule(gomock.Any(), testUserID, domain.TaxScheduleRequest{RatePercent: 6, EffectiveFrom: "2024-01-01"}).
					Return(&domain.TaxRateSchedule{ID: 1, RatePercent: 6, Active: true}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "Vigência sobreposta",
			body: `{"ratePercent":4,"effectiveFrom":"2024-01-01"}`,
			setup: func(s *mocks.MockScheduleManager) {
				s.EXPECT().CreateSchedule(gomock.Any(), testUserID, gomock.Any()).Return(nil, taxing.ErrOverlappingSchedule)
			},
			wantStatus: http.StatusConflict,
			wantCode:   apiErrors.ErrOverlappingSchedule,
		},
		{
			name: "Percentual inválido",
			body: `{"ratePercent":140,"effectiveFrom":"2024-01-01"}`,
			setup: func(s *mocks.MockScheduleManager) {
				s.EXPECT().CreateSchedule(gomock.Any(), testUserID, gomock.Any()).Return(nil, taxing.ErrInvalidSchedule)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidRequest,
		},
		{
			name:       "Corpo inválido",
			body:       `nada`,
			setup:      func(s *mocks.MockScheduleManager) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockScheduleManager(ctrl)
			tt.setup(service)

			rec := serve(CreateTaxSchedule(service), withUser(newRequest(http.MethodPost, "/v1/tax-schedules", tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Contains(t, rec.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestUpdateAndDeleteTaxSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockScheduleManager(ctrl)

	t.Run("Alíquota inexistente", func(t *testing.T) {
		service.EXPECT().UpdateSchedule(gomock.Any(), testUserID, int64(9), gomock.Any()).Return(nil, taxing.ErrScheduleNotFound)

		r := withParams(withUser(newRequest(http.MethodPut, "/v1/tax-schedules/9", `{"ratePercent":5,"effectiveFrom":"2024-01-01"}`)),
			httprouter.Param{Key: "id", Value: "9"})
		rec := serve(UpdateTaxSchedule(service), r)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrScheduleNotFound)
	})

	t.Run("ID inválido", func(t *testing.T) {
		r := withParams(withUser(newRequest(http.MethodDelete, "/v1/tax-schedules/abc", "")),
			httprouter.Param{Key: "id", Value: "abc"})
		rec := serve(DeleteTaxSchedule(service), r)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Remove", func(t *testing.T) {
		service.EXPECT().DeleteSchedule(gomock.Any(), testUserID, int64(3)).Return(nil)

		r := withParams(withUser(newRequest(http.MethodDelete, "/v1/tax-schedules/3", "")),
			httprouter.Param{Key: "id", Value: "3"})
		rec := serve(DeleteTaxSchedule(service), r)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestListTaxSchedules(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockScheduleManager(ctrl)
	service.EXPECT().ListSchedules(gomock.Any(), testUserID, true).Return(nil, nil)

	rec := serve(ListTaxSchedules(service), withUser(newRequest(http.MethodGet, "/v1/tax-schedules?active=true", "")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"schedules":[]}`, rec.Body.String())
}
