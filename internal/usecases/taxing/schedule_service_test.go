package taxing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/sales-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

func TestScheduleService_CreateSchedule(t *testing.T) {
	janTo := dateUTC(2024, 1, 31)
	existing := []*domain.TaxRateSchedule{
		{ID: 1, UserID: "u1", RatePercent: 6, EffectiveFrom: dateUTC(2024, 1, 1), EffectiveTo: &janTo, Active: true},
	}

	tests := []struct {
		name    string
		req     domain.TaxScheduleRequest
		setup   func(repo *mocks.MockTaxScheduleRepository)
		wantErr error
	}{
		{
			name: "Vigência seguinte é aceita",
			req:  domain.TaxScheduleRequest{RatePercent: 8, EffectiveFrom: "2024-02-01"},
			setup: func(repo *mocks.MockTaxScheduleRepository) {
				repo.EXPECT().ListByUser(gomock.Any(), "u1", true).Return(existing, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(2), nil)
			},
		},
		{
			name: "Vigência sobreposta é rejeitada",
			req:  domain.TaxScheduleRequest{RatePercent: 8, EffectiveFrom: "2024-01-15", EffectiveTo: strPtr("2024-03-01")},
			setup: func(repo *mocks.MockTaxScheduleRepository) {
				repo.EXPECT().ListByUser(gomock.Any(), "u1", true).Return(existing, nil)
			},
			wantErr: ErrOverlappingSchedule,
		},
		{
			name: "Escopo de conta diferente não conflita",
			req:  domain.TaxScheduleRequest{AccountID: strPtr("acc1"), RatePercent: 8, EffectiveFrom: "2024-01-15"},
			setup: func(repo *mocks.MockTaxScheduleRepository) {
				repo.EXPECT().ListByUser(gomock.Any(), "u1", true).Return(existing, nil)
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(3), nil)
			},
		},
		{
			name:    "Percentual fora do intervalo",
			req:     domain.TaxScheduleRequest{RatePercent: 120, EffectiveFrom: "2024-01-01"},
			setup:   func(repo *mocks.MockTaxScheduleRepository) {},
			wantErr: ErrInvalidSchedule,
		},
		{
			name:    "Fim antes do início",
			req:     domain.TaxScheduleRequest{RatePercent: 5, EffectiveFrom: "2024-02-01", EffectiveTo: strPtr("2024-01-01")},
			setup:   func(repo *mocks.MockTaxScheduleRepository) {},
			wantErr: ErrInvalidSchedule,
		},
		{
			name:    "Data de início ausente",
			req:     domain.TaxScheduleRequest{RatePercent: 5},
			setup:   func(repo *mocks.MockTaxScheduleRepository) {},
			wantErr: ErrInvalidSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockTaxScheduleRepository(ctrl)
			tt.setup(repo)

			service := NewScheduleService(repo, time.UTC)
			schedule, err := service.CreateSchedule(context.Background(), "u1", tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, schedule)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, schedule.ID)
			assert.True(t, schedule.Active)
		})
	}
}

func TestScheduleService_CreateSchedule_BusinessTimezone(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	janTo := dateUTC(2024, 1, 31)
	existing := []*domain.TaxRateSchedule{
		{ID: 1, UserID: "u1", RatePercent: 6, EffectiveFrom: dateUTC(2024, 1, 1), EffectiveTo: &janTo, Active: true},
	}

	t.Run("Último dia compartilhado é rejeitado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockTaxScheduleRepository(ctrl)
		repo.EXPECT().ListByUser(gomock.Any(), "u1", true).Return(existing, nil)

		service := NewScheduleService(repo, saoPaulo)
		schedule, err := service.CreateSchedule(context.Background(), "u1", domain.TaxScheduleRequest{RatePercent: 8, EffectiveFrom: "2024-01-31"})

		assert.ErrorIs(t, err, ErrOverlappingSchedule)
		assert.Nil(t, schedule)
	})

	t.Run("Dia seguinte é aceito", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockTaxScheduleRepository(ctrl)
		repo.EXPECT().ListByUser(gomock.Any(), "u1", true).Return(existing, nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(2), nil)

		service := NewScheduleService(repo, saoPaulo)
		schedule, err := service.CreateSchedule(context.Background(), "u1", domain.TaxScheduleRequest{RatePercent: 8, EffectiveFrom: "2024-02-01"})

		require.NoError(t, err)
		assert.Equal(t, int64(2), schedule.ID)
	})

	t.Run("Fim compartilhado com início existente é rejeitado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockTaxScheduleRepository(ctrl)
		repo.EXPECT().ListByUser(gomock.Any(), "u1", true).Return(existing, nil)

		service := NewScheduleService(repo, saoPaulo)
		_, err := service.CreateSchedule(context.Background(), "u1", domain.TaxScheduleRequest{
			RatePercent:   8,
			EffectiveFrom: "2023-12-01",
			EffectiveTo:   strPtr("2024-01-01"),
		})

		assert.ErrorIs(t, err, ErrOverlappingSchedule)
	})
}

func TestScheduleService_UpdateSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTaxScheduleRepository(ctrl)
	service := NewScheduleService(repo, time.UTC)

	current := &domain.TaxRateSchedule{ID: 1, UserID: "u1", RatePercent: 6, EffectiveFrom: dateUTC(2024, 1, 1), Active: true}

	repo.EXPECT().GetByID(gomock.Any(), "u1", int64(1)).Return(current, nil)
	// a própria alíquota não conta como sobreposição
	repo.EXPECT().ListByUser(gomock.Any(), "u1", true).Return([]*domain.TaxRateSchedule{current}, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	updated, err := service.UpdateSchedule(context.Background(), "u1", 1, domain.TaxScheduleRequest{RatePercent: 7.5, EffectiveFrom: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 7.5, updated.RatePercent)

	repo.EXPECT().GetByID(gomock.Any(), "u1", int64(9)).Return(nil, nil)
	_, err = service.UpdateSchedule(context.Background(), "u1", 9, domain.TaxScheduleRequest{RatePercent: 5, EffectiveFrom: "2024-01-01"})
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestScheduleService_DeleteSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockTaxScheduleRepository(ctrl)
	service := NewScheduleService(repo, time.UTC)

	repo.EXPECT().Delete(gomock.Any(), "u1", int64(1)).Return(true, nil)
	repo.EXPECT().Delete(gomock.Any(), "u1", int64(2)).Return(false, nil)

	assert.NoError(t, service.DeleteSchedule(context.Background(), "u1", 1))
	assert.ErrorIs(t, service.DeleteSchedule(context.Background(), "u1", 2), ErrScheduleNotFound)
}
