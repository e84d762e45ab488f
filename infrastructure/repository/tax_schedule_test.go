package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

var taxScheduleColumnNames = []string{
	"id", "user_id", "account_id", "rate_percent", "effective_from", "effective_to", "active", "created_at", "updated_at",
}

func TestTaxScheduleRepository_ListByUser(t *testing.T) {
	conn, mock := newMockConn(t)
	repo := NewTaxScheduleRepository(conn)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`SELECT t.id, .* FROM tax_schedules t WHERE t.user_id = \$1 AND t.active = \$2 ORDER BY t.effective_from ASC, t.id ASC`).
		WithArgs("u1", true).
		WillReturnRows(sqlmock.NewRows(taxScheduleColumnNames).
			AddRow(1, "u1", nil, 6.0, from, to, true, now, now).
			AddRow(2, "u1", "acc1", 8.5, to.AddDate(0, 0, 1), nil, true, now, now))

	schedules, err := repo.ListByUser(context.Background(), "u1", true)

	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Nil(t, schedules[0].AccountID)
	require.NotNil(t, schedules[0].EffectiveTo)
	assert.True(t, schedules[0].EffectiveTo.Equal(to))
	require.NotNil(t, schedules[1].AccountID)
	assert.Equal(t, "acc1", *schedules[1].AccountID)
	assert.Nil(t, schedules[1].EffectiveTo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaxScheduleRepository_CreateAndDelete(t *testing.T) {
	conn, mock := newMockConn(t)
	repo := NewTaxScheduleRepository(conn)

	schedule := &domain.TaxRateSchedule{
		UserID:        "u1",
		RatePercent:   6,
		EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
	}

	mock.ExpectQuery(`INSERT INTO tax_schedules .* RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := repo.Create(context.Background(), schedule)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	mock.ExpectExec(`DELETE FROM tax_schedules WHERE`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "u1", 99)
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSKUCostRepository_FindUnitCosts(t *testing.T) {
	t.Run("Lista vazia não consulta o banco", func(t *testing.T) {
		conn, mock := newMockConn(t)

		costs, err := NewSKUCostRepository(conn).FindUnitCosts(context.Background(), "u1", nil)
		require.NoError(t, err)
		assert.Empty(t, costs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Retorna apenas os SKUs cadastrados", func(t *testing.T) {
		conn, mock := newMockConn(t)
		mock.ExpectQuery(`SELECT s.sku, s.unit_cost FROM sku_costs s`).
			WillReturnRows(sqlmock.NewRows([]string{"sku", "unit_cost"}).AddRow("S1", 20.0))

		costs, err := NewSKUCostRepository(conn).FindUnitCosts(context.Background(), "u1", []string{"S1", "S2"})
		require.NoError(t, err)
		assert.Equal(t, map[string]float64{"S1": 20}, costs)
	})
}
