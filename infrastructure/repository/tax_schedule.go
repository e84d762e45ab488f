package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

const taxSchedulesTable = "tax_schedules t"

const taxScheduleColumns = "t.id, t.user_id, t.account_id, t.rate_percent, t.effective_from, t.effective_to, t.active, t.created_at, t.updated_at"

//go:generate mockgen -source=tax_schedule.go -destination=mocks/tax_schedule.go -package=mocks
type TaxScheduleRepository interface {
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]*domain.TaxRateSchedule, error)
	GetByID(ctx context.Context, userID string, id int64) (*domain.TaxRateSchedule, error)
	Create(ctx context.Context, schedule *domain.TaxRateSchedule) (int64, error)
	Update(ctx context.Context, schedule *domain.TaxRateSchedule) error
	Delete(ctx context.Context, userID string, id int64) (bool, error)
}

type taxScheduleRepository struct {
	conn *postgres.Connection
}

func NewTaxScheduleRepository(conn *postgres.Connection) TaxScheduleRepository {
	return &taxScheduleRepository{
		conn: conn,
	}
}

// ListByUser lista as alíquotas ordenadas por início de vigência
func (r *taxScheduleRepository) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]*domain.TaxRateSchedule, error) {
	builder := squirrel.
		Select(taxScheduleColumns).
		From(taxSchedulesTable).
		Where(squirrel.Eq{"t.user_id": userID}).
		OrderBy("t.effective_from ASC", "t.id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if activeOnly {
		builder = builder.Where(squirrel.Eq{"t.active": true})
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar alíquotas: %w", err)
	}
	defer rows.Close()

	schedules := make([]*domain.TaxRateSchedule, 0)
	for rows.Next() {
		s, err := scanTaxSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear alíquota: %w", err)
		}
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}

func (r *taxScheduleRepository) GetByID(ctx context.Context, userID string, id int64) (*domain.TaxRateSchedule, error) {
	sqlStr, args, err := squirrel.
		Select(taxScheduleColumns).
		From(taxSchedulesTable).
		Where(squirrel.Eq{"t.id": id, "t.user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	s, err := scanTaxSchedule(r.conn.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar alíquota: %w", err)
	}

	return s, nil
}

func scanTaxSchedule(row rowScanner) (*domain.TaxRateSchedule, error) {
	s := &domain.TaxRateSchedule{}
	var accountID sql.NullString
	var effectiveTo sql.NullTime

	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&accountID,
		&s.RatePercent,
		&s.EffectiveFrom,
		&effectiveTo,
		&s.Active,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if accountID.Valid {
		s.AccountID = &accountID.String
	}
	if effectiveTo.Valid {
		t := effectiveTo.Time
		s.EffectiveTo = &t
	}

	return s, nil
}

func (r *taxScheduleRepository) Create(ctx context.Context, s *domain.TaxRateSchedule) (int64, error) {
	sqlStr, args, err := squirrel.StatementBuilder.
		Insert("tax_schedules").
		Columns("user_id", "account_id", "rate_percent", "effective_from", "effective_to", "active").
		Values(s.UserID, s.AccountID, s.RatePercent, s.EffectiveFrom, s.EffectiveTo, s.Active).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var id int64
	if err := r.conn.QueryRowContext(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("erro ao criar alíquota: %w", err)
	}

	return id, nil
}

func (r *taxScheduleRepository) Update(ctx context.Context, s *domain.TaxRateSchedule) error {
	sqlStr, args, err := squirrel.
		Update("tax_schedules").
		Set("account_id", s.AccountID).
		Set("rate_percent", s.RatePercent).
		Set("effective_from", s.EffectiveFrom).
		Set("effective_to", s.EffectiveTo).
		Set("active", s.Active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID, "user_id": s.UserID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("erro ao atualizar alíquota: %w", err)
	}

	return nil
}

func (r *taxScheduleRepository) Delete(ctx context.Context, userID string, id int64) (bool, error) {
	sqlStr, args, err := squirrel.
		Delete("tax_schedules").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	res, err := r.conn.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao remover alíquota: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
