package taxing

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/sales-sync-api/infrastructure/repository"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/log"
	"github.com/vfg2006/sales-sync-api/pkg/utils"
)

//go:generate mockgen -source=schedule_service.go -destination=mocks/schedule_service.go -package=mocks

type ScheduleManager interface {
	ListSchedules(ctx context.Context, userID string, activeOnly bool) ([]*domain.TaxRateSchedule, error)
	CreateSchedule(ctx context.Context, userID string, req domain.TaxScheduleRequest) (*domain.TaxRateSchedule, error)
	UpdateSchedule(ctx context.Context, userID string, id int64, req domain.TaxScheduleRequest) (*domain.TaxRateSchedule, error)
	DeleteSchedule(ctx context.Context, userID string, id int64) error
}

// ScheduleService gerencia as alíquotas cadastradas pelo usuário
type ScheduleService struct {
	repository repository.TaxScheduleRepository
	loc        *time.Location
}

func NewScheduleService(repo repository.TaxScheduleRepository, loc *time.Location) *ScheduleService {
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleService{
		repository: repo,
		loc:        loc,
	}
}

func (s *ScheduleService) ListSchedules(ctx context.Context, userID string, activeOnly bool) ([]*domain.TaxRateSchedule, error) {
	schedules, err := s.repository.ListByUser(ctx, userID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar alíquotas: %w", err)
	}
	return schedules, nil
}

func (s *ScheduleService) CreateSchedule(ctx context.Context, userID string, req domain.TaxScheduleRequest) (*domain.TaxRateSchedule, error) {
	schedule := &domain.TaxRateSchedule{UserID: userID, Active: true}
	if err := s.apply(schedule, req); err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, schedule); err != nil {
		return nil, err
	}

	id, err := s.repository.Create(ctx, schedule)
	if err != nil {
		return nil, fmt.Errorf("erro ao salvar alíquota: %w", err)
	}
	schedule.ID = id

	log.ForContext(ctx).WithFields(log.Fields{
		"user_id":     userID,
		"schedule_id": id,
		"rate":        schedule.RatePercent,
	}).Info("Alíquota cadastrada")

	return schedule, nil
}

func (s *ScheduleService) UpdateSchedule(ctx context.Context, userID string, id int64, req domain.TaxScheduleRequest) (*domain.TaxRateSchedule, error) {
	schedule, err := s.repository.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar alíquota: %w", err)
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	if err := s.apply(schedule, req); err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, schedule); err != nil {
		return nil, err
	}

	if err := s.repository.Update(ctx, schedule); err != nil {
		return nil, fmt.Errorf("erro ao atualizar alíquota: %w", err)
	}

	return schedule, nil
}

func (s *ScheduleService) DeleteSchedule(ctx context.Context, userID string, id int64) error {
	deleted, err := s.repository.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("erro ao remover alíquota: %w", err)
	}
	if !deleted {
		return ErrScheduleNotFound
	}
	return nil
}

func (s *ScheduleService) apply(schedule *domain.TaxRateSchedule, req domain.TaxScheduleRequest) error {
	if req.RatePercent < 0 || req.RatePercent > 100 {
		return fmt.Errorf("%w: percentual deve estar entre 0 e 100", ErrInvalidSchedule)
	}

	from, err := utils.ParseDate(req.EffectiveFrom, s.loc)
	if err != nil || from == nil {
		return fmt.Errorf("%w: início de vigência obrigatório no formato AAAA-MM-DD", ErrInvalidSchedule)
	}

	var to *time.Time
	if req.EffectiveTo != nil && *req.EffectiveTo != "" {
		to, err = utils.ParseDate(*req.EffectiveTo, s.loc)
		if err != nil {
			return fmt.Errorf("%w: fim de vigência no formato AAAA-MM-DD", ErrInvalidSchedule)
		}
		if to.Before(*from) {
			return fmt.Errorf("%w: fim de vigência anterior ao início", ErrInvalidSchedule)
		}
	}

	schedule.AccountID = req.AccountID
	schedule.RatePercent = req.RatePercent
	schedule.EffectiveFrom = *from
	schedule.EffectiveTo = to
	if req.Active != nil {
		schedule.Active = *req.Active
	}

	return nil
}

// checkOverlap impede duas alíquotas ativas no mesmo escopo com vigências cruzadas
func (s *ScheduleService) checkOverlap(ctx context.Context, schedule *domain.TaxRateSchedule) error {
	if !schedule.Active {
		return nil
	}

	existing, err := s.repository.ListByUser(ctx, schedule.UserID, true)
	if err != nil {
		return fmt.Errorf("erro ao listar alíquotas: %w", err)
	}

	end := time.Date(9999, 12, 31, 0, 0, 0, 0, s.loc)
	if schedule.EffectiveTo != nil {
		end = *schedule.EffectiveTo
	}

	for _, other := range existing {
		if other.ID == schedule.ID || !other.Active || !other.SameScope(schedule) {
			continue
		}
		if other.Overlaps(schedule.EffectiveFrom, end) {
			return fmt.Errorf("%w (alíquota %d)", ErrOverlappingSchedule, other.ID)
		}
	}

	return nil
}
