package domain

import "time"

// TaxRateSchedule é uma alíquota vigente em um intervalo de datas
type TaxRateSchedule struct {
	ID            int64      `json:"id"`
	UserID        string     `json:"userId"`
	AccountID     *string    `json:"accountId,omitempty"`
	RatePercent   float64    `json:"ratePercent"`
	EffectiveFrom time.Time  `json:"effectiveFrom"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`
	Active        bool       `json:"active"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Overlaps indica se a vigência cruza o intervalo [start, end].
// A comparação é por data de calendário: o banco devolve DATE em UTC e as
// requisições chegam no fuso de negócio. EffectiveTo nulo significa vigência sem fim.
func (s *TaxRateSchedule) Overlaps(start, end time.Time) bool {
	if CalendarDate(s.EffectiveFrom).After(CalendarDate(end)) {
		return false
	}
	if s.EffectiveTo != nil && CalendarDate(*s.EffectiveTo).Before(CalendarDate(start)) {
		return false
	}
	return true
}

// CalendarDate descarta hora e fuso, mantendo o dia do calendário de t
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameScope indica se as duas alíquotas valem para o mesmo escopo de conta
func (s *TaxRateSchedule) SameScope(other *TaxRateSchedule) bool {
	if s.UserID != other.UserID {
		return false
	}
	if s.AccountID == nil || other.AccountID == nil {
		return s.AccountID == nil && other.AccountID == nil
	}
	return *s.AccountID == *other.AccountID
}

type TaxScheduleRequest struct {
	AccountID     *string `json:"accountId"`
	RatePercent   float64 `json:"ratePercent"`
	EffectiveFrom string  `json:"effectiveFrom"`
	EffectiveTo   *string `json:"effectiveTo"`
	Active        *bool   `json:"active"`
}

// SKUCost é o custo unitário de um SKU para um usuário
type SKUCost struct {
	UserID   string  `json:"userId"`
	SKU      string  `json:"sku"`
	UnitCost float64 `json:"unitCost"`
}
