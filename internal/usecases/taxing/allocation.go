package taxing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/log"
	"github.com/vfg2006/sales-sync-api/pkg/utils"
)

var hundred = decimal.NewFromInt(100)

type bucketKey struct {
	month     string
	accountID string
}

// AllocateTax distribui o faturamento bruto em meses (YYYY-MM no fuso de
// negócio) e aplica a alíquota vigente em cada mês. Meses sem alíquota
// contribuem com zero e são retornados em gaps.
func AllocateTax(orders []*domain.Order, schedules []*domain.TaxRateSchedule, loc *time.Location) (float64, []string) {
	if loc == nil {
		loc = time.UTC
	}

	active := activeSorted(schedules)

	buckets := make(map[bucketKey]decimal.Decimal)
	for _, order := range orders {
		if order == nil || order.SaleDate == nil {
			continue
		}
		key := bucketKey{month: utils.MonthKey(*order.SaleDate, loc), accountID: order.AccountID}
		gross := decimal.NewFromFloat(utils.SafeNumber(order.GrossAmount))
		buckets[key] = buckets[key].Add(gross)
	}

	total := decimal.Zero
	gapSet := make(map[string]struct{})

	for key, revenue := range buckets {
		monthStart, monthEnd, err := monthBounds(key.month, loc)
		if err != nil {
			continue
		}

		schedule := matchSchedule(active, key.accountID, monthStart, monthEnd, loc)
		if schedule == nil {
			if !revenue.IsZero() {
				gapSet[key.month] = struct{}{}
			}
			continue
		}

		rate := decimal.NewFromFloat(utils.SafeNumber(schedule.RatePercent))
		total = total.Add(revenue.Mul(rate).Div(hundred))
	}

	gaps := make([]string, 0, len(gapSet))
	for month := range gapSet {
		gaps = append(gaps, month)
	}
	sort.Strings(gaps)

	if len(gaps) > 0 {
		log.L.WithField("months", gaps).Info("Meses com faturamento sem alíquota cadastrada")
	}

	return utils.SafeNumber(total.Round(2).InexactFloat64()), gaps
}

func activeSorted(schedules []*domain.TaxRateSchedule) []*domain.TaxRateSchedule {
	out := make([]*domain.TaxRateSchedule, 0, len(schedules))
	for _, s := range schedules {
		if s != nil && s.Active {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveFrom.Before(out[j].EffectiveFrom)
	})
	return out
}

// matchSchedule retorna a primeira alíquota que cruza o mês. Alíquotas da
// própria conta têm prioridade sobre as do usuário inteiro.
func matchSchedule(schedules []*domain.TaxRateSchedule, accountID string, monthStart, monthEnd time.Time, loc *time.Location) *domain.TaxRateSchedule {
	var userWide *domain.TaxRateSchedule

	for _, s := range schedules {
		if !overlapsMonth(s, monthStart, monthEnd, loc) {
			continue
		}
		if s.AccountID == nil {
			if userWide == nil {
				userWide = s
			}
			continue
		}
		if *s.AccountID == accountID {
			return s
		}
	}

	return userWide
}

// As vigências são datas sem hora, comparadas no fuso de negócio
func overlapsMonth(s *domain.TaxRateSchedule, monthStart, monthEnd time.Time, loc *time.Location) bool {
	from := civilDate(s.EffectiveFrom, loc)
	if from.After(monthEnd) {
		return false
	}
	if s.EffectiveTo != nil && civilDate(*s.EffectiveTo, loc).Before(monthStart) {
		return false
	}
	return true
}

func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func monthBounds(month string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(utils.MonthKeyLayout, month, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}
