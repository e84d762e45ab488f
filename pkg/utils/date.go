package utils

import "time"

const MonthKeyLayout = "2006-01"

// ParseDate interpreta uma data YYYY-MM-DD no fuso informado.
// String vazia retorna nil sem erro.
func ParseDate(dateStr string, loc *time.Location) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	date, err := time.ParseInLocation(time.DateOnly, dateStr, loc)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay retorna o último milissegundo do dia
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).Add(24*time.Hour - time.Millisecond)
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Millisecond)
}

// MonthKey retorna YYYY-MM da data no fuso informado
func MonthKey(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(MonthKeyLayout)
}
