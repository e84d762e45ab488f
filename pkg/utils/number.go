package utils

import "math"

func RoundWithTwoDecimalPlace(f float64) float64 {
	f = SafeNumber(f)
	if f == 0 {
		return 0
	}

	// Acima de 2^53 não há casas decimais a arredondar e f*100 pode estourar
	if math.Abs(f) >= 1<<53 {
		return f
	}

	return SafeNumber(math.Round(f*100) / 100)
}

// SafeNumber devolve 0 para NaN e ±Inf
func SafeNumber(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// PercentChange calcula a variação percentual entre dois valores.
// Quando o valor anterior é zero o resultado é 0.
func PercentChange(current, previous float64) float64 {
	current, previous = SafeNumber(current), SafeNumber(previous)
	if previous == 0 {
		return 0
	}
	return SafeNumber((current - previous) / math.Abs(previous) * 100)
}
