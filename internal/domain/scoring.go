package domain

// Штраф за одну находку каждого уровня.
const (
	maxScore        = 100
	criticalPenalty = 15
	warningPenalty  = 5
	infoPenalty     = 1
)

// CountSeverities считает находки по уровням. Неизвестный уровень считается как info.
func CountSeverities(findings []*Finding) SeverityCounts {
	var counts SeverityCounts
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			counts.Critical++
		case SeverityWarning:
			counts.Warning++
		default:
			counts.Info++
		}
	}
	return counts
}

// Score вычисляет итоговую оценку ревью: 100 минус штрафы, не ниже нуля.
func Score(counts SeverityCounts) int {
	score := maxScore -
		criticalPenalty*counts.Critical -
		warningPenalty*counts.Warning -
		infoPenalty*counts.Info
	if score < 0 {
		return 0
	}
	return score
}
