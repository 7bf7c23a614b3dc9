package mapview

import "github.com/shenikar/sisocc/internal/models"

// Counts - счетчики кнопок фильтра
type Counts struct {
	All       int `json:"all"`
	Novo      int `json:"novo"`
	EmAnalise int `json:"emAnalise"`
	Concluido int `json:"concluido"`
}

// Apply - чистая выборка по статусу и приоритету; входной срез не меняется.
// Limit и Offset фильтра здесь не используются.
func Apply(occurrences []models.Occurrence, filter models.Filter) []models.Occurrence {
	out := make([]models.Occurrence, 0, len(occurrences))
	for i := range occurrences {
		if filter.Match(&occurrences[i]) {
			out = append(out, occurrences[i])
		}
	}
	return out
}

// CountFilters считает происшествия для кнопок фильтра
func CountFilters(occurrences []models.Occurrence) Counts {
	c := Counts{All: len(occurrences)}
	for i := range occurrences {
		switch occurrences[i].Status {
		case models.StatusNovo:
			c.Novo++
		case models.StatusEmAnalise:
			c.EmAnalise++
		case models.StatusConcluido:
			c.Concluido++
		}
	}
	return c
}
