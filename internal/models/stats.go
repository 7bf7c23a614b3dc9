package models

import "time"

// Stats - сводка для панели: pendentes = NOVO+EM_ANALISE, resolvidos = CONCLUIDO
type Stats struct {
	Total      int `json:"total"`
	Pendentes  int `json:"pendentes"`
	Resolvidos int `json:"resolvidos"`
}

// ComputeStats пересчитывает сводку полным проходом по коллекции
func ComputeStats(occurrences []Occurrence) Stats {
	stats := Stats{Total: len(occurrences)}
	for i := range occurrences {
		switch {
		case occurrences[i].Status.Pending():
			stats.Pendentes++
		case occurrences[i].Status == StatusConcluido:
			stats.Resolvidos++
		}
	}
	return stats
}

// CountBy считает происшествия по значению ключа; пустые значения пропускаются
func CountBy(occurrences []Occurrence, key func(*Occurrence) string) map[string]int {
	counts := make(map[string]int)
	for i := range occurrences {
		value := key(&occurrences[i])
		if value == "" {
			continue
		}
		counts[value]++
	}
	return counts
}

// ByTipo, ByStatus, ByPrioridade - ключи для CountBy
func ByTipo(o *Occurrence) string       { return o.Tipo }
func ByStatus(o *Occurrence) string     { return string(o.Status) }
func ByPrioridade(o *Occurrence) string { return string(o.Prioridade) }

// FilterByDate оставляет происшествия, созданные в интервале [start, end]; nil - без границы
func FilterByDate(occurrences []Occurrence, start, end *time.Time) []Occurrence {
	filtered := make([]Occurrence, 0, len(occurrences))
	for _, o := range occurrences {
		if start != nil && o.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && o.CreatedAt.After(*end) {
			continue
		}
		filtered = append(filtered, o)
	}
	return filtered
}

// Report - расширенная сводка для страницы отчетов
type Report struct {
	Stats
	PorTipo       map[string]int `json:"porTipo"`
	PorStatus     map[string]int `json:"porStatus"`
	PorPrioridade map[string]int `json:"porPrioridade"`
}

// BuildReport строит отчет по коллекции
func BuildReport(occurrences []Occurrence) Report {
	return Report{
		Stats:         ComputeStats(occurrences),
		PorTipo:       CountBy(occurrences, ByTipo),
		PorStatus:     CountBy(occurrences, ByStatus),
		PorPrioridade: CountBy(occurrences, ByPrioridade),
	}
}
