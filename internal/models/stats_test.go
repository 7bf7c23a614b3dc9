package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func occurrencesWith(statuses ...Status) []Occurrence {
	out := make([]Occurrence, len(statuses))
	for i, s := range statuses {
		out[i] = Occurrence{Status: s, Tipo: TipoIncendio, Prioridade: PriorityMedia}
	}
	return out
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(occurrencesWith(StatusNovo, StatusEmAnalise, StatusConcluido, StatusEmAtendimento, StatusCancelado))

	assert.Equal(t, Stats{Total: 5, Pendentes: 2, Resolvidos: 1}, stats)
	assert.LessOrEqual(t, stats.Pendentes+stats.Resolvidos, stats.Total)
}

func TestComputeStats_EqualsTotalWithoutInProgressOrCancelled(t *testing.T) {
	stats := ComputeStats(occurrencesWith(StatusNovo, StatusEmAnalise, StatusConcluido, StatusConcluido))

	assert.Equal(t, stats.Total, stats.Pendentes+stats.Resolvidos)
}

func TestComputeStats_Empty(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestBuildReport(t *testing.T) {
	occs := occurrencesWith(StatusNovo, StatusNovo, StatusConcluido)
	occs[2].Tipo = TipoAlagamento
	occs[1].Tipo = ""

	report := BuildReport(occs)

	assert.Equal(t, map[string]int{TipoIncendio: 1, TipoAlagamento: 1}, report.PorTipo)
	assert.Equal(t, map[string]int{"NOVO": 2, "CONCLUIDO": 1}, report.PorStatus)
	assert.Equal(t, 3, report.PorPrioridade["MEDIA"])
}

func TestFilterByDate(t *testing.T) {
	base := time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC)
	occs := occurrencesWith(StatusNovo, StatusNovo, StatusNovo)
	for i := range occs {
		occs[i].CreatedAt = base.AddDate(0, 0, i)
	}

	start := base.AddDate(0, 0, 1)
	assert.Len(t, FilterByDate(occs, &start, nil), 2)
	assert.Len(t, FilterByDate(occs, nil, &start), 2)
	assert.Len(t, FilterByDate(occs, nil, nil), 3)
}
