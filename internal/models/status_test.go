package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus_Vocabularies(t *testing.T) {
	cases := map[string]Status{
		"NOVO":           StatusNovo,
		"Novo":           StatusNovo,
		"ABERTA":         StatusNovo,
		"Em Análise":     StatusEmAnalise,
		"em analise":     StatusEmAnalise,
		"EM_ANALISE":     StatusEmAnalise,
		"EM_ANDAMENTO":   StatusEmAtendimento,
		"Em Atendimento": StatusEmAtendimento,
		"Concluído":      StatusConcluido,
		"FECHADA":        StatusConcluido,
		" cancelado ":    StatusCancelado,
	}
	for raw, expected := range cases {
		status, err := ParseStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, expected, status, raw)
	}

	_, err := ParseStatus("ARQUIVADO")
	assert.Error(t, err)
}

func TestStatus_CanTransitionTo(t *testing.T) {
	// вперед по цепочке
	assert.True(t, StatusNovo.CanTransitionTo(StatusEmAnalise))
	assert.True(t, StatusNovo.CanTransitionTo(StatusConcluido))
	assert.True(t, StatusEmAnalise.CanTransitionTo(StatusEmAtendimento))
	assert.True(t, StatusEmAtendimento.CanTransitionTo(StatusConcluido))

	// назад нельзя
	assert.False(t, StatusEmAtendimento.CanTransitionTo(StatusNovo))
	assert.False(t, StatusEmAnalise.CanTransitionTo(StatusNovo))

	// отмена из любого нетерминального состояния
	for _, s := range []Status{StatusNovo, StatusEmAnalise, StatusEmAtendimento} {
		assert.True(t, s.CanTransitionTo(StatusCancelado), s)
	}
	assert.False(t, StatusConcluido.CanTransitionTo(StatusCancelado))
	assert.False(t, StatusCancelado.CanTransitionTo(StatusNovo))

	// повтор текущего состояния
	assert.True(t, StatusConcluido.CanTransitionTo(StatusConcluido))
	assert.False(t, StatusNovo.CanTransitionTo(Status("ARQUIVADO")))
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Em Análise", StatusEmAnalise.Label())
	assert.Equal(t, "Concluído", StatusConcluido.Label())
}

func TestPriority_UnmarshalJSON(t *testing.T) {
	var p Priority
	require.NoError(t, json.Unmarshal([]byte(`"crítica"`), &p))
	assert.Equal(t, PriorityCritica, p)
	assert.True(t, p.Urgent())

	assert.Error(t, json.Unmarshal([]byte(`"URGENTE"`), &p))
}

func TestNormalizeTipo(t *testing.T) {
	assert.Equal(t, "INCENDIO", NormalizeTipo("Incêndio"))
	assert.Equal(t, "QUEDA_DE_ARVORE", NormalizeTipo("Queda de Árvore"))
	assert.Equal(t, "TRANSITO", NormalizeTipo("Trânsito"))
}
