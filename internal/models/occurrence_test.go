package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOccurrence_UnmarshalJSON_NormalizesNumericFields(t *testing.T) {
	id := uuid.New()
	payload := `{
		"id": "` + id.String() + `",
		"tipo": "Incêndio",
		"status": "Em Análise",
		"prioridade": "ALTA",
		"latitude": "-8.05",
		"longitude": -34.9,
		"dataOcorrencia": "2026-10-01T12:00:00Z"
	}`

	var occ Occurrence
	require.NoError(t, json.Unmarshal([]byte(payload), &occ))

	assert.Equal(t, id, occ.ID)
	assert.Equal(t, "INCENDIO", occ.Tipo)
	assert.Equal(t, StatusEmAnalise, occ.Status)
	assert.Equal(t, -8.05, occ.Latitude)
	assert.Equal(t, -34.9, occ.Longitude)
	assert.Equal(t, CoordResolved, occ.CoordSource)
	assert.Equal(t, time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC), occ.CreatedAt)
}

func TestOccurrence_UnmarshalJSON_MissingCoordinatesAreUnresolved(t *testing.T) {
	var occ Occurrence
	require.NoError(t, json.Unmarshal([]byte(`{"id":"`+uuid.NewString()+`","status":"NOVO","latitude":null,"longitude":""}`), &occ))

	_, ok := occ.Point()
	assert.False(t, ok)
	assert.Equal(t, CoordUnresolved, occ.CoordSource)
}

func TestOccurrence_UnmarshalJSON_KeepsFallbackSource(t *testing.T) {
	var occ Occurrence
	require.NoError(t, json.Unmarshal([]byte(`{"status":"NOVO","latitude":-8.0476,"longitude":-34.877,"coordSource":"fallback"}`), &occ))

	p, ok := occ.Point()
	require.True(t, ok)
	assert.Equal(t, Point{Lat: -8.0476, Lng: -34.877}, p)
	assert.Equal(t, CoordFallback, occ.CoordSource)
}

func TestPatch_Apply(t *testing.T) {
	occ := &Occurrence{Status: StatusEmAtendimento, Local: "Praça X"}

	back := StatusNovo
	err := (&Patch{Status: &back}).Apply(occ)
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusEmAtendimento, occ.Status)

	done := StatusConcluido
	local := "  Praça Y "
	require.NoError(t, (&Patch{Status: &done, Local: &local}).Apply(occ))
	assert.Equal(t, StatusConcluido, occ.Status)
	assert.Equal(t, "Praça Y", occ.Local)
}

func TestDraft_ToOccurrence(t *testing.T) {
	d := Draft{Tipo: "incendio", Local: "Praça X", Endereco: "Rua Y, 10"}
	occ := d.ToOccurrence()
	assert.Equal(t, CoordUnresolved, occ.CoordSource)

	d.SetPoint(Point{Lat: -8.05, Lng: -34.90}, CoordResolved)
	occ = d.ToOccurrence()
	assert.Equal(t, "INCENDIO", occ.Tipo)
	assert.Equal(t, -8.05, occ.Latitude)
	assert.Equal(t, -34.90, occ.Longitude)
	assert.Equal(t, CoordResolved, occ.CoordSource)
}
