package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/sisocc/internal/client"
	"github.com/shenikar/sisocc/internal/geocode"
	geomocks "github.com/shenikar/sisocc/internal/geocode/mocks"
	"github.com/shenikar/sisocc/internal/intake"
	"github.com/shenikar/sisocc/internal/mapview"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/shenikar/sisocc/internal/store"
	storemocks "github.com/shenikar/sisocc/internal/store/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeLive struct{ connected bool }

func (f fakeLive) Connected() bool { return f.connected }

type testEnv struct {
	router   *gin.Engine
	remote   *storemocks.MockRemoteClient
	geocoder *geomocks.MockGeocoder
	store    *store.Store
	layer    *mapview.Layer
}

func newTestEnv(t *testing.T) *testEnv {
	ctrl := gomock.NewController(t)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	remote := storemocks.NewMockRemoteClient(ctrl)
	geocoder := geomocks.NewMockGeocoder(ctrl)
	s := store.New(remote, logger)
	layer := mapview.NewLayer(mapview.Options{Width: 1024, Height: 768}, logger)
	s.Subscribe(func() { layer.Update(s.Snapshot()) })
	registrar := intake.NewRegistrar(s, geocoder, geocode.RecifeCenter, logger)

	h := NewHandler(s, registrar, layer, geocoder, fakeLive{connected: true}, logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))

	return &testEnv{router: router, remote: remote, geocoder: geocoder, store: s, layer: layer}
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) Response {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	if data != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return Response{Success: resp.Success, Message: resp.Message}
}

func sample(status models.Status, lat, lng float64) models.Occurrence {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	return models.Occurrence{
		ID:          uuid.New(),
		Tipo:        "INCENDIO",
		Local:       "Praça X",
		Endereco:    "Rua Y, 10",
		Latitude:    lat,
		Longitude:   lng,
		CoordSource: models.CoordResolved,
		Status:      status,
		Prioridade:  models.PriorityAlta,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestRefreshAndList(t *testing.T) {
	// Подготовка
	env := newTestEnv(t)
	a := sample(models.StatusNovo, -8.05, -34.90)
	b := sample(models.StatusConcluido, -8.06, -34.91)

	// Ожидания
	env.remote.EXPECT().ListOccurrences(gomock.Any()).Return([]models.Occurrence{a, b}, nil).Times(1)

	// Действие
	w := env.do(http.MethodPost, "/api/occurrences/refresh", nil)

	// Проверки
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.Stats
	decode(t, w, &stats)
	assert.Equal(t, models.Stats{Total: 2, Pendentes: 1, Resolvidos: 1}, stats)

	w = env.do(http.MethodGet, "/api/occurrences?status=Conclu%C3%ADdo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.Occurrence
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	w = env.do(http.MethodGet, "/api/occurrences?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefresh_FailureKeepsData(t *testing.T) {
	env := newTestEnv(t)
	a := sample(models.StatusNovo, -8.05, -34.90)
	env.store.HandleCreated(a)

	env.remote.EXPECT().ListOccurrences(gomock.Any()).Return(nil, errors.New("connection refused")).Times(1)

	w := env.do(http.MethodPost, "/api/occurrences/refresh", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, 1, env.store.Len())
}

func TestGetOccurrence(t *testing.T) {
	env := newTestEnv(t)
	a := sample(models.StatusNovo, -8.05, -34.90)
	env.store.HandleCreated(a)

	w := env.do(http.MethodGet, "/api/occurrences/"+a.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/occurrences/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/occurrences/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOccurrence_MobileValidation(t *testing.T) {
	env := newTestEnv(t)
	env.remote.EXPECT().CreateOccurrence(gomock.Any(), gomock.Any()).Times(0)
	env.geocoder.EXPECT().Geocode(gomock.Any(), gomock.Any()).Times(0)

	w := env.do(http.MethodPost, "/api/occurrences?form=mobile", map[string]any{"tipo": "INCENDIO", "local": "Praça X"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, []intake.FieldError{
		{Field: "endereco", Message: "Preencha o endereço"},
		{Field: "descricao", Message: "Preencha a descrição"},
	}, resp.Fields)
}

func TestCreateOccurrence_UnknownForm(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/occurrences?form=desktop", map[string]any{"tipo": "INCENDIO"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOccurrence_Success(t *testing.T) {
	env := newTestEnv(t)
	created := sample(models.StatusNovo, -8.05, -34.90)

	env.geocoder.EXPECT().Geocode(gomock.Any(), "Rua Y, 10").Return(models.Point{Lat: -8.05, Lng: -34.90}, nil).Times(1)
	env.remote.EXPECT().CreateOccurrence(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, draft models.Draft) (*models.Occurrence, error) {
		assert.Equal(t, -8.05, *draft.Latitude)
		return &created, nil
	}).Times(1)
	env.remote.EXPECT().ListOccurrences(gomock.Any()).Return([]models.Occurrence{created}, nil).Times(1)

	w := env.do(http.MethodPost, "/api/occurrences?form=web", map[string]any{
		"tipo": "INCENDIO", "local": "Praça X", "endereco": "Rua Y, 10", "prioridade": "ALTA",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var occ models.Occurrence
	decode(t, w, &occ)
	assert.Equal(t, created.ID, occ.ID)
	assert.Equal(t, models.StatusNovo, occ.Status)
	assert.Len(t, env.layer.Markers(), 1)
}

func TestCreateOccurrence_BackendErrorSurfacedAsMessage(t *testing.T) {
	env := newTestEnv(t)
	env.geocoder.EXPECT().Geocode(gomock.Any(), gomock.Any()).Return(models.Point{}, geocode.ErrNotFound).Times(1)
	env.remote.EXPECT().CreateOccurrence(gomock.Any(), gomock.Any()).
		Return(nil, &client.APIError{StatusCode: http.StatusBadRequest, Message: "Tipo inválido"}).Times(1)

	w := env.do(http.MethodPost, "/api/occurrences", map[string]any{"tipo": "X", "local": "Y"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w, nil)
	assert.Equal(t, "Tipo inválido", resp.Message)
}

func TestUpdateOccurrence(t *testing.T) {
	env := newTestEnv(t)
	a := sample(models.StatusNovo, -8.05, -34.90)
	updated := a
	updated.Status = models.StatusEmAnalise
	updated.UpdatedAt = a.UpdatedAt.Add(time.Minute)

	env.remote.EXPECT().UpdateOccurrence(gomock.Any(), a.ID, gomock.Any()).DoAndReturn(
		func(ctx context.Context, id uuid.UUID, patch models.Patch) (*models.Occurrence, error) {
			require.NotNil(t, patch.Status)
			assert.Equal(t, models.StatusEmAnalise, *patch.Status)
			return &updated, nil
		}).Times(1)
	env.remote.EXPECT().ListOccurrences(gomock.Any()).Return([]models.Occurrence{updated}, nil).Times(1)

	w := env.do(http.MethodPut, "/api/occurrences/"+a.ID.String(), map[string]any{"status": "Em Análise"})

	require.Equal(t, http.StatusOK, w.Code)
	got, found := env.store.Get(a.ID)
	require.True(t, found)
	assert.Equal(t, models.StatusEmAnalise, got.Status)
}

func TestUpdateOccurrence_EmptyPatch(t *testing.T) {
	env := newTestEnv(t)
	env.remote.EXPECT().UpdateOccurrence(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := env.do(http.MethodPut, "/api/occurrences/"+uuid.NewString(), map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOccurrence_RemoteErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unauthorized", client.ErrUnauthorized, http.StatusUnauthorized},
		{"conflict", &client.APIError{StatusCode: http.StatusConflict, Message: "NOVO -> CONCLUIDO"}, http.StatusConflict},
		{"not found", &client.APIError{StatusCode: http.StatusNotFound}, http.StatusNotFound},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"network", errors.New("connection refused"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.remote.EXPECT().UpdateOccurrence(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.err).Times(1)

			w := env.do(http.MethodPut, "/api/occurrences/"+uuid.NewString(), map[string]any{"status": "CONCLUIDO"})

			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestDeleteOccurrence(t *testing.T) {
	env := newTestEnv(t)
	a := sample(models.StatusNovo, -8.05, -34.90)
	env.store.HandleCreated(a)

	env.remote.EXPECT().DeleteOccurrence(gomock.Any(), a.ID).Return(nil).Times(1)
	env.remote.EXPECT().ListOccurrences(gomock.Any()).Return([]models.Occurrence{}, nil).Times(1)

	w := env.do(http.MethodDelete, "/api/occurrences/"+a.ID.String(), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, env.store.Len())
}

func TestGetMap(t *testing.T) {
	env := newTestEnv(t)
	a := sample(models.StatusNovo, -8.05, -34.90)
	b := sample(models.StatusNovo, -8.0501, -34.9001)
	c := sample(models.StatusConcluido, -8.30, -35.50)
	env.store.HandleCreated(a)
	env.store.HandleCreated(b)
	env.store.HandleCreated(c)

	w := env.do(http.MethodGet, "/api/map?zoom=10&width=800&height=600", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var scene mapview.Scene
	decode(t, w, &scene)
	assert.Len(t, scene.Clusters, 2)
	assert.Equal(t, mapview.Counts{All: 3, Novo: 2, Concluido: 1}, scene.Counts)
	assert.Equal(t, mapview.MaxZoom, scene.Tiles.MaxZoom)

	w = env.do(http.MethodGet, "/api/map?status=NOVO&zoom=19", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &scene)
	assert.Len(t, scene.Clusters, 2)
	assert.Equal(t, 2, scene.Visible)

	w = env.do(http.MethodGet, "/api/map?focus="+a.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &scene)
	assert.Equal(t, mapview.FocusZoom, scene.Viewport.Zoom)

	w = env.do(http.MethodGet, "/api/map?zoom=-2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGeocode(t *testing.T) {
	env := newTestEnv(t)
	env.geocoder.EXPECT().Geocode(gomock.Any(), "Rua da Aurora").Return(models.Point{Lat: -8.06, Lng: -34.88}, nil).Times(1)
	env.geocoder.EXPECT().Geocode(gomock.Any(), "xyzzy").Return(models.Point{}, geocode.ErrNotFound).Times(1)

	w := env.do(http.MethodGet, "/api/geocode?q=Rua+da+Aurora", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result mapview.SearchResult
	decode(t, w, &result)
	assert.True(t, result.InRegion)
	assert.Equal(t, mapview.SearchZoom, result.Viewport.Zoom)

	w = env.do(http.MethodGet, "/api/geocode?q=xyzzy", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/geocode", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	env.store.HandleCreated(sample(models.StatusNovo, -8.05, -34.90))

	w := env.do(http.MethodGet, "/api/system/health", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, HealthResponse{Status: "ok", LiveConnected: true, Occurrences: 1}, health)
}
