package geocode

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shenikar/sisocc/internal/geocode/mocks"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

func newTestNominatim(t *testing.T, handler http.HandlerFunc) (*Nominatim, *int32) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	n := NewNominatim(Options{
		BaseURL:      srv.URL,
		RegionSuffix: "Recife, PE, Brasil",
		CountryCodes: "br",
		UserAgent:    "SisOcc-App/1.0",
		Timeout:      2 * time.Second,
	}, newTestLogger())
	return n, &calls
}

func TestGeocode_Found(t *testing.T) {
	n, _ := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Rua Y, 10, Recife, PE, Brasil", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "br", r.URL.Query().Get("countrycodes"))
		assert.Equal(t, "SisOcc-App/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`[{"lat":"-8.05","lon":"-34.90","display_name":"Rua Y"},{"lat":"0","lon":"0"}]`))
	})

	point, err := n.Geocode(context.Background(), "Rua Y, 10")

	require.NoError(t, err)
	assert.Equal(t, models.Point{Lat: -8.05, Lng: -34.90}, point)
	assert.True(t, Pernambuco.Contains(point))
}

func TestGeocode_NoCandidates(t *testing.T) {
	n, _ := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := n.Geocode(context.Background(), "xyzzy qwerty")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGeocode_EmptyAddressSkipsNetwork(t *testing.T) {
	n, calls := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := n.Geocode(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestGeocode_NoCaching(t *testing.T) {
	n, calls := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"-8.05","lon":"-34.90"}]`))
	})

	for i := 0; i < 3; i++ {
		_, err := n.Geocode(context.Background(), "Rua Y, 10")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(calls))
}

func TestResolve_Found(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockGeocoder(ctrl)
	g.EXPECT().Geocode(gomock.Any(), "Rua Y, 10").Return(models.Point{Lat: -8.05, Lng: -34.90}, nil).Times(1)

	point, source := Resolve(context.Background(), g, "Rua Y, 10", RecifeCenter, newTestLogger())

	assert.Equal(t, models.Point{Lat: -8.05, Lng: -34.90}, point)
	assert.Equal(t, models.CoordResolved, source)
}

func TestResolve_FallbackOnMissAndError(t *testing.T) {
	ctrl := gomock.NewController(t)
	g := mocks.NewMockGeocoder(ctrl)
	g.EXPECT().Geocode(gomock.Any(), "nonsense").Return(models.Point{}, ErrNotFound).Times(1)
	g.EXPECT().Geocode(gomock.Any(), "Rua Y, 10").Return(models.Point{}, errors.New("connection refused")).Times(1)

	point, source := Resolve(context.Background(), g, "nonsense", RecifeCenter, newTestLogger())
	assert.Equal(t, RecifeCenter, point)
	assert.Equal(t, models.CoordFallback, source)

	point, source = Resolve(context.Background(), g, "Rua Y, 10", RecifeCenter, newTestLogger())
	assert.Equal(t, RecifeCenter, point)
	assert.Equal(t, models.CoordFallback, source)
}

func TestResolve_UnreachableService(t *testing.T) {
	n := NewNominatim(Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, newTestLogger())

	point, source := Resolve(context.Background(), n, "Rua Y, 10", RecifeCenter, newTestLogger())

	assert.Equal(t, RecifeCenter, point)
	assert.Equal(t, models.CoordFallback, source)
}
