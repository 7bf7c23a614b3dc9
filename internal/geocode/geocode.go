package geocode

//go:generate mockgen -source=geocode.go -destination=mocks/mock_geocode.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/sisocc/internal/metrics"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrNotFound - сервис геокодирования не нашел адрес
var ErrNotFound = errors.New("geocode: address not found")

// Geocoder определяет контракт преобразования адреса в координаты
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Point, error)
}

// Region - прямоугольник зоны обслуживания
type Region struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// Pernambuco - зона обслуживания по умолчанию
var Pernambuco = Region{MinLat: -9.5, MaxLat: -7.0, MinLng: -41.5, MaxLng: -34.0}

// RecifeCenter - точка по умолчанию, когда адрес не найден
var RecifeCenter = models.Point{Lat: -8.0476, Lng: -34.877}

// Contains проверяет попадание точки в регион
func (r Region) Contains(p models.Point) bool {
	return p.Lat >= r.MinLat && p.Lat <= r.MaxLat && p.Lng >= r.MinLng && p.Lng <= r.MaxLng
}

// Options - параметры клиента Nominatim
type Options struct {
	BaseURL      string
	RegionSuffix string
	CountryCodes string
	UserAgent    string
	Timeout      time.Duration
}

// Nominatim - клиент публичного сервиса поиска адресов OpenStreetMap.
// Кеширования, ограничения частоты и повторов нет: каждый вызов - отдельный запрос.
type Nominatim struct {
	opts   Options
	client *http.Client
	logger *logrus.Logger
}

// NewNominatim создает клиент; пустой BaseURL заменяется публичным сервером
func NewNominatim(opts Options, logger *logrus.Logger) *Nominatim {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://nominatim.openstreetmap.org"
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Nominatim{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		logger: logger,
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode возвращает координаты первого кандидата; первый кандидат считается верным
func (n *Nominatim) Geocode(ctx context.Context, address string) (models.Point, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.Point{}, ErrNotFound
	}

	query := address
	if n.opts.RegionSuffix != "" {
		query = fmt.Sprintf("%s, %s", address, n.opts.RegionSuffix)
	}
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", "1")
	q.Set("q", query)
	if n.opts.CountryCodes != "" {
		q.Set("countrycodes", n.opts.CountryCodes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.opts.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return models.Point{}, fmt.Errorf("geocode: could not build request: %w", err)
	}
	if n.opts.UserAgent != "" {
		req.Header.Set("User-Agent", n.opts.UserAgent)
	}

	log := n.logger.WithFields(logrus.Fields{
		"component": "geocode",
		"method":    "Geocode",
		"query":     query,
	})

	start := time.Now()
	metrics.GeocodeRequestsTotal.Inc()
	resp, err := n.client.Do(req)
	if err != nil {
		metrics.GeocodeFailTotal.Inc()
		log.WithError(err).Warn("Geocoding request failed")
		return models.Point{}, fmt.Errorf("geocode: request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.GeocodeDurationMs.Observe(float64(time.Since(start).Milliseconds()))

	if resp.StatusCode != http.StatusOK {
		metrics.GeocodeFailTotal.Inc()
		log.WithField("status", resp.StatusCode).Warn("Geocoding service returned non-OK status")
		return models.Point{}, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		metrics.GeocodeFailTotal.Inc()
		log.WithError(err).Warn("Failed to decode geocoding response")
		return models.Point{}, fmt.Errorf("geocode: decode response: %w", err)
	}
	if len(places) == 0 {
		metrics.GeocodeFailTotal.Inc()
		log.Debug("No geocoding candidates")
		return models.Point{}, ErrNotFound
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLng != nil {
		metrics.GeocodeFailTotal.Inc()
		return models.Point{}, fmt.Errorf("geocode: invalid coordinates %q,%q", places[0].Lat, places[0].Lon)
	}

	log.WithFields(logrus.Fields{"lat": lat, "lng": lng}).Debug("Address geocoded")
	return models.Point{Lat: lat, Lng: lng}, nil
}

// Resolve никогда не возвращает ошибку: при промахе или сбое подставляется fallback.
// Регистрация происшествия не должна блокироваться геокодированием.
func Resolve(ctx context.Context, g Geocoder, address string, fallback models.Point, logger *logrus.Logger) (models.Point, models.CoordSource) {
	if g != nil {
		point, err := g.Geocode(ctx, address)
		if err == nil {
			return point, models.CoordResolved
		}
		if !errors.Is(err, ErrNotFound) {
			logger.WithError(err).WithField("address", address).Warn("Geocoding failed, using fallback coordinate")
		}
	}
	metrics.GeocodeFallbackTotal.Inc()
	return fallback, models.CoordFallback
}
