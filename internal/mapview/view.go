package mapview

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sisocc/internal/geocode"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultZoom - начальный зум карты
	DefaultZoom = 13
	// SearchZoom - зум после поиска адреса
	SearchZoom = 16
	// FocusZoom - зум при выборе происшествия из списка
	FocusZoom = 17
	// MaxZoom - максимальный зум тайлов; на нем кластеризация выключена
	MaxZoom = 19
	// FitPadding - отступ в пикселях при подгонке вида под маркеры
	FitPadding = 50

	defaultTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	defaultAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a>`
)

// Цвета маркеров по статусу
const (
	ColorNovo      = "#3b82f6"
	ColorEmAnalise = "#f59e0b"
	ColorConcluido = "#10b981"
	ColorOther     = "#6b7280"
)

// MarkerColor возвращает цвет маркера для статуса
func MarkerColor(status models.Status) string {
	switch status {
	case models.StatusNovo:
		return ColorNovo
	case models.StatusEmAnalise:
		return ColorEmAnalise
	case models.StatusConcluido:
		return ColorConcluido
	default:
		return ColorOther
	}
}

// Marker - маркер происшествия с полями всплывающей карточки
type Marker struct {
	ID          uuid.UUID       `json:"id"`
	Position    models.Point    `json:"position"`
	Color       string          `json:"color"`
	Tipo        string          `json:"tipo"`
	Local       string          `json:"local"`
	Status      models.Status   `json:"status"`
	StatusLabel string          `json:"statusLabel"`
	Prioridade  models.Priority `json:"prioridade"`
	Descricao   string          `json:"descricao,omitempty"`
	Data        time.Time       `json:"data"`
	Approximate bool            `json:"approximate"`
}

// NewMarker строит маркер; происшествие без координат на карту не ставится
func NewMarker(occ models.Occurrence) (Marker, bool) {
	point, ok := occ.Point()
	if !ok {
		return Marker{}, false
	}
	return Marker{
		ID:          occ.ID,
		Position:    point,
		Color:       MarkerColor(occ.Status),
		Tipo:        occ.Tipo,
		Local:       occ.Local,
		Status:      occ.Status,
		StatusLabel: occ.Status.Label(),
		Prioridade:  occ.Prioridade,
		Descricao:   occ.Descricao,
		Data:        occ.CreatedAt,
		Approximate: occ.CoordSource == models.CoordFallback,
	}, true
}

// Bounds - прямоугольник в градусах
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

func boundsOf(markers []Marker) Bounds {
	if len(markers) == 0 {
		return Bounds{}
	}
	b := Bounds{
		South: markers[0].Position.Lat, North: markers[0].Position.Lat,
		West: markers[0].Position.Lng, East: markers[0].Position.Lng,
	}
	for _, m := range markers[1:] {
		b.South = math.Min(b.South, m.Position.Lat)
		b.North = math.Max(b.North, m.Position.Lat)
		b.West = math.Min(b.West, m.Position.Lng)
		b.East = math.Max(b.East, m.Position.Lng)
	}
	return b
}

// Viewport - центр и зум карты
type Viewport struct {
	Center models.Point `json:"center"`
	Zoom   int          `json:"zoom"`
}

// Fit подбирает наибольший зум, при котором bounds с отступами помещаются в окно width x height
func Fit(b Bounds, width, height, padding int) Viewport {
	availW := float64(width - 2*padding)
	availH := float64(height - 2*padding)

	zoom := MaxZoom
	for ; zoom > 0; zoom-- {
		nw := project(models.Point{Lat: b.North, Lng: b.West}, zoom)
		se := project(models.Point{Lat: b.South, Lng: b.East}, zoom)
		if se.X-nw.X <= availW && se.Y-nw.Y <= availH {
			break
		}
	}

	nw := project(models.Point{Lat: b.North, Lng: b.West}, zoom)
	se := project(models.Point{Lat: b.South, Lng: b.East}, zoom)
	center := unproject(pixel{X: (nw.X + se.X) / 2, Y: (nw.Y + se.Y) / 2}, zoom)
	return Viewport{Center: center, Zoom: zoom}
}

// TileLayer - слой фоновых тайлов, только чтение
type TileLayer struct {
	URLTemplate string `json:"urlTemplate"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"maxZoom"`
}

// Options - статическая конфигурация карты
type Options struct {
	ClusterRadius int
	TileURL       string
	Center        models.Point
	Region        geocode.Region
	Width         int
	Height        int
}

// Scene - то, что клиент рисует: кластеры, вид, счетчики и тайлы
type Scene struct {
	Clusters []Cluster `json:"clusters"`
	Viewport Viewport  `json:"viewport"`
	Counts   Counts    `json:"counts"`
	Tiles    TileLayer `json:"tiles"`
	Visible  int       `json:"visible"`
	Rebuilds int       `json:"rebuilds"`
}

// SearchResult - итог поиска адреса на карте
type SearchResult struct {
	Point    models.Point `json:"point"`
	InRegion bool         `json:"inRegion"`
	Viewport Viewport     `json:"viewport"`
}

// Layer - слой маркеров карты. При каждом изменении входного набора
// слой полностью очищается и строится заново, без сравнения.
type Layer struct {
	opts   Options
	tiles  TileLayer
	logger *logrus.Logger

	mu       sync.RWMutex
	all      []models.Occurrence
	filter   models.Filter
	markers  []Marker
	viewport Viewport
	rebuilds int
}

// NewLayer создает слой с видом на центр зоны обслуживания
func NewLayer(opts Options, logger *logrus.Logger) *Layer {
	if opts.ClusterRadius <= 0 {
		opts.ClusterRadius = DefaultClusterRadius
	}
	if opts.TileURL == "" {
		opts.TileURL = defaultTileURL
	}
	if opts.Center == (models.Point{}) {
		opts.Center = geocode.RecifeCenter
	}
	if opts.Region == (geocode.Region{}) {
		opts.Region = geocode.Pernambuco
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1024, 768
	}
	return &Layer{
		opts:     opts,
		tiles:    TileLayer{URLTemplate: opts.TileURL, Attribution: defaultAttribution, MaxZoom: MaxZoom},
		logger:   logger,
		viewport: Viewport{Center: opts.Center, Zoom: DefaultZoom},
	}
}

// Update принимает новый снимок хранилища и перестраивает слой с текущим фильтром
func (l *Layer) Update(occurrences []models.Occurrence) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = occurrences
	l.rebuildLocked(Apply(l.all, l.filter))
}

// SetFilter меняет фильтр; отфильтрованный набор меняется, значит слой строится заново
func (l *Layer) SetFilter(filter models.Filter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if samePredicate(l.filter, filter) {
		return
	}
	l.filter = filter
	l.rebuildLocked(Apply(l.all, l.filter))
}

// SetSize задает размер окна карты в пикселях для подгонки вида
func (l *Layer) SetSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	l.mu.Lock()
	l.opts.Width, l.opts.Height = width, height
	l.mu.Unlock()
}

// Rebuild очищает слой и заново ставит маркеры видимого набора
func (l *Layer) Rebuild(visible []models.Occurrence) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rebuildLocked(visible)
}

func (l *Layer) rebuildLocked(visible []models.Occurrence) {
	l.markers = nil
	for _, occ := range visible {
		if m, ok := NewMarker(occ); ok {
			l.markers = append(l.markers, m)
		}
	}
	l.rebuilds++

	// пустой набор вид не меняет
	if len(l.markers) > 0 {
		l.viewport = Fit(boundsOf(l.markers), l.opts.Width, l.opts.Height, FitPadding)
	}
	l.logger.WithFields(logrus.Fields{
		"component": "mapview",
		"markers":   len(l.markers),
		"skipped":   len(visible) - len(l.markers),
	}).Debug("Marker layer rebuilt")
}

// Markers возвращает копию текущих маркеров
func (l *Layer) Markers() []Marker {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Marker, len(l.markers))
	copy(out, l.markers)
	return out
}

// Viewport возвращает текущий вид
func (l *Layer) Viewport() Viewport {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.viewport
}

// Scene собирает сцену на зуме zoom; zoom < 0 означает текущий зум вида.
// Счетчики считаются по всем происшествиям с координатами.
func (l *Layer) Scene(zoom int) Scene {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if zoom < 0 {
		zoom = l.viewport.Zoom
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}

	placed := make([]models.Occurrence, 0, len(l.all))
	for _, occ := range l.all {
		if _, ok := occ.Point(); ok {
			placed = append(placed, occ)
		}
	}

	return Scene{
		Clusters: ClusterMarkers(l.markers, zoom, float64(l.opts.ClusterRadius)),
		Viewport: l.viewport,
		Counts:   CountFilters(placed),
		Tiles:    l.tiles,
		Visible:  len(l.markers),
		Rebuilds: l.rebuilds,
	}
}

// Focus центрирует вид на маркере происшествия
func (l *Layer) Focus(id uuid.UUID) (Viewport, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.markers {
		if m.ID == id {
			l.viewport = Viewport{Center: m.Position, Zoom: FocusZoom}
			return l.viewport, true
		}
	}
	return l.viewport, false
}

// Search геокодирует адрес и центрирует карту на результате.
// Результат вне зоны обслуживания не отвергается, а помечается InRegion=false.
func (l *Layer) Search(ctx context.Context, g geocode.Geocoder, address string) (SearchResult, error) {
	point, err := g.Geocode(ctx, address)
	if err != nil {
		return SearchResult{}, fmt.Errorf("mapview: search %q: %w", address, err)
	}

	l.mu.Lock()
	l.viewport = Viewport{Center: point, Zoom: SearchZoom}
	result := SearchResult{Point: point, InRegion: l.opts.Region.Contains(point), Viewport: l.viewport}
	l.mu.Unlock()

	if !result.InRegion {
		l.logger.WithField("address", address).Warn("Search result outside service region")
	}
	return result, nil
}

func samePredicate(a, b models.Filter) bool {
	return equalPtr(a.Status, b.Status) && equalPtr(a.Prioridade, b.Prioridade)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
