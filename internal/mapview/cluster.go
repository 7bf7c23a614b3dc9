package mapview

import (
	"math"

	"github.com/shenikar/sisocc/internal/models"
)

const (
	// TileSize - размер тайла в пикселях
	TileSize = 256
	// DefaultClusterRadius - максимальный радиус кластера в пикселях
	DefaultClusterRadius = 80
)

// Классы размера кластера
const (
	ClusterSmall  = "small"
	ClusterMedium = "medium"
	ClusterLarge  = "large"
)

// pixel - точка в пиксельных координатах Web-Mercator на заданном зуме
type pixel struct {
	X, Y float64
}

func worldSize(zoom int) float64 {
	return TileSize * math.Exp2(float64(zoom))
}

// широта ограничена пределами проекции
const maxLatitude = 85.0511287798

func project(p models.Point, zoom int) pixel {
	lat := math.Max(math.Min(p.Lat, maxLatitude), -maxLatitude)
	sin := math.Sin(lat * math.Pi / 180)
	size := worldSize(zoom)
	return pixel{
		X: (p.Lng + 180) / 360 * size,
		Y: (0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)) * size,
	}
}

func unproject(px pixel, zoom int) models.Point {
	size := worldSize(zoom)
	lng := px.X/size*360 - 180
	n := math.Pi - 2*math.Pi*px.Y/size
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return models.Point{Lat: lat, Lng: lng}
}

// Cluster - группа маркеров; кластер из одного маркера рисуется как сам маркер
type Cluster struct {
	Center  models.Point `json:"center"`
	Count   int          `json:"count"`
	Size    string       `json:"size"`
	Markers []Marker     `json:"markers"`
	Bounds  Bounds       `json:"bounds"`

	px    pixel
	sumPx pixel
}

// SizeClass - класс кластера по числу маркеров: >10 large, >5 medium
func SizeClass(count int) string {
	switch {
	case count > 10:
		return ClusterLarge
	case count > 5:
		return ClusterMedium
	default:
		return ClusterSmall
	}
}

// ClusterMarkers жадно группирует маркеры в пиксельном пространстве зума.
// Маркер попадает в первый кластер, центр которого ближе radius пикселей.
// На максимальном зуме группировка отключена.
func ClusterMarkers(markers []Marker, zoom int, radius float64) []Cluster {
	if zoom < 0 {
		zoom = 0
	}
	if radius <= 0 {
		radius = DefaultClusterRadius
	}

	clusters := make([]*Cluster, 0, len(markers))
	for _, m := range markers {
		px := project(m.Position, zoom)

		var target *Cluster
		if zoom < MaxZoom {
			for _, c := range clusters {
				if math.Hypot(c.px.X-px.X, c.px.Y-px.Y) <= radius {
					target = c
					break
				}
			}
		}
		if target == nil {
			target = &Cluster{}
			clusters = append(clusters, target)
		}
		target.Markers = append(target.Markers, m)
		target.Count++
		target.sumPx.X += px.X
		target.sumPx.Y += px.Y
		target.px = pixel{X: target.sumPx.X / float64(target.Count), Y: target.sumPx.Y / float64(target.Count)}
	}

	out := make([]Cluster, 0, len(clusters))
	for _, c := range clusters {
		c.Center = unproject(c.px, zoom)
		if c.Count == 1 {
			c.Center = c.Markers[0].Position
		}
		c.Size = SizeClass(c.Count)
		c.Bounds = boundsOf(c.Markers)
		out = append(out, *c)
	}
	return out
}
