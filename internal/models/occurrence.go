package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound - запись не найдена
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition - переход статуса против жизненного цикла
	ErrInvalidTransition = errors.New("invalid status transition")
)

// CoordSource - происхождение координат
type CoordSource string

const (
	// CoordResolved - координаты получены геокодированием или указаны пользователем
	CoordResolved CoordSource = "resolved"
	// CoordFallback - геокодирование не удалось, подставлена точка по умолчанию
	CoordFallback CoordSource = "fallback"
	// CoordUnresolved - координат нет
	CoordUnresolved CoordSource = "unresolved"
)

// Point - координаты WGS84
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Occurrence - происшествие, которым обмениваются клиент и сервер
type Occurrence struct {
	ID          uuid.UUID   `json:"id"`
	Tipo        string      `json:"tipo"`
	Local       string      `json:"local"`
	Endereco    string      `json:"endereco"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	CoordSource CoordSource `json:"coordSource"`
	Status      Status      `json:"status"`
	Prioridade  Priority    `json:"prioridade"`
	Descricao   string      `json:"descricao,omitempty"`
	Responsavel string      `json:"responsavel,omitempty"`
	UserID      *uuid.UUID  `json:"userId,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Point возвращает координаты и признак того, что их можно ставить на карту
func (o *Occurrence) Point() (Point, bool) {
	if o.CoordSource == CoordUnresolved {
		return Point{}, false
	}
	return Point{Lat: o.Latitude, Lng: o.Longitude}, true
}

// Version - метка версии для слияния по id; более новая запись побеждает
func (o *Occurrence) Version() time.Time {
	if o.UpdatedAt.IsZero() {
		return o.CreatedAt
	}
	return o.UpdatedAt
}

// UnmarshalJSON нормализует числовые поля: координаты приходят как числом, так и строкой,
// "dataOcorrencia" принимается как синоним "createdAt".
func (o *Occurrence) UnmarshalJSON(data []byte) error {
	type alias Occurrence
	aux := struct {
		*alias
		Latitude       flexFloat  `json:"latitude"`
		Longitude      flexFloat  `json:"longitude"`
		DataOcorrencia *time.Time `json:"dataOcorrencia"`
	}{alias: (*alias)(o)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	o.Tipo = NormalizeTipo(o.Tipo)
	if o.CreatedAt.IsZero() && aux.DataOcorrencia != nil {
		o.CreatedAt = *aux.DataOcorrencia
	}

	if !aux.Latitude.set || !aux.Longitude.set {
		o.Latitude, o.Longitude = 0, 0
		o.CoordSource = CoordUnresolved
		return nil
	}
	o.Latitude = aux.Latitude.value
	o.Longitude = aux.Longitude.value
	if o.CoordSource == "" {
		o.CoordSource = CoordResolved
	}
	return nil
}

// flexFloat принимает число, строку с числом, null или пустую строку
type flexFloat struct {
	value float64
	set   bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %s: %w", string(data), err)
	}
	f.value, f.set = v, true
	return nil
}

// Draft - данные формы создания происшествия
type Draft struct {
	Tipo        string      `json:"tipo"`
	Local       string      `json:"local"`
	Endereco    string      `json:"endereco"`
	Descricao   string      `json:"descricao"`
	Prioridade  Priority    `json:"prioridade,omitempty"`
	Responsavel string      `json:"responsavel,omitempty"`
	Latitude    *float64    `json:"latitude,omitempty"`
	Longitude   *float64    `json:"longitude,omitempty"`
	CoordSource CoordSource `json:"coordSource,omitempty"`
}

// HasCoordinates - пользователь или геокодер уже указали координаты
func (d *Draft) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil
}

// SetPoint проставляет координаты и их происхождение
func (d *Draft) SetPoint(p Point, source CoordSource) {
	lat, lng := p.Lat, p.Lng
	d.Latitude, d.Longitude = &lat, &lng
	d.CoordSource = source
}

// ToOccurrence переводит черновик в модель; статус и идентификатор назначает сервер
func (d *Draft) ToOccurrence() *Occurrence {
	o := &Occurrence{
		Tipo:        NormalizeTipo(d.Tipo),
		Local:       strings.TrimSpace(d.Local),
		Endereco:    strings.TrimSpace(d.Endereco),
		Descricao:   strings.TrimSpace(d.Descricao),
		Responsavel: strings.TrimSpace(d.Responsavel),
		Prioridade:  d.Prioridade,
		CoordSource: CoordUnresolved,
	}
	if d.HasCoordinates() {
		o.Latitude, o.Longitude = *d.Latitude, *d.Longitude
		o.CoordSource = d.CoordSource
		if o.CoordSource == "" {
			o.CoordSource = CoordResolved
		}
	}
	return o
}

// Patch - частичное обновление; nil означает "не менять"
type Patch struct {
	Tipo        *string   `json:"tipo,omitempty"`
	Local       *string   `json:"local,omitempty"`
	Endereco    *string   `json:"endereco,omitempty"`
	Descricao   *string   `json:"descricao,omitempty"`
	Responsavel *string   `json:"responsavel,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	Prioridade  *Priority `json:"prioridade,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
}

// Empty - в патче нет ни одного поля
func (p *Patch) Empty() bool {
	return p.Tipo == nil && p.Local == nil && p.Endereco == nil && p.Descricao == nil &&
		p.Responsavel == nil && p.Status == nil && p.Prioridade == nil &&
		p.Latitude == nil && p.Longitude == nil
}

// Apply применяет патч к записи с проверкой жизненного цикла
func (p *Patch) Apply(o *Occurrence) error {
	if p.Status != nil {
		if !o.Status.CanTransitionTo(*p.Status) {
			return fmt.Errorf("%s -> %s: %w", o.Status, *p.Status, ErrInvalidTransition)
		}
		o.Status = *p.Status
	}
	if p.Tipo != nil {
		o.Tipo = NormalizeTipo(*p.Tipo)
	}
	if p.Local != nil {
		o.Local = strings.TrimSpace(*p.Local)
	}
	if p.Endereco != nil {
		o.Endereco = strings.TrimSpace(*p.Endereco)
	}
	if p.Descricao != nil {
		o.Descricao = strings.TrimSpace(*p.Descricao)
	}
	if p.Responsavel != nil {
		o.Responsavel = strings.TrimSpace(*p.Responsavel)
	}
	if p.Prioridade != nil {
		o.Prioridade = *p.Prioridade
	}
	if p.Latitude != nil && p.Longitude != nil {
		o.Latitude, o.Longitude = *p.Latitude, *p.Longitude
		o.CoordSource = CoordResolved
	}
	return nil
}

// Filter - выборка происшествий
type Filter struct {
	Status     *Status
	Prioridade *Priority
	Limit      int
	Offset     int
}

// Match - чистый предикат по статусу и приоритету
func (f Filter) Match(o *Occurrence) bool {
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	if f.Prioridade != nil && o.Prioridade != *f.Prioridade {
		return false
	}
	return true
}
