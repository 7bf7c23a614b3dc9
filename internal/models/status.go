package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Status - замкнутое множество состояний жизненного цикла происшествия
type Status string

const (
	StatusNovo          Status = "NOVO"
	StatusEmAnalise     Status = "EM_ANALISE"
	StatusEmAtendimento Status = "EM_ATENDIMENTO"
	StatusConcluido     Status = "CONCLUIDO"
	StatusCancelado     Status = "CANCELADO"
)

// Statuses перечисляет все состояния в порядке жизненного цикла
var Statuses = []Status{StatusNovo, StatusEmAnalise, StatusEmAtendimento, StatusConcluido, StatusCancelado}

// statusAliases сводит словари веб- и мобильного клиентов к одному перечислению
var statusAliases = map[string]Status{
	"NOVO":           StatusNovo,
	"NOVA":           StatusNovo,
	"ABERTA":         StatusNovo,
	"EM_ANALISE":     StatusEmAnalise,
	"EM_ATENDIMENTO": StatusEmAtendimento,
	"EM_ANDAMENTO":   StatusEmAtendimento,
	"CONCLUIDO":      StatusConcluido,
	"CONCLUIDA":      StatusConcluido,
	"FECHADA":        StatusConcluido,
	"CANCELADO":      StatusCancelado,
	"CANCELADA":      StatusCancelado,
}

var statusLabels = map[Status]string{
	StatusNovo:          "Novo",
	StatusEmAnalise:     "Em Análise",
	StatusEmAtendimento: "Em Atendimento",
	StatusConcluido:     "Concluído",
	StatusCancelado:     "Cancelado",
}

// порядок продвижения по жизненному циклу; CANCELADO вне линейной цепочки
var statusRank = map[Status]int{
	StatusNovo:          0,
	StatusEmAnalise:     1,
	StatusEmAtendimento: 2,
	StatusConcluido:     3,
}

// ParseStatus разбирает статус в любом из встречающихся написаний ("Em Análise", "EM_ANALISE", "em analise")
func ParseStatus(raw string) (Status, error) {
	key := NormalizeKey(raw)
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}
	return "", fmt.Errorf("unknown status %q", raw)
}

// Valid сообщает, входит ли значение в замкнутое множество
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label возвращает подпись для интерфейса
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Terminal - из терминального состояния переходов нет
func (s Status) Terminal() bool {
	return s == StatusConcluido || s == StatusCancelado
}

// Pending - происшествие ещё ожидает обработки
func (s Status) Pending() bool {
	return s == StatusNovo || s == StatusEmAnalise
}

// CanTransitionTo проверяет переход только вперед по жизненному циклу.
// CANCELADO достижим из любого нетерминального состояния, повтор текущего состояния допустим.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	if next == StatusCancelado {
		return true
	}
	return statusRank[next] > statusRank[s]
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*s = ""
		return nil
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Priority - приоритет происшествия, независимый от статуса
type Priority string

const (
	PriorityBaixa   Priority = "BAIXA"
	PriorityMedia   Priority = "MEDIA"
	PriorityAlta    Priority = "ALTA"
	PriorityCritica Priority = "CRITICA"
)

// Priorities перечисляет приоритеты по возрастанию
var Priorities = []Priority{PriorityBaixa, PriorityMedia, PriorityAlta, PriorityCritica}

// ParsePriority разбирает приоритет без учета регистра и диакритики
func ParsePriority(raw string) (Priority, error) {
	p := Priority(NormalizeKey(raw))
	if p.Valid() {
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", raw)
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityBaixa, PriorityMedia, PriorityAlta, PriorityCritica:
		return true
	}
	return false
}

// Urgent - приоритеты, о которых рассылаются push-уведомления
func (p Priority) Urgent() bool {
	return p == PriorityAlta || p == PriorityCritica
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*p = ""
		return nil
	}
	parsed, err := ParsePriority(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Известные типы происшествий; множество открытое
const (
	TipoRisco      = "RISCO"
	TipoIncendio   = "INCENDIO"
	TipoAcidente   = "ACIDENTE"
	TipoResgate    = "RESGATE"
	TipoAlagamento = "ALAGAMENTO"
	TipoTransito   = "TRANSITO"
	TipoVazamento  = "VAZAMENTO"
	TipoOutros     = "OUTROS"
)

// NormalizeTipo приводит тип к верхнему регистру ASCII: "Queda de Árvore" -> "QUEDA_DE_ARVORE"
func NormalizeTipo(raw string) string {
	return NormalizeKey(raw)
}

// NormalizeKey убирает диакритику, приводит к верхнему регистру и заменяет пробелы и дефисы на "_"
func NormalizeKey(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.TrimSpace(raw))
	if err != nil {
		stripped = strings.TrimSpace(raw)
	}
	stripped = strings.ToUpper(stripped)
	return strings.Join(strings.FieldsFunc(stripped, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}
