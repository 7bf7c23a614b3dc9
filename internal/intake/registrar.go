package intake

//go:generate mockgen -source=registrar.go -destination=mocks/mock_registrar.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shenikar/sisocc/internal/geocode"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
)

// Form - вариант формы регистрации
type Form string

const (
	// FormWeb - форма панели: обязательны тип и место
	FormWeb Form = "web"
	// FormMobile - форма приложения: обязательны тип, место, адрес и описание
	FormMobile Form = "mobile"
)

// ParseForm разбирает вариант формы; пустое значение означает веб-форму
func ParseForm(raw string) (Form, error) {
	switch Form(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormWeb:
		return FormWeb, nil
	case FormMobile:
		return FormMobile, nil
	}
	return "", fmt.Errorf("intake: unknown form %q", raw)
}

// Submitter принимает проверенный черновик; в дашборде это хранилище происшествий
type Submitter interface {
	Add(ctx context.Context, draft models.Draft) (*models.Occurrence, error)
}

// FieldError - ошибка одного поля с сообщением для пользователя
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError - черновик не прошел проверку, запрос на сервер не отправлялся
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "intake: " + strings.Join(msgs, "; ")
}

// IsValidation сообщает, что ошибка - ошибка проверки формы
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

type webForm struct {
	Tipo       string   `validate:"required,max=100"`
	Local      string   `validate:"required,max=255"`
	Endereco   string   `validate:"max=500"`
	Descricao  string   `validate:"max=5000"`
	Prioridade string   `validate:"omitempty,oneof=BAIXA MEDIA ALTA CRITICA"`
	Latitude   *float64 `validate:"omitempty,latitude"`
	Longitude  *float64 `validate:"omitempty,longitude"`
}

type mobileForm struct {
	Tipo       string   `validate:"required,max=100"`
	Local      string   `validate:"required,max=255"`
	Endereco   string   `validate:"required,max=500"`
	Descricao  string   `validate:"required,max=5000"`
	Prioridade string   `validate:"omitempty,oneof=BAIXA MEDIA ALTA CRITICA"`
	Latitude   *float64 `validate:"omitempty,latitude"`
	Longitude  *float64 `validate:"omitempty,longitude"`
}

// сообщения приложения для обязательных полей
var requiredMessages = map[string]string{
	"Tipo":      "Selecione um tipo",
	"Local":     "Preencha o local",
	"Endereco":  "Preencha o endereço",
	"Descricao": "Preencha a descrição",
}

var fieldNames = map[string]string{
	"Tipo":       "tipo",
	"Local":      "local",
	"Endereco":   "endereco",
	"Descricao":  "descricao",
	"Prioridade": "prioridade",
	"Latitude":   "latitude",
	"Longitude":  "longitude",
}

// Registrar проверяет форму, дополняет координаты и отправляет черновик
type Registrar struct {
	submitter Submitter
	geocoder  geocode.Geocoder
	fallback  models.Point
	validate  *validator.Validate
	logger    *logrus.Logger
}

// NewRegistrar создает Registrar; geocoder может быть nil, тогда сразу берется fallback
func NewRegistrar(submitter Submitter, geocoder geocode.Geocoder, fallback models.Point, logger *logrus.Logger) *Registrar {
	return &Registrar{
		submitter: submitter,
		geocoder:  geocoder,
		fallback:  fallback,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Validate проверяет черновик по правилам варианта формы
func (r *Registrar) Validate(form Form, draft models.Draft) error {
	draft = normalize(draft)

	var input any
	switch form {
	case FormMobile:
		input = mobileForm{draft.Tipo, draft.Local, draft.Endereco, draft.Descricao, string(draft.Prioridade), draft.Latitude, draft.Longitude}
	default:
		input = webForm{draft.Tipo, draft.Local, draft.Endereco, draft.Descricao, string(draft.Prioridade), draft.Latitude, draft.Longitude}
	}

	err := r.validate.Struct(input)
	if err == nil {
		if (draft.Latitude == nil) != (draft.Longitude == nil) {
			return &ValidationError{Fields: []FieldError{{Field: "latitude", Message: "Informe latitude e longitude juntas"}}}
		}
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return fmt.Errorf("intake: validate: %w", err)
	}
	result := &ValidationError{}
	for _, fe := range vErrs {
		result.Fields = append(result.Fields, FieldError{
			Field:   fieldNames[fe.StructField()],
			Message: message(fe),
		})
	}
	return result
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if msg, ok := requiredMessages[fe.StructField()]; ok {
			return msg
		}
		return "Por favor, preencha os campos obrigatórios!"
	case "max":
		return fmt.Sprintf("Campo %s excede %s caracteres", fieldNames[fe.StructField()], fe.Param())
	case "oneof":
		return "Prioridade inválida"
	case "latitude", "longitude":
		return "Coordenadas inválidas"
	}
	return fmt.Sprintf("Campo %s inválido", fieldNames[fe.StructField()])
}

// Submit проверяет черновик и отправляет его. При ошибке проверки сеть не используется.
// Без координат адрес геокодируется; промах или сбой дают точку по умолчанию.
func (r *Registrar) Submit(ctx context.Context, form Form, draft models.Draft) (*models.Occurrence, error) {
	if err := r.Validate(form, draft); err != nil {
		return nil, err
	}
	draft = normalize(draft)

	log := r.logger.WithFields(logrus.Fields{
		"component": "intake",
		"method":    "Submit",
		"form":      form,
		"tipo":      draft.Tipo,
	})

	if draft.HasCoordinates() {
		if draft.CoordSource == "" {
			draft.CoordSource = models.CoordResolved
		}
	} else {
		address := draft.Endereco
		if address == "" {
			address = draft.Local
		}
		point, source := geocode.Resolve(ctx, r.geocoder, address, r.fallback, r.logger)
		draft.SetPoint(point, source)
		log = log.WithField("coord_source", source)
	}

	occ, err := r.submitter.Add(ctx, draft)
	if err != nil {
		log.WithError(err).Error("Failed to submit occurrence")
		return nil, fmt.Errorf("intake: submit: %w", err)
	}
	log.WithField("occurrence_id", occ.ID).Info("Occurrence submitted")
	return occ, nil
}

func normalize(d models.Draft) models.Draft {
	d.Tipo = models.NormalizeTipo(d.Tipo)
	d.Local = strings.TrimSpace(d.Local)
	d.Endereco = strings.TrimSpace(d.Endereco)
	d.Descricao = strings.TrimSpace(d.Descricao)
	d.Responsavel = strings.TrimSpace(d.Responsavel)
	return d
}
