package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New создает JSON-логгер для указанного компонента (server, dashboard)
func New(logLevel, component string) *logrus.Logger {
	return NewWithOutput(logLevel, component, os.Stdout)
}

// NewWithOutput - то же, но с произвольным приемником вывода
func NewWithOutput(logLevel, component string, out io.Writer) *logrus.Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(out)

	// Уровень логирования
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel // Уровень по умолчанию, если передан некорректный
	}
	log.SetLevel(level)

	if component != "" {
		log.AddHook(componentHook(component))
	}
	return log
}

// componentHook добавляет поле "component" в каждую запись
type componentHook string

func (h componentHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h componentHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["component"]; !ok {
		entry.Data["component"] = string(h)
	}
	return nil
}
