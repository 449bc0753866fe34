package logger

import (
	"github.com/sirupsen/logrus"
)

// Log — глобальный логгер приложения. Инициализируется в main до
// создания сервисов.
var Log *logrus.Logger

// Init создаёт логгер с JSON форматом и заданным уровнем.
// Неизвестный уровень понижается до info.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter переключает логи в текстовый формат (development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}
