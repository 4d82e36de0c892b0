package logger

import (
	"time"

	"github.com/natefinch/lumberjack"
	logrus "github.com/sirupsen/logrus"

	"github.com/irkartik/driver-service/internal/config"
)

// Setup configures the standard logrus logger. When a log file is
// configured, output rotates through lumberjack; otherwise it stays on
// stderr.
func Setup(cfg config.LogConfig) {
	if cfg.File != "" {
		logrus.SetOutput(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		})
	}

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
