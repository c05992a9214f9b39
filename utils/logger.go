package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  = newLogger(os.Stdout, logrus.InfoLevel)
	ErrorLogger = newLogger(os.Stderr, logrus.ErrorLevel)
)

// LogConfig -> optional rotating file output, empty File keeps stdout/stderr only
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	l.SetLevel(level)
	return l
}

func InitLogger() {
	InitLoggerWithConfig(LogConfig{})
}

// InitLoggerWithConfig resets InfoLogger and ErrorLogger.
// When File is set, logs are also written to a rotated file (lumberjack).
func InitLoggerWithConfig(cfg LogConfig) {
	infoOut := io.Writer(os.Stdout)
	errorOut := io.Writer(os.Stderr)

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		infoOut = io.MultiWriter(os.Stdout, rotator)
		errorOut = io.MultiWriter(os.Stderr, rotator)
	}

	infoLevel := logrus.InfoLevel
	if cfg.Level != "" {
		if lvl, err := logrus.ParseLevel(cfg.Level); err == nil {
			infoLevel = lvl
		}
	}

	InfoLogger = newLogger(infoOut, infoLevel)
	ErrorLogger = newLogger(errorOut, logrus.ErrorLevel)
}
