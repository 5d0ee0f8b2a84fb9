package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var InfoLogger *zap.Logger

var (
	serviceName = "default"
)

type Config struct {
	Level       string
	Development bool
}

// New builds the process logger and installs it for the printf-style helpers.
func New(conf Config) (*zap.Logger, error) {
	var zc zap.Config
	if conf.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	if conf.Level != "" {
		lvl, err := zapcore.ParseLevel(conf.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", conf.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	l = l.With(zap.String("service", serviceName))

	InfoLogger = l
	return l, nil
}

func SetServiceName(newName string) string {
	oldName := serviceName
	serviceName = newName

	return oldName
}

func Info(format string, args ...interface{}) {
	if InfoLogger == nil {
		panic("InfoLogger is not initialized")
	}

	msg := fmt.Sprintf(format, args...)
	InfoLogger.Info(msg)
}

func Error(format string, args ...interface{}) {
	if InfoLogger == nil {
		panic("InfoLogger is not initialized")
	}

	msg := fmt.Sprintf(format, args...)
	InfoLogger.Error(msg)
}
