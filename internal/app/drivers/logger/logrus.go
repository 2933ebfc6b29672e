package logger

import (
	"os"
	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/pkg/constvars"

	"github.com/sirupsen/logrus"
)

// NewLogrusLogger is used by the command line tools, which log plain text to
// the terminal in development and JSON in production.
func NewLogrusLogger(internalConfig *config.InternalConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	switch internalConfig.App.Env {
	case constvars.AppEnvProduction:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
