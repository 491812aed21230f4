package logger

import (
	"log"

	"go.uber.org/zap"
)

const (
	envLocal = "local"
	envDev   = "dev"
)

// New создает zap логгер в зависимости от окружения.
// local/dev - человекочитаемый development логгер, иначе JSON production логгер.
func New(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)

	switch env {
	case envLocal, envDev:
		logger, err = zap.NewDevelopment()
	default:
		logger, err = zap.NewProduction()
	}

	if err != nil {
		log.Printf("ERROR: failed to build zap logger, falling back to nop: %v\n", err)
		return zap.NewNop()
	}

	return logger.With(zap.String("env", env))
}
