package utils

import (
	"log"
	"sync"

	"meditravel/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerOnce sync.Once
	logger     *zap.Logger
)

func buildLogger() *zap.Logger {
	var cfg zap.Config
	if config.IsProduction() {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level := zapcore.InfoLevel
	if err := level.Set(config.AppConfig.LogLevel); err != nil && config.AppConfig.LogLevel != "" {
		log.Printf("unknown LOG_LEVEL %q, using info", config.AppConfig.LogLevel)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	l, err := cfg.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	return l
}

// GetLogger returns the process-wide logger, building it on first use.
func GetLogger() *zap.Logger {
	loggerOnce.Do(func() {
		logger = buildLogger()
	})
	return logger
}
