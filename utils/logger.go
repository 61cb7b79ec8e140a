package utils

import (
	"strings"

	"go.uber.org/zap"
)

// Log is the shared application logger. InitLogger must be called once from
// main before any handler runs; the default keeps tests quiet.
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

func InitLogger(env string) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if strings.ToLower(env) == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	Log = logger.Sugar()
	return logger, nil
}
