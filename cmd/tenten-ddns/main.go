package main

import (
	"log/slog"
	"os"

	"github.com/lite-lake/tenten-ddns/internal/constants"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/logger"
	"github.com/lite-lake/tenten-ddns/internal/interfaces/cli"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv(constants.EnvDebug) != "" {
		logLevel = slog.LevelDebug
	}

	logger.Init(&logger.Config{
		Level:     logLevel,
		Format:    os.Getenv(constants.EnvLogFormat),
		AddSource: os.Getenv(constants.EnvDebug) != "",
	})

	cli.Execute()
}
