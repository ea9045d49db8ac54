package main

import (
	stdlog "log"
	"os"

	"github.com/Rizwanu321/BillMate24-sub000/cmd"
	"github.com/Rizwanu321/BillMate24-sub000/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Printf("Warning: Could not load .env file: %v", err)
	}

	logCfg := logger.DefaultConfig()
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		logCfg.Level = lvl
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		logCfg.Format = format
	}
	if err := logger.Setup(logCfg); err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}

	cmd.Execute()
}
