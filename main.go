package main

import (
	"context"
	"errors"
	"io/fs"
	"log"

	"github.com/Dandandan2024/PropertyCalculator/internal/app"
	"github.com/Dandandan2024/PropertyCalculator/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logFile, err := app.SetupLogging(cfg)
	if err != nil {
		log.Fatalf("setup logging: %v", err)
	}
	defer logFile.Close()

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init app: %v", err)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
