package main

import (
	"log"

	"github.com/dteaa/membership_service/config"
	"github.com/dteaa/membership_service/internal/api"
	"github.com/dteaa/membership_service/internal/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	appLog := logger.NewStructured(cfg.LogLevel, cfg.LogFormat)
	defer appLog.Sync()

	if err := api.StartServer(cfg, appLog); err != nil {
		appLog.Error("server stopped", map[string]interface{}{"error": err})
		log.Fatal(err)
	}
}
