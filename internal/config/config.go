package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBDSN    string // empty selects the in-memory store; otherwise a sqlite DSN
	LogFile  string
	SeedDemo bool
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN") // e.g. "orderdesk.db"; leave unset for in-memory
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./orderdesk.log"
	}
	seed := os.Getenv("SEED_DEMO") != "0"

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, SeedDemo: seed}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s SEED_DEMO=%t", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.SeedDemo)
	return cfg
}
