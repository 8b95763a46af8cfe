package main

import (
	"os"
	"time"

	"dealflow/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title           Dealflow Engagement API
// @version         1.0
// @description     Lead-to-contract engagement service: estimates + role-gated workflow, backed by DynamoDB.

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey ActorID
// @in header
// @name X-Actor-Id

// @securityDefinitions.apikey ActorRole
// @in header
// @name X-Actor-Role

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	routes.Run()
}
