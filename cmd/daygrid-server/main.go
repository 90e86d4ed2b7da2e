package main

import (
	"log"
	"os"

	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://localhost:5432/daygrid?sslmode=disable"
	}

	logConfig := logger.DefaultConfig()
	logConfig.Console = true
	if err := logger.Init(logConfig); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	srv, err := server.New(dbURL)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	log.Printf("daygrid server starting on :%s", port)
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
