package main

import (
	"log"

	_ "todo/docs"
	"todo/internal/config"
	"todo/internal/server"
)

// @title           Todo API
// @version         1.0
// @description     API for managing personal tasks.

// @host      localhost:8080
// @BasePath  /

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
