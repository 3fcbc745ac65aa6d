package main

import (
	"log"

	approuters "github.com/de-code-ninja/qurio-backend/internal/app_routers"
	"github.com/de-code-ninja/qurio-backend/internal/configuration"
)

func main() {
	container, err := configuration.BuildContainer()
	if err != nil {
		log.Fatalf("Failed to build container: %v", err)
	}

	// Ensure cleanup on shutdown
	defer container.Close()

	// Setup routers
	approuters.StartServer(container)
}
