package main

import (
	"context"
	"log"
	"os"

	"github.com/pilab-dev/osm-auth/cmd/authctl/cmd"
	"github.com/pilab-dev/osm-auth/tracing"
)

func main() {
	tp, err := tracing.InitTracerProvider(context.Background(), "osm-auth-authctl", os.Getenv("OTEL_EXPORTER_ENDPOINT"))
	if err != nil {
		log.Fatalf("Failed to initialize TracerProvider: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down TracerProvider: %v", err)
		}
	}()

	cmd.Execute()
}
