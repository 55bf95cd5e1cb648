// Package main provides the main entry point for the GoalPlate API server
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goalplate/v1/internal/infrastructure/container"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.NopLogger, // Use our own logger instead of Fx's
		container.Module,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	<-ctx.Done()

	// The lifecycle hooks bound shutdown with server.shutdown_timeout
	// from the config, so no extra deadline is applied here.
	if err := app.Stop(context.Background()); err != nil {
		log.Fatalf("Failed to stop application gracefully: %v", err)
	}
}
