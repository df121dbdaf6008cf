package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"avatar-studio/app"
	"avatar-studio/config"
	"avatar-studio/db"
)

func main() {
	// Load .env file in development; in production variables are set directly
	config.LoadEnvFile(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize application
	if err := app.Initialize(ctx, cfg, http.DefaultServeMux); err != nil {
		log.Fatal(err)
	}
	defer db.CloseDB()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
	addr := "0.0.0.0:" + cfg.Port
	srv := &http.Server{Addr: addr}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Printf("Server starting on %s", addr)
	log.Printf("Create a session: POST http://localhost:%s/sessions {\"gender\":\"female\"}", cfg.Port)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}
}
