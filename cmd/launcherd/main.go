package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/config"
	"github.com/OpenVoiceOS/ovos-app-launcher/internal/infrastructure/server"
)

func main() {
	settingsPath := flag.String("settings", "", "Settings file path (default: probe standard locations)")
	flag.Parse()

	cfg, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize launcher: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		srv.Close()
		log.Fatalf("Server error: %v", err)
	}
}
