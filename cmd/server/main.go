// Command server runs the blog web application.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog/internal/config"
	"blog/internal/observability"
	"blog/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "blog",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	done := shutdownOnSignal(sigChan, 10*time.Second, srv.Shutdown, shutdownTracing)

	if err := srv.Start(); err != nil {
		log.Fatal(err)
	}
	<-done
}

// shutdownOnSignal runs steps in order once sig fires, sharing one timeout.
// The returned channel is closed after the last step.
func shutdownOnSignal(sig <-chan os.Signal, timeout time.Duration, steps ...func(context.Context) error) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-sig

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		for _, step := range steps {
			if err := step(ctx); err != nil {
				log.Printf("Shutdown error: %v", err)
			}
		}
	}()
	return done
}
