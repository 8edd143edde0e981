package main

import (
	"context"
	"log"

	"career-assistant-be/internal/bootstrap"
	"career-assistant-be/internal/config"
	"career-assistant-be/internal/server"
	"career-assistant-be/internal/tracer"
	"career-assistant-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	go func() {
		log.Println("Background: Starting Reindex Consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	container.AuditService.Start()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
