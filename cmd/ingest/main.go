package main

import (
	"context"
	"log"
	"os"
	"time"

	"dashboard_backend/internal/feature/datasets/adapters"
	"dashboard_backend/internal/feature/datasets/usecase"
	"dashboard_backend/internal/platform/db"
)

func main() {
	gdb := db.OpenDB()
	repo := adapters.NewObservationRepository(gdb)
	uc := usecase.NewIngestUsecase(repo)

	dir := os.Getenv("DATASETS_DIR")
	if dir == "" {
		dir = "datasets"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := uc.IngestDir(ctx, dir); err != nil {
		log.Fatal(err)
	}
	log.Println("ingest ok")
}
