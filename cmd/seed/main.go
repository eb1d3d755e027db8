package main

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pyqbank/internal/apperr"
	"pyqbank/internal/config"
	"pyqbank/internal/repository"
	"pyqbank/internal/service"
)

// Seeds the subject taxonomy. Run once by an operator against an empty
// deployment; exits cleanly when the taxonomy already exists.
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	subjectRepo := repository.NewSubjectRepo(db)

	if err := subjectRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure subject indexes: %v", err)
	}

	inserted, err := service.NewSubjectService(subjectRepo).Seed(ctx)
	if errors.Is(err, apperr.ErrConflict) {
		log.Println("Subjects already seeded, nothing to do")
		return
	}
	if err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
	log.Printf("Seeded %d subjects", inserted)
}
