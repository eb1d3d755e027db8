package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pyqbank/internal/cache"
	"pyqbank/internal/config"
	"pyqbank/internal/repository"
	"pyqbank/internal/service"
	"pyqbank/internal/transport/rest"
)

// @title PYQ Bank API
// @version 1.0
// @description Previous-year question bank: search, facets, bulk import
// @host localhost:8080
// @BasePath /v1
func main() {
	ctx := context.Background()
	cfg := config.Load()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := cfg.RedisAddr
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Repositories
	questionRepo := repository.NewQuestionRepo(db)
	subjectRepo := repository.NewSubjectRepo(db)

	idxCtx, cancelIdx := context.WithTimeout(ctx, 30*time.Second)
	defer cancelIdx()
	if err := questionRepo.EnsureIndexes(idxCtx); err != nil {
		log.Fatal("Failed to ensure question indexes:", err)
	}
	if err := subjectRepo.EnsureIndexes(idxCtx); err != nil {
		log.Fatal("Failed to ensure subject indexes:", err)
	}

	// Caches
	facetCache := cache.NewFacetCache(rdb)
	importStaging := cache.NewImportStaging(rdb)

	// Search strategy is a deployment choice; the substring strategy doubles
	// as the fallback when the text index is unavailable.
	substring := repository.NewSubstringSearch(db)
	var primary repository.SearchStrategy
	var fallback repository.SearchStrategy
	switch cfg.SearchStrategy {
	case config.StrategyRegex:
		primary = substring
	case config.StrategyAtlas:
		primary = repository.NewAtlasSearch(db, cfg.AtlasIndex)
		fallback = substring
	default:
		primary = repository.NewTextSearch(db)
		fallback = substring
	}
	log.Printf("Search strategy: %s", cfg.SearchStrategy)

	// Services
	searchService := service.NewSearchService(primary, fallback)
	questionService := service.NewQuestionService(questionRepo, facetCache)
	facetService := service.NewFacetService(questionRepo, facetCache)
	importService := service.NewImportService(questionRepo, subjectRepo, importStaging, facetCache)
	subjectService := service.NewSubjectService(subjectRepo)

	router := rest.NewRouter(&rest.Container{
		SearchService:   searchService,
		QuestionService: questionService,
		FacetService:    facetService,
		ImportService:   importService,
		SubjectService:  subjectService,
		JWTSecret:       cfg.JWTSecret,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
