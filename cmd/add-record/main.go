package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dimitrije/leaderboard-api/internal/config"
	"github.com/dimitrije/leaderboard-api/internal/database"
	"github.com/dimitrije/leaderboard-api/internal/models"
	"github.com/dimitrije/leaderboard-api/internal/services"
)

func main() {
	if len(os.Args) != 5 {
		fmt.Println("Usage: add-record <leaderboard|score> <slug> <name> <payload>")
		os.Exit(1)
	}

	var schema models.Schema
	switch os.Args[1] {
	case models.LeaderboardSchema.Kind:
		schema = models.LeaderboardSchema
	case models.ScoreSchema.Kind:
		schema = models.ScoreSchema
	default:
		log.Fatalf("Unknown record kind: %s", os.Args[1])
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close(ctx) }()

	svc := services.NewRecordService(schema, db.Collection(schema.Collection), cfg.StoreTimeout)

	rec, err := svc.Create(ctx, map[string]any{
		models.FieldSlug:    os.Args[2],
		models.FieldName:    os.Args[3],
		schema.PayloadField: os.Args[4],
	})
	if err != nil {
		log.Fatalf("Failed to add %s: %v", schema.Kind, err)
	}

	fmt.Printf("Successfully added %s %s (%s)\n", schema.Kind, rec.Name, rec.ID.Hex())
}
