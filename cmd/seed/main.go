package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/commercia/commercia-backend/internal/config"
	"github.com/commercia/commercia-backend/internal/database"
	"github.com/commercia/commercia-backend/internal/models"
)

const desiredCategories = 100

var departments = []string{
	"Books", "Movies", "Music", "Games", "Electronics", "Computers",
	"Home", "Garden", "Tools", "Grocery", "Health", "Beauty", "Toys",
	"Kids", "Baby", "Clothing", "Shoes", "Jewelry", "Sports", "Outdoors",
	"Automotive", "Industrial", "Pets", "Office", "Crafts",
}

// categoryNames expands the base department list into count unique names.
func categoryNames(count int) []string {
	names := make([]string, 0, count)
	for i := 0; len(names) < count; i++ {
		for _, d := range departments {
			if len(names) == count {
				break
			}
			if i == 0 {
				names = append(names, d)
			} else {
				names = append(names, fmt.Sprintf("%s & More %d", d, i))
			}
		}
	}
	return names
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to ensure indexes: ", err)
	}

	now := time.Now()
	docs := make([]interface{}, 0, desiredCategories)
	for _, name := range categoryNames(desiredCategories) {
		docs = append(docs, models.Category{
			ID:        primitive.NewObjectID(),
			CreatedAt: now,
			UpdatedAt: now,
			Name:      name,
		})
	}

	log.Printf("Attempting to insert %d categories...", len(docs))
	res, err := database.DB.Collection("categories").InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err != nil {
		// Unordered insert keeps going past duplicates; a duplicate-only
		// failure means the seed already ran.
		if bulkErr, ok := err.(mongo.BulkWriteException); ok && allDuplicates(bulkErr) {
			log.Printf("⚠️  Duplicate categories skipped (%d inserted)", inserted)
		} else {
			log.Fatal("Error seeding categories: ", err)
		}
	} else {
		log.Printf("✅ Inserted %d categories", inserted)
	}

	log.Println("Seed script finished.")
}

func allDuplicates(err mongo.BulkWriteException) bool {
	if len(err.WriteErrors) == 0 {
		return false
	}
	for _, we := range err.WriteErrors {
		if we.Code != 11000 {
			return false
		}
	}
	return true
}
