// Command main runs the database seeder for Chirp.
package main

import (
	"flag"
	"log"

	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numTweets := flag.Int("tweets", 100, "Number of tweets to create")
	numReplies := flag.Int("replies", 80, "Number of replies to create")
	numFavorites := flag.Int("favorites", 150, "Number of favorite edges to attempt")
	numFollows := flag.Int("follows", 120, "Number of follow edges to attempt")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}

	tweets, err := s.SeedTweets(users, *numTweets)
	if err != nil {
		log.Fatalf("Tweet seeding failed: %v", err)
	}

	if err := s.SeedReplies(users, tweets, *numReplies); err != nil {
		log.Fatalf("Reply seeding failed: %v", err)
	}

	if err := s.SeedEdges(users, tweets, *numFavorites, *numFollows); err != nil {
		log.Fatalf("Edge seeding failed: %v", err)
	}

	log.Printf("Done. All seeded users sign in with the password %q.", seed.DemoPassword)
}
