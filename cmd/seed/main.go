// Command seed loads the demo fixtures into the configured database.
package main

import (
	"context"
	"flag"
	"log"

	"blog/internal/config"
	"blog/internal/database"
	"blog/internal/seed"
)

func main() {
	numPosts := flag.Int("posts", seed.DefaultPosts, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Remove existing comments, posts and authors first")
	flag.Parse()

	log.Printf("Seeding %d posts, clean=%v", *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	result, err := seed.NewSeeder(db).LoadFixtures(context.Background(), seed.Options{
		Posts: *numPosts,
		Clean: *shouldClean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: author %q with %d posts", result.Author.FullName(), len(result.Posts))
}
