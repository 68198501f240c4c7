// Command main runs the database seeder for Atrium.
package main

import (
	"flag"
	"log"

	"atrium/internal/config"
	"atrium/internal/database"
	"atrium/internal/seed"
)

func main() {
	numProfiles := flag.Int("profiles", 50, "Number of profiles to create")
	numPosts := flag.Int("posts", 200, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a named preset instead of random data (e.g. demo)")
	presetFile := flag.String("preset-file", "", "YAML file with custom preset definitions")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (fast, dev only)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	if *preset != "" {
		log.Printf("Applying preset: %s\n", *preset)
	} else {
		log.Printf("Target: %d profiles, %d posts, clean=%v\n", *numProfiles, *numPosts, *shouldClean)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err = database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB, seed.Options{SkipBcrypt: *skipBcrypt})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if *preset != "" {
		if err := s.ApplyPreset(*preset, *presetFile); err != nil {
			log.Fatalf("❌ Preset seeding failed: %v", err)
		}
	} else {
		profiles, err := s.SeedNetwork(*numProfiles)
		if err != nil {
			log.Fatalf("❌ Profile seeding failed: %v", err)
		}
		if _, err = s.SeedEngagement(profiles, *numPosts); err != nil {
			log.Fatalf("❌ Engagement seeding failed: %v", err)
		}
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All seeded profiles have the password: password123")
}
