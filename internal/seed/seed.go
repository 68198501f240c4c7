package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"atrium/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumProfiles int
	NumPosts    int
	ShouldClean bool
	SkipBcrypt  bool
	DryRun      bool
	MaxDays     int
}

// Seeder orchestrates data generation phases against a single database.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder with default options.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// ClearAll removes all seeded rows. Truncation order does not matter
// because the foreign keys cascade.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE comments, likes, posts, profiles RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// SeedNetwork creates the requested number of profiles.
func (s *Seeder) SeedNetwork(count int) ([]*models.Profile, error) {
	profiles := make([]*models.Profile, 0, count)
	for i := 0; i < count; i++ {
		p, err := s.factory.CreateProfile()
		if err != nil {
			return nil, fmt.Errorf("create profile %d: %w", i, err)
		}
		profiles = append(profiles, p)
		if i > 0 && i%100 == 0 {
			log.Printf("Created %d profiles...", i)
		}
	}
	log.Printf("✓ %d profiles created", len(profiles))
	return profiles, nil
}

// SeedEngagement creates posts attributed to random profiles, then
// sprinkles likes and comments over them.
func (s *Seeder) SeedEngagement(profiles []*models.Profile, numPosts int) ([]*models.Post, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profiles to attribute posts to")
	}

	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := profiles[r.Intn(len(profiles))]
		posts = append(posts, s.factory.BuildPost(author))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	likes := 0
	comments := 0
	for _, post := range posts {
		// Each post gets likes from a random subset of distinct profiles.
		numLikes := r.Intn(len(profiles)/2 + 1)
		for _, idx := range r.Perm(len(profiles))[:numLikes] {
			if err := s.factory.CreateLike(profiles[idx], post); err != nil {
				return nil, fmt.Errorf("create like: %w", err)
			}
			likes++
		}

		numComments := r.Intn(6)
		for j := 0; j < numComments; j++ {
			author := profiles[r.Intn(len(profiles))]
			if _, err := s.factory.CreateComment(author, post); err != nil {
				return nil, fmt.Errorf("create comment: %w", err)
			}
			comments++
		}
	}
	log.Printf("✓ %d likes, %d comments created", likes, comments)

	return posts, nil
}
