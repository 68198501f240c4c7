// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"atrium/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateProfile constructs and persists a sample `models.Profile`.
// Optional override functions may modify the generated profile before saving.
func (f *Factory) CreateProfile(overrides ...func(*models.Profile)) (*models.Profile, error) {
	profile := &models.Profile{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Headline: fmt.Sprintf("%s at %s", gofakeit.JobTitle(), gofakeit.Company()),
		Bio:      gofakeit.Sentence(12),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		profile.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		profile.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(profile)
	}

	if f.opts.DryRun {
		f.nextID++
		profile.ID = f.nextID
		log.Printf("[dry-run] CreateProfile: %s <%s>", profile.Name, profile.Email)
		return profile, nil
	}

	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// BuildPost constructs a post struct with a realistic created_at spread
// but does not persist it. Useful for batching.
func (f *Factory) BuildPost(author *models.Profile, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Content:   gofakeit.Paragraph(1, 3, 8, "\n"),
		ProfileID: author.ID,
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost constructs and persists a sample `models.Post` for the given author.
func (f *Factory) CreatePost(author *models.Profile, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, overrides...)

	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		log.Printf("[dry-run] CreatePost: author=%d len=%d", post.ProfileID, len(post.Content))
		return post, nil
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided post authored by the provided profile.
func (f *Factory) CreateComment(author *models.Profile, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   gofakeit.Sentence(8),
		ProfileID: author.ID,
		PostID:    post.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from `author` on `post`. The (profile, post)
// pair is unique so callers must not repeat pairs.
func (f *Factory) CreateLike(author *models.Profile, post *models.Post) error {
	if f.opts.DryRun {
		return nil
	}
	like := &models.Like{
		ProfileID: author.ID,
		PostID:    post.ID,
	}
	return f.db.Create(like).Error
}
