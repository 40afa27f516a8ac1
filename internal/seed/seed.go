// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"chirp/internal/auth"
	"chirp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DemoPassword is the password every seeded user gets.
const DemoPassword = "password123"

// Seeder populates the database with generated users, tweets, replies,
// favorites, and follow edges.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded data. Edges go first so foreign keys never
// dangle mid-cleanup.
func (s *Seeder) ClearAll() error {
	tables := []string{"follows", "favorites", "replies", "tweets", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	log.Println("cleared existing data")
	return nil
}

// SeedUsers creates count users with the shared demo password. All users
// are adults so seeded data passes the same rules as real sign-ups.
func (s *Seeder) SeedUsers(count int) ([]models.User, error) {
	digest, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		birthdate := gofakeit.DateRange(
			time.Now().AddDate(-60, 0, 0),
			time.Now().AddDate(-18, 0, -1),
		)

		user := models.User{
			FirstName: first,
			LastName:  last,
			UserName:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
			Email:     gofakeit.Email(),
			Password:  digest,
			Bio:       gofakeit.Sentence(10),
			Birthdate: &birthdate,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("creating user %d: %w", i, err)
		}
		users = append(users, user)
	}

	log.Printf("created %d users", len(users))
	return users, nil
}

// SeedTweets creates count tweets spread across the given users with
// realistic timestamps over the last 90 days.
func (s *Seeder) SeedTweets(users []models.User, count int) ([]models.Tweet, error) {
	tweets := make([]models.Tweet, 0, count)
	for i := 0; i < count; i++ {
		owner := users[s.rand.Intn(len(users))]
		tweet := models.Tweet{
			UserID:    owner.ID,
			Content:   clampContent(gofakeit.Sentence(8 + s.rand.Intn(20))),
			CreatedAt: s.pastTimestamp(90),
		}
		if err := s.db.Create(&tweet).Error; err != nil {
			return nil, fmt.Errorf("creating tweet %d: %w", i, err)
		}
		tweets = append(tweets, tweet)
	}

	log.Printf("created %d tweets", len(tweets))
	return tweets, nil
}

// SeedReplies attaches count replies to random tweets.
func (s *Seeder) SeedReplies(users []models.User, tweets []models.Tweet, count int) error {
	for i := 0; i < count; i++ {
		reply := models.Reply{
			UserID:    users[s.rand.Intn(len(users))].ID,
			TweetID:   tweets[s.rand.Intn(len(tweets))].ID,
			Content:   clampContent(gofakeit.Sentence(5 + s.rand.Intn(15))),
			CreatedAt: s.pastTimestamp(60),
		}
		if err := s.db.Create(&reply).Error; err != nil {
			return fmt.Errorf("creating reply %d: %w", i, err)
		}
	}

	log.Printf("created %d replies", count)
	return nil
}

// SeedEdges creates favorite and follow edges. Duplicate pairs and
// self-follows are simply skipped, so the unique constraints stay intact.
func (s *Seeder) SeedEdges(users []models.User, tweets []models.Tweet, favorites, follows int) error {
	created := 0
	for i := 0; i < favorites; i++ {
		user := users[s.rand.Intn(len(users))]
		tweet := tweets[s.rand.Intn(len(tweets))]

		edge := models.Favorite{UserID: user.ID, TweetID: tweet.ID}
		err := s.db.Create(&edge).Error
		if err != nil {
			continue
		}
		if err := s.db.Model(&models.Tweet{}).Where("id = ?", tweet.ID).
			UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
			return fmt.Errorf("bumping likes: %w", err)
		}
		created++
	}
	log.Printf("created %d favorites", created)

	created = 0
	for i := 0; i < follows; i++ {
		follower := users[s.rand.Intn(len(users))]
		following := users[s.rand.Intn(len(users))]
		if follower.ID == following.ID {
			continue
		}

		edge := models.Follow{FollowerID: follower.ID, FollowingID: following.ID}
		if err := s.db.Create(&edge).Error; err != nil {
			continue
		}
		created++
	}
	log.Printf("created %d follows", created)

	return nil
}

func (s *Seeder) pastTimestamp(maxDays int) time.Time {
	daysBack := s.rand.Intn(maxDays)
	hoursBack := s.rand.Intn(24)
	minsBack := s.rand.Intn(60)
	return time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// clampContent keeps generated text inside the tweet length bound.
func clampContent(content string) string {
	runes := []rune(content)
	if len(runes) > 280 {
		return string(runes[:280])
	}
	return content
}
