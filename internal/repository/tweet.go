package repository

import (
	"context"
	"errors"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// Order controls result ordering by creation time.
type Order string

const (
	OrderAsc  Order = "created_at ASC"
	OrderDesc Order = "created_at DESC"
)

// TweetRepository defines persistence operations for tweets.
type TweetRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Tweet, error)
	Create(ctx context.Context, tweet *models.Tweet) error
	DeleteOwned(ctx context.Context, tweetID, ownerID uint) (*models.Tweet, error)
	ListByUser(ctx context.Context, userID uint, order Order) ([]models.Tweet, error)
	ListByUserWithReplies(ctx context.Context, userID uint, order Order) ([]models.Tweet, error)
}

type tweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository returns a new TweetRepository implementation.
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) GetByID(ctx context.Context, id uint) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.db.WithContext(ctx).First(&tweet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Tweet not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &tweet, nil
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// DeleteOwned deletes a tweet only when ownerID created it. The ownership
// check and the delete run in one transaction.
func (r *tweetRepository) DeleteOwned(ctx context.Context, tweetID, ownerID uint) (*models.Tweet, error) {
	var tweet models.Tweet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&tweet, tweetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Tweet not found")
			}
			return models.NewInternalError(err)
		}
		if tweet.UserID != ownerID {
			return models.NewUnauthorizedError("You can only delete your own tweets")
		}
		if err := tx.Delete(&tweet).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tweet, nil
}

func (r *tweetRepository) ListByUser(ctx context.Context, userID uint, order Order) ([]models.Tweet, error) {
	var tweets []models.Tweet
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(string(order)).
		Find(&tweets).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tweets, nil
}

func (r *tweetRepository) ListByUserWithReplies(ctx context.Context, userID uint, order Order) ([]models.Tweet, error) {
	var tweets []models.Tweet
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(string(order)).
		Preload("Replies").
		Find(&tweets).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tweets, nil
}
