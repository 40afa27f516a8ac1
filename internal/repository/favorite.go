package repository

import (
	"context"
	"errors"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// FavoriteRepository defines persistence operations for favorite edges.
type FavoriteRepository interface {
	// Toggle creates the (userID, tweetID) edge when absent and removes it
	// when present. The second return value is true when the edge was added.
	Toggle(ctx context.Context, userID, tweetID uint) (*models.Favorite, bool, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Favorite, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository returns a new FavoriteRepository implementation.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Toggle(ctx context.Context, userID, tweetID uint) (*models.Favorite, bool, error) {
	edge, added, err := r.toggleOnce(ctx, userID, tweetID)
	if err != nil {
		// A concurrent toggle created the edge between our lookup and create.
		// The unique constraint made the race visible; re-running the
		// read-then-decide step once resolves it deterministically.
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "CONFLICT" {
			return r.toggleOnce(ctx, userID, tweetID)
		}
		return nil, false, err
	}
	return edge, added, nil
}

func (r *favoriteRepository) toggleOnce(ctx context.Context, userID, tweetID uint) (*models.Favorite, bool, error) {
	var edge models.Favorite
	var added bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lookupErr := tx.Where("user_id = ? AND tweet_id = ?", userID, tweetID).
			First(&edge).Error

		switch {
		case lookupErr == nil:
			if err := tx.Delete(&edge).Error; err != nil {
				return models.NewInternalError(err)
			}
			if err := decrementLikes(tx, tweetID); err != nil {
				return err
			}
			added = false
			return nil

		case errors.Is(lookupErr, gorm.ErrRecordNotFound):
			edge = models.Favorite{UserID: userID, TweetID: tweetID}
			if err := tx.Create(&edge).Error; err != nil {
				if isUniqueConstraintError(err) {
					return models.NewConflictError("favorite edge changed concurrently")
				}
				return models.NewInternalError(err)
			}
			if err := incrementLikes(tx, tweetID); err != nil {
				return err
			}
			added = true
			return nil

		default:
			return models.NewInternalError(lookupErr)
		}
	})
	if err != nil {
		return nil, false, err
	}
	return &edge, added, nil
}

func incrementLikes(tx *gorm.DB, tweetID uint) error {
	if err := tx.Model(&models.Tweet{}).Where("id = ?", tweetID).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func decrementLikes(tx *gorm.DB, tweetID uint) error {
	if err := tx.Model(&models.Tweet{}).Where("id = ? AND likes > 0", tweetID).
		UpdateColumn("likes", gorm.Expr("likes - 1")).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID uint) ([]models.Favorite, error) {
	var favorites []models.Favorite
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(string(OrderDesc)).
		Preload("Tweet").
		Find(&favorites).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return favorites, nil
}
