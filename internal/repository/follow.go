package repository

import (
	"context"
	"errors"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	// Toggle creates the (followerID, followingID) edge when absent and
	// removes it when present. The second return value is true when the
	// edge was added. Self-edges are rejected by the model hook.
	Toggle(ctx context.Context, followerID, followingID uint) (*models.Follow, bool, error)
	// ListFollowing returns edges where userID is the follower, newest
	// first. A positive limit caps the result; limit <= 0 returns all.
	ListFollowing(ctx context.Context, userID uint, limit int) ([]models.Follow, error)
	// ListFollowers returns edges where userID is being followed, newest first.
	ListFollowers(ctx context.Context, userID uint, limit int) ([]models.Follow, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Toggle(ctx context.Context, followerID, followingID uint) (*models.Follow, bool, error) {
	edge, added, err := r.toggleOnce(ctx, followerID, followingID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "CONFLICT" {
			return r.toggleOnce(ctx, followerID, followingID)
		}
		return nil, false, err
	}
	return edge, added, nil
}

func (r *followRepository) toggleOnce(ctx context.Context, followerID, followingID uint) (*models.Follow, bool, error) {
	var edge models.Follow
	var added bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lookupErr := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			First(&edge).Error

		switch {
		case lookupErr == nil:
			if err := tx.Delete(&edge).Error; err != nil {
				return models.NewInternalError(err)
			}
			added = false
			return nil

		case errors.Is(lookupErr, gorm.ErrRecordNotFound):
			edge = models.Follow{FollowerID: followerID, FollowingID: followingID}
			if err := tx.Create(&edge).Error; err != nil {
				var appErr *models.AppError
				if errors.As(err, &appErr) {
					return appErr
				}
				if isUniqueConstraintError(err) {
					return models.NewConflictError("follow edge changed concurrently")
				}
				return models.NewInternalError(err)
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

func (r *followRepository) ListFollowing(ctx context.Context, userID uint, limit int) ([]models.Follow, error) {
	var follows []models.Follow
	q := r.db.WithContext(ctx).
		Where("follower_id = ?", userID).
		Order(string(OrderDesc)).
		Preload("Following")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint, limit int) ([]models.Follow, error) {
	var follows []models.Follow
	q := r.db.WithContext(ctx).
		Where("following_id = ?", userID).
		Order(string(OrderDesc)).
		Preload("Follower")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}
