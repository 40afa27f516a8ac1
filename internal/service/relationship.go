// Package service implements the application's business logic over the
// repository layer.
package service

import (
	"context"

	"chirp/internal/models"
	"chirp/internal/observability"
	"chirp/internal/repository"
)

// AnonymousEdgeLimit caps how many follow edges an unauthenticated viewer
// may list for a target user.
const AnonymousEdgeLimit = 15

// RelationshipService owns the favorite and follow toggle operations and
// the tiered edge listings.
type RelationshipService struct {
	users     repository.UserRepository
	tweets    repository.TweetRepository
	favorites repository.FavoriteRepository
	follows   repository.FollowRepository
}

// NewRelationshipService wires the toggle engine to its repositories.
func NewRelationshipService(
	users repository.UserRepository,
	tweets repository.TweetRepository,
	favorites repository.FavoriteRepository,
	follows repository.FollowRepository,
) *RelationshipService {
	return &RelationshipService{
		users:     users,
		tweets:    tweets,
		favorites: favorites,
		follows:   follows,
	}
}

// ToggleFavorite flips the favorite edge for (userID, tweetID). The tweet
// must exist. Two consecutive calls with the same arguments return the
// collection to its original state.
func (s *RelationshipService) ToggleFavorite(ctx context.Context, userID, tweetID uint) (*models.Favorite, bool, error) {
	if _, err := s.tweets.GetByID(ctx, tweetID); err != nil {
		return nil, false, err
	}

	edge, added, err := s.favorites.Toggle(ctx, userID, tweetID)
	if err != nil {
		return nil, false, err
	}

	observability.RelationshipToggles.WithLabelValues("favorite", direction(added)).Inc()
	return edge, added, nil
}

// ToggleFollow flips the follow edge from followerID toward the user named
// targetUserName. The self-follow check runs before any mutation.
func (s *RelationshipService) ToggleFollow(ctx context.Context, followerID uint, targetUserName string) (*models.Follow, bool, error) {
	target, err := s.users.GetByUserName(ctx, targetUserName)
	if err != nil {
		return nil, false, err
	}
	if target == nil {
		return nil, false, models.NewNotFoundError("Invalid Request - User does not exist")
	}
	if target.ID == followerID {
		return nil, false, models.NewUnauthorizedError("You cannot follow yourself")
	}

	edge, added, err := s.follows.Toggle(ctx, followerID, target.ID)
	if err != nil {
		return nil, false, err
	}

	observability.RelationshipToggles.WithLabelValues("follow", direction(added)).Inc()
	return edge, added, nil
}

// ListFollowing returns the users targetUserName follows, newest edge
// first. Unauthenticated viewers see at most AnonymousEdgeLimit edges.
func (s *RelationshipService) ListFollowing(ctx context.Context, targetUserName string, authenticated bool) ([]models.Follow, error) {
	target, err := s.resolveTarget(ctx, targetUserName)
	if err != nil {
		return nil, err
	}
	return s.follows.ListFollowing(ctx, target.ID, edgeLimit(authenticated))
}

// ListFollowers returns the users following targetUserName, newest edge
// first, with the same visibility tiering as ListFollowing.
func (s *RelationshipService) ListFollowers(ctx context.Context, targetUserName string, authenticated bool) ([]models.Follow, error) {
	target, err := s.resolveTarget(ctx, targetUserName)
	if err != nil {
		return nil, err
	}
	return s.follows.ListFollowers(ctx, target.ID, edgeLimit(authenticated))
}

func (s *RelationshipService) resolveTarget(ctx context.Context, userName string) (*models.User, error) {
	target, err := s.users.GetByUserName(ctx, userName)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundError("Invalid Request - User does not exist")
	}
	return target, nil
}

func edgeLimit(authenticated bool) int {
	if authenticated {
		return 0
	}
	return AnonymousEdgeLimit
}

func direction(added bool) string {
	if added {
		return "added"
	}
	return "removed"
}
