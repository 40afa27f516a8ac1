package server

import (
	"chirp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleFavorite handles PUT /tweets/:tweetId/favorite. Toggling twice
// returns the edge to its original state.
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	tweetID, err := s.parseTweetID(c)
	if err != nil {
		return nil
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	edge, added, err := s.relationships.ToggleFavorite(ctx, callerID(c), tweetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	message := "Tweet successfully removed from favorites"
	if added {
		message = "Tweet successfully added to favorites"
	}

	return c.JSON(fiber.Map{
		"favorites": edge,
		"message":   message,
	})
}

// GetMyFavorites handles GET /myfavorites
func (s *Server) GetMyFavorites(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	favorites, err := s.favoriteRepo.ListByUser(ctx, callerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"favorites": favorites,
		"message":   "ok",
	})
}

// GetFavoritesByUserName handles GET /favorites/:userName
func (s *Server) GetFavoritesByUserName(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	user, err := s.userRepo.GetByUserName(ctx, c.Params("userName"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Invalid Request - User does not exist"))
	}

	favorites, err := s.favoriteRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"favorites": favorites,
		"message":   "ok",
	})
}
