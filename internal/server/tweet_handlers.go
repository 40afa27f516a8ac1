package server

import (
	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetMyTweets handles GET /tweets
func (s *Server) GetMyTweets(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	tweets, err := s.tweetRepo.ListByUser(ctx, callerID(c), repository.OrderAsc)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"tweets":  tweets,
		"message": "ok",
	})
}

// GetTweetsByUserName handles GET /tweets/:userName. Authenticated viewers
// get the target's full tweet list; everyone else gets username and bio only.
func (s *Server) GetTweetsByUserName(c *fiber.Ctx) error {
	userName := c.Params("userName")

	viewer := s.resolveViewer(c)
	if !viewer.Authenticated() {
		return s.restrictedProfileResponse(c, userName)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	user, err := s.userRepo.GetByUserName(ctx, userName)
	if err != nil {
		return respondServiceError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Invalid Request - User does not exist"))
	}

	tweets, err := s.tweetRepo.ListByUser(ctx, user.ID, repository.OrderAsc)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"tweets":  tweets,
		"message": "ok",
	})
}

// CreateTweet handles POST /tweets
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := validation.ValidateTweetContent(req.Content); err != nil {
		return models.RespondWithFieldErrors(c, []models.FieldError{
			{Field: "content", Message: err.Error()},
		})
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	tweet := &models.Tweet{
		UserID:  callerID(c),
		Content: req.Content,
	}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"tweet":   tweet,
		"message": "Tweet successfully posted",
	})
}

// DeleteTweet handles DELETE /tweets/:tweetId. Only the owner may delete;
// anyone else gets a 401 without revealing anything about the tweet.
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	tweetID, err := s.parseTweetID(c)
	if err != nil {
		return nil
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	deleted, err := s.tweetRepo.DeleteOwned(ctx, tweetID, callerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"deletedTweet": deleted,
		"message":      "ok",
	})
}
