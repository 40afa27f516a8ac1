package server

import (
	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateReply handles POST /tweets/:tweetId/reply
func (s *Server) CreateReply(c *fiber.Ctx) error {
	tweetID, err := s.parseTweetID(c)
	if err != nil {
		return nil
	}

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

	// The parent tweet must exist before a reply can hang off it.
	if _, err := s.tweetRepo.GetByID(ctx, tweetID); err != nil {
		return respondServiceError(c, err)
	}

	reply := &models.Reply{
		UserID:  callerID(c),
		TweetID: tweetID,
		Content: req.Content,
	}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"reply":   reply,
		"message": "Tweet successfully replied to",
	})
}

// GetMyReplies handles GET /myreplies
func (s *Server) GetMyReplies(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	replies, err := s.replyRepo.ListByUser(ctx, callerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"replies": replies,
		"message": "ok",
	})
}

// GetMyTweetsAndReplies handles GET /tweetsandreplies
func (s *Server) GetMyTweetsAndReplies(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	tweets, err := s.tweetRepo.ListByUserWithReplies(ctx, callerID(c), repository.OrderDesc)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"tweetsAndReplies": tweets,
		"message":          "ok",
	})
}

// GetTweetsAndRepliesByUserName handles GET /tweetsandreplies/:userName with
// the same tiered visibility as GET /tweets/:userName.
func (s *Server) GetTweetsAndRepliesByUserName(c *fiber.Ctx) error {
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

	tweets, err := s.tweetRepo.ListByUserWithReplies(ctx, user.ID, repository.OrderAsc)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"tweets":  tweets,
		"message": "ok",
	})
}
