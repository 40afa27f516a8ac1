package server

import (
	"context"
	"errors"

	"chirp/internal/cache"
	"chirp/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// requestContext derives a bounded context for datastore calls so a hung
// database call cannot hang the request indefinitely.
func (s *Server) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), s.config.QueryTimeout())
}

// parseTweetID extracts the tweetId route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseTweetID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("tweetId")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid tweet ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// callerID returns the authenticated user's ID stored by AuthRequired.
func callerID(c *fiber.Ctx) uint {
	return c.Locals("userID").(uint)
}

// respondServiceError maps a service or repository failure to the right
// status. AppErrors keep their taxonomy status; anything else is a 500.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return models.RespondWithAppError(c, appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// restrictedProfileResponse serves the tiered fallback for unauthenticated
// or invalid viewers looking at a user's content: username and bio only.
// The restricted view is cached under the profile key; Update invalidates it.
func (s *Server) restrictedProfileResponse(c *fiber.Ctx, userName string) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	var profile models.PublicProfile
	err := cache.Aside(ctx, cache.ProfileKey(userName), &profile, cache.ProfileTTL, func() error {
		user, err := s.userRepo.GetByUserName(ctx, userName)
		if err != nil {
			return err
		}
		if user == nil {
			return models.NewNotFoundError("Invalid Request - User does not exist")
		}
		profile = user.PublicProfile()
		return nil
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":    profile,
		"message": "ok",
	})
}
