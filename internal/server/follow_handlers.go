package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleFollow handles PUT /:userName/follow. Self-follow is rejected
// before any mutation; toggling twice leaves no edge behind.
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	edge, added, err := s.relationships.ToggleFollow(ctx, callerID(c), c.Params("userName"))
	if err != nil {
		return respondServiceError(c, err)
	}

	message := "Successfully unfollowed user"
	if added {
		message = "Successfully followed user"
	}

	return c.JSON(fiber.Map{
		"follows": edge,
		"message": message,
	})
}

// GetUsersIFollow handles GET /usersifollow
func (s *Server) GetUsersIFollow(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	follows, err := s.followRepo.ListFollowing(ctx, callerID(c), 0)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"following": follows,
		"message":   "ok",
	})
}

// GetUsersThatFollowMe handles GET /usersthatfollowme
func (s *Server) GetUsersThatFollowMe(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	follows, err := s.followRepo.ListFollowers(ctx, callerID(c), 0)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"followers": follows,
		"message":   "ok",
	})
}

// GetFollowing handles GET /following/:userName. Unauthenticated and
// invalid viewers see at most the 15 most recent edges.
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	viewer := s.resolveViewer(c)

	ctx, cancel := s.requestContext(c)
	defer cancel()

	follows, err := s.relationships.ListFollowing(ctx, c.Params("userName"), viewer.Authenticated())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"following": follows,
		"message":   "ok",
	})
}

// GetFollowers handles GET /followers/:userName with the same tiering.
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	viewer := s.resolveViewer(c)

	ctx, cancel := s.requestContext(c)
	defer cancel()

	follows, err := s.relationships.ListFollowers(ctx, c.Params("userName"), viewer.Authenticated())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"followers": follows,
		"message":   "ok",
	})
}
