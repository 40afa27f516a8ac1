package server

import (
	"time"

	"chirp/internal/auth"
	"chirp/internal/models"
	"chirp/internal/service"
	"chirp/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SignUp handles POST /sign-up
func (s *Server) SignUp(c *fiber.Ctx) error {
	var req validation.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if errs := validation.ValidateSignUp(req); len(errs) > 0 {
		return models.RespondWithFieldErrors(c, errs)
	}

	var birthdate *time.Time
	if req.Birthdate != "" {
		parsed, err := validation.ParseBirthdate(req.Birthdate)
		if err != nil {
			return models.RespondWithFieldErrors(c, []models.FieldError{
				{Field: "birthdate", Message: "Birthdate must be a valid date (YYYY-MM-DD)"},
			})
		}
		if validation.Age(parsed, time.Now()) < validation.MinimumAge {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid Request - You must be at least 18 years old to sign up"))
		}
		birthdate = &parsed
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return respondServiceError(c, err)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("User already exists"))
	}

	digest, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		UserName:  req.UserName,
		Email:     req.Email,
		Password:  digest,
		Birthdate: birthdate,
	}

	if createErr := s.userRepo.Create(ctx, user); createErr != nil {
		return respondServiceError(c, createErr)
	}

	token, err := s.sessions.Issue(auth.SessionClaims{
		UserID:   user.ID,
		Email:    user.Email,
		UserName: user.UserName,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.setSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"data":    user.Profile(),
		"message": "New user added successfully",
	})
}

// SignInEmail handles POST /sign-in/email
func (s *Server) SignInEmail(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if errs := validation.ValidateSignIn(req.Email, req.Password); len(errs) > 0 {
		return models.RespondWithFieldErrors(c, errs)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return respondServiceError(c, err)
	}

	return s.completeSignIn(c, user, req.Password, "Invalid Email or Password")
}

// SignInUserName handles POST /sign-in/username
func (s *Server) SignInUserName(c *fiber.Ctx) error {
	var req struct {
		UserName string `json:"userName"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var errs []models.FieldError
	if req.UserName == "" {
		errs = append(errs, models.FieldError{Field: "userName", Message: "Username CANNOT be empty"})
	}
	if req.Password == "" {
		errs = append(errs, models.FieldError{Field: "password", Message: "Password CANNOT be empty"})
	}
	if len(errs) > 0 {
		return models.RespondWithFieldErrors(c, errs)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	user, err := s.userRepo.GetByUserName(ctx, req.UserName)
	if err != nil {
		return respondServiceError(c, err)
	}

	return s.completeSignIn(c, user, req.Password, "Invalid Username or Password")
}

// completeSignIn verifies the password and issues the session. A missing
// user and a wrong password produce the same 401 so the response does not
// reveal which credential was wrong.
func (s *Server) completeSignIn(c *fiber.Ctx, user *models.User, password, failMessage string) error {
	if user == nil || !auth.CheckPassword(password, user.Password) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(failMessage))
	}

	token, err := s.sessions.Issue(auth.SessionClaims{
		UserID:   user.ID,
		Email:    user.Email,
		UserName: user.UserName,
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	s.setSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"data":    user.Profile(),
		"message": "Welcome",
	})
}

// SignOut handles POST /sign-out
func (s *Server) SignOut(c *fiber.Ctx) error {
	s.clearSessionCookie(c)
	return c.JSON(fiber.Map{
		"data":    nil,
		"message": "Successfully Signed Out",
	})
}

// Me handles GET /me and GET /myaccount
func (s *Server) Me(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	user, err := s.userService.GetByID(ctx, callerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":    user.Profile(),
		"message": "ok",
	})
}

// EditProfile handles PUT /edit-profile
func (s *Server) EditProfile(c *fiber.Ctx) error {
	var req struct {
		UserName string `json:"userName"`
		Bio      string `json:"bio"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	user, err := s.userService.UpdateProfile(ctx, service.UpdateProfileInput{
		UserID:   callerID(c),
		UserName: req.UserName,
		Bio:      req.Bio,
		Password: req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":    user.Profile(),
		"message": "ok",
	})
}
