package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/nexcart/authd/internal/common"
	"github.com/nexcart/authd/internal/server/users"
)

const (
	msgServerError      = "Server error, please try again"
	msgServerErrorShort = "Server error"
	msgUserNotFound     = "User not found"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *HTTPServer) signup(c *fiber.Ctx) error {

	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	token, err := s.users.Register(c.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		var verr *users.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": verr.Message})
		case errors.Is(err, common.ErrorAlreadyExists):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "User with this email already exists"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": msgServerError})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token, "message": "User created successfully"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *HTTPServer) login(c *fiber.Ctx) error {

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	token, err := s.users.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		var verr *users.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": verr.Message})
		case errors.Is(err, common.ErrorNotFound):
			// the deployed contract uses 400 here, not 404
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": msgUserNotFound})
		case errors.Is(err, common.ErrorInvalidCredentials):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid credentials"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": msgServerError})
		}
	}

	return c.JSON(fiber.Map{"token": token, "message": "Login successful"})
}

func (s *HTTPServer) getUser(c *fiber.Ctx) error {

	profile, err := s.users.GetProfile(c.UserContext(), subjectID(c))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": msgUserNotFound})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": msgServerErrorShort})
	}

	return c.JSON(profile)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (s *HTTPServer) changePassword(c *fiber.Ctx) error {

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	err := s.users.ChangePassword(c.UserContext(), subjectID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		var verr *users.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": verr.Message})
		case errors.Is(err, users.ErrOldPasswordIncorrect):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Old password is incorrect"})
		case errors.Is(err, common.ErrorNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": msgUserNotFound})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": msgServerError})
		}
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

func (s *HTTPServer) deleteAccount(c *fiber.Ctx) error {

	if err := s.users.DeleteAccount(c.UserContext(), subjectID(c)); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": msgUserNotFound})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": msgServerError})
	}

	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}

func (s *HTTPServer) placeholder(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "You have access to this route"})
}
