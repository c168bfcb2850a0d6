package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/service"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new user from a JSON body.
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		if _, err := svc.Register(c.UserContext(), req.Username, req.Password); err != nil {
			switch {
			case errors.Is(err, service.ErrCredentialsRequired):
				return writeError(c, fiber.StatusBadRequest, "CREDENTIALS_REQUIRED", "username and password are required")
			case errors.Is(err, service.ErrDuplicateUser):
				return writeError(c, fiber.StatusBadRequest, "DUPLICATE_USER", "Username already exists")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered successfully"})
	}
}

// Login checks credentials and returns a bearer token. Unknown user and
// wrong password both map to 401; only the message text differs.
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		token, err := svc.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrCredentialsRequired):
				return writeError(c, fiber.StatusBadRequest, "CREDENTIALS_REQUIRED", "username and password are required")
			case errors.Is(err, service.ErrUserNotFound):
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "User not found")
			case errors.Is(err, service.ErrInvalidPassword):
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid password")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(fiber.Map{"token": token})
	}
}
