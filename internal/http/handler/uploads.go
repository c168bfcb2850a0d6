package handler

import (
	"errors"
	"io/fs"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/storage"
)

// ServeUpload streams a stored image blob back to the client.
func ServeUpload(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filename := c.Params("filename")
		if filename == "" {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
		}

		rc, info, err := store.Get(c.UserContext(), filename)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		if info.Size > 0 {
			return c.SendStream(rc, int(info.Size))
		}
		return c.SendStream(rc)
	}
}
