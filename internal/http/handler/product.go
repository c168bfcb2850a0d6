package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"shopapi/internal/service"
)

var (
	errInvalidPrice  = errors.New("invalid price")
	errInvalidRating = errors.New("invalid rating")
	errFileOpen      = errors.New("cannot open uploaded file")
)

// writeFieldError translates a multipart parsing failure into its 400 response.
func writeFieldError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, errInvalidPrice):
		return writeError(c, fiber.StatusBadRequest, "INVALID_PRICE", "invalid price")
	case errors.Is(err, errInvalidRating):
		return writeError(c, fiber.StatusBadRequest, "INVALID_RATING", "invalid rating")
	case errors.Is(err, errFileOpen):
		return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
	}
	return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "bad request")
}

// parseProductFields reads the multipart form fields shared by create and
// update requests. Numeric fields default to zero when absent.
func parseProductFields(c *fiber.Ctx) (service.ProductFields, error) {
	fields := service.ProductFields{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
	}

	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fields, errInvalidPrice
		}
		fields.Price = price
	}
	if v := c.FormValue("rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fields, errInvalidRating
		}
		fields.Rating = rating
	}
	return fields, nil
}

// fileFromRequest extracts the optional image file from the multipart form.
// An absent file is not an error; the returned closer is nil in that case.
func fileFromRequest(c *fiber.Ctx) (*service.FileUpload, func(), error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nil, errFileOpen
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	upload := &service.FileUpload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
	}
	return upload, func() { f.Close() }, nil
}

// ListProducts returns every product, unfiltered and unpaginated.
func ListProducts(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(items)
	}
}

// CreateProduct persists a new product from a multipart form with an
// optional image file.
func CreateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields, err := parseProductFields(c)
		if err != nil {
			return writeFieldError(c, err)
		}

		file, closeFile, err := fileFromRequest(c)
		if err != nil {
			return writeFieldError(c, err)
		}
		if closeFile != nil {
			defer closeFile()
		}

		p, err := svc.Create(c.UserContext(), fields, file)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(p)
	}
}

// UpdateProduct rewrites a product's fields and swaps or clears its image.
func UpdateProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		fields, err := parseProductFields(c)
		if err != nil {
			return writeFieldError(c, err)
		}

		file, closeFile, err := fileFromRequest(c)
		if err != nil {
			return writeFieldError(c, err)
		}
		if closeFile != nil {
			defer closeFile()
		}

		p, err := svc.Update(c.UserContext(), id, fields, file)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "product not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(p)
	}
}

// DeleteProduct removes a product and its image blob.
func DeleteProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "product not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"message": "Product deleted successfully"})
	}
}

// GetProduct returns a single product by ID.
func GetProduct(svc service.ProductService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "product not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(p)
	}
}
