package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"shopapi/internal/service"
	"shopapi/internal/storage"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; all lifecycle logic lives in the services.
func RegisterRoutes(app *fiber.App, db *sql.DB, productSvc service.ProductService, authSvc service.AuthService, store storage.Storage) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoints
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	// Product catalog
	app.Get("/api/products", ListProducts(productSvc))
	app.Post("/api/products", CreateProduct(productSvc))
	app.Get("/api/products/:id", GetProduct(productSvc))
	app.Put("/api/products/:id", UpdateProduct(productSvc))
	app.Delete("/api/products/:id", DeleteProduct(productSvc))

	// Uploaded image blobs
	app.Get("/uploads/:filename", ServeUpload(store))

	// Auth
	app.Post("/register", Register(authSvc))
	app.Post("/login", Login(authSvc))
}
