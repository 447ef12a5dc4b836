package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/taskboard/backend/internal/config"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"github.com/taskboard/backend/internal/infrastructure/metrics"
	"github.com/taskboard/backend/internal/transport/http/dto"
	"github.com/taskboard/backend/internal/transport/http/handlers"
	httpmw "github.com/taskboard/backend/internal/transport/http/middleware"
)

type RouterConfig struct {
	Service ports.TaskService
	Logger  *logger.Logger
	// Metrics may be nil, in which case /metrics is not mounted.
	Metrics *metrics.Metrics
	Config  *config.Config
}

func SetupRoutes(app *fiber.App, cfg RouterConfig) {
	taskHandler := handlers.NewTaskHandler(cfg.Service, cfg.Logger, cfg.Metrics)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	// API v1 routes
	api := app.Group("/api/v1", httpmw.AdminAuth(cfg.Config.Auth))

	tasks := api.Group("/tasks")
	tasks.Post("/", taskHandler.CreateTask)
	tasks.Get("/", taskHandler.ListTasks)
	tasks.Get("/:id", taskHandler.GetTask)
	tasks.Patch("/:id", taskHandler.UpdateTask)
	tasks.Delete("/:id", taskHandler.DeleteTask)
	tasks.Post("/:id/move", taskHandler.MoveTask)
	tasks.Post("/:id/usage", taskHandler.RecordUsage)
	tasks.Get("/:id/usage", taskHandler.GetUsage)

	api.Get("/tags", taskHandler.ListTags)
}

// ErrorHandler answers errors that escape a handler (unknown routes, body
// limits, recovered panics) with the API envelope.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal error"
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			msg = e.Message
		}

		if code < fiber.StatusInternalServerError {
			log.Warnw("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"status", code,
				"error", err.Error(),
				"request_id", httpmw.GetRequestID(c),
			)
		} else {
			log.Errorw("request error",
				"method", c.Method(),
				"path", c.Path(),
				"status", code,
				"error", err.Error(),
				"request_id", httpmw.GetRequestID(c),
			)
		}

		return c.Status(code).JSON(dto.Fail(msg))
	}
}
