package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"github.com/taskboard/backend/internal/infrastructure/metrics"
)

type ctxKey struct{}

const requestIDLocal = "request_id"

// RequestID reuses the inbound header when present, otherwise mints a uuid.
// The id is echoed on the response and carried in the user context.
func RequestID(header string) fiber.Handler {
	if header == "" {
		header = fiber.HeaderXRequestID
	}
	return func(c *fiber.Ctx) error {
		reqID := c.Get(header)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Locals(requestIDLocal, reqID)
		c.Set(header, reqID)
		c.SetUserContext(context.WithValue(c.UserContext(), ctxKey{}, reqID))
		return c.Next()
	}
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocal).(string)
	return id
}

func AccessLog(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Infow("http_access",
			"method", c.Method(),
			"path", c.Path(),
			"route", routePath(c),
			"query", string(c.Request().URI().QueryString()),
			"status", c.Response().StatusCode(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.IP(),
			"user_agent", string(c.Request().Header.UserAgent()),
			"request_id", GetRequestID(c),
			"req_bytes", len(c.Request().Body()),
			"resp_bytes", len(c.Response().Body()),
		)
		return err
	}
}

// Instrument records request count and latency by route template, so
// /tasks/:id stays one series.
func Instrument(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}
		route := routePath(c)
		m.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

func routePath(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" {
		return r.Path
	}
	return "unmatched"
}
