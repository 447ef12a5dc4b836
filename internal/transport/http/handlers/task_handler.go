package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"github.com/taskboard/backend/internal/infrastructure/metrics"
	"github.com/taskboard/backend/internal/transport/http/dto"
	httpmw "github.com/taskboard/backend/internal/transport/http/middleware"
)

type TaskHandler struct {
	service ports.TaskService
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewTaskHandler(service ports.TaskService, logger *logger.Logger, m *metrics.Metrics) *TaskHandler {
	return &TaskHandler{service: service, logger: logger, metrics: m}
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_create_body_parse_failed", "error", err)
		h.metrics.RecordOp("create_task", metrics.OutcomeInvalid)
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("invalid request body"))
	}

	task, err := h.service.CreateTask(c.UserContext(), req.ToInput())
	if err != nil {
		return h.fail(c, "create_task", err)
	}

	h.logger.Infow("task_create_success", "id", task.ID, "tags", len(task.Tags))
	h.metrics.RecordOp("create_task", metrics.OutcomeOK)
	return c.Status(fiber.StatusCreated).JSON(dto.OK(task))
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	id := c.Params("id")
	task, err := h.service.GetTask(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "get_task", err)
	}
	if task == nil {
		return h.notFound(c, "get_task", id)
	}

	h.metrics.RecordOp("get_task", metrics.OutcomeOK)
	return c.JSON(dto.OK(task))
}

// ListTasks reads assignee, tag and status from the query string.
// assignee=null selects unassigned tasks.
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	var filter domain.TaskFilter
	if v := c.Query("assignee"); v != "" {
		a := domain.Assignee(v)
		if v == "null" {
			a = domain.AssigneeNone
		}
		filter.Assignee = &a
	}
	if v := c.Query("tag"); v != "" {
		filter.Tag = &v
	}
	if v := c.Query("status"); v != "" {
		s := domain.TaskStatus(v)
		filter.Status = &s
	}

	tasks, err := h.service.ListTasks(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, "list_tasks", err)
	}

	h.metrics.RecordOp("list_tasks", metrics.OutcomeOK)
	return c.JSON(dto.OK(tasks))
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	id := c.Params("id")
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_update_body_parse_failed", "id", id, "error", err)
		h.metrics.RecordOp("update_task", metrics.OutcomeInvalid)
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("invalid request body"))
	}

	task, err := h.service.UpdateTask(c.UserContext(), id, req.ToPatch())
	if err != nil {
		return h.fail(c, "update_task", err)
	}
	if task == nil {
		return h.notFound(c, "update_task", id)
	}

	h.logger.Infow("task_update_success", "id", id, "status", task.Status)
	h.metrics.RecordOp("update_task", metrics.OutcomeOK)
	return c.JSON(dto.OK(task))
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	id := c.Params("id")
	deleted, err := h.service.DeleteTask(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "delete_task", err)
	}
	if !deleted {
		return h.notFound(c, "delete_task", id)
	}

	h.logger.Infow("task_delete_success", "id", id)
	h.metrics.RecordOp("delete_task", metrics.OutcomeOK)
	return c.JSON(dto.OK(fiber.Map{"id": id}))
}

func (h *TaskHandler) MoveTask(c *fiber.Ctx) error {
	id := c.Params("id")
	var req dto.MoveTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.metrics.RecordOp("move_task", metrics.OutcomeInvalid)
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("invalid request body"))
	}

	task, err := h.service.MoveTask(c.UserContext(), id, domain.TaskStatus(req.Status))
	if err != nil {
		return h.fail(c, "move_task", err)
	}
	if task == nil {
		return h.notFound(c, "move_task", id)
	}

	h.logger.Infow("task_move_success", "id", id, "status", task.Status)
	h.metrics.RecordOp("move_task", metrics.OutcomeOK)
	return c.JSON(dto.OK(task))
}

func (h *TaskHandler) RecordUsage(c *fiber.Ctx) error {
	id := c.Params("id")
	var req dto.RecordUsageRequest
	if err := c.BodyParser(&req); err != nil {
		h.metrics.RecordOp("record_usage", metrics.OutcomeInvalid)
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("invalid request body"))
	}

	task, err := h.service.RecordUsage(c.UserContext(), id, req.ToEntry())
	if err != nil {
		return h.fail(c, "record_usage", err)
	}
	if task == nil {
		return h.notFound(c, "record_usage", id)
	}

	h.metrics.RecordOp("record_usage", metrics.OutcomeOK)
	return c.JSON(dto.OK(task))
}

func (h *TaskHandler) GetUsage(c *fiber.Ctx) error {
	id := c.Params("id")
	summary, err := h.service.SummarizeUsage(c.UserContext(), id)
	if err != nil {
		return h.fail(c, "summarize_usage", err)
	}
	if summary == nil {
		return h.notFound(c, "summarize_usage", id)
	}

	h.metrics.RecordOp("summarize_usage", metrics.OutcomeOK)
	return c.JSON(dto.OK(summary))
}

func (h *TaskHandler) ListTags(c *fiber.Ctx) error {
	tags, err := h.service.ListTags(c.UserContext())
	if err != nil {
		return h.fail(c, "list_tags", err)
	}

	h.metrics.RecordOp("list_tags", metrics.OutcomeOK)
	return c.JSON(dto.OK(tags))
}

func (h *TaskHandler) notFound(c *fiber.Ctx, op, id string) error {
	h.logger.Warnw(op+"_not_found", "id", id, "request_id", httpmw.RequestIDFromContext(c.UserContext()))
	h.metrics.RecordOp(op, metrics.OutcomeNotFound)
	return c.Status(fiber.StatusNotFound).JSON(dto.Fail("task not found"))
}

// fail maps invalid input to 400 and everything else to 500. Storage
// causes are logged but not echoed to the client.
func (h *TaskHandler) fail(c *fiber.Ctx, op string, err error) error {
	reqID := httpmw.RequestIDFromContext(c.UserContext())
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		h.logger.Warnw(op+"_validation_failed", "details", verr.Details, "request_id", reqID)
		h.metrics.RecordOp(op, metrics.OutcomeInvalid)
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("validation failed", verr.Details...))
	}
	if errors.Is(err, domain.ErrInvalidArgument) {
		h.logger.Warnw(op+"_bad_request", "error", err, "request_id", reqID)
		h.metrics.RecordOp(op, metrics.OutcomeInvalid)
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
	}

	h.logger.Errorw(op+"_failed", "error", err, "request_id", reqID)
	h.metrics.RecordOp(op, metrics.OutcomeError)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("internal error"))
}
