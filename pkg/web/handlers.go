package web

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/hyvern/overseer/pkg/eventbus"
	"github.com/hyvern/overseer/pkg/events"
	"github.com/hyvern/overseer/pkg/models"
	"github.com/hyvern/overseer/pkg/persistence"
)

type APIHandlers struct {
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	validator   *validator.Validate
	logger      *slog.Logger
}

func NewAPIHandlers(
	p persistence.Persistence,
	publisher eventbus.EventPublisher,
	validator *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		persistence: p,
		publisher:   publisher,
		validator:   validator,
		logger:      logger.With("module", "web"),
	}
}

// RegisterRoutes wires the API onto the fiber app.
func (h *APIHandlers) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Post("/queues/:queueID/work-items", h.EnqueueWorkItem)
	app.Get("/queues/:queueID/work-items", h.ListWorkItems)
	app.Get("/work-items/:id", h.GetWorkItem)
	app.Get("/work-items/:id/state", h.GetWorkflowState)
}

func (h *APIHandlers) Health(c fiber.Ctx) error {
	if err := h.persistence.HealthCheck(c.Context()); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// EnqueueWorkItem stores a new work item and announces it on the event bus
// for a worker to claim.
func (h *APIHandlers) EnqueueWorkItem(c fiber.Ctx) error {
	queueID := c.Params("queueID")

	var req EnqueueWorkItemRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	priority := models.WorkItemPriority(req.Priority)
	if priority == "" {
		priority = models.WorkItemPriorityMedium
	}

	now := time.Now().UTC()
	item := &models.WorkItem{
		ID:          uuid.New().String(),
		QueueID:     queueID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.WorkItemStatusQueued,
		Priority:    priority,
		Workstream:  req.Workstream,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.persistence.WorkItems().Save(c.Context(), item); err != nil {
		return handlePersistenceError(c, err)
	}

	event := events.WorkItemQueued{
		BaseEvent: events.BaseEvent{
			ID:         uuid.New().String(),
			Type:       events.WorkItemQueuedEvent,
			Timestamp:  now,
			WorkItemID: item.ID,
		},
		QueueID: queueID,
	}

	if err := h.publisher.Publish(c.Context(), item.ID, event); err != nil {
		h.logger.ErrorContext(c.Context(), "Failed to publish WorkItemQueued",
			"work_item_id", item.ID, "error", err)

		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *APIHandlers) ListWorkItems(c fiber.Ctx) error {
	items, err := h.persistence.WorkItems().ByQueue(c.Context(), c.Params("queueID"))
	if err != nil {
		return handlePersistenceError(c, err)
	}

	return c.JSON(fiber.Map{
		"work_items":  items,
		"total_count": len(items),
	})
}

func (h *APIHandlers) GetWorkItem(c fiber.Ctx) error {
	item, err := h.persistence.WorkItems().ByID(c.Context(), c.Params("id"))
	if err != nil {
		return handlePersistenceError(c, err)
	}

	return c.JSON(item)
}

// GetWorkflowState returns the terminal workflow state for a work item, once
// a worker has finished the run.
func (h *APIHandlers) GetWorkflowState(c fiber.Ctx) error {
	state, err := h.persistence.WorkflowStates().ByWorkItemID(c.Context(), c.Params("id"))
	if err != nil {
		return handlePersistenceError(c, err)
	}

	return c.JSON(state)
}
