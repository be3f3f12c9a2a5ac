package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-helpdesk/internal/api/dto"
	"github.com/spec-kit/crm-helpdesk/internal/auth"
	"github.com/spec-kit/crm-helpdesk/internal/domain"
	"github.com/spec-kit/crm-helpdesk/internal/service"
	apperrors "github.com/spec-kit/crm-helpdesk/pkg/util"
)

// ActivityHandler exposes the audit review feed.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: activityService}
}

// ListActivity GET /activity.
func (h *ActivityHandler) ListActivity(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	query := service.ActivityQuery{}
	if actionStr := c.Query("action"); actionStr != "" {
		action := domain.ActivityAction(actionStr)
		query.Action = &action
	}
	if search := c.Query("search"); search != "" {
		query.Search = &search
	}

	views, err := h.service.ListActivity(c.UserContext(), caller, query)
	if err != nil {
		return err
	}
	items := make([]dto.ActivityResponse, 0, len(views))
	for i := range views {
		items = append(items, dto.FromActivityView(&views[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
