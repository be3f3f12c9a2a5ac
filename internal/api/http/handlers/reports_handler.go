package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-helpdesk/internal/auth"
	"github.com/spec-kit/crm-helpdesk/internal/service"
	apperrors "github.com/spec-kit/crm-helpdesk/pkg/util"
)

// ReportsHandler exposes aggregate dashboards.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Overview GET /reports/overview.
func (h *ReportsHandler) Overview(c *fiber.Ctx) error {
	caller, ok := auth.CallerFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	overview, err := h.service.Overview(c.UserContext(), caller)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}
