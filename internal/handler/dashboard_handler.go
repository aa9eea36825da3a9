package handler

import (
	"go-pharmacy-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	reports service.ReportService
}

func NewDashboardHandler(reports service.ReportService) *DashboardHandler {
	return &DashboardHandler{reports: reports}
}

// GetDashboard returns the aggregate summary
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	summary, err := h.reports.DashboardSummary()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
