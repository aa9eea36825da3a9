package handler

import (
	"fmt"
	"time"

	"go-pharmacy-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	reports service.ReportService
}

func NewTransactionHandler(reports service.ReportService) *TransactionHandler {
	return &TransactionHandler{reports: reports}
}

// GetTransactions handles GET /transactions?date=&type=&product=
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	transactions, err := h.reports.ListTransactions(
		c.Query("date"),
		c.Query("type"),
		c.Query("product"),
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transactions)
}

// ExportTransactions handles GET /transactions/export with the same
// filter contract as the list view.
func (h *TransactionHandler) ExportTransactions(c *fiber.Ctx) error {
	data, err := h.reports.ExportTransactionsCSV(
		c.Query("date"),
		c.Query("type"),
		c.Query("product"),
	)
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("transactions_%s.csv", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}
