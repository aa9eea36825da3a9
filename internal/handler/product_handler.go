package handler

import (
	"strings"

	"go-pharmacy-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cast"
)

type ProductHandler struct {
	catalog service.CatalogService
	stock   service.StockService
	predict service.PredictService
	barcode service.BarcodeService
}

func NewProductHandler(catalog service.CatalogService, stock service.StockService, predict service.PredictService, barcode service.BarcodeService) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		stock:   stock,
		predict: predict,
		barcode: barcode,
	}
}

// GetProducts handles GET /products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.catalog.GetAllProducts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.catalog.CreateProduct(&req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Product added successfully",
		"id":      product.ID,
	})
}

// UpdateProduct handles PUT /products/:id (partial update)
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req service.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if _, err := h.catalog.UpdateProduct(id, &req); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated successfully"})
}

// DeleteProduct handles DELETE /products/:id, cascading the ledger
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	if err := h.catalog.DeleteProduct(id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

type stockChangeRequest struct {
	Quantity  any    `json:"quantity"`
	Operation string `json:"operation"`
}

// UpdateStock handles POST /products/:id/stock
func (h *ProductHandler) UpdateStock(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req stockChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Quantity == nil || req.Operation == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Missing required fields"})
	}

	quantity, err := cast.ToIntE(req.Quantity)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quantity value"})
	}

	actor, err := actorID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	newQuantity, err := h.stock.ApplyStockChange(id, quantity, req.Operation, actor)
	if err != nil {
		return respondError(c, err)
	}

	message := "Stock removed successfully"
	if strings.EqualFold(strings.TrimSpace(req.Operation), service.OpAdd) {
		message = "Stock added successfully"
	}
	return c.JSON(fiber.Map{
		"message":      message,
		"new_quantity": newQuantity,
	})
}

// PredictRestock handles GET /products/:id/predict_restock
func (h *ProductHandler) PredictRestock(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	prediction, err := h.predict.PredictRestock(id)
	if err != nil {
		return respondError(c, err)
	}

	// Two response shapes on purpose: the no-data branch carries only a
	// message.
	if prediction.InsufficientData {
		return c.JSON(fiber.Map{"message": "Insufficient transaction data for prediction"})
	}

	return c.JSON(fiber.Map{
		"days_until_reorder":        prediction.DaysUntilReorder,
		"suggested_order":           prediction.SuggestedOrder,
		"daily_average_consumption": prediction.DailyAverage,
	})
}

// GetByBarcode handles GET /products/barcode/:code (local catalog)
func (h *ProductHandler) GetByBarcode(c *fiber.Ctx) error {
	product, err := h.barcode.Lookup(c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	if product == nil {
		return c.JSON(fiber.Map{"product": nil})
	}
	return c.JSON(fiber.Map{"product": product})
}

// GetBarcodeInfo handles GET /products/barcode/:code/info (external
// metadata passthrough). Provider failures degrade to success:false and
// never surface as errors.
func (h *ProductHandler) GetBarcodeInfo(c *fiber.Ctx) error {
	info, err := h.barcode.FetchExternalInfo(c.Params("code"))
	if err != nil {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "Product metadata service unavailable",
		})
	}
	if info == nil {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "Product not found in database",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"product": info,
	})
}
