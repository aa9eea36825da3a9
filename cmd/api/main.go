package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-pharmacy-inventory/internal/handler"
	"go-pharmacy-inventory/internal/middleware"
	"go-pharmacy-inventory/internal/model"
	"go-pharmacy-inventory/internal/repository"
	"go-pharmacy-inventory/internal/service"
	"go-pharmacy-inventory/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const defaultBarcodeProvider = "https://world.openfoodfacts.org"

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.User{}, &model.Product{}, &model.Transaction{})

	// 3. Seed default admin and the starter catalog
	seedAdminAndCatalog(db)

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)

	barcodeProvider := os.Getenv("BARCODE_API_URL")
	if barcodeProvider == "" {
		barcodeProvider = defaultBarcodeProvider
	}

	catalogService := service.NewCatalogService(productRepo)
	stockService := service.NewStockService(db)
	reportService := service.NewReportService(productRepo, txRepo)
	predictService := service.NewPredictService(productRepo, txRepo)
	barcodeService := service.NewBarcodeService(productRepo, barcodeProvider)
	authService := service.NewAuthService(userRepo)

	productHandler := handler.NewProductHandler(catalogService, stockService, predictService, barcodeService)
	txHandler := handler.NewTransactionHandler(reportService)
	dashHandler := handler.NewDashboardHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Pharmacy Inventory v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 6. Routes
	api := app.Group("/api/v1")

	// Auth (no authentication required)
	api.Post("/auth/login", authHandler.Login)

	// Everything below requires an authenticated actor
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/products", productHandler.GetProducts)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", productHandler.DeleteProduct)
	protected.Post("/products/:id/stock", productHandler.UpdateStock)
	protected.Get("/products/:id/predict_restock", productHandler.PredictRestock)
	protected.Get("/products/barcode/:code", productHandler.GetByBarcode)
	protected.Get("/products/barcode/:code/info", productHandler.GetBarcodeInfo)

	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Get("/transactions/export", txHandler.ExportTransactions)

	protected.Get("/dashboard", dashHandler.GetDashboard)

	// 7. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdminAndCatalog creates the default admin user and, when the
// catalog is empty, a handful of starter products.
func seedAdminAndCatalog(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)

	if _, err := userRepo.FindByUsername("admin"); err != nil {
		admin := &model.User{
			Username: "admin",
			Role:     model.RoleAdmin,
		}
		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}
		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin / admin123")
		}
	}

	count, err := productRepo.Count()
	if err != nil || count > 0 {
		return
	}

	today := time.Now()
	for _, sample := range []struct {
		name, category, description string
		price                       float64
		quantity, reorder           int
		barcode                     string
		expiryDays                  int
	}{
		{"Paracetamol 500mg", "Pain Relief", "Common pain reliever and fever reducer", 15.99, 100, 20, "8901234567890", 365},
		{"Amoxicillin 500mg", "Antibiotics", "Broad-spectrum antibiotic", 45.99, 50, 15, "8901234567891", 180},
		{"Omeprazole 20mg", "Gastrointestinal", "Proton pump inhibitor for acid reflux", 89.99, 30, 10, "8901234567892", 270},
		{"Metformin 500mg", "Diabetes", "Oral diabetes medication", 75.99, 60, 15, "8901234567893", 240},
		{"Cetirizine 10mg", "Antihistamine", "Antihistamine for allergies", 25.99, 80, 20, "8901234567894", 300},
	} {
		barcode := sample.barcode
		expiry := today.AddDate(0, 0, sample.expiryDays)
		product := &model.Product{
			Name:         sample.name,
			Category:     sample.category,
			Description:  sample.description,
			UnitPrice:    sample.price,
			Quantity:     sample.quantity,
			ReorderLevel: sample.reorder,
			Barcode:      &barcode,
			ExpiryDate:   &expiry,
		}
		if err := productRepo.Create(product); err != nil {
			log.Printf("Warning: Failed to seed product %s: %v", sample.name, err)
		}
	}
	log.Println("Starter catalog seeded")
}
