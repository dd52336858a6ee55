package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/alankar-api/internal/config"
	domainRepo "github.com/sangkips/alankar-api/internal/domain/repository"
	"github.com/sangkips/alankar-api/internal/presentation/http/handler"
	"github.com/sangkips/alankar-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Customer  *handler.CustomerHandler
	Bill      *handler.BillHandler
	Dashboard *handler.DashboardHandler
	Settings  *handler.SettingsHandler
	Printer   *handler.PrinterHandler
	Invoice   *handler.InvoiceHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	RateLimiter     *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// Print-only invoice page, opened in its own window
	router.GET("/print/bills/:id", h.Invoice.Print)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		v1.GET("/dashboard", h.Dashboard.GetStats)

		v1.GET("/settings", h.Settings.GetSettings)
		v1.PUT("/settings", h.Settings.UpdateSettings)

		registerCustomerRoutes(v1, h)
		registerBillRoutes(v1, h, deps)
		registerPrinterRoutes(v1, h)
	}

	return router
}

func registerCustomerRoutes(v1 *gin.RouterGroup, h *Handlers) {
	customers := v1.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PATCH("/:id", h.Customer.Update)
		customers.GET("/:id/delete-warning", h.Customer.DeleteWarning)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerBillRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	bills := v1.Group("/bills")
	{
		bills.POST("/getBills", h.Bill.Search)
		bills.POST("/totals", h.Bill.PreviewTotals)
		bills.GET("/summary", h.Dashboard.GetSummary)
		bills.GET("/export", h.Bill.Export)
		// Bill creation replays a repeated Idempotency-Key instead of saving twice
		bills.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Bill.Create)
		bills.GET("/:id", h.Bill.Get)
		bills.PATCH("/:id", h.Bill.Update)
		bills.DELETE("/:id", h.Bill.Delete)
	}
}

func registerPrinterRoutes(v1 *gin.RouterGroup, h *Handlers) {
	printerGroup := v1.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/bills/:id", h.Printer.PrintBill)
	}
}
