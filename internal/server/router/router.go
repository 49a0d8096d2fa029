package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adeka83-arch/systemklinik-sub003/internal/server/handlers"
	"github.com/adeka83-arch/systemklinik-sub003/internal/server/middleware"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.ReportHandler, allowedOrigins []string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Print-Pages"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(middleware.SessionAuth(middleware.SessionConfig{Logger: logger}))

	api.GET("/reports/:type", handler.GetReport)
	api.GET("/reports/:type/export.csv", handler.ExportCSV)
	api.GET("/reports/:type/download", handler.Download)
	api.POST("/reports/:type/sheets", handler.ExportSheet)

	api.POST("/previews", handler.CreatePreview)
	api.GET("/previews/:id", handler.GetPreview)
	api.POST("/previews/:id/keys", handler.PreviewKey)
	api.POST("/previews/:id/confirm", handler.ConfirmPreview)
	api.DELETE("/previews/:id", handler.DeletePreview)

	api.POST("/invoices/sales", handler.SalesInvoice)
	api.POST("/invoices/field-trip", handler.FieldTripInvoice)
	api.POST("/receipts/field-trip", handler.FieldTripReceipt)

	api.GET("/filters/default", handler.DefaultFilters)
	api.GET("/filters/:type", handler.GetFilters)
	api.POST("/filters/:type", handler.DispatchFilter)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}
