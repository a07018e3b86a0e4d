// Package v1 wires the HTTP surface: middleware chain, route table,
// and handler construction.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"partstock/internal/domain/settlement"
	"partstock/internal/domain/store"
	"partstock/internal/infrastructure/cache"
	"partstock/internal/infrastructure/http/v1/handlers"
	"partstock/internal/infrastructure/http/v1/middleware"
	"partstock/pkg/logger"
)

// RouterConfig carries the collaborators the route table needs.
type RouterConfig struct {
	Registry      *store.Registry
	Settlement    *settlement.Service
	Cache         cache.SnapshotCache
	SnapshotTTL   time.Duration
	DefaultBranch string
	Version       string
	Ready         func(c *gin.Context) error
	Log           *logger.Logger
	Development   bool
}

// NewRouter builds the gin engine with the full middleware chain and
// v1 route table.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Trace())
	r.Use(middleware.Logger(cfg.Log))
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler(cfg.Registry, cfg.DefaultBranch, cfg.Log)
	items := handlers.NewItemsHandler(base, cfg.Cache, cfg.SnapshotTTL)
	refs := handlers.NewReferencesHandler(base)
	settle := handlers.NewSettlementHandler(base, cfg.Settlement)
	health := handlers.NewHealthHandler(cfg.Version, cfg.Ready)

	r.GET("/health/live", health.Live)
	r.GET("/health/ready", health.Ready)

	api := r.Group("/api/v1")
	{
		api.GET("/items", items.List)
		api.POST("/items", items.Create)
		api.GET("/items/:id", items.Get)
		api.PUT("/items/:id", items.Update)
		api.DELETE("/items/:id", items.Delete)
		api.POST("/items/:id/batches", items.AddBatch)
		api.PUT("/items/:id/batches/:batchId", items.UpdateBatch)
		api.DELETE("/items/:id/batches/:batchId", items.DeleteBatch)
		api.PUT("/items/:id/bottles", items.SetBottles)
		api.POST("/items/:id/volumes", items.AddVolume)
		api.PUT("/items/:id/volumes/:volumeId", items.UpdateVolume)
		api.DELETE("/items/:id/volumes/:volumeId", items.DeleteVolume)
		api.POST("/catalog/reload", items.Reload)

		api.GET("/categories", refs.ListCategories)
		api.POST("/categories", refs.CreateCategory)
		api.PUT("/categories/:id", refs.UpdateCategory)
		api.DELETE("/categories/:id", refs.DeleteCategory)

		api.GET("/brands", refs.ListBrands)
		api.POST("/brands", refs.CreateBrand)
		api.PUT("/brands/:id", refs.UpdateBrand)
		api.DELETE("/brands/:id", refs.DeleteBrand)

		api.GET("/suppliers", refs.ListSuppliers)
		api.POST("/suppliers", refs.CreateSupplier)
		api.PUT("/suppliers/:id", refs.UpdateSupplier)
		api.DELETE("/suppliers/:id", refs.DeleteSupplier)

		api.POST("/settlements", settle.Settle)
	}

	return r
}
