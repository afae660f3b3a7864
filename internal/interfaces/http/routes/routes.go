// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/dj044/jasleen-wishlist/internal/clock"
	"github.com/dj044/jasleen-wishlist/internal/config"
	"github.com/dj044/jasleen-wishlist/internal/domain/wishlist"
	"github.com/dj044/jasleen-wishlist/internal/infrastructure/store"
	"github.com/dj044/jasleen-wishlist/internal/interfaces/http/handlers"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SetupRoutes wires all wishlist routes onto the API group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	itemStore := store.NewItemStore(db, redisClient, logger)
	service := wishlist.NewService(itemStore, clock.NewSystem(), cfg)
	wishlistHandler := handlers.NewWishlistHandler(service, cfg)

	lists := rg.Group("/lists")
	{
		lists.POST("", wishlistHandler.OpenList)

		items := lists.Group("/:code")
		{
			items.GET("/items", wishlistHandler.GetItems)
			items.POST("/items", wishlistHandler.AddItem)
			items.PATCH("/items/:id", wishlistHandler.EditItem)
			items.PUT("/items/:id/status", wishlistHandler.SetStatus)
			items.POST("/items/:id/reserve", wishlistHandler.ToggleReserve)
			items.POST("/items/:id/purchase", wishlistHandler.TogglePurchased)
			items.DELETE("/items/:id", wishlistHandler.DeleteItem)
			items.GET("/stream", wishlistHandler.StreamItems)
		}
	}
}
