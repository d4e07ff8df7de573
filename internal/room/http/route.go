package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all room-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *RoomHandler) {
	rooms := g.Group("/rooms")
	{
		rooms.GET("", h.List)
		rooms.POST("", h.Create)
		rooms.GET("/:id", h.Get)
		rooms.PUT("/:id", h.Update)
		rooms.DELETE("/:id", h.Delete)
	}
}
