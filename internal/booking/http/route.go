package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking routes, including the per-user and
// per-room listings nested under /users and /rooms.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/bookings")
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
		group.POST("/:id/cancel", h.Cancel)
	}

	g.GET("/users/:id/bookings", h.ListByUser)
	g.GET("/rooms/:id/bookings", h.ListByRoom)
}
