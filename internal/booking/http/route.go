package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/bookings")
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/export", h.Export)
		group.GET("/conflicts", h.CheckConflicts)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}

	g.GET("/rooms", h.ListRooms)
	g.GET("/occupancy", h.Occupancy)
}
