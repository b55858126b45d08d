package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/feeds")
	{
		group.GET("", h.List)
		group.PUT("/:room", h.Upsert)
		group.POST("/:room/sync", h.SyncRoom)
		group.POST("/sync", h.SyncAll)
	}
}
