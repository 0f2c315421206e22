package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers item routes. searchCache wraps the public search endpoint.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, searchCache gin.HandlerFunc) {
	group := g.Group("/items")
	group.Use(authMiddleware)
	{
		group.GET("", h.ListMine)
		group.POST("", h.Create)
		group.GET("/search", searchCache, h.Search)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update)
		group.POST("/:id/comments", h.AddComment)
		group.POST("/:id/photos", h.UploadPhoto)
		group.GET("/:id/photos/:photoId", h.ServePhoto)
		group.GET("/:id/photos/:photoId/thumbnail", h.ServeThumbnail)
	}
}
