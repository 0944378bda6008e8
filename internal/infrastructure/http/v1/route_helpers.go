package v1

import (
	"github.com/gin-gonic/gin"
)

// CatalogRouteHandler is the route surface shared by all catalog entities.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
	SetActive(c *gin.Context)
}

// RegisterCatalogRoutes wires the standard CRUD route set for one catalog
// entity under the given group.
func RegisterCatalogRoutes(group *gin.RouterGroup, path string, h CatalogRouteHandler) {
	entity := group.Group(path)
	{
		entity.GET("", h.List)
		entity.POST("", h.Create)
		entity.GET("/:id", h.Get)
		entity.PUT("/:id", h.Update)
		entity.DELETE("/:id", h.Delete)
		entity.POST("/:id/deletion-mark", h.SetDeletionMark)
		entity.POST("/:id/active", h.SetActive)
	}
}
