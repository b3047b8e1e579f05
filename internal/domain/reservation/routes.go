package reservation

import (
	"github.com/gin-gonic/gin"

	"roombooking/internal/middleware"
)

// RegisterRoutes mounts the reservation API on an authenticated group.
// With adminOnly set, listing everything and deciding status need the admin role.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, adminOnly bool) {
	admin := func(c *gin.Context) { c.Next() }
	if adminOnly {
		admin = middleware.AdminOnly()
	}

	reservations := r.Group("/reservations")
	{
		reservations.POST("", h.Create)
		reservations.GET("/my", h.ListMine) // before /:id
		reservations.GET("", admin, h.ListAll)
		reservations.GET("/:id", h.GetByID)
		reservations.PATCH("/:id/status", admin, h.UpdateStatus)
		reservations.DELETE("/:id", h.Cancel)
	}
}
