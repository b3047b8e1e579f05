package catalog

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes
	rooms := r.Group("/rooms")
	{
		rooms.GET("", h.GetRooms)        // GET /api/rooms
		rooms.GET("/:id", h.GetRoomByID) // GET /api/rooms/:id
	}
}
