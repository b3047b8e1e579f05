package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roombooking/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetRooms lists every bookable room.
// @Summary List rooms
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/rooms [get]
func (h *Handler) GetRooms(c *gin.Context) {
	rooms, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Server error", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

// @Summary Get room
// @Tags Catalog
// @Router /api/rooms/{id} [get]
func (h *Handler) GetRoomByID(c *gin.Context) {
	room, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.Message(c, http.StatusNotFound, "Room not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Server error", err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"room": room})
}
