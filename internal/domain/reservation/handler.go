package reservation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roombooking/internal/middleware"
	"roombooking/internal/pkg/response"
	"roombooking/internal/pkg/timerange"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create books a room for the caller.
// @Summary Create reservation
// @Tags Reservations
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400,404,409,500 {object} map[string]interface{}
// @Router /api/reservations [post]
func (h *Handler) Create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Message(c, http.StatusBadRequest, "Please provide all fields")
		return
	}

	v, err := h.service.Create(c.Request.Context(), c.GetString(middleware.CtxUserID), in)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Reservation created successfully",
		"reservation": v,
	})
}

// @Summary List own reservations
// @Tags Reservations
// @Router /api/reservations/my [get]
func (h *Handler) ListMine(c *gin.Context) {
	vs, err := h.service.ListMine(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservations": vs})
}

// @Summary List all reservations
// @Tags Reservations
// @Router /api/reservations [get]
func (h *Handler) ListAll(c *gin.Context) {
	vs, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservations": vs})
}

// @Summary Get reservation
// @Tags Reservations
// @Router /api/reservations/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	v, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": v})
}

// @Summary Approve or reject a reservation
// @Tags Reservations
// @Router /api/reservations/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	var in UpdateStatusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Message(c, http.StatusBadRequest, "Invalid status value")
		return
	}

	v, err := h.service.UpdateStatus(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id"), in.Status)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":     "Reservation status updated successfully",
		"reservation": v,
	})
}

// @Summary Cancel own reservation
// @Tags Reservations
// @Router /api/reservations/{id} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Request.Context(), c.GetString(middleware.CtxUserID), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Reservation cancelled successfully")
}

func (h *Handler) fail(c *gin.Context, err error) {
	var unavailable *UnavailableError
	switch {
	case errors.As(err, &unavailable):
		response.ErrorWithDetails(c, http.StatusConflict,
			"This room is not available at this time", "conflict", unavailable.Conflict.Detail())
	case errors.Is(err, ErrMissingField):
		response.Message(c, http.StatusBadRequest, "Please provide all fields")
	case errors.Is(err, ErrInvalidDate):
		response.Message(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	case errors.Is(err, timerange.ErrInvalidTimeFormat):
		response.Message(c, http.StatusBadRequest, "Invalid time format, expected HH:MM")
	case errors.Is(err, ErrInvalidRange):
		response.Message(c, http.StatusBadRequest, "End time must be after start time")
	case errors.Is(err, ErrInvalidStatus):
		response.Message(c, http.StatusBadRequest, "Invalid status value")
	case errors.Is(err, ErrRoomNotFound):
		response.Message(c, http.StatusNotFound, "Room not found")
	case errors.Is(err, ErrNotFound):
		response.Message(c, http.StatusNotFound, "Reservation not found")
	case errors.Is(err, ErrForbidden):
		response.Message(c, http.StatusForbidden, "Not authorized to cancel this reservation")
	default:
		response.Error(c, http.StatusInternalServerError, "Server error", err)
	}
}
