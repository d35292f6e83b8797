package api

import (
	"errors"
	"net/http"

	reqdto "device-reservation/internal/handler/dto/request"
	resdto "device-reservation/internal/handler/dto/response"
	"device-reservation/internal/handler/httperr"
	"device-reservation/internal/infra"
	"device-reservation/internal/usecase/commands"
	"device-reservation/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReservationHandler struct {
	commands commands.ReservationCommands
	queries  queries.ReservationQueries
}

func NewReservationHandler(cmds commands.ReservationCommands, qs queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		commands: cmds,
		queries:  qs,
	}
}

func (h *ReservationHandler) Create(c *gin.Context) {
	var req reqdto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"message": "Invalid request format"},
		})
		return
	}

	res, err := h.commands.RequestReservation(c.Request.Context(), req.UserID, req.DeviceID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrDuplicateActiveReservation):
			c.JSON(http.StatusConflict, gin.H{
				"error": gin.H{"message": "User already has an active reservation for this device"},
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromEntity(res))
}

func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"message": "Invalid reservation ID format"},
		})
		return
	}

	var req reqdto.CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"message": "Invalid request format"},
		})
		return
	}

	res, err := h.commands.CancelReservation(c.Request.Context(), id, req.UserID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"message": "Reservation not found"},
			})
		case errors.Is(err, commands.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "Reservation belongs to another user"},
			})
		case errors.Is(err, commands.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": gin.H{"message": "Reservation can no longer be cancelled"},
			})
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromEntity(res))
}

func (h *ReservationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"message": "Invalid reservation ID format"},
		})
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{"message": "Reservation not found"},
			})
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromView(view))
}

// List returns a user's reservations when the userId query parameter is
// given, otherwise the staff view of all reservations.
func (h *ReservationHandler) List(c *gin.Context) {
	var (
		views []*queries.ReservationView
		err   error
	)
	if userID := c.Query("userId"); userID != "" {
		views, err = h.queries.ListByUser(c.Request.Context(), userID)
	} else {
		views, err = h.queries.ListAll(c.Request.Context())
	}
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromViews(views))
}
