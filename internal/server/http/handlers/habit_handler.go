package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/habittracker/internal/domain/model"
	"github.com/polkiloo/habittracker/internal/server/http/dto"
)

// HabitHandler manages habit endpoints for the authenticated owner.
type HabitHandler struct {
	facade HabitFacade
}

// NewHabitHandler constructs HabitHandler.
func NewHabitHandler(facade HabitFacade) *HabitHandler {
	return &HabitHandler{facade: facade}
}

// List handles GET /api/habits.
func (h *HabitHandler) List(c *gin.Context) {
	habits, err := h.facade.Habits(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.HabitResponse, 0, len(habits))
	for _, habit := range habits {
		response = append(response, toHabitResponse(habit))
	}
	c.JSON(http.StatusOK, response)
}

// Create handles POST /api/habits.
func (h *HabitHandler) Create(c *gin.Context) {
	var req dto.HabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, MsgMalformedBody)
		return
	}

	habit, err := h.facade.CreateHabit(c.Request.Context(), CurrentUserID(c), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toHabitResponse(*habit))
}

// Update handles PUT /api/habits/:id.
func (h *HabitHandler) Update(c *gin.Context) {
	habitID, ok := habitIDParam(c)
	if !ok {
		writeMessage(c, http.StatusNotFound, MsgHabitNotFound)
		return
	}

	var req dto.HabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeMessage(c, http.StatusBadRequest, MsgMalformedBody)
		return
	}

	habit, err := h.facade.RenameHabit(c.Request.Context(), CurrentUserID(c), habitID, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toHabitResponse(*habit))
}

// Delete handles DELETE /api/habits/:id.
func (h *HabitHandler) Delete(c *gin.Context) {
	habitID, ok := habitIDParam(c)
	if !ok {
		writeMessage(c, http.StatusNotFound, MsgHabitNotFound)
		return
	}

	if err := h.facade.DeleteHabit(c.Request.Context(), CurrentUserID(c), habitID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// habitIDParam accepts only unsigned decimal ids, like an int path converter.
func habitIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	if raw == "" || raw[0] < '0' || raw[0] > '9' {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func toHabitResponse(habit model.Habit) dto.HabitResponse {
	return dto.HabitResponse{ID: habit.ID, Name: habit.Name}
}
